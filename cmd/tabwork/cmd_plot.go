package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tabwork/internal/plot"
)

var (
	plotOut  string
	plotBins int
	plotBy   string
)

// plotCmd renders a chart of a dataset to an HTML file
var plotCmd = &cobra.Command{
	Use:   "plot <dataset> <kind> [column]...",
	Short: "Render a chart to a self-contained HTML file",
	Long: `Renders an echarts chart. Kinds and their column arguments:

  scatter <x> <y>   - two numeric columns
  line    <x> <y>   - numeric y over x labels
  bar     <x> <y>   - numeric y as bars labeled by x
  hist    <col>     - equal-width histogram of one numeric column
  box     [col]...  - five-number summaries (all numeric columns if none
                      given; --by groups one column by a key column)
  heatmap           - correlation matrix of the numeric columns

Example:
  tabwork plot sales.csv scatter price qty -o price_qty.html`,
	Args: cobra.MinimumNArgs(2),
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		d, err := env.sess.Dataset(args[0])
		if err != nil {
			return err
		}
		kind := strings.ToLower(args[1])
		cols := args[2:]

		need := func(n int) error {
			if len(cols) != n {
				return fmt.Errorf("%s needs %d column argument(s), got %d", kind, n, len(cols))
			}
			return nil
		}

		// Resolve the kind and check arity before touching the output file,
		// so an argument mistake does not leave an empty file behind
		p := plot.NewRenderer(env.cfg.Plot)
		var render func(w io.Writer) error
		switch kind {
		case "scatter":
			if err := need(2); err != nil {
				return err
			}
			render = func(w io.Writer) error { return p.Scatter(w, d.Frame, cols[0], cols[1]) }
		case "line":
			if err := need(2); err != nil {
				return err
			}
			render = func(w io.Writer) error { return p.Line(w, d.Frame, cols[0], cols[1]) }
		case "bar":
			if err := need(2); err != nil {
				return err
			}
			render = func(w io.Writer) error { return p.Bar(w, d.Frame, cols[0], cols[1]) }
		case "hist":
			if err := need(1); err != nil {
				return err
			}
			render = func(w io.Writer) error { return p.Hist(w, d.Frame, cols[0], plotBins) }
		case "box":
			if plotBy != "" {
				if err := need(1); err != nil {
					return err
				}
				render = func(w io.Writer) error { return p.GroupedBox(w, d.Frame, cols[0], plotBy) }
				break
			}
			render = func(w io.Writer) error { return p.BoxPlot(w, d.Frame, cols) }
		case "heatmap":
			if err := need(0); err != nil {
				return err
			}
			render = func(w io.Writer) error { return p.Heatmap(w, d.Frame) }
		default:
			return fmt.Errorf("unknown plot kind %q", kind)
		}

		out, err := os.Create(plotOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", plotOut, err)
		}
		defer out.Close()
		if err := render(out); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", plotOut)
		return nil
	}),
}

func init() {
	plotCmd.Flags().StringVarP(&plotOut, "out", "o", "plot.html", "Output HTML file")
	plotCmd.Flags().IntVar(&plotBins, "bins", 0, "Histogram bin count (default from config)")
	plotCmd.Flags().StringVar(&plotBy, "by", "", "Group box plot values by this column")
}
