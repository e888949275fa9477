package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"tabwork/internal/stats"
)

var (
	statsCorr  bool
	statsPlain bool
)

// statsCmd prints descriptive statistics for a dataset
var statsCmd = &cobra.Command{
	Use:   "stats <dataset>",
	Short: "Describe a dataset, or show its correlation matrix",
	Long: `Prints the describe table: count, mean, std, min, percentiles, and
max for numeric columns; count, unique, top, and freq for the rest.
Percentiles come from .tabwork/config.yaml (quartiles by default).

With --corr, prints the Pearson correlation matrix of the numeric
columns instead.`,
	Args: cobra.ExactArgs(1),
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		d, err := env.sess.Dataset(args[0])
		if err != nil {
			return err
		}

		if statsCorr {
			m, err := stats.Correlation(d.Frame)
			if err != nil {
				return err
			}
			return renderMarkdown(corrMarkdown(args[0], m))
		}

		desc, err := stats.Describe(d.Frame, env.cfg.Stats.Percentiles)
		if err != nil {
			return err
		}
		return renderMarkdown(desc.Markdown(args[0]))
	}),
}

// renderMarkdown pretty-prints markdown to the terminal, falling back to the
// raw text when the renderer cannot be built or --plain is set.
func renderMarkdown(md string) error {
	if statsPlain {
		fmt.Print(md)
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Print(md)
		return nil
	}
	fmt.Print(out)
	return nil
}

// corrMarkdown renders a correlation matrix as a pipe table.
func corrMarkdown(title string, m *stats.CorrMatrix) string {
	md := "## " + title + " correlation\n\n| |"
	for _, c := range m.Columns {
		md += " " + c + " |"
	}
	md += "\n|---|"
	for range m.Columns {
		md += "---|"
	}
	md += "\n"
	for i, c := range m.Columns {
		md += "| " + c + " |"
		for j := range m.Columns {
			md += fmt.Sprintf(" %.4f |", m.Values[i][j])
		}
		md += "\n"
	}
	return md
}

func init() {
	statsCmd.Flags().BoolVar(&statsCorr, "corr", false, "Show the correlation matrix instead")
	statsCmd.Flags().BoolVar(&statsPlain, "plain", false, "Print raw markdown without terminal styling")
}
