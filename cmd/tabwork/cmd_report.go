package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tabwork/internal/report"
)

var (
	reportOut   string
	reportStats bool
)

// reportCmd exports a dataset as an Excel workbook
var reportCmd = &cobra.Command{
	Use:   "report <dataset>",
	Short: "Export a dataset as an Excel workbook",
	Long: `Writes the dataset's current state (after cleaning, drops, filters,
and derived columns) to an xlsx workbook. With --stats a second sheet
carries the describe table.`,
	Args: cobra.ExactArgs(1),
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		d, err := env.sess.Dataset(args[0])
		if err != nil {
			return err
		}

		cfg := env.cfg.Report
		if reportStats {
			cfg.IncludeStats = true
		}

		out, err := os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", reportOut, err)
		}
		defer out.Close()

		w := report.NewWriter(cfg)
		if err := w.Write(out, d.Frame, env.cfg.Stats.Percentiles); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%d rows)\n", reportOut, d.Frame.NumRows())
		return nil
	}),
}

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "report.xlsx", "Output xlsx file")
	reportCmd.Flags().BoolVar(&reportStats, "stats", false, "Include a statistics sheet")
}
