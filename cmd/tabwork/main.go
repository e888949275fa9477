package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tabwork/internal/logging"
)

var (
	// Global flags
	verbose     bool
	workspace   string
	sessionName string
	timeout     time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tabwork",
	Short: "tabwork - a tabular data workbench",
	Long: `tabwork loads CSV and Excel files into named sessions and lets you
clean, reshape, combine, summarize, chart, and export them.

Frames are immutable; every operation produces a new one, and dropped
columns and rows are stashed so they can be restored later. Sessions
persist to an embedded SQLite database under .tabwork/.

Run without arguments to start the interactive explorer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The explorer draws its own UI; keep its stderr clean
		if cmd.Use == "tabwork" && cmd.CalledAs() == "tabwork" {
			return nil
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplorer()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", "default", "Session to operate on")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(colsCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(formulaCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
