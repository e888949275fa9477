package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loadReload  bool
	previewRows int
)

// loadCmd reads data files into the active session
var loadCmd = &cobra.Command{
	Use:   "load <file>...",
	Short: "Load CSV or Excel files into the session",
	Long: `Reads the given files into the active session. Files already loaded
are skipped unless --reload is set. Column types are inferred from the
data unless disabled in .tabwork/config.yaml.

Example:
  tabwork load sales.csv regions.xlsx`,
	Args: cobra.MinimumNArgs(1),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		results, err := env.sess.Load(ctx, args, loadReload)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("Nothing to load; all files already in the session (use --reload to refresh).")
			return nil
		}
		failed := 0
		for _, res := range results {
			if res.Err != nil {
				failed++
				fmt.Printf("  ✗ %s: %v\n", res.Path, res.Err)
				continue
			}
			fmt.Printf("  ✓ %s (%d rows, %d cols)\n", res.Path, res.Frame.NumRows(), res.Frame.NumCols())
		}
		if failed > 0 {
			// Keep what did load; only the failed files are reported
			env.saveOnErr = failed < len(results)
			return fmt.Errorf("%d of %d files failed to load", failed, len(results))
		}
		return nil
	}),
}

// listCmd shows the datasets in the session
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets in the session",
	Args:  cobra.NoArgs,
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		names := env.sess.Names()
		if len(names) == 0 {
			fmt.Println("No datasets loaded. Use: tabwork load <file>")
			return nil
		}
		for _, name := range names {
			d, err := env.sess.Dataset(name)
			if err != nil {
				return err
			}
			badge := ""
			if d.Stale {
				badge = "  [stale]"
			}
			fmt.Printf("  %s  %d rows x %d cols%s\n", name, d.Frame.NumRows(), d.Frame.NumCols(), badge)
		}
		return nil
	}),
}

// statusCmd shows workspace and session status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace and session status",
	Args:  cobra.NoArgs,
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		fmt.Printf("Workspace: %s\n", env.ws)
		fmt.Printf("Session:   %s", env.sess.Name())
		if id := env.sess.ID(); id != "" {
			fmt.Printf(" (%s)", id)
		}
		fmt.Println()
		fmt.Printf("Store:     %s\n", env.st.Path())
		fmt.Printf("Datasets:  %d\n", len(env.sess.Names()))
		if stale := env.sess.CheckStale(); len(stale) > 0 {
			fmt.Printf("Stale:     %s\n", strings.Join(stale, ", "))
		}
		return nil
	}),
}

// previewCmd prints the head of a dataset
var previewCmd = &cobra.Command{
	Use:   "preview <dataset>",
	Short: "Show the first rows of a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		d, err := env.sess.Dataset(args[0])
		if err != nil {
			return err
		}
		title := d.Name
		if d.Stale {
			title += " (stale: source file changed since load)"
		}
		fmt.Print(frameTable(title, d.Frame, previewRows))
		if len(d.DroppedColumns) > 0 || len(d.DroppedRows) > 0 {
			fmt.Printf("stashed: %d columns, %d rows\n", len(d.DroppedColumns), len(d.DroppedRows))
		}
		return nil
	}),
}

func init() {
	loadCmd.Flags().BoolVar(&loadReload, "reload", false, "Re-read files that are already loaded")
	previewCmd.Flags().IntVarP(&previewRows, "rows", "n", 10, "Number of rows to show")
}
