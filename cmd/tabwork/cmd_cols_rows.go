package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tabwork/internal/frame"
)

// =============================================================================
// COLUMN AND ROW COMMANDS
// =============================================================================

// colsCmd manages dataset columns
var colsCmd = &cobra.Command{
	Use:   "cols",
	Short: "Manage dataset columns",
	Long: `Column operations on a dataset.

Dropped columns are stashed, not deleted: restore brings them back at
their original position with their original values.

Subcommands:
  list    - List columns with their types
  drop    - Hide columns (stashed for restore)
  restore - Bring stashed columns back
  rename  - Rename a column`,
}

var colsListCmd = &cobra.Command{
	Use:   "list <dataset>",
	Short: "List columns with their types",
	Args:  cobra.ExactArgs(1),
	RunE: withSessionRead(func(ctx context.Context, env *cmdEnv, args []string) error {
		d, err := env.sess.Dataset(args[0])
		if err != nil {
			return err
		}
		for _, c := range d.Frame.Columns() {
			marker := ""
			if c.Name == d.Frame.IndexColumn() {
				marker = "  (index)"
			}
			fmt.Printf("  %s  %s%s\n", c.Name, c.Kind, marker)
		}
		for _, dc := range d.DroppedColumns {
			fmt.Printf("  %s  %s  (stashed)\n", dc.Col.Name, dc.Col.Kind)
		}
		return nil
	}),
}

var colsDropCmd = &cobra.Command{
	Use:   "drop <dataset> <column>...",
	Short: "Hide columns, stashing them for restore",
	Args:  cobra.MinimumNArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.DropColumns(args[0], args[1:])
	}),
}

var colsRestoreCmd = &cobra.Command{
	Use:   "restore <dataset> <column>...",
	Short: "Bring stashed columns back",
	Args:  cobra.MinimumNArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.RestoreColumns(args[0], args[1:])
	}),
}

var colsRenameCmd = &cobra.Command{
	Use:   "rename <dataset> <old> <new>",
	Short: "Rename a column",
	Args:  cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return f.RenameColumn(args[1], args[2])
		})
	}),
}

// rowsCmd manages dataset rows
var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "Manage dataset rows",
	Long: `Row operations on a dataset. Rows are addressed by label: the
positional index by default, or the index column's values after
'tabwork index set'.

Subcommands:
  drop    - Hide rows by label (stashed for restore)
  restore - Bring stashed rows back`,
}

var rowsDropCmd = &cobra.Command{
	Use:   "drop <dataset> <label>...",
	Short: "Hide rows by label, stashing them for restore",
	Args:  cobra.MinimumNArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.DropRows(args[0], args[1:])
	}),
}

var rowsRestoreCmd = &cobra.Command{
	Use:   "restore <dataset> <label>...",
	Short: "Bring stashed rows back",
	Args:  cobra.MinimumNArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.RestoreRows(args[0], args[1:])
	}),
}

func init() {
	colsCmd.AddCommand(colsListCmd, colsDropCmd, colsRestoreCmd, colsRenameCmd)
	rowsCmd.AddCommand(rowsDropCmd, rowsRestoreCmd)
}
