package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tabwork/internal/formula"
	"tabwork/internal/frame"
)

// =============================================================================
// RESHAPING COMMANDS
// =============================================================================

var sortDesc bool

// sortCmd sorts a dataset by a column
var sortCmd = &cobra.Command{
	Use:   "sort <dataset> <column>",
	Short: "Sort a dataset by a column",
	Long:  `Stable sort by one column. Null cells sort last in either direction.`,
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return f.SortBy(args[1], !sortDesc)
		})
	}),
}

// filterCmd keeps rows whose column contains a substring
var filterCmd = &cobra.Command{
	Use:   "filter <dataset> <column> <text>",
	Short: "Keep rows whose column contains the text",
	Long: `Keeps rows where the stringified cell contains the given text.
Unlike row drops this is not stashed; reload the file to get the full
dataset back.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		var kept int
		err := env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			g, err := f.FilterContains(args[1], args[2])
			if err != nil {
				return nil, err
			}
			kept = g.NumRows()
			return g, nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Kept %d rows matching %q.\n", kept, args[2])
		return nil
	}),
}

var groupAs string

// groupCmd aggregates a dataset by a key column
var groupCmd = &cobra.Command{
	Use:   "group <dataset> <column> <agg>",
	Short: "Group by a column and aggregate (sum, mean, count, min, max)",
	Long: `Groups rows by the key column and aggregates every other column.
Sum and mean apply to numeric columns only; count counts non-null
cells; min and max work on any comparable column. Group keys come out
sorted.

The result prints by default; --as saves it as a new dataset.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		fn, err := frame.ParseAggFunc(args[2])
		if err != nil {
			return err
		}
		d, err := env.sess.Dataset(args[0])
		if err != nil {
			return err
		}
		g, err := d.Frame.GroupBy(args[1], fn)
		if err != nil {
			return err
		}
		if groupAs == "" {
			fmt.Print(frameTable(fmt.Sprintf("%s by %s (%s)", args[0], args[1], args[2]), g, g.NumRows()))
			return nil
		}
		return env.sess.Add(groupAs, g)
	}),
}

// indexCmd manages the row index
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the row index of a dataset",
	Long: `Row labels are positional by default. 'index set' re-labels rows
with a column's values so row drops and restores can address rows by
meaningful keys; 'index reset' goes back to positions.`,
}

var indexSetCmd = &cobra.Command{
	Use:   "set <dataset> <column>",
	Short: "Use a column's values as row labels",
	Args:  cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return f.SetIndex(args[1])
		})
	}),
}

var indexResetCmd = &cobra.Command{
	Use:   "reset <dataset>",
	Short: "Restore positional row labels",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return f.ResetIndex(), nil
		})
	}),
}

// combineCmd builds new datasets out of existing ones
var combineCmd = &cobra.Command{
	Use:   "combine",
	Short: "Combine datasets into a new one",
	Long: `Combining operations.

Subcommands:
  concat - Stack datasets; the columns are the union, missing cells null
  merge  - Inner-join two datasets on a key column`,
}

var combineConcatCmd = &cobra.Command{
	Use:   "concat <new-name> <dataset>...",
	Short: "Stack datasets into a new one",
	Args:  cobra.MinimumNArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Concat(args[0], args[1:])
	}),
}

var combineMergeCmd = &cobra.Command{
	Use:   "merge <new-name> <left> <right> <on-column>",
	Short: "Inner-join two datasets on a key column",
	Long: `Inner join: only keys present in both datasets survive. Overlapping
non-key column names get _x (left) and _y (right) suffixes.`,
	Args: cobra.ExactArgs(4),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Merge(args[0], args[1], args[2], args[3])
	}),
}

// formulaCmd derives a new column from an arithmetic expression
var formulaCmd = &cobra.Command{
	Use:   "formula <dataset> <expression>",
	Short: "Add a column computed from other columns",
	Long: `Evaluates an arithmetic expression row by row and appends the result
as a new float column. Column names with spaces go in backquotes.
Rows with a null operand, and divisions by zero, produce null.

Example:
  tabwork formula sales.csv 'total = price * qty'
  tabwork formula sales.csv 'margin = (price - cost) / price'`,
	Args: cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		expr, err := formula.Parse(args[1])
		if err != nil {
			return err
		}
		err = env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return expr.Apply(f)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added column %s.\n", expr.Target)
		return nil
	}),
}

func init() {
	sortCmd.Flags().BoolVar(&sortDesc, "desc", false, "Sort descending")
	groupCmd.Flags().StringVar(&groupAs, "as", "", "Save the result as a new dataset instead of printing")
	indexCmd.AddCommand(indexSetCmd, indexResetCmd)
	combineCmd.AddCommand(combineConcatCmd, combineMergeCmd)
}
