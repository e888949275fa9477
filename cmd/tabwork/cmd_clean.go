package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tabwork/internal/frame"
)

// =============================================================================
// CLEANING COMMANDS
// =============================================================================

// cleanCmd groups the cleaning operations
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean a dataset",
	Long: `Cleaning operations on a dataset.

Subcommands:
  dedupe  - Drop exact duplicate rows
  dropna  - Drop rows containing nulls
  fillna  - Fill nulls with a value
  convert - Change a column's type`,
}

var cleanDedupeCmd = &cobra.Command{
	Use:   "dedupe <dataset>",
	Short: "Drop exact duplicate rows",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		var before, after int
		err := env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			before = f.NumRows()
			g := f.DropDuplicates()
			after = g.NumRows()
			return g, nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d duplicate rows (%d remain).\n", before-after, after)
		return nil
	}),
}

var cleanDropNACmd = &cobra.Command{
	Use:   "dropna <dataset>",
	Short: "Drop rows containing null cells",
	Args:  cobra.ExactArgs(1),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		var before, after int
		err := env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			before = f.NumRows()
			g := f.DropNulls()
			after = g.NumRows()
			return g, nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Dropped %d rows with nulls (%d remain).\n", before-after, after)
		return nil
	}),
}

var cleanFillNACmd = &cobra.Command{
	Use:   "fillna <dataset> <value>",
	Short: "Fill null cells with a value",
	Long: `Fills null cells with the given value, coerced per column: numeric
columns only take the value if it parses as a number, and so on. Columns
where the value does not fit are left untouched.`,
	Args: cobra.ExactArgs(2),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		return env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return f.FillNulls(args[1]), nil
		})
	}),
}

var cleanConvertCmd = &cobra.Command{
	Use:   "convert <dataset> <column> <type>",
	Short: "Convert a column to int, float, string, bool, or time",
	Long: `Converts every cell of the column to the target type. The conversion
is all or nothing: one cell that cannot convert fails the whole column
and leaves the dataset unchanged.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(func(ctx context.Context, env *cmdEnv, args []string) error {
		kind, err := frame.ParseKind(args[2])
		if err != nil {
			return err
		}
		err = env.sess.Update(args[0], func(f *frame.Frame) (*frame.Frame, error) {
			return f.Convert(args[1], kind)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Converted %s to %s.\n", args[1], kind)
		return nil
	}),
}

func init() {
	cleanCmd.AddCommand(cleanDedupeCmd, cleanDropNACmd, cleanFillNACmd, cleanConvertCmd)
}
