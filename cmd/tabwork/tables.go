package main

import (
	"fmt"

	"tabwork/cmd/tabwork/ui"
	"tabwork/internal/frame"
)

// frameTable renders the first n rows of a frame as a terminal table, with
// the row label as the leading column.
func frameTable(title string, f *frame.Frame, n int) string {
	head := f.Head(n)

	indexName := f.IndexColumn()
	if indexName == "" {
		indexName = "#"
	}
	headers := append([]string{indexName}, head.ColumnNames()...)
	table := ui.NewSimpleTable(title, headers)
	for r := 0; r < head.NumRows(); r++ {
		row := []string{head.Label(r)}
		for c := 0; c < head.NumCols(); c++ {
			row = append(row, frame.FormatCell(head.Cell(r, c)))
		}
		table.AddRow(row...)
	}

	out := table.View(ui.DefaultStyles())
	if f.NumRows() > n {
		out += fmt.Sprintf("... %d of %d rows\n", n, f.NumRows())
	}
	return out
}
