// Package report exports the current state of a dataset as an Excel workbook
// so cleaned data can leave the workbench in a form spreadsheets open
// directly.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"tabwork/internal/config"
	"tabwork/internal/frame"
	"tabwork/internal/logging"
	"tabwork/internal/stats"
)

// Writer renders frames into xlsx workbooks.
type Writer struct {
	cfg config.ReportConfig
}

// NewWriter builds a report writer from configuration.
func NewWriter(cfg config.ReportConfig) *Writer {
	return &Writer{cfg: cfg}
}

// Write renders the frame as a workbook. The data lands on the configured
// sheet with a bold header row; when IncludeStats is set a second sheet
// carries the describe table.
func (w *Writer) Write(out io.Writer, f *frame.Frame, percentiles []float64) error {
	timer := logging.StartTimer(logging.CategoryReport, "Write")
	defer timer.Stop()

	book := excelize.NewFile()
	defer book.Close()

	sheet := w.cfg.SheetName
	if sheet == "" {
		sheet = "Cleaned Data"
	}
	if err := book.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeFrame(book, sheet, f); err != nil {
		return err
	}

	if w.cfg.IncludeStats {
		if err := writeStats(book, f, percentiles); err != nil {
			return err
		}
	}

	if err := book.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	logging.Report("exported %d rows x %d cols to sheet %q", f.NumRows(), f.NumCols(), sheet)
	return nil
}

func writeFrame(book *excelize.File, sheet string, f *frame.Frame) error {
	header := make([]any, f.NumCols())
	for i, name := range f.ColumnNames() {
		header[i] = name
	}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	end, err := excelize.CoordinatesToCellName(max(f.NumCols(), 1), 1)
	if err != nil {
		return err
	}
	if err := book.SetCellStyle(sheet, "A1", end, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for r := 0; r < f.NumRows(); r++ {
		row := f.Row(r)
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r, err)
		}
	}
	return nil
}

func writeStats(book *excelize.File, f *frame.Frame, percentiles []float64) error {
	desc, err := stats.Describe(f, percentiles)
	if err != nil {
		return fmt.Errorf("describe: %w", err)
	}

	const sheet = "Statistics"
	if _, err := book.NewSheet(sheet); err != nil {
		return fmt.Errorf("add stats sheet: %w", err)
	}

	// reuse the markdown table layout: one row per statistic
	lines := statRows(desc)
	for r, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &line); err != nil {
			return fmt.Errorf("write stats row %d: %w", r, err)
		}
	}

	bold, err := book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(desc.Columns)+1, 1)
	if err != nil {
		return err
	}
	return book.SetCellStyle(sheet, "A1", end, bold)
}

// statRows flattens a description into sheet rows, header first.
func statRows(desc *stats.Description) [][]any {
	header := []any{"stat"}
	for _, c := range desc.Columns {
		header = append(header, c.Name)
	}
	rows := [][]any{header}
	for _, stat := range desc.StatNames() {
		row := []any{stat}
		for _, c := range desc.Columns {
			row = append(row, desc.Stat(c, stat))
		}
		rows = append(rows, row)
	}
	return rows
}
