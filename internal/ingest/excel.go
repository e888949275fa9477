package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tabwork/internal/config"
	"tabwork/internal/frame"
	"tabwork/internal/logging"
)

// ReadExcelFile loads the first sheet of an .xlsx/.xls workbook. The first
// row is the header, matching how the upload flow treats spreadsheets.
func ReadExcelFile(path string, cfg config.IngestConfig) (*frame.Frame, error) {
	timer := logging.StartTimer(logging.CategoryIngest, "ReadExcelFile")
	defer timer.Stop()

	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}
	logging.IngestDebug("workbook %s: sheet %s, %d rows", path, sheets[0], len(rows))
	return buildFrame(rows[0], rows[1:], cfg)
}
