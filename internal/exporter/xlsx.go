package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"krxcli/pkg/contracts/domain"
)

// Spreadsheet column headers, in export order.
var xlsxHeaders = []interface{}{"Date", "Open", "High", "Low", "Close", "Volume", "Change"}

// SheetName is the fixed worksheet name; keeping it constant makes the
// output deterministic for a given series.
const SheetName = "PriceHistory"

// XLSXContentType is the MIME type for workbook downloads.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BuildWorkbook encodes the series as an XLSX workbook in memory.
// The header row is always written, so an empty series still produces a
// valid, openable file.
func BuildWorkbook(series domain.PriceSeries) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("exporter: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("exporter: drop default sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return nil, fmt.Errorf("exporter: stream writer: %w", err)
	}

	if err := sw.SetRow("A1", xlsxHeaders); err != nil {
		return nil, fmt.Errorf("exporter: write header: %w", err)
	}

	for i, c := range series {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("exporter: cell name: %w", err)
		}
		row := []interface{}{
			c.Date.Format("2006-01-02"),
			c.Open,
			c.High,
			c.Low,
			c.Close,
			c.Volume,
			c.Change,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return nil, fmt.Errorf("exporter: write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("exporter: flush: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("exporter: encode workbook: %w", err)
	}

	return &buf, nil
}
