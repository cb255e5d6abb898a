package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"krxcli/pkg/contracts/domain"
)

var csvHeaders = []string{"Date", "Open", "High", "Low", "Close", "Volume", "Change"}

// CSVContentType is the MIME type for CSV downloads.
const CSVContentType = "text/csv; charset=utf-8"

// BuildCSV encodes the series as CSV in memory. A UTF-8 BOM is prepended
// so Excel recognizes the encoding. The header row is always written.
func BuildCSV(series domain.PriceSeries) (*bytes.Buffer, error) {
	var buf bytes.Buffer

	// BOM for Excel compatibility.
	if _, err := buf.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return nil, fmt.Errorf("exporter: write BOM: %w", err)
	}

	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("exporter: write headers: %w", err)
	}

	for i, c := range series {
		record := []string{
			c.Date.Format("2006-01-02"),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatInt(c.Volume, 10),
			strconv.FormatFloat(c.Change, 'f', 6, 64),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("exporter: write record %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("exporter: flush: %w", err)
	}

	return &buf, nil
}

// Filename builds the download filename for a company and format,
// e.g. "삼성전자_005930_prices.xlsx".
func Filename(company domain.CompanyRecord, format string) string {
	name := company.Name
	if name == "" {
		name = company.Symbol
	}
	return fmt.Sprintf("%s_%s_prices.%s", name, company.Symbol, format)
}
