package exporter

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"krxcli/pkg/contracts/domain"
)

func sampleSeries() domain.PriceSeries {
	d1, _ := time.Parse("2006-01-02", "2023-01-02")
	d2, _ := time.Parse("2006-01-02", "2023-01-03")
	return domain.PriceSeries{
		{Date: d1, Open: 55500, High: 56100, Low: 55200, Close: 55500, Volume: 10031448},
		{Date: d2, Open: 55400, High: 56000, Low: 54500, Close: 55400, Volume: 13547030, Change: -0.0018},
	}
}

func TestBuildWorkbook(t *testing.T) {
	buf, err := BuildWorkbook(sampleSeries())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Volume", "Change"}, rows[0])
	assert.Equal(t, "2023-01-02", rows[1][0])
	assert.Equal(t, "55500", rows[1][4])
	assert.Equal(t, "2023-01-03", rows[2][0])
}

func TestBuildWorkbook_EmptySeries(t *testing.T) {
	// An empty series must still produce a valid, openable workbook with
	// the header row.
	buf, err := BuildWorkbook(domain.PriceSeries{})
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Date", rows[0][0])
}

func TestBuildCSV(t *testing.T) {
	buf, err := BuildCSV(sampleSeries())
	require.NoError(t, err)

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "missing UTF-8 BOM")

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Volume", "Change"}, records[0])
	assert.Equal(t, "2023-01-02", records[1][0])
	assert.Equal(t, "10031448", records[1][5])
	assert.Equal(t, "-0.001800", records[2][6])
}

func TestBuildCSV_EmptySeries(t *testing.T) {
	buf, err := BuildCSV(domain.PriceSeries{})
	require.NoError(t, err)

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF})))
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Date", records[0][0])
}

func TestBuildCSV_Deterministic(t *testing.T) {
	a, err := BuildCSV(sampleSeries())
	require.NoError(t, err)
	b, err := BuildCSV(sampleSeries())
	require.NoError(t, err)
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestFilename(t *testing.T) {
	company := domain.CompanyRecord{Name: "삼성전자", Symbol: "005930"}
	assert.Equal(t, "삼성전자_005930_prices.xlsx", Filename(company, "xlsx"))
	assert.Equal(t, "삼성전자_005930_prices.csv", Filename(company, "csv"))

	// Numeric-only lookups have no roster name; fall back to the symbol.
	bare := domain.CompanyRecord{Name: "", Symbol: "005930"}
	assert.Equal(t, "005930_005930_prices.xlsx", Filename(bare, "xlsx"))
}
