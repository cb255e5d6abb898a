package marketdata

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siseFixture mimics the siseJson response: a JS array literal with
// single-quoted header labels, rows descending is not guaranteed so the
// fixture is deliberately out of order, and one zero-row holiday filler.
const siseFixture = `[['날짜', '시가', '고가', '저가', '종가', '거래량', '외국인소진율'],
["20230104", 57800, 58200, 57200, 57400, 12000000, 49.9],
["20230102", 55500, 56100, 55200, 55500, 10031448, 49.8],
["20230103", 55400, 56000, 54500, 55400, 13547030, 49.8],
["20230105", 0, 0, 0, 0, 0, 0]]`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseDailyRows(t *testing.T) {
	series, err := parseDailyRows([]byte(siseFixture))
	require.NoError(t, err)
	require.Len(t, series, 3)

	// Ascending by date regardless of response order.
	assert.Equal(t, "2023-01-02", series[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2023-01-03", series[1].Date.Format("2006-01-02"))
	assert.Equal(t, "2023-01-04", series[2].Date.Format("2006-01-02"))

	first := series[0]
	assert.Equal(t, 55500.0, first.Open)
	assert.Equal(t, 56100.0, first.High)
	assert.Equal(t, 55200.0, first.Low)
	assert.Equal(t, 55500.0, first.Close)
	assert.Equal(t, int64(10031448), first.Volume)

	// Daily change is fractional against the previous close.
	assert.Zero(t, series[0].Change)
	assert.InDelta(t, 55400.0/55500.0-1, series[1].Change, 1e-9)
	assert.InDelta(t, 57400.0/55400.0-1, series[2].Change, 1e-9)
}

func TestParseDailyRows_Empty(t *testing.T) {
	for _, body := range []string{"", "[]", "  "} {
		series, err := parseDailyRows([]byte(body))
		require.NoError(t, err)
		assert.Empty(t, series)
	}
}

func TestParseDailyRows_HeaderOnly(t *testing.T) {
	series, err := parseDailyRows([]byte(`[['날짜', '시가', '고가', '저가', '종가', '거래량', '외국인소진율']]`))
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestParseDailyRows_Malformed(t *testing.T) {
	_, err := parseDailyRows([]byte(`<html>blocked</html>`))
	assert.Error(t, err)
}

func TestClient_DailyCandles(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"symbol":      r.URL.Query().Get("symbol"),
			"requestType": r.URL.Query().Get("requestType"),
			"startTime":   r.URL.Query().Get("startTime"),
			"endTime":     r.URL.Query().Get("endTime"),
			"timeframe":   r.URL.Query().Get("timeframe"),
		}
		w.Write([]byte(siseFixture))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	from, _ := time.Parse("2006-01-02", "2023-01-01")
	to, _ := time.Parse("2006-01-02", "2023-01-10")

	series, err := client.DailyCandles(context.Background(), "005930", from, to)
	require.NoError(t, err)
	assert.Len(t, series, 3)

	assert.Equal(t, "005930", gotQuery["symbol"])
	assert.Equal(t, "1", gotQuery["requestType"])
	assert.Equal(t, "20230101", gotQuery["startTime"])
	assert.Equal(t, "20230110", gotQuery["endTime"])
	assert.Equal(t, "day", gotQuery["timeframe"])
}

func TestClient_DailyCandles_InvalidSymbol(t *testing.T) {
	client := NewClient("http://localhost:0", time.Second, testLogger())

	_, err := client.DailyCandles(context.Background(), "5930", time.Now(), time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid symbol")
}

func TestClient_DailyCandles_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	_, err := client.DailyCandles(context.Background(), "005930", time.Now().AddDate(0, 0, -7), time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestClient_DailyCandles_EmptyPeriod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, testLogger())

	series, err := client.DailyCandles(context.Background(), "005930", time.Now().AddDate(0, 0, -7), time.Now())
	require.NoError(t, err)
	assert.Empty(t, series)
}
