package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"krxcli/pkg/contracts/domain"
)

// Client fetches daily OHLCV history from the Naver Finance chart API.
// One network call per invocation; no caching, retry, or backoff.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a market data client against the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With(slog.String("component", "marketdata_client")),
	}
}

// DailyCandles retrieves the daily series for symbol over [from, to],
// ascending by date. An empty series is a valid outcome, not an error.
func (c *Client) DailyCandles(ctx context.Context, symbol string, from, to time.Time) (domain.PriceSeries, error) {
	if !domain.IsValidSymbol(symbol) {
		return nil, fmt.Errorf("marketdata: invalid symbol %q", symbol)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("requestType", "1")
	q.Set("startTime", from.Format("20060102"))
	q.Set("endTime", to.Format("20060102"))
	q.Set("timeframe", "day")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("marketdata request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketdata fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("marketdata read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketdata: status %d, body: %s", resp.StatusCode, truncate(string(body), 200))
	}

	series, err := parseDailyRows(body)
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "daily candles fetched",
		slog.String("symbol", symbol),
		slog.Int("rows", len(series)),
	)

	return series, nil
}

// parseDailyRows decodes the siseJson row-array payload. The endpoint
// responds with a JavaScript array literal using single quotes around the
// header labels, so quotes are normalized before JSON decoding. The first
// row is the header; data rows are [date, open, high, low, close, volume,
// foreign-ownership]. Null bars are skipped.
func parseDailyRows(body []byte) (domain.PriceSeries, error) {
	text := strings.TrimSpace(string(body))
	text = strings.ReplaceAll(text, "'", `"`)
	if text == "" || text == "[]" {
		return domain.PriceSeries{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw [][]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("marketdata decode: %w", err)
	}

	series := make(domain.PriceSeries, 0, len(raw))
	for i, row := range raw {
		if i == 0 || len(row) < 6 {
			continue // header row or trailing filler
		}

		dateStr, ok := row[0].(string)
		if !ok {
			continue
		}
		date, err := time.Parse("20060102", dateStr)
		if err != nil {
			continue
		}

		open := toFloat(row[1])
		high := toFloat(row[2])
		low := toFloat(row[3])
		clos := toFloat(row[4])
		if open == 0 && high == 0 && low == 0 && clos == 0 {
			continue // market holiday placeholder
		}

		series = append(series, domain.Candle{
			Date:   date,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  clos,
			Volume: int64(toFloat(row[5])),
		})
	}

	series.Sort()
	fillChanges(series)
	return series, nil
}

// fillChanges computes the daily fractional change against the previous
// close. The first row keeps zero.
func fillChanges(series domain.PriceSeries) {
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		if prev != 0 {
			series[i].Change = series[i].Close/prev - 1
		}
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	case string:
		var f float64
		fmt.Sscanf(n, "%f", &f)
		return f
	default:
		return 0
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
