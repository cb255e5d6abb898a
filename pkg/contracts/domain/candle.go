package domain

import (
	"sort"
	"time"
)

// Candle represents one daily OHLCV record for a symbol.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
	// Change is the fractional change versus the previous close,
	// e.g. 0.0125 for +1.25%. Zero for the first row of a series.
	Change float64 `json:"change"`
}

// PriceSeries is an ordered sequence of daily candles, ascending by date.
// A series is either empty or fully populated; there are no partial rows.
type PriceSeries []Candle

// Sort orders the series ascending by date in place.
func (s PriceSeries) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Date.Before(s[j].Date) })
}

// Tail returns the last n candles (the whole series when it is shorter).
func (s PriceSeries) Tail(n int) PriceSeries {
	if n <= 0 || len(s) == 0 {
		return PriceSeries{}
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Closes returns the close prices in series order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// Dates returns the dates in series order.
func (s PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, c := range s {
		out[i] = c.Date
	}
	return out
}
