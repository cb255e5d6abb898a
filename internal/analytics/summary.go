package analytics

import (
	"math"

	"krxcli/pkg/contracts/domain"
)

// Trading-day windows for the recent-flow returns.
const (
	windowWeek    = 5
	windowMonth   = 20
	windowQuarter = 60
)

// Summarize computes headline statistics over a fetched series.
// Returns nil for an empty series.
func Summarize(series domain.PriceSeries) *domain.QuoteSummary {
	if len(series) == 0 {
		return nil
	}

	closes := series.Closes()
	last := closes[len(closes)-1]
	first := closes[0]

	s := &domain.QuoteSummary{
		LastClose:       last,
		PeriodReturnPct: pct(last/first - 1),
		MaxClose:        maxOf(closes),
		MinClose:        minOf(closes),
	}

	if len(closes) >= 2 {
		prev := closes[len(closes)-2]
		s.PrevClose = prev
		s.ChangeAbs = last - prev
		if prev != 0 {
			s.ChangePct = pct((last - prev) / prev)
		}
	}

	if vol, ok := DailyVolatility(closes); ok {
		v := pct(vol)
		s.VolatilityPct = &v
	}

	if dd, ok := MaxDrawdown(series); ok {
		s.Drawdown = &dd
	}

	s.Return1WPct = periodReturn(closes, windowWeek)
	s.Return1MPct = periodReturn(closes, windowMonth)
	s.Return3MPct = periodReturn(closes, windowQuarter)

	return s
}

// MaxDrawdown finds the deepest peak-to-trough decline of the series.
// The trough is the point with the largest drawdown against the running
// maximum; the peak is the highest close at or before the trough.
func MaxDrawdown(series domain.PriceSeries) (domain.Drawdown, bool) {
	if len(series) < 2 {
		return domain.Drawdown{}, false
	}

	runningMax := series[0].Close
	worst := 0.0
	troughIdx := 0
	for i, c := range series {
		if c.Close > runningMax {
			runningMax = c.Close
		}
		if runningMax == 0 {
			continue
		}
		dd := c.Close/runningMax - 1
		if dd < worst {
			worst = dd
			troughIdx = i
		}
	}

	if worst == 0 {
		return domain.Drawdown{}, false
	}

	peakIdx := 0
	for i := 0; i <= troughIdx; i++ {
		if series[i].Close > series[peakIdx].Close {
			peakIdx = i
		}
	}

	return domain.Drawdown{
		Percent:     pct(worst),
		PeakDate:    series[peakIdx].Date,
		PeakClose:   series[peakIdx].Close,
		TroughDate:  series[troughIdx].Date,
		TroughClose: series[troughIdx].Close,
	}, true
}

// DailyVolatility returns the standard deviation of daily returns as a
// fraction. Needs at least two returns (three closes) to be meaningful.
func DailyVolatility(closes []float64) (float64, bool) {
	var returns []float64
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			returns = append(returns, closes[i]/closes[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return 0, false
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	return math.Sqrt(variance), true
}

// MovingAverage computes the simple moving average over the given window.
// Positions before a full window hold NaN so chart overlays can skip them.
func MovingAverage(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	if window <= 0 || len(closes) < window {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	sum := 0.0
	for i, v := range closes {
		sum += v
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// periodReturn computes the percent return over the last n trading days,
// nil when the series is too short.
func periodReturn(closes []float64, n int) *float64 {
	if len(closes) <= n {
		return nil
	}
	base := closes[len(closes)-n-1]
	if base == 0 {
		return nil
	}
	r := pct(closes[len(closes)-1]/base - 1)
	return &r
}

func pct(fraction float64) float64 { return fraction * 100 }

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
