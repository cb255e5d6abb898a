package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"krxcli/pkg/contracts/domain"
)

// seriesOf builds an ascending daily series from close prices.
func seriesOf(closes ...float64) domain.PriceSeries {
	start, _ := time.Parse("2006-01-02", "2023-01-02")
	series := make(domain.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = domain.Candle{Date: start.AddDate(0, 0, i), Close: c}
	}
	return series
}

func TestSummarize_Empty(t *testing.T) {
	assert.Nil(t, Summarize(domain.PriceSeries{}))
	assert.Nil(t, Summarize(nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize(seriesOf(100, 110, 105, 120))
	require.NotNil(t, s)

	assert.Equal(t, 120.0, s.LastClose)
	assert.Equal(t, 105.0, s.PrevClose)
	assert.Equal(t, 15.0, s.ChangeAbs)
	assert.InDelta(t, 15.0/105.0*100, s.ChangePct, 1e-9)
	assert.InDelta(t, 20.0, s.PeriodReturnPct, 1e-9)
	assert.Equal(t, 120.0, s.MaxClose)
	assert.Equal(t, 100.0, s.MinClose)

	require.NotNil(t, s.VolatilityPct)
	require.NotNil(t, s.Drawdown)
	assert.InDelta(t, (105.0/110.0-1)*100, s.Drawdown.Percent, 1e-9)

	// Four closes are not enough for the 5-day return window.
	assert.Nil(t, s.Return1WPct)
	assert.Nil(t, s.Return1MPct)
	assert.Nil(t, s.Return3MPct)
}

func TestSummarize_SingleCandle(t *testing.T) {
	s := Summarize(seriesOf(100))
	require.NotNil(t, s)

	assert.Equal(t, 100.0, s.LastClose)
	assert.Zero(t, s.PrevClose)
	assert.Zero(t, s.PeriodReturnPct)
	assert.Nil(t, s.VolatilityPct)
	assert.Nil(t, s.Drawdown)
}

func TestSummarize_WeeklyReturn(t *testing.T) {
	// Six closes: the 5-day return compares against the first one.
	s := Summarize(seriesOf(100, 101, 102, 103, 104, 110))
	require.NotNil(t, s)
	require.NotNil(t, s.Return1WPct)
	assert.InDelta(t, 10.0, *s.Return1WPct, 1e-9)
	assert.Nil(t, s.Return1MPct)
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 120, trough 90: drawdown -25%.
	dd, ok := MaxDrawdown(seriesOf(100, 120, 110, 90, 105))
	require.True(t, ok)

	assert.InDelta(t, -25.0, dd.Percent, 1e-9)
	assert.Equal(t, 120.0, dd.PeakClose)
	assert.Equal(t, 90.0, dd.TroughClose)
	assert.True(t, dd.PeakDate.Before(dd.TroughDate))
}

func TestMaxDrawdown_MonotonicRise(t *testing.T) {
	_, ok := MaxDrawdown(seriesOf(100, 110, 120))
	assert.False(t, ok)
}

func TestMaxDrawdown_TooShort(t *testing.T) {
	_, ok := MaxDrawdown(seriesOf(100))
	assert.False(t, ok)
}

func TestDailyVolatility(t *testing.T) {
	// Returns: +10%, -10%. Sample stddev of {0.1, -0.1} is ~0.1414.
	vol, ok := DailyVolatility([]float64{100, 110, 99})
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(0.02), vol, 1e-9)
}

func TestDailyVolatility_TooFewCloses(t *testing.T) {
	_, ok := DailyVolatility([]float64{100, 110})
	assert.False(t, ok)

	_, ok = DailyVolatility(nil)
	assert.False(t, ok)
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5}, 3)
	require.Len(t, got, 5)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-9)
	assert.InDelta(t, 3.0, got[3], 1e-9)
	assert.InDelta(t, 4.0, got[4], 1e-9)
}

func TestMovingAverage_WindowLargerThanSeries(t *testing.T) {
	got := MovingAverage([]float64{1, 2}, 20)
	require.Len(t, got, 2)
	for _, v := range got {
		assert.True(t, math.IsNaN(v))
	}
}
