package domain

import "time"

// Query represents one user lookup action. Transient, one per action.
type Query struct {
	Input string    `json:"input" validate:"required"`
	From  time.Time `json:"from" validate:"required"`
	To    time.Time `json:"to" validate:"required,gtefield=From"`
}

// Drawdown describes the maximum drawdown window of a series.
type Drawdown struct {
	Percent     float64   `json:"percent"`
	PeakDate    time.Time `json:"peak_date"`
	PeakClose   float64   `json:"peak_close"`
	TroughDate  time.Time `json:"trough_date"`
	TroughClose float64   `json:"trough_close"`
}

// QuoteSummary aggregates headline statistics for a fetched series.
type QuoteSummary struct {
	LastClose       float64   `json:"last_close"`
	PrevClose       float64   `json:"prev_close"`
	ChangeAbs       float64   `json:"change_abs"`
	ChangePct       float64   `json:"change_pct"`
	PeriodReturnPct float64   `json:"period_return_pct"`
	MaxClose        float64   `json:"max_close"`
	MinClose        float64   `json:"min_close"`
	VolatilityPct   *float64  `json:"volatility_pct,omitempty"`
	Drawdown        *Drawdown `json:"drawdown,omitempty"`
	Return1WPct     *float64  `json:"return_1w_pct,omitempty"`
	Return1MPct     *float64  `json:"return_1m_pct,omitempty"`
	Return3MPct     *float64  `json:"return_3m_pct,omitempty"`
}

// QuoteResult is the full outcome of one lookup: the resolved company,
// the fetched series and its summary. Discarded when the next query runs.
type QuoteResult struct {
	Company CompanyRecord `json:"company"`
	From    time.Time     `json:"from"`
	To      time.Time     `json:"to"`
	Series  PriceSeries   `json:"series"`
	Summary *QuoteSummary `json:"summary,omitempty"`
	NoData  bool          `json:"no_data"`
}
