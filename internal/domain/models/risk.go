package models

import "encoding/json"

// PriceBar is one daily observation from a market-data source.
type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// PricePoint is one row of the chart tail attached to a risk record.
type PricePoint struct {
	Date   string  `json:"date"`
	Close  float64 `json:"close"`
	Return float64 `json:"return"`
}

// RiskMetrics holds everything computed for a single ticker.
// Immutable once built; request-scoped.
type RiskMetrics struct {
	Ticker               string       `json:"ticker"`
	HistoricalVolatility float64      `json:"historical_volatility"`
	VaR95                float64      `json:"VaR_95"`
	CVaR95               float64      `json:"CVaR_95"`
	ForecastGARCH        float64      `json:"forecasted_volatility_garch"`
	ForecastXGBoost      float64      `json:"forecasted_volatility_xgboost"`
	ForecastLSTM         float64      `json:"forecasted_volatility_lstm"`
	Currency             string       `json:"currency"`
	HistoricalData       []PricePoint `json:"historical_data,omitempty"`
}

// TickerResult is the per-ticker slot in a portfolio response: either a
// full metrics record or an error record, never both.
type TickerResult struct {
	Ticker  string       `json:"ticker"`
	Metrics *RiskMetrics `json:"-"`
	Err     string       `json:"error,omitempty"`
}

// Failed reports whether this slot carries an error record.
func (r TickerResult) Failed() bool { return r.Err != "" }

// MarshalJSON flattens the union: success slots serialize as the full
// metrics record, failure slots as {ticker, error}. Both shapes share
// the same array position in the response.
func (r TickerResult) MarshalJSON() ([]byte, error) {
	if !r.Failed() && r.Metrics != nil {
		return json.Marshal(r.Metrics)
	}
	return json.Marshal(struct {
		Ticker string `json:"ticker"`
		Err    string `json:"error"`
	}{Ticker: r.Ticker, Err: r.Err})
}

// PortfolioSummary aggregates metrics over tickers that succeeded.
// Averages are nil, not zero, when no ticker succeeded.
type PortfolioSummary struct {
	Tickers           []string `json:"tickers"`
	AverageVolatility *float64 `json:"average_volatility"`
	AverageVaR95      *float64 `json:"average_VaR_95"`
	AverageCVaR95     *float64 `json:"average_CVaR_95"`
}

// Assessment is the full response payload for a risk request.
type Assessment struct {
	PortfolioSummary PortfolioSummary `json:"portfolio_summary"`
	Details          []TickerResult   `json:"details"`
	Summary          string           `json:"summary"`
	RiskLevel        string           `json:"risk_level"`
}
