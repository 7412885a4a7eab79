package models

// Requests for the risk HTTP endpoints. Defined in domain for consistency and reuse.

type RiskRequest struct {
	Ticker   string `param:"ticker" query:"ticker" json:"ticker" validate:"required"`
	Period   string `query:"period" json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y 10y max"`
	Interval string `query:"interval" json:"interval" default:"1d" validate:"oneof=1d 1wk 1mo"`
	Style    string `query:"style" json:"style" default:"concise" validate:"oneof=concise detailed technical"`
}

type PortfolioRequest struct {
	Tickers  []string `json:"tickers" validate:"required,min=1,dive,required"`
	Period   string   `json:"period" default:"1y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y 10y max"`
	Interval string   `json:"interval" default:"1d" validate:"oneof=1d 1wk 1mo"`
	Style    string   `json:"style" default:"concise" validate:"oneof=concise detailed technical"`
}
