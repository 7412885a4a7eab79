package repository

import (
	"context"
	"fmt"
	"time"

	"RiskIQ/internal/domain/models"
	domrepo "RiskIQ/internal/domain/repository"
	xhttp "RiskIQ/pkg/http"
	applogger "RiskIQ/pkg/logger"
)

const defaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// YahooPriceSource implements PriceSource over the public chart API.
// Responses carry parallel timestamp/quote arrays; rows with a null
// close are dropped here so downstream code only sees usable bars.
type YahooPriceSource struct {
	client  *xhttp.Client
	baseURL string
	l       *applogger.Logger
}

func NewYahooPriceSource(timeout time.Duration, l *applogger.Logger) *YahooPriceSource {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooPriceSource{
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: defaultChartBaseURL,
		l:       l,
	}
}

// SetBaseURL overrides the endpoint, used by tests.
func (s *YahooPriceSource) SetBaseURL(u string) { s.baseURL = u }

var _ domrepo.PriceSource = (*YahooPriceSource)(nil)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (s *YahooPriceSource) History(ctx context.Context, ticker, period, interval string) ([]models.PriceBar, error) {
	start := time.Now()
	resp, err := s.fetch(ctx, ticker, period, interval)
	if err != nil {
		if s.l != nil {
			s.l.Error("chart fetch error",
				applogger.String("ticker", ticker),
				applogger.String("period", period),
				applogger.Error(err),
			)
		}
		return nil, err
	}

	bars := barsFromChart(resp)
	if s.l != nil {
		s.l.Info("chart fetch ok",
			applogger.String("ticker", ticker),
			applogger.String("period", period),
			applogger.String("interval", interval),
			applogger.Int("bars", len(bars)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return bars, nil
}

func (s *YahooPriceSource) Currency(ctx context.Context, ticker string) string {
	// Short range keeps the lookup cheap; only meta is needed.
	resp, err := s.fetch(ctx, ticker, "5d", "1d")
	if err != nil || len(resp.Chart.Result) == 0 {
		return ""
	}
	return resp.Chart.Result[0].Meta.Currency
}

func (s *YahooPriceSource) fetch(ctx context.Context, ticker, period, interval string) (*chartResponse, error) {
	if period == "" {
		period = "1y"
	}
	if interval == "" {
		interval = "1d"
	}

	var out chartResponse
	err := s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/%s", s.baseURL, ticker),
		QueryParams: map[string][]string{
			"range":    {period},
			"interval": {interval},
			"events":   {"history"},
		},
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; riskiq/1.0)",
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("chart request %s: %w", ticker, err)
	}
	if out.Chart.Error != nil {
		return nil, fmt.Errorf("chart api %s: %s", ticker, out.Chart.Error.Description)
	}
	if len(out.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart api %s: empty result", ticker)
	}
	return &out, nil
}

func barsFromChart(resp *chartResponse) []models.PriceBar {
	r := resp.Chart.Result[0]
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			bar.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			bar.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			bar.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars
}
