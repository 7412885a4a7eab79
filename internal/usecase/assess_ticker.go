package usecase

import (
	"context"
	"fmt"
	"time"

	"RiskIQ/internal/domain/models"
	domrepo "RiskIQ/internal/domain/repository"
	domservice "RiskIQ/internal/domain/service"
	"RiskIQ/internal/services/risk"
	"RiskIQ/pkg/logger"
)

// chartTailLen caps the historical_data slice attached to a result.
const chartTailLen = 252

// TickerAssessor computes the full per-ticker risk record: fetch,
// returns, point metrics, and the three-model forecast ensemble.
type TickerAssessor struct {
	source  domrepo.PriceSource
	models  []domservice.VolatilityModel
	metrics domrepo.Metrics
	log     *logger.Logger
}

func NewTickerAssessor(source domrepo.PriceSource, vols []domservice.VolatilityModel, metrics domrepo.Metrics, log *logger.Logger) *TickerAssessor {
	return &TickerAssessor{source: source, models: vols, metrics: metrics, log: log}
}

type AssessParams struct {
	Ticker   string
	Period   string
	Interval string
}

// Assess builds the metrics record for one ticker. Model failures are
// not fatal: a model that cannot produce a forecast leaves its slot at
// zero and the record still succeeds. Data-layer failures are fatal
// for the ticker.
func (a *TickerAssessor) Assess(ctx context.Context, p AssessParams) (*models.RiskMetrics, error) {
	start := time.Now()

	bars, err := a.source.History(ctx, p.Ticker, p.Period, p.Interval)
	if err != nil {
		a.metrics.RecordTickerError("fetch")
		return nil, fmt.Errorf("fetch %s: %w", p.Ticker, err)
	}

	points, err := risk.ComputeReturns(bars)
	if err != nil {
		a.metrics.RecordTickerError("returns")
		return nil, err
	}
	returns := risk.ReturnValues(points)

	vol, err := risk.HistoricalVolatility(returns)
	if err != nil {
		a.metrics.RecordTickerError("volatility")
		return nil, err
	}
	valueAtRisk, err := risk.ValueAtRisk(returns, risk.DefaultConfidence)
	if err != nil {
		a.metrics.RecordTickerError("var")
		return nil, err
	}
	cvar, err := risk.ConditionalValueAtRisk(returns, risk.DefaultConfidence)
	if err != nil {
		a.metrics.RecordTickerError("cvar")
		return nil, err
	}

	record := &models.RiskMetrics{
		Ticker:               p.Ticker,
		HistoricalVolatility: risk.Round5(vol),
		VaR95:                risk.Round5(valueAtRisk),
		CVaR95:               risk.Round5(cvar),
		Currency:             a.currency(ctx, p.Ticker),
		HistoricalData:       risk.ChartTail(points, chartTailLen),
	}

	a.runForecasts(ctx, record, returns)

	a.metrics.RecordVolatility(p.Ticker, record.HistoricalVolatility)
	a.metrics.RecordLatency("assess_ticker_seconds", time.Since(start).Seconds())
	return record, nil
}

// runForecasts fills the forecast slots, one model at a time. A model
// error is logged and leaves that slot at zero.
func (a *TickerAssessor) runForecasts(ctx context.Context, record *models.RiskMetrics, returns []float64) {
	for _, m := range a.models {
		v, err := m.Forecast(ctx, returns)
		if err != nil {
			a.metrics.RecordTickerError("forecast_" + m.Name())
			a.log.Warn("volatility forecast failed",
				logger.String("ticker", record.Ticker),
				logger.String("model", m.Name()),
				logger.Error(err))
			continue
		}
		v = risk.Round5(v)
		switch m.Name() {
		case "garch":
			record.ForecastGARCH = v
		case "xgboost":
			record.ForecastXGBoost = v
		case "lstm":
			record.ForecastLSTM = v
		}
	}
}

func (a *TickerAssessor) currency(ctx context.Context, ticker string) string {
	if c := a.source.Currency(ctx, ticker); c != "" {
		return c
	}
	return "USD"
}
