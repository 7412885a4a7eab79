package repository

import (
	"context"

	"RiskIQ/internal/domain/models"
)

// PriceSource returns a chronological daily price history for a ticker.
// Implementations may be remote (market-data HTTP API) or local
// (ClickHouse candle store). An empty or short series is not an error
// at this layer; downstream calculations decide sufficiency.
type PriceSource interface {
	History(ctx context.Context, ticker, period, interval string) ([]models.PriceBar, error)
	// Currency reports the quote currency for a ticker, best-effort.
	// Implementations return "" when undetectable.
	Currency(ctx context.Context, ticker string) string
}

// AssessmentPublisher emits completed portfolio assessments for
// downstream consumers. Optional; a nil publisher disables the path.
type AssessmentPublisher interface {
	Publish(ctx context.Context, a *models.Assessment) error
	Close() error
}

// Metrics records operational telemetry.
type Metrics interface {
	RecordAssessment(outcome string)
	RecordTickerError(kind string)
	RecordVolatility(ticker string, vol float64)
	RecordLatency(op string, seconds float64)
}
