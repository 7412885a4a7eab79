package service

import (
	"context"

	"RiskIQ/internal/domain/models"
)

// NarrativeGenerator turns aggregated metrics into a text summary and
// a risk tier. Implementations must always return a usable result:
// external-service failures fall back to the deterministic path.
type NarrativeGenerator interface {
	Generate(ctx context.Context, summary models.PortfolioSummary, details []models.TickerResult, style string) (string, string)
}
