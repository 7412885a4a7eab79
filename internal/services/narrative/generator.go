package narrative

import (
	"context"
	"strings"

	"RiskIQ/internal/domain/models"
	"RiskIQ/internal/domain/service"
	"RiskIQ/pkg/logger"
)

// Generator produces the plain-language risk summary. When no external
// completion client is configured, or every attempt against it fails,
// it falls back to a locally templated narrative carrying the same
// metrics. Both the generated and fallback paths return the tier label
// computed from the portfolio averages.
type Generator struct {
	client *Client
	log    *logger.Logger
}

var _ service.NarrativeGenerator = (*Generator)(nil)

func NewGenerator(client *Client, log *logger.Logger) *Generator {
	return &Generator{client: client, log: log}
}

func (g *Generator) Generate(ctx context.Context, summary models.PortfolioSummary, details []models.TickerResult, style string) (string, string) {
	tier := tierFor(summary)

	if g.client == nil || g.client.token == "" {
		return FallbackSummary(summary, details), tier.String()
	}

	prompt := BuildPrompt(summary, details, style)
	text, err := g.client.Complete(ctx, prompt)
	if err != nil {
		g.log.Warn("narrative generation failed, using fallback",
			logger.Error(err),
			logger.Int("tickers", len(summary.Tickers)))
		return FallbackSummary(summary, details), tier.String()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackSummary(summary, details), tier.String()
	}
	return text, tier.String()
}

func tierFor(summary models.PortfolioSummary) RiskLevel {
	var vol, cvar float64
	if summary.AverageVolatility != nil {
		vol = *summary.AverageVolatility
	}
	if summary.AverageCVaR95 != nil {
		cvar = *summary.AverageCVaR95
	}
	return Classify(vol, cvar)
}
