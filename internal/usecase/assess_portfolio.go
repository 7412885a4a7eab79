package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"RiskIQ/internal/domain/models"
	domrepo "RiskIQ/internal/domain/repository"
	domservice "RiskIQ/internal/domain/service"
	"RiskIQ/internal/services/risk"
	"RiskIQ/pkg/logger"
)

const defaultConcurrency = 8

// PortfolioAssessor fans a ticker list out to the per-ticker assessor,
// aggregates the survivors, and attaches the narrative. One bad ticker
// never sinks the request; an empty ticker list does.
// Assessor is the per-ticker pipeline entry point. Satisfied by
// TickerAssessor and by its caching decorator.
type Assessor interface {
	Assess(ctx context.Context, p AssessParams) (*models.RiskMetrics, error)
}

type PortfolioAssessor struct {
	assessor    Assessor
	narrative   domservice.NarrativeGenerator
	publisher   domrepo.AssessmentPublisher
	metrics     domrepo.Metrics
	log         *logger.Logger
	concurrency int
}

func NewPortfolioAssessor(
	assessor Assessor,
	narrative domservice.NarrativeGenerator,
	publisher domrepo.AssessmentPublisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *PortfolioAssessor {
	return &PortfolioAssessor{
		assessor:    assessor,
		narrative:   narrative,
		publisher:   publisher,
		metrics:     metrics,
		log:         log,
		concurrency: defaultConcurrency,
	}
}

type PortfolioParams struct {
	Tickers  []string
	Period   string
	Interval string
	Style    string
}

// Assess runs the portfolio pipeline. Results keep the input order:
// details[i] always describes Tickers[i], whether it succeeded or not.
func (p *PortfolioAssessor) Assess(ctx context.Context, params PortfolioParams) (*models.Assessment, error) {
	tickers := normalizeTickers(params.Tickers)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("at least one ticker required")
	}

	start := time.Now()
	details := make([]models.TickerResult, len(tickers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, ticker := range tickers {
		i, ticker := i, ticker
		g.Go(func() error {
			record, err := p.assessor.Assess(gctx, AssessParams{
				Ticker:   ticker,
				Period:   params.Period,
				Interval: params.Interval,
			})
			if err != nil {
				p.log.Warn("ticker assessment failed",
					logger.String("ticker", ticker),
					logger.Error(err))
				details[i] = models.TickerResult{Ticker: ticker, Err: err.Error()}
				return nil
			}
			details[i] = models.TickerResult{Ticker: ticker, Metrics: record}
			return nil
		})
	}
	// Workers report per-slot, never an error; Wait only observes
	// context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := summarize(details)
	text, level := p.narrative.Generate(ctx, summary, details, params.Style)

	assessment := &models.Assessment{
		PortfolioSummary: summary,
		Details:          details,
		Summary:          text,
		RiskLevel:        level,
	}

	if len(summary.Tickers) == 0 {
		p.metrics.RecordAssessment("all_failed")
	} else if len(summary.Tickers) < len(tickers) {
		p.metrics.RecordAssessment("partial")
	} else {
		p.metrics.RecordAssessment("ok")
	}
	p.metrics.RecordLatency("assess_portfolio_seconds", time.Since(start).Seconds())

	p.publish(ctx, assessment)
	return assessment, nil
}

// summarize averages metrics over the successful slots. With zero
// survivors the averages stay nil so the response never reports a
// fabricated zero-risk portfolio.
func summarize(details []models.TickerResult) models.PortfolioSummary {
	var (
		valid          []string
		vol, v95, cv95 float64
	)
	for _, d := range details {
		if d.Failed() || d.Metrics == nil {
			continue
		}
		valid = append(valid, d.Ticker)
		vol += d.Metrics.HistoricalVolatility
		v95 += d.Metrics.VaR95
		cv95 += d.Metrics.CVaR95
	}

	summary := models.PortfolioSummary{Tickers: valid}
	if n := float64(len(valid)); n > 0 {
		avg := func(sum float64) *float64 {
			v := risk.Round5(sum / n)
			return &v
		}
		summary.AverageVolatility = avg(vol)
		summary.AverageVaR95 = avg(v95)
		summary.AverageCVaR95 = avg(cv95)
	}
	return summary
}

// normalizeTickers uppercases, trims, and deduplicates while keeping
// first-occurrence order.
func normalizeTickers(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (p *PortfolioAssessor) publish(ctx context.Context, a *models.Assessment) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, a); err != nil {
		p.log.Warn("assessment publish failed", logger.Error(err))
	}
}
