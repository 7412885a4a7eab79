package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RiskIQ/internal/domain/models"
	"RiskIQ/pkg/cache"
	"RiskIQ/pkg/logger"
)

// CachedAssessor wraps an Assessor with a read-through cache keyed by
// ticker, period and interval. Cache failures degrade to a direct
// computation; only success records are cached.
type CachedAssessor struct {
	next  Assessor
	cache cache.Service
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedAssessor(next Assessor, c cache.Service, ttl time.Duration, log *logger.Logger) *CachedAssessor {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &CachedAssessor{next: next, cache: c, ttl: ttl, log: log}
}

func (c *CachedAssessor) Assess(ctx context.Context, p AssessParams) (*models.RiskMetrics, error) {
	key := assessmentKey(p)

	var cached models.RiskMetrics
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		c.log.Warn("metrics cache read failed",
			logger.String("key", key),
			logger.Error(err))
	}

	record, err := c.next.Assess(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, record, c.ttl); err != nil {
		c.log.Warn("metrics cache write failed",
			logger.String("key", key),
			logger.Error(err))
	}
	return record, nil
}

func assessmentKey(p AssessParams) string {
	return fmt.Sprintf("riskiq:metrics:%s:%s:%s", p.Ticker, p.Period, p.Interval)
}
