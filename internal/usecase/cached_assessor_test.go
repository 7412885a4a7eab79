package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"RiskIQ/internal/domain/models"
	"RiskIQ/pkg/cache"
)

type countingAssessor struct {
	calls int
	fail  bool
}

func (c *countingAssessor) Assess(_ context.Context, p AssessParams) (*models.RiskMetrics, error) {
	c.calls++
	if c.fail {
		return nil, fmt.Errorf("source down")
	}
	return &models.RiskMetrics{Ticker: p.Ticker, HistoricalVolatility: 0.3}, nil
}

func TestCachedAssessorServesRepeatFromCache(t *testing.T) {
	inner := &countingAssessor{}
	c := NewCachedAssessor(inner, cache.NewMemoryCache(), time.Minute, testLog(t))
	p := AssessParams{Ticker: "AAPL", Period: "1y", Interval: "1d"}

	first, err := c.Assess(context.Background(), p)
	if err != nil {
		t.Fatalf("first Assess: %v", err)
	}
	second, err := c.Assess(context.Background(), p)
	if err != nil {
		t.Fatalf("second Assess: %v", err)
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls = %d, want 1", inner.calls)
	}
	if first.HistoricalVolatility != second.HistoricalVolatility {
		t.Fatalf("cache returned a different record: %+v vs %+v", first, second)
	}
}

func TestCachedAssessorKeyIncludesParams(t *testing.T) {
	inner := &countingAssessor{}
	c := NewCachedAssessor(inner, cache.NewMemoryCache(), time.Minute, testLog(t))

	if _, err := c.Assess(context.Background(), AssessParams{Ticker: "AAPL", Period: "1y"}); err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if _, err := c.Assess(context.Background(), AssessParams{Ticker: "AAPL", Period: "5y"}); err != nil {
		t.Fatalf("Assess: %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner calls = %d, want 2 for distinct periods", inner.calls)
	}
}

func TestCachedAssessorDoesNotCacheFailures(t *testing.T) {
	inner := &countingAssessor{fail: true}
	c := NewCachedAssessor(inner, cache.NewMemoryCache(), time.Minute, testLog(t))
	p := AssessParams{Ticker: "AAPL"}

	if _, err := c.Assess(context.Background(), p); err == nil {
		t.Fatal("expected failure")
	}
	inner.fail = false
	record, err := c.Assess(context.Background(), p)
	if err != nil {
		t.Fatalf("Assess after recovery: %v", err)
	}
	if record == nil || inner.calls != 2 {
		t.Fatalf("failure was cached: calls=%d", inner.calls)
	}
}
