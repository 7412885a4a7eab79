package narrative

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"RiskIQ/internal/domain/models"
	"RiskIQ/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testClient(url string) *Client {
	return NewClient(ClientConfig{
		URL:         url,
		Token:       "test-token",
		Timeout:     5 * time.Second,
		MaxAttempts: 3,
		Backoff:     time.Millisecond,
	})
}

func TestCompleteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("bad auth header %q", got)
		}
		w.Write([]byte(`[{"generated_text":"A calm portfolio."}]`))
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "A calm portfolio." {
		t.Fatalf("got %q", text)
	}
}

func TestCompleteChatShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"Tail risk is modest."}}]}`))
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "Tail risk is modest." {
		t.Fatalf("got %q", text)
	}
}

func TestCompleteRetriesThenExhausts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Complete(context.Background(), "prompt")
	var nse *models.NarrativeServiceError
	if !errors.As(err, &nse) {
		t.Fatalf("expected NarrativeServiceError, got %v", err)
	}
	if nse.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", nse.Attempts)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("server saw %d calls, want 3", got)
	}
}

func TestCompleteRecoversWithinBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"generated_text":"ok"}]`))
	}))
	defer srv.Close()

	text, err := testClient(srv.URL).Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if text != "ok" {
		t.Fatalf("got %q", text)
	}
}

func TestCompleteAuthRejectedNoRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Complete(context.Background(), "prompt")
	var nse *models.NarrativeServiceError
	if !errors.As(err, &nse) {
		t.Fatalf("expected NarrativeServiceError, got %v", err)
	}
	if nse.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", nse.Attempts)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("server saw %d calls, want 1", got)
	}
}

func TestGeneratorFallbackParity(t *testing.T) {
	// An exhausted external service must produce exactly the same
	// output as running with no credential at all.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	log := testLogger(t)
	summary := models.PortfolioSummary{
		Tickers:           []string{"AAPL"},
		AverageVolatility: fptr(0.544),
		AverageVaR95:      fptr(-0.03),
		AverageCVaR95:     fptr(-0.04),
	}
	details := []models.TickerResult{{
		Ticker: "AAPL",
		Metrics: &models.RiskMetrics{
			Ticker:               "AAPL",
			HistoricalVolatility: 0.544,
			VaR95:                -0.03,
			CVaR95:               -0.04,
		},
	}}

	withService := NewGenerator(testClient(srv.URL), log)
	noCredential := NewGenerator(nil, log)

	gotText, gotLevel := withService.Generate(context.Background(), summary, details, StyleConcise)
	wantText, wantLevel := noCredential.Generate(context.Background(), summary, details, StyleConcise)

	if gotText != wantText {
		t.Fatalf("fallback text diverged:\n%q\nvs\n%q", gotText, wantText)
	}
	if gotLevel != wantLevel || gotLevel != "HIGH" {
		t.Fatalf("levels = %q / %q, want HIGH", gotLevel, wantLevel)
	}
	if !strings.Contains(gotText, "Risk Level: HIGH") {
		t.Fatalf("fallback missing tier line:\n%s", gotText)
	}
}

func TestGeneratorUsesGeneratedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text":"This stock carries elevated risk."}]`))
	}))
	defer srv.Close()

	log := testLogger(t)
	summary := models.PortfolioSummary{
		Tickers:           []string{"AAPL"},
		AverageVolatility: fptr(0.25),
		AverageVaR95:      fptr(-0.02),
		AverageCVaR95:     fptr(-0.03),
	}
	details := []models.TickerResult{{Ticker: "AAPL", Metrics: &models.RiskMetrics{Ticker: "AAPL"}}}

	text, level := NewGenerator(testClient(srv.URL), log).Generate(context.Background(), summary, details, StyleConcise)
	if text != "This stock carries elevated risk." {
		t.Fatalf("got %q", text)
	}
	if level != "LOW-MODERATE" {
		t.Fatalf("level = %q, want LOW-MODERATE", level)
	}
}
