package narrative

import (
	"strings"
	"testing"

	"RiskIQ/internal/domain/models"
)

func fptr(v float64) *float64 { return &v }

func TestFallbackSingleTicker(t *testing.T) {
	details := []models.TickerResult{{
		Ticker: "AAPL",
		Metrics: &models.RiskMetrics{
			Ticker:               "AAPL",
			HistoricalVolatility: 0.544,
			VaR95:                -0.0321,
			CVaR95:               -0.0456,
		},
	}}
	summary := models.PortfolioSummary{
		Tickers:           []string{"AAPL"},
		AverageVolatility: fptr(0.544),
		AverageVaR95:      fptr(-0.0321),
		AverageCVaR95:     fptr(-0.0456),
	}

	text := FallbackSummary(summary, details)
	for _, want := range []string{
		"AAPL",
		"Risk Level: HIGH",
		"54.40%",
		"3.21%",
		"4.56%",
		"$10,000",
		"$100,000",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("fallback missing %q:\n%s", want, text)
		}
	}
}

func TestFallbackPortfolio(t *testing.T) {
	details := []models.TickerResult{
		{Ticker: "AAPL", Metrics: &models.RiskMetrics{Ticker: "AAPL", HistoricalVolatility: 0.20}},
		{Ticker: "TSLA", Metrics: &models.RiskMetrics{Ticker: "TSLA", HistoricalVolatility: 0.60}},
		{Ticker: "BAD", Err: "no data"},
	}
	summary := models.PortfolioSummary{
		Tickers:           []string{"AAPL", "TSLA"},
		AverageVolatility: fptr(0.40),
		AverageVaR95:      fptr(-0.025),
		AverageCVaR95:     fptr(-0.031),
	}

	text := FallbackSummary(summary, details)
	if !strings.Contains(text, "Portfolio Risk Analysis (2 stocks)") {
		t.Fatalf("missing portfolio header:\n%s", text)
	}
	if !strings.Contains(text, "Risk Level: MODERATE") {
		t.Fatalf("expected MODERATE tier:\n%s", text)
	}
	// TSLA at 0.60 is above 1.3x the 0.40 average.
	if !strings.Contains(text, "1 holding(s)") {
		t.Fatalf("expected outlier callout:\n%s", text)
	}
}

func TestFallbackAllFailed(t *testing.T) {
	details := []models.TickerResult{
		{Ticker: "XXX", Err: "no data"},
		{Ticker: "YYY", Err: "no data"},
	}
	summary := models.PortfolioSummary{Tickers: []string{}}

	text := FallbackSummary(summary, details)
	if text == "" {
		t.Fatal("expected non-empty fallback for all-failed portfolio")
	}
	if !strings.Contains(text, "No ticker could be assessed") {
		t.Fatalf("unexpected all-failed text:\n%s", text)
	}
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:         "0",
		999:       "999",
		1000:      "1,000",
		100000:    "100,000",
		1234567:   "1,234,567",
		321.4:     "321",
		-4560:     "-4,560",
		100000.49: "100,000",
	}
	for in, want := range cases {
		if got := formatAmount(in); got != want {
			t.Fatalf("formatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildPromptStyles(t *testing.T) {
	d := &models.RiskMetrics{
		Ticker:               "MSFT",
		HistoricalVolatility: 0.25,
		VaR95:                -0.02,
		CVaR95:               -0.03,
		ForecastGARCH:        0.24,
		ForecastXGBoost:      0.26,
		ForecastLSTM:         0.23,
	}
	details := []models.TickerResult{{Ticker: "MSFT", Metrics: d}}
	summary := models.PortfolioSummary{
		Tickers:           []string{"MSFT"},
		AverageVolatility: fptr(0.25),
		AverageVaR95:      fptr(-0.02),
		AverageCVaR95:     fptr(-0.03),
	}

	seen := map[string]bool{}
	for _, style := range []string{StyleConcise, StyleDetailed, StyleTechnical} {
		p := BuildPrompt(summary, details, style)
		if !strings.Contains(p, "MSFT") {
			t.Fatalf("style %q prompt missing ticker:\n%s", style, p)
		}
		if seen[p] {
			t.Fatalf("style %q produced a duplicate prompt", style)
		}
		seen[p] = true
	}

	// Detailed and technical prompts carry the model forecasts.
	p := BuildPrompt(summary, details, StyleTechnical)
	if !strings.Contains(p, "GARCH") || !strings.Contains(p, "LSTM") {
		t.Fatalf("technical prompt missing forecasts:\n%s", p)
	}
}
