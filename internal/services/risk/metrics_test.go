package risk

import (
	"errors"
	"math"
	"testing"

	"RiskIQ/internal/domain/models"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestHistoricalVolatilityAnnualizes(t *testing.T) {
	returns := []float64{0.01, -0.02, 0.015, -0.005, 0.02, -0.01}

	// sample stdev by hand
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))
	var ss float64
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	sigma := math.Sqrt(ss / float64(len(returns)-1))

	got, err := HistoricalVolatility(returns)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := sigma * math.Sqrt(252)
	if !almostEqual(got, want, 1e-12) {
		t.Fatalf("vol = %v, want %v", got, want)
	}
}

func TestHistoricalVolatilityInsufficientData(t *testing.T) {
	for _, returns := range [][]float64{nil, {0.01}} {
		_, err := HistoricalVolatility(returns)
		var ide *models.InsufficientDataError
		if !errors.As(err, &ide) {
			t.Fatalf("expected InsufficientDataError for %v, got %v", returns, err)
		}
	}
}

func TestValueAtRiskIsNegativeForCenteredReturns(t *testing.T) {
	returns := []float64{0.01, -0.01, 0.02, -0.02, 0.005, -0.005, 0.015, -0.015}
	v, err := ValueAtRisk(returns, DefaultConfidence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v >= 0 {
		t.Fatalf("expected negative VaR, got %v", v)
	}
}

func TestValueAtRiskZeroVariance(t *testing.T) {
	returns := []float64{0.01, 0.01, 0.01, 0.01}
	v, err := ValueAtRisk(returns, DefaultConfidence)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(v, 0.01, 1e-12) {
		t.Fatalf("degenerate VaR = %v, want mean 0.01", v)
	}
}

func TestCVaRAtLeastAsSevereAsVaR(t *testing.T) {
	returns := []float64{0.03, -0.05, 0.01, -0.02, 0.04, -0.06, 0.02, -0.01, 0.005, -0.03}
	v, err := ValueAtRisk(returns, DefaultConfidence)
	if err != nil {
		t.Fatalf("VaR error: %v", err)
	}
	cv, err := ConditionalValueAtRisk(returns, DefaultConfidence)
	if err != nil {
		t.Fatalf("CVaR error: %v", err)
	}
	if cv > v {
		t.Fatalf("CVaR %v less severe than VaR %v", cv, v)
	}
}

func TestCVaREmptyTailFallsBackToVaR(t *testing.T) {
	// Tight cluster: the parametric 5th percentile can sit below the
	// sample minimum, leaving no observation in the tail.
	returns := []float64{0.0100, 0.0101, 0.0100, 0.0101, 0.0100, 0.0101}
	v, err := ValueAtRisk(returns, DefaultConfidence)
	if err != nil {
		t.Fatalf("VaR error: %v", err)
	}
	cv, err := ConditionalValueAtRisk(returns, DefaultConfidence)
	if err != nil {
		t.Fatalf("CVaR error: %v", err)
	}
	min := returns[0]
	for _, r := range returns {
		if r < min {
			min = r
		}
	}
	if v < min && cv != v {
		t.Fatalf("empty tail: CVaR = %v, want VaR %v", cv, v)
	}
	if cv == 0 {
		t.Fatalf("empty tail must not silently become zero")
	}
}

func TestRound5(t *testing.T) {
	if got := Round5(0.123456789); got != 0.12346 {
		t.Fatalf("Round5 = %v", got)
	}
}
