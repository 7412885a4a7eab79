package forecast

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"RiskIQ/internal/domain/models"
)

func TestGARCHForecastOnSyntheticSeries(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	returns := make([]float64, 500)
	for i := range returns {
		returns[i] = rng.NormFloat64() * 0.015
	}

	m := NewGARCHModel()
	vol, err := m.Forecast(context.Background(), returns)
	if err != nil {
		t.Fatalf("unexpected fit error: %v", err)
	}
	if vol <= 0 || math.IsNaN(vol) || math.IsInf(vol, 0) {
		t.Fatalf("forecast vol = %v, want positive finite", vol)
	}
	// For an i.i.d. series the one-step forecast should land in the
	// neighborhood of the unconditional daily vol.
	if vol < 0.015/4 || vol > 0.015*4 {
		t.Fatalf("forecast vol %v implausibly far from 0.015", vol)
	}
}

func TestGARCHInsufficientData(t *testing.T) {
	m := NewGARCHModel()
	_, err := m.Forecast(context.Background(), make([]float64, garchMinObs-1))
	var ide *models.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestGARCHZeroVarianceSeries(t *testing.T) {
	returns := make([]float64, 100)
	for i := range returns {
		returns[i] = 0.01
	}
	m := NewGARCHModel()
	_, err := m.Forecast(context.Background(), returns)
	var mfe *models.ModelFitError
	if !errors.As(err, &mfe) {
		t.Fatalf("expected ModelFitError, got %v", err)
	}
}

func TestGARCHParamsAreStationary(t *testing.T) {
	for _, x := range [][]float64{{0, 0, 0}, {-3, 2, 5}, {1, -4, 9}} {
		omega, alpha, beta := garchParams(x)
		if omega <= 0 {
			t.Fatalf("omega = %v, want > 0", omega)
		}
		if alpha < 0 || beta < 0 || alpha+beta >= 1 {
			t.Fatalf("alpha=%v beta=%v violate stationarity", alpha, beta)
		}
	}
}
