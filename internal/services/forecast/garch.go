package forecast

import (
	"context"
	"math"

	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"RiskIQ/internal/domain/models"
)

// garchMinObs is the smallest series the fitter accepts: three free
// parameters estimated from squared residuals need some history to
// identify.
const garchMinObs = 30

// GARCHModel forecasts next-period volatility from a GARCH(1,1) fit:
//
//	h_t = omega + alpha*e_{t-1}^2 + beta*h_{t-1}
//
// with a constant mean. Parameters are estimated by Gaussian maximum
// likelihood via Nelder-Mead on an unconstrained reparameterization
// (omega > 0, alpha + beta < 1 by construction).
type GARCHModel struct{}

func NewGARCHModel() *GARCHModel { return &GARCHModel{} }

func (m *GARCHModel) Name() string { return "garch" }

func (m *GARCHModel) Forecast(ctx context.Context, returns []float64) (float64, error) {
	if len(returns) < garchMinObs {
		return 0, &models.InsufficientDataError{Op: "garch_fit", Need: garchMinObs, Have: len(returns)}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	// Fit on percent returns; raw daily returns put the likelihood
	// surface in a badly scaled region.
	scaled := make([]float64, len(returns))
	for i, r := range returns {
		scaled[i] = r * 100
	}
	mu := stat.Mean(scaled, nil)
	resid := make([]float64, len(scaled))
	for i, r := range scaled {
		resid[i] = r - mu
	}
	sampleVar := stat.Variance(scaled, nil)
	if sampleVar <= 0 {
		return 0, &models.ModelFitError{Model: "garch", Reason: "zero-variance return series"}
	}

	nll := func(x []float64) float64 {
		omega, alpha, beta := garchParams(x)
		return garchNLL(resid, sampleVar, omega, alpha, beta)
	}

	problem := optimize.Problem{Func: nll}
	// Start near a typical daily-vol persistence profile.
	x0 := []float64{math.Log(0.05 * sampleVar), logit(0.08), logit(0.90 / (1 - 0.08))}

	result, err := optimize.Minimize(problem, x0, &optimize.Settings{
		MajorIterations: 1000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Iterations: 200,
		},
	}, &optimize.NelderMead{})
	if err != nil {
		return 0, &models.ModelFitError{Model: "garch", Reason: err.Error()}
	}
	if math.IsNaN(result.F) || math.IsInf(result.F, 0) {
		return 0, &models.ModelFitError{Model: "garch", Reason: "likelihood diverged"}
	}

	omega, alpha, beta := garchParams(result.X)

	// One-step-ahead conditional variance.
	h := sampleVar
	for _, e := range resid {
		h = omega + alpha*e*e + beta*h
	}
	if h <= 0 || math.IsNaN(h) {
		return 0, &models.ModelFitError{Model: "garch", Reason: "non-positive forecast variance"}
	}
	return math.Sqrt(h) / 100, nil
}

// garchParams maps the unconstrained optimizer vector to valid
// GARCH(1,1) parameters: omega > 0, 0 < alpha, 0 < beta, alpha+beta < 1.
func garchParams(x []float64) (omega, alpha, beta float64) {
	omega = math.Exp(x[0])
	alpha = sigmoid(x[1])
	beta = sigmoid(x[2]) * (1 - alpha)
	return omega, alpha, beta
}

func garchNLL(resid []float64, h0, omega, alpha, beta float64) float64 {
	h := h0
	var ll float64
	for _, e := range resid {
		if h <= 0 {
			return math.Inf(1)
		}
		ll += math.Log(h) + e*e/h
		h = omega + alpha*e*e + beta*h
	}
	return 0.5 * ll
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

func logit(p float64) float64 { return math.Log(p / (1 - p)) }
