package risk

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"RiskIQ/internal/domain/models"
)

// TradingDaysPerYear is the annualization base for daily returns.
const TradingDaysPerYear = 252

// DefaultConfidence is the confidence level used for VaR and CVaR
// unless a caller overrides it.
const DefaultConfidence = 0.95

// HistoricalVolatility computes annualized volatility as the sample
// standard deviation of daily returns scaled by sqrt(252).
func HistoricalVolatility(returns []float64) (float64, error) {
	if len(returns) < 2 {
		return 0, &models.InsufficientDataError{Op: "historical_volatility", Need: 2, Have: len(returns)}
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear), nil
}

// ValueAtRisk computes parametric VaR: the inverse normal CDF at
// (1 - confidence) for a normal fitted to the sample mean and stdev.
// This assumes normality of returns; it is not historical-simulation
// VaR. The result is typically negative (a loss threshold).
func ValueAtRisk(returns []float64, confidence float64) (float64, error) {
	if len(returns) < 2 {
		return 0, &models.InsufficientDataError{Op: "value_at_risk", Need: 2, Have: len(returns)}
	}
	mu := stat.Mean(returns, nil)
	sigma := stat.StdDev(returns, nil)
	if sigma == 0 {
		// Degenerate distribution: every quantile collapses to the mean.
		return mu, nil
	}
	dist := distuv.Normal{Mu: mu, Sigma: sigma}
	return dist.Quantile(1 - confidence), nil
}

// ConditionalValueAtRisk computes expected shortfall: the mean of all
// returns strictly below the VaR threshold. When no observation falls
// below VaR (possible on very short or low-variance series) the tail
// mean is undefined; this implementation returns the VaR itself as the
// limiting value rather than zero. See DESIGN.md.
func ConditionalValueAtRisk(returns []float64, confidence float64) (float64, error) {
	threshold, err := ValueAtRisk(returns, confidence)
	if err != nil {
		return 0, err
	}
	var sum float64
	var n int
	for _, r := range returns {
		if r < threshold {
			sum += r
			n++
		}
	}
	if n == 0 {
		return threshold, nil
	}
	return sum / float64(n), nil
}

// Round5 rounds to five decimal places, the precision carried in
// response payloads.
func Round5(v float64) float64 {
	return math.Round(v*1e5) / 1e5
}
