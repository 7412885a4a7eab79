package narrative

import "math"

// RiskLevel is the ordered 5-tier severity scale.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskLowModerate
	RiskModerate
	RiskModerateHigh
	RiskHigh
)

func (l RiskLevel) String() string {
	switch l {
	case RiskHigh:
		return "HIGH"
	case RiskModerateHigh:
		return "MODERATE-HIGH"
	case RiskModerate:
		return "MODERATE"
	case RiskLowModerate:
		return "LOW-MODERATE"
	default:
		return "LOW"
	}
}

// riskTiers is evaluated from the most severe tier down; crossing
// either cutoff (volatility OR |CVaR|) promotes to that tier. The
// cutoffs are a compatibility contract and must not drift.
var riskTiers = []struct {
	level RiskLevel
	vol   float64
	cvar  float64
}{
	{RiskHigh, 0.50, 0.12},
	{RiskModerateHigh, 0.40, 0.09},
	{RiskModerate, 0.30, 0.06},
	{RiskLowModerate, 0.20, 0.04},
}

// Classify maps average volatility and average CVaR to a risk tier.
func Classify(avgVol, avgCVaR float64) RiskLevel {
	absCVaR := math.Abs(avgCVaR)
	for _, tier := range riskTiers {
		if avgVol > tier.vol || absCVaR > tier.cvar {
			return tier.level
		}
	}
	return RiskLow
}
