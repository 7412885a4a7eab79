package narrative

import (
	"fmt"
	"math"
	"strings"

	"RiskIQ/internal/domain/models"
)

// Illustrative notionals for dollar-loss examples in the fallback text.
var fallbackNotionals = []float64{10_000, 100_000}

// FallbackSummary builds the deterministic rule-based narrative. It
// needs no network access and must produce a complete result for any
// syntactically valid input, including the case where every ticker
// failed.
func FallbackSummary(summary models.PortfolioSummary, details []models.TickerResult) string {
	if len(summary.Tickers) == 0 {
		return "Risk Analysis\n\nNo ticker could be assessed: every requested symbol failed during data retrieval or computation. No risk metrics are available for this request."
	}
	if len(details) == 1 && details[0].Metrics != nil {
		return singleFallback(details[0].Metrics)
	}
	return portfolioFallback(summary, details)
}

func singleFallback(d *models.RiskMetrics) string {
	vol := d.HistoricalVolatility
	absVaR := math.Abs(d.VaR95)
	absCVaR := math.Abs(d.CVaR95)
	level := Classify(vol, d.CVaR95)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Risk Analysis\n\n", d.Ticker)
	fmt.Fprintf(&b, "Risk Level: %s\n", level)
	fmt.Fprintf(&b, "Historical Volatility: %.2f%%\n", vol*100)
	fmt.Fprintf(&b, "Value at Risk (95%%): %.2f%%\n", absVaR*100)
	fmt.Fprintf(&b, "Conditional VaR: %.2f%%\n\n", absCVaR*100)

	fmt.Fprintf(&b, "%s exhibits %s with annualized volatility of %.2f%%. ", d.Ticker, volatilityPhrase(level), vol*100)
	fmt.Fprintf(&b, "At 95%% confidence, the expected maximum daily loss (VaR) is %.2f%%, and the average loss beyond that threshold (CVaR) is %.2f%%. ", absVaR*100, absCVaR*100)

	b.WriteString(lossExamples(absVaR, absCVaR))
	b.WriteString(recommendation(level))
	return b.String()
}

func portfolioFallback(p models.PortfolioSummary, details []models.TickerResult) string {
	n := len(p.Tickers)
	avgVol := deref(p.AverageVolatility)
	absVaR := math.Abs(deref(p.AverageVaR95))
	absCVaR := math.Abs(deref(p.AverageCVaR95))
	level := Classify(avgVol, deref(p.AverageCVaR95))

	shown := p.Tickers
	var more string
	if n > 5 {
		shown = p.Tickers[:5]
		more = fmt.Sprintf("... (+%d more)", n-5)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Portfolio Risk Analysis (%d stocks)\n\n", n)
	fmt.Fprintf(&b, "Risk Level: %s\n", level)
	fmt.Fprintf(&b, "Average Volatility: %.2f%%\n", avgVol*100)
	fmt.Fprintf(&b, "Average VaR (95%%): %.2f%%\n", absVaR*100)
	fmt.Fprintf(&b, "Average CVaR: %.2f%%\n\n", absCVaR*100)
	fmt.Fprintf(&b, "Portfolio includes: %s%s\n\n", strings.Join(shown, ", "), more)
	fmt.Fprintf(&b, "The portfolio shows average annualized volatility of %.2f%% across %d stocks. ", avgVol*100, n)

	if outliers := highVolOutliers(details, avgVol); outliers > 0 {
		fmt.Fprintf(&b, "%d holding(s) run well above the portfolio average and dominate its risk. ", outliers)
	}

	b.WriteString(lossExamples(absVaR, absCVaR))
	fmt.Fprintf(&b, "Diversification across %d assets reduces single-name exposure but does not remove market risk. ", n)
	b.WriteString(recommendation(level))
	return b.String()
}

// highVolOutliers counts successful holdings whose volatility exceeds
// 1.3x the portfolio average.
func highVolOutliers(details []models.TickerResult, avgVol float64) int {
	if avgVol <= 0 {
		return 0
	}
	var n int
	for _, d := range details {
		if d.Metrics != nil && d.Metrics.HistoricalVolatility > avgVol*1.3 {
			n++
		}
	}
	return n
}

func lossExamples(absVaR, absCVaR float64) string {
	var b strings.Builder
	for _, notional := range fallbackNotionals {
		fmt.Fprintf(&b, "On a $%s position, a VaR-sized day loses about $%s and a tail day about $%s. ",
			formatAmount(notional), formatAmount(notional*absVaR), formatAmount(notional*absCVaR))
	}
	return b.String()
}

func volatilityPhrase(level RiskLevel) string {
	switch level {
	case RiskHigh:
		return "very high volatility"
	case RiskModerateHigh:
		return "elevated volatility"
	case RiskModerate:
		return "moderate volatility"
	case RiskLowModerate:
		return "mildly elevated volatility"
	default:
		return "relatively stable prices"
	}
}

func recommendation(level RiskLevel) string {
	switch level {
	case RiskHigh:
		return "Suitable only for aggressive allocations: keep position sizes small, use predefined exit levels, and monitor daily."
	case RiskModerateHigh:
		return "Fits aggressive-to-balanced portfolios: size positions conservatively and review at least weekly."
	case RiskModerate:
		return "Suitable for balanced portfolios with moderate risk tolerance; periodic rebalancing is advisable."
	case RiskLowModerate:
		return "Fits conservative-to-balanced portfolios; routine monthly monitoring is sufficient."
	default:
		return "Suitable for conservative portfolios seeking stability; standard periodic review is sufficient."
	}
}

// formatAmount renders a dollar amount with thousands separators and
// no decimals for whole values.
func formatAmount(v float64) string {
	whole := int64(math.Round(v))
	s := fmt.Sprintf("%d", whole)
	if whole < 0 {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if v < 0 {
		return "-" + out
	}
	return out
}
