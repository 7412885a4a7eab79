package narrative

import (
	"fmt"
	"strings"

	"RiskIQ/internal/domain/models"
)

// Style names accepted by the generator.
const (
	StyleConcise   = "concise"
	StyleDetailed  = "detailed"
	StyleTechnical = "technical"
)

// BuildPrompt renders a style-specific prompt embedding every computed
// metric. Single-ticker requests get a per-stock prompt; anything
// larger gets the portfolio form.
func BuildPrompt(summary models.PortfolioSummary, details []models.TickerResult, style string) string {
	if len(details) == 1 && details[0].Metrics != nil {
		return singlePrompt(details[0].Metrics, style)
	}
	return portfolioPrompt(summary, style)
}

func singlePrompt(d *models.RiskMetrics, style string) string {
	switch style {
	case StyleDetailed:
		return fmt.Sprintf(`Detailed risk analysis:
%s
Current: Vol=%.4f, VaR=%.4f, CVaR=%.4f
Forecast: GARCH=%.5f, XGBoost=%.5f, LSTM=%.5f

Write a paragraph on: risk level, future outlook, investment advice.`,
			d.Ticker, d.HistoricalVolatility, d.VaR95, d.CVaR95,
			d.ForecastGARCH, d.ForecastXGBoost, d.ForecastLSTM)
	case StyleTechnical:
		return fmt.Sprintf(`Technical analysis for %s:
sigma=%.4f, VaR95=%.4f, CVaR95=%.4f
Forecasts: GARCH=%.5f, XGBoost=%.5f, LSTM=%.5f
Interpret these risk metrics.`,
			d.Ticker, d.HistoricalVolatility, d.VaR95, d.CVaR95,
			d.ForecastGARCH, d.ForecastXGBoost, d.ForecastLSTM)
	default:
		return fmt.Sprintf(`Analyze this stock in 2-3 sentences:
%s: Volatility=%.4f, VaR(95%%)=%.4f, CVaR=%.4f
Explain the risk level for investors.`,
			d.Ticker, d.HistoricalVolatility, d.VaR95, d.CVaR95)
	}
}

func portfolioPrompt(p models.PortfolioSummary, style string) string {
	n := len(p.Tickers)
	tickers := strings.Join(p.Tickers, ", ")
	avgVol := deref(p.AverageVolatility)
	avgVaR := deref(p.AverageVaR95)
	avgCVaR := deref(p.AverageCVaR95)

	switch style {
	case StyleDetailed:
		return fmt.Sprintf(`Portfolio analysis:
%d stocks: %s
Average Vol=%.4f, VaR=%.4f, CVaR=%.4f

Assess: overall risk, diversification benefit, recommendation.`,
			n, tickers, avgVol, avgVaR, avgCVaR)
	case StyleTechnical:
		return fmt.Sprintf(`Technical portfolio metrics:
N=%d, mean sigma=%.4f, VaR95=%.4f, CVaR95=%.4f
Interpret these risk metrics.`,
			n, avgVol, avgVaR, avgCVaR)
	default:
		return fmt.Sprintf(`Summarize portfolio risk in 2-3 sentences:
%d stocks: %s
Avg Vol=%.4f, VaR=%.4f, CVaR=%.4f`,
			n, tickers, avgVol, avgVaR, avgCVaR)
	}
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
