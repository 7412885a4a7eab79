package risk

import (
	"RiskIQ/internal/domain/models"
)

// ComputeReturns derives daily percentage changes from a chronological
// bar series: r_i = close_i/close_{i-1} - 1. Bars without a usable
// close are dropped before differencing, so the first remaining bar
// produces no return and the output is one shorter than the cleaned
// input. Order is preserved; time-series models depend on it.
func ComputeReturns(bars []models.PriceBar) ([]models.PricePoint, error) {
	valid := make([]models.PriceBar, 0, len(bars))
	for _, b := range bars {
		if b.Close > 0 {
			valid = append(valid, b)
		}
	}
	if len(valid) < 2 {
		return nil, &models.InsufficientDataError{Op: "compute_returns", Need: 2, Have: len(valid)}
	}

	out := make([]models.PricePoint, 0, len(valid)-1)
	for i := 1; i < len(valid); i++ {
		out = append(out, models.PricePoint{
			Date:   valid[i].Date,
			Close:  valid[i].Close,
			Return: valid[i].Close/valid[i-1].Close - 1,
		})
	}
	return out, nil
}

// ReturnValues extracts the raw return series from chart points.
func ReturnValues(points []models.PricePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Return
	}
	return out
}

// ChartTail bounds the chart series to the most recent n observations.
func ChartTail(points []models.PricePoint, n int) []models.PricePoint {
	if len(points) <= n {
		return points
	}
	return points[len(points)-n:]
}
