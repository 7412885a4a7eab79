package service

import "context"

// VolatilityModel produces one next-period volatility point estimate
// from a daily return series. The three ensemble members implement
// this independently; one member's failure must not affect the others.
type VolatilityModel interface {
	Name() string
	Forecast(ctx context.Context, returns []float64) (float64, error)
}
