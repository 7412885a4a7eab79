package risk

import (
	"errors"
	"math"
	"testing"

	"RiskIQ/internal/domain/models"
)

func bar(date string, close float64) models.PriceBar {
	return models.PriceBar{Date: date, Close: close}
}

func TestComputeReturns(t *testing.T) {
	bars := []models.PriceBar{
		bar("2024-01-02", 100),
		bar("2024-01-03", 110),
		bar("2024-01-04", 99),
	}
	points, err := ComputeReturns(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 returns, got %d", len(points))
	}
	if math.Abs(points[0].Return-0.10) > 1e-12 {
		t.Fatalf("first return = %v, want 0.10", points[0].Return)
	}
	if math.Abs(points[1].Return-(-0.10)) > 1e-12 {
		t.Fatalf("second return = %v, want -0.10", points[1].Return)
	}
	if points[0].Date != "2024-01-03" {
		t.Fatalf("first return date %s, want 2024-01-03", points[0].Date)
	}
}

func TestComputeReturnsDropsMissingCloses(t *testing.T) {
	bars := []models.PriceBar{
		bar("2024-01-02", 100),
		bar("2024-01-03", 0), // missing close
		bar("2024-01-04", 120),
	}
	points, err := ComputeReturns(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 return, got %d", len(points))
	}
	if math.Abs(points[0].Return-0.20) > 1e-12 {
		t.Fatalf("return = %v, want 0.20 over the gap", points[0].Return)
	}
}

func TestComputeReturnsInsufficientData(t *testing.T) {
	cases := [][]models.PriceBar{
		nil,
		{bar("2024-01-02", 100)},
		{bar("2024-01-02", 0), bar("2024-01-03", 0)},
	}
	for _, bars := range cases {
		_, err := ComputeReturns(bars)
		var ide *models.InsufficientDataError
		if !errors.As(err, &ide) {
			t.Fatalf("expected InsufficientDataError, got %v", err)
		}
	}
}

func TestChartTail(t *testing.T) {
	points := make([]models.PricePoint, 300)
	for i := range points {
		points[i].Close = float64(i)
	}
	tail := ChartTail(points, 252)
	if len(tail) != 252 {
		t.Fatalf("tail length %d, want 252", len(tail))
	}
	if tail[len(tail)-1].Close != 299 {
		t.Fatalf("tail must keep the most recent observations")
	}
	short := ChartTail(points[:10], 252)
	if len(short) != 10 {
		t.Fatalf("short series should pass through, got %d", len(short))
	}
}
