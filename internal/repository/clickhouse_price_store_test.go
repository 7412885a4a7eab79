package repository

import (
	"testing"
	"time"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		period string
		want   time.Time
	}{
		{"1mo", time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)},
		{"3mo", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"6mo", time.Date(2023, 12, 15, 0, 0, 0, 0, time.UTC)},
		{"1y", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"2y", time.Date(2022, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"5y", time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"10y", time.Date(2014, 6, 15, 0, 0, 0, 0, time.UTC)},
		{"max", time.Time{}},
	}
	for _, tc := range cases {
		got, err := periodStart(tc.period, now)
		if err != nil {
			t.Fatalf("periodStart(%q): %v", tc.period, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("periodStart(%q) = %v, want %v", tc.period, got, tc.want)
		}
	}
}

func TestPeriodStartUnsupported(t *testing.T) {
	if _, err := periodStart("7y", time.Now()); err == nil {
		t.Fatal("expected error for unsupported period")
	}
}
