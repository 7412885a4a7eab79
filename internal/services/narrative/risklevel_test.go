package narrative

import "testing"

func TestClassifyCutoffs(t *testing.T) {
	cases := []struct {
		name string
		vol  float64
		cvar float64
		want RiskLevel
	}{
		{"calm", 0.10, -0.01, RiskLow},
		{"vol just over low cutoff", 0.21, -0.01, RiskLowModerate},
		{"cvar alone promotes", 0.10, -0.05, RiskLowModerate},
		{"moderate by vol", 0.31, -0.02, RiskModerate},
		{"moderate-high by cvar", 0.10, -0.10, RiskModerateHigh},
		{"high by vol", 0.544, -0.02, RiskHigh},
		{"high by cvar", 0.10, -0.13, RiskHigh},
		{"exact cutoff stays below", 0.50, -0.12, RiskModerateHigh},
		{"positive cvar uses magnitude", 0.10, 0.13, RiskHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify(tc.vol, tc.cvar)
			if got != tc.want {
				t.Fatalf("Classify(%v, %v) = %s, want %s", tc.vol, tc.cvar, got, tc.want)
			}
		})
	}
}

func TestClassifyMonotonicInVolatility(t *testing.T) {
	prev := RiskLow
	for vol := 0.0; vol <= 0.8; vol += 0.01 {
		got := Classify(vol, 0)
		if got < prev {
			t.Fatalf("tier dropped from %s to %s at vol=%v", prev, got, vol)
		}
		prev = got
	}
	if prev != RiskHigh {
		t.Fatalf("expected HIGH at vol=0.8, got %s", prev)
	}
}

func TestRiskLevelString(t *testing.T) {
	want := map[RiskLevel]string{
		RiskLow:          "LOW",
		RiskLowModerate:  "LOW-MODERATE",
		RiskModerate:     "MODERATE",
		RiskModerateHigh: "MODERATE-HIGH",
		RiskHigh:         "HIGH",
	}
	for level, s := range want {
		if level.String() != s {
			t.Fatalf("String(%d) = %q, want %q", level, level.String(), s)
		}
	}
}
