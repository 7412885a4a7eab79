package forecast

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"RiskIQ/internal/domain/models"
)

const testXGBArtifact = `{
  "base_score": 0.01,
  "feature_names": ["RollingVolatility", "RollingMean", "Lag1", "Lag2", "Lag3"],
  "trees": [
    {"nodes": [
      {"feature": 0, "threshold": 0.05, "left": 1, "right": 2},
      {"feature": -1, "value": 0.002},
      {"feature": -1, "value": 0.04}
    ]}
  ]
}`

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	return path
}

func calmReturns(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = 0.001
		} else {
			out[i] = -0.001
		}
	}
	return out
}

func TestXGBoostPredictsFromLatestFeatureRow(t *testing.T) {
	path := writeArtifact(t, "xgb.json", testXGBArtifact)
	m := NewXGBoostModel(path)

	vol, err := m.Forecast(context.Background(), calmReturns(40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Rolling vol of the alternating series is ~0.001, so the tree
	// routes left: 0.01 base + 0.002 leaf.
	if math.Abs(vol-0.012) > 1e-12 {
		t.Fatalf("prediction = %v, want 0.012", vol)
	}
}

func TestXGBoostMissingArtifact(t *testing.T) {
	m := NewXGBoostModel(filepath.Join(t.TempDir(), "absent.json"))
	_, err := m.Forecast(context.Background(), calmReturns(40))
	var mnf *models.ModelNotFoundError
	if !errors.As(err, &mnf) {
		t.Fatalf("expected ModelNotFoundError, got %v", err)
	}
}

func TestXGBoostInsufficientData(t *testing.T) {
	path := writeArtifact(t, "xgb.json", testXGBArtifact)
	m := NewXGBoostModel(path)
	_, err := m.Forecast(context.Background(), calmReturns(xgbMinObs-1))
	var ide *models.InsufficientDataError
	if !errors.As(err, &ide) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
}

func TestBuildFeatureRowSchema(t *testing.T) {
	returns := make([]float64, 30)
	for i := range returns {
		returns[i] = float64(i) * 0.001
	}
	row := BuildFeatureRow(returns)
	if len(row) != 5 {
		t.Fatalf("feature row length %d, want 5", len(row))
	}
	// Lags are the returns immediately preceding the prediction row.
	if row[2] != returns[28] || row[3] != returns[27] || row[4] != returns[26] {
		t.Fatalf("lag features wrong: %v", row[2:])
	}
}

func TestArtifactLoadedOncePerPath(t *testing.T) {
	path := writeArtifact(t, "xgb.json", testXGBArtifact)
	m := NewXGBoostModel(path)
	if _, err := m.Forecast(context.Background(), calmReturns(40)); err != nil {
		t.Fatalf("first load: %v", err)
	}
	// Corrupt the file; the cached artifact must keep serving.
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if _, err := m.Forecast(context.Background(), calmReturns(40)); err != nil {
		t.Fatalf("cached load should not re-read the file: %v", err)
	}
}
