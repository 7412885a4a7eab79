package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/stat"

	"RiskIQ/internal/domain/models"
)

const (
	// xgbWindow is the rolling window the artifact was trained with.
	xgbWindow = 20
	// xgbLags is the number of single-period return lags in the schema.
	xgbLags = 3
	// xgbMinObs covers the rolling window plus the lag offsets.
	xgbMinObs = xgbWindow + xgbLags
)

// XGBoostModel predicts next-period volatility with a pretrained
// gradient-boosted tree ensemble exported as a JSON tree dump. The
// feature schema is fixed and must match training:
// [RollingVolatility20, RollingMean20, Lag1, Lag2, Lag3].
type XGBoostModel struct {
	path string
}

func NewXGBoostModel(path string) *XGBoostModel { return &XGBoostModel{path: path} }

func (m *XGBoostModel) Name() string { return "xgboost" }

type xgbArtifact struct {
	BaseScore float64   `json:"base_score"`
	Features  []string  `json:"feature_names"`
	Trees     []xgbTree `json:"trees"`
}

type xgbTree struct {
	Nodes []xgbNode `json:"nodes"`
}

// xgbNode is a single node: internal nodes carry a feature index and
// split threshold, leaves carry Feature = -1 and a value.
type xgbNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

func (m *XGBoostModel) Forecast(ctx context.Context, returns []float64) (float64, error) {
	if len(returns) < xgbMinObs {
		return 0, &models.InsufficientDataError{Op: "xgboost_features", Need: xgbMinObs, Have: len(returns)}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	art, err := loadXGBArtifact(m.path)
	if err != nil {
		return 0, err
	}

	row := BuildFeatureRow(returns)
	return art.predict(row), nil
}

// BuildFeatureRow computes the most recent complete feature row:
// 20-period rolling sample stdev and mean of returns, plus the three
// preceding single-period returns.
func BuildFeatureRow(returns []float64) []float64 {
	n := len(returns)
	window := returns[n-xgbWindow:]
	return []float64{
		stat.StdDev(window, nil),
		stat.Mean(window, nil),
		returns[n-2],
		returns[n-3],
		returns[n-4],
	}
}

func loadXGBArtifact(path string) (*xgbArtifact, error) {
	v, err := artifacts.load(path, func(p string) (any, error) {
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &models.ModelNotFoundError{Model: "xgboost", Path: p}
			}
			return nil, fmt.Errorf("read xgboost artifact: %w", err)
		}
		var art xgbArtifact
		if err := json.Unmarshal(b, &art); err != nil {
			return nil, fmt.Errorf("parse xgboost artifact: %w", err)
		}
		if len(art.Trees) == 0 {
			return nil, fmt.Errorf("xgboost artifact %s has no trees", p)
		}
		return &art, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*xgbArtifact), nil
}

func (a *xgbArtifact) predict(features []float64) float64 {
	sum := a.BaseScore
	for _, t := range a.Trees {
		sum += t.score(features)
	}
	return sum
}

func (t *xgbTree) score(features []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return n.Value
		}
		if features[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
