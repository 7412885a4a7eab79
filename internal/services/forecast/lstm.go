package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"RiskIQ/internal/domain/models"
)

// lstmSeqLen is the fixed input window the artifact was trained on.
const lstmSeqLen = 10

// LSTMModel predicts next-period volatility with a pretrained
// recurrent network exported as a JSON weight dump. The forward pass
// consumes the most recent lstmSeqLen returns as a univariate
// sequence and applies a final linear head to the last hidden state.
type LSTMModel struct {
	path string
}

func NewLSTMModel(path string) *LSTMModel { return &LSTMModel{path: path} }

func (m *LSTMModel) Name() string { return "lstm" }

type lstmArtifact struct {
	InputSize  int         `json:"input_size"`
	HiddenSize int         `json:"hidden_size"`
	Layers     []lstmLayer `json:"layers"`
	FCWeight   [][]float64 `json:"fc_weight"`
	FCBias     []float64   `json:"fc_bias"`
}

// lstmLayer holds stacked gate weights in i, f, g, o order, matching
// the exporter's convention.
type lstmLayer struct {
	WIH [][]float64 `json:"weight_ih"`
	WHH [][]float64 `json:"weight_hh"`
	BIH []float64   `json:"bias_ih"`
	BHH []float64   `json:"bias_hh"`
}

func (m *LSTMModel) Forecast(ctx context.Context, returns []float64) (float64, error) {
	if len(returns) < lstmSeqLen {
		return 0, &models.InsufficientDataError{Op: "lstm_window", Need: lstmSeqLen, Have: len(returns)}
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	art, err := loadLSTMArtifact(m.path)
	if err != nil {
		return 0, err
	}

	window := returns[len(returns)-lstmSeqLen:]
	return art.forward(window), nil
}

func loadLSTMArtifact(path string) (*lstmArtifact, error) {
	v, err := artifacts.load(path, func(p string) (any, error) {
		b, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &models.ModelNotFoundError{Model: "lstm", Path: p}
			}
			return nil, fmt.Errorf("read lstm artifact: %w", err)
		}
		var art lstmArtifact
		if err := json.Unmarshal(b, &art); err != nil {
			return nil, fmt.Errorf("parse lstm artifact: %w", err)
		}
		if err := art.validate(); err != nil {
			return nil, fmt.Errorf("lstm artifact %s: %w", p, err)
		}
		return &art, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*lstmArtifact), nil
}

func (a *lstmArtifact) validate() error {
	if a.HiddenSize <= 0 || len(a.Layers) == 0 {
		return fmt.Errorf("missing layers or hidden size")
	}
	for i, l := range a.Layers {
		if len(l.WIH) != 4*a.HiddenSize || len(l.WHH) != 4*a.HiddenSize {
			return fmt.Errorf("layer %d: gate weight rows != 4*hidden", i)
		}
		if len(l.BIH) != 4*a.HiddenSize || len(l.BHH) != 4*a.HiddenSize {
			return fmt.Errorf("layer %d: gate bias length != 4*hidden", i)
		}
	}
	if len(a.FCWeight) != 1 || len(a.FCWeight[0]) != a.HiddenSize {
		return fmt.Errorf("fc head shape mismatch")
	}
	return nil
}

// forward runs the stacked recurrence with zero initial states and
// returns the scalar output of the linear head on the final hidden
// state of the top layer. Each layer consumes the previous layer's
// full hidden sequence; the first layer sees the univariate returns.
func (a *lstmArtifact) forward(seq []float64) float64 {
	hidden := a.HiddenSize

	inputs := make([][]float64, len(seq))
	for t, r := range seq {
		inputs[t] = []float64{r}
	}

	for _, layer := range a.Layers {
		h := make([]float64, hidden)
		c := make([]float64, hidden)
		outputs := make([][]float64, len(inputs))
		for t, x := range inputs {
			gates := make([]float64, 4*hidden)
			for r := range gates {
				v := layer.BIH[r] + layer.BHH[r]
				for k, xv := range x {
					v += layer.WIH[r][k] * xv
				}
				for k := 0; k < hidden; k++ {
					v += layer.WHH[r][k] * h[k]
				}
				gates[r] = v
			}
			for k := 0; k < hidden; k++ {
				ig := sigmoid(gates[k])
				fg := sigmoid(gates[hidden+k])
				gg := math.Tanh(gates[2*hidden+k])
				og := sigmoid(gates[3*hidden+k])
				c[k] = fg*c[k] + ig*gg
				h[k] = og * math.Tanh(c[k])
			}
			outputs[t] = append([]float64(nil), h...)
		}
		inputs = outputs
	}

	hLast := inputs[len(inputs)-1]
	out := a.FCBias[0]
	for k, w := range a.FCWeight[0] {
		out += w * hLast[k]
	}
	return out
}
