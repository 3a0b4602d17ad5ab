package fitting

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	modelArtifactVersion = 1
	ridgeLambda          = 1e-3
)

// Scaler standardises each feature column to zero mean and unit variance.
// ModelID names the Regressor trained alongside it.
type Scaler struct {
	ModelID string    `json:"model_id,omitempty"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// FitScaler computes per-column mean and population standard deviation.
// Columns with zero spread get a scale of 1.
func FitScaler(samples [][]float64) (*Scaler, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples")
	}
	width := len(samples[0])
	s := &Scaler{Mean: make([]float64, width), Scale: make([]float64, width)}

	col := make([]float64, len(samples))
	for j := 0; j < width; j++ {
		for i, row := range samples {
			if len(row) != width {
				return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(row), width)
			}
			col[i] = row[j]
		}
		mean, variance := stat.MeanVariance(col, nil)
		s.Mean[j] = mean
		// MeanVariance is the unbiased estimate; rescale to the population one.
		n := float64(len(col))
		std := math.Sqrt(variance * (n - 1) / n)
		if std == 0 || math.IsNaN(std) {
			std = 1
		}
		s.Scale[j] = std
	}
	return s, nil
}

// Transform returns a scaled copy of x.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.Mean) || len(x) != len(s.Scale) {
		return nil, fmt.Errorf("scaler expects %d features, got %d", len(s.Mean), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return out, nil
}

// Regressor is a ridge linear model over scaled features.
type Regressor struct {
	Version   int       `json:"version"`
	ID        string    `json:"id,omitempty"`
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// FitRegressor solves (XᵀX + λI)w = Xᵀ(y - ȳ) on already scaled samples.
func FitRegressor(scaled [][]float64, labels []float64) (*Regressor, error) {
	n := len(scaled)
	if n == 0 || n != len(labels) {
		return nil, fmt.Errorf("got %d samples and %d labels", n, len(labels))
	}
	width := len(scaled[0])

	data := make([]float64, 0, n*width)
	for _, row := range scaled {
		data = append(data, row...)
	}
	x := mat.NewDense(n, width, data)

	intercept := stat.Mean(labels, nil)
	centered := make([]float64, n)
	for i, y := range labels {
		centered[i] = y - intercept
	}
	y := mat.NewVecDense(n, centered)

	var gram mat.Dense
	gram.Mul(x.T(), x)
	for i := 0; i < width; i++ {
		gram.Set(i, i, gram.At(i, i)+ridgeLambda)
	}

	var rhs mat.VecDense
	rhs.MulVec(x.T(), y)

	var w mat.VecDense
	if err := w.SolveVec(&gram, &rhs); err != nil {
		return nil, fmt.Errorf("solve ridge system: %w", err)
	}

	weights := make([]float64, width)
	for i := range weights {
		weights[i] = w.AtVec(i)
	}
	return &Regressor{Version: modelArtifactVersion, Weights: weights, Intercept: intercept}, nil
}

// Predict evaluates the model on a scaled feature vector.
func (r *Regressor) Predict(scaled []float64) (float64, error) {
	if len(scaled) != len(r.Weights) {
		return 0, fmt.Errorf("model expects %d features, got %d", len(r.Weights), len(scaled))
	}
	return r.Intercept + floats.Dot(r.Weights, scaled), nil
}
