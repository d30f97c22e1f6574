// Package model owns the trained fraud classifier. A Handle is built once at
// startup and is read-only afterwards, so any number of goroutines may call
// Infer at the same time.
package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"fraud-inference/internal/features"
)

// classifier is the black-box contract of a trained binary model: the
// probability of the positive class for one feature row.
type classifier interface {
	positive(row []float64) float64
	numFeatures() int
}

// Info describes the loaded artifact.
type Info struct {
	Kind     string `json:"kind"`
	Trees    int    `json:"trees,omitempty"`
	Features int    `json:"features"`
	Source   string `json:"source"`
	Version  string `json:"version,omitempty"`
}

// Handle is an immutable loaded model.
type Handle struct {
	clf  classifier
	info Info
}

func newHandle(clf classifier, info Info) *Handle {
	info.Features = clf.numFeatures()
	return &Handle{clf: clf, info: info}
}

// Info returns a description of the artifact behind h.
func (h *Handle) Info() Info {
	return h.info
}

// Width is the number of features every input row must have.
func (h *Handle) Width() int {
	return h.clf.numFeatures()
}

// PredictProba scores every row of X and returns an n×2 matrix holding the
// probabilities of the negative and the positive class.
func (h *Handle) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if c != h.Width() {
		return nil, &InferenceError{Reason: fmt.Sprintf("feature matrix has %d columns, model expects %d", c, h.Width())}
	}

	out := mat.NewDense(r, 2, nil)
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		p := h.clf.positive(row)
		if math.IsNaN(p) || p < 0 || p > 1 {
			return nil, &InferenceError{Reason: fmt.Sprintf("row %d: probability %v outside [0,1]", i, p)}
		}
		out.Set(i, 0, 1-p)
		out.Set(i, 1, p)
	}
	return out, nil
}

// Infer returns the fraud probability of a single encoded transaction.
func (h *Handle) Infer(v features.Vector) (float64, error) {
	if len(v) != h.Width() {
		return 0, &InferenceError{Reason: fmt.Sprintf("vector has %d features, model expects %d", len(v), h.Width())}
	}
	proba, err := h.PredictProba(mat.NewDense(1, len(v), v))
	if err != nil {
		return 0, err
	}
	return proba.At(0, 1), nil
}
