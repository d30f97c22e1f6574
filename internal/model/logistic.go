package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// logistic is a linear model exported as {kind, feature_names, coefficients,
// intercept}.
type logistic struct {
	coef      []float64
	intercept float64
}

func buildLogistic(coef []float64, intercept float64) (*logistic, error) {
	if len(coef) == 0 {
		return nil, fmt.Errorf("logistic model has no coefficients")
	}
	for i, c := range coef {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("coefficient %d is %v", i, c)
		}
	}
	return &logistic{coef: coef, intercept: intercept}, nil
}

func (l *logistic) numFeatures() int {
	return len(l.coef)
}

func (l *logistic) positive(row []float64) float64 {
	return sigmoid(l.intercept + floats.Dot(l.coef, row))
}
