package ols

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrSingular means X'X cannot be inverted: a constant, duplicated or
	// linearly dependent column.
	ErrSingular = errors.New("design matrix is singular or near-singular")
	// ErrDegreesOfFreedom means there are no more observations than parameters.
	ErrDegreesOfFreedom = errors.New("not enough observations for the number of parameters")
	// ErrMissingPredictor is returned by Predict when X lacks a model column.
	ErrMissingPredictor = errors.New("missing predictor")
)

// FittingError reports a design that cannot produce a valid OLS fit.
type FittingError struct {
	Response string
	NObs     int
	NParams  int
	Cond     float64 // condition number estimate, when known
	Err      error
}

func (e *FittingError) Error() string {
	msg := fmt.Sprintf("ols: fit %s (n=%d, k=%d): %v", e.Response, e.NObs, e.NParams, e.Err)
	if e.Cond != 0 && !math.IsNaN(e.Cond) {
		msg += fmt.Sprintf(" (cond %.3g)", e.Cond)
	}
	return msg
}

func (e *FittingError) Unwrap() error {
	return e.Err
}

// IsFittingError reports whether err is, or wraps, a *FittingError.
func IsFittingError(err error) bool {
	var fe *FittingError
	return errors.As(err, &fe)
}
