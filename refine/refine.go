package refine

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/ols"
)

// Prune returns the predictors whose p-value exceeds alpha, in model column
// order. The intercept is never returned.
func Prune(m *ols.Model, alpha float64) []string {
	var out []string
	for i, name := range m.Names {
		if name == ols.ConstName {
			continue
		}
		if m.PValues[i] > alpha {
			out = append(out, name)
		}
	}
	return out
}

// FilterOptions configures the Cook's distance filter.
type FilterOptions struct {
	Factor float64 // rows with D_i > Factor/n are removed (default: 4)
	Passes int     // refit-and-filter rounds (default: 1)
}

// DefaultFilterOptions returns the conventional 4/n single-pass filter.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{Factor: 4, Passes: 1}
}

// Filtered is the data left after influential rows were removed.
type Filtered struct {
	X         *dataset.Frame
	Y         *dataset.Vector
	Removed   []int // original row ids, ascending
	Positions []int // first-pass positions in the input, ascending
	Threshold float64
	Passes    int // passes that ran
}

// FilterInfluential removes the rows of X and y whose Cook's distance under m
// exceeds Factor/n. m must have been fitted on exactly X and y.
func FilterInfluential(m *ols.Model, X *dataset.Frame, y *dataset.Vector, opts FilterOptions) (*Filtered, error) {
	if opts.Factor <= 0 {
		opts.Factor = 4
	}
	if opts.Passes < 1 {
		opts.Passes = 1
	}
	if err := X.AlignedWith(y); err != nil {
		return nil, err
	}
	if err := dataset.CheckAligned("influence filter", m.Index(), X.Index); err != nil {
		return nil, err
	}

	out := &Filtered{X: X, Y: y}
	model := m
	for pass := 1; pass <= opts.Passes; pass++ {
		inf := model.Influence()
		threshold := inf.Threshold(opts.Factor)
		positions := inf.Exceeding(threshold)

		if pass == 1 {
			out.Threshold = threshold
			out.Positions = positions
		}
		out.Passes = pass
		if len(positions) == 0 {
			break
		}

		ids := make([]int, len(positions))
		for k, p := range positions {
			ids[k] = out.X.Index[p]
		}
		nextX, err := out.X.DropRows(ids)
		if err != nil {
			return nil, fmt.Errorf("refine: pass %d: %w", pass, err)
		}
		nextY, err := out.Y.DropRows(ids)
		if err != nil {
			return nil, fmt.Errorf("refine: pass %d: %w", pass, err)
		}
		out.X, out.Y = nextX, nextY
		out.Removed = append(out.Removed, ids...)

		logger.Debug("influential rows removed",
			zap.String("response", y.Name),
			zap.Int("pass", pass),
			zap.Int("removed", len(ids)),
			zap.Float64("threshold", threshold))

		if pass == opts.Passes {
			break
		}
		model, err = ols.Fit(out.X, out.Y)
		if err != nil {
			return nil, fmt.Errorf("refine: refit after pass %d: %w", pass, err)
		}
	}

	sort.Ints(out.Removed)
	return out, nil
}
