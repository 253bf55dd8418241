package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sartorproj/bikereg/bootstrap"
	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/ols"
	"github.com/sartorproj/bikereg/refine"
)

// Stage identifies a step of the selection pipeline. Stages run strictly in
// declaration order.
type Stage int

const (
	StageLoad Stage = iota
	StageBootstrapSelect
	StagePruneBySignificance
	StageRefitReduced
	StageFilterInfluential
	StageRefitFiltered
	StageDropCollinear
	StageRefitFinal
)

var stageNames = [...]string{
	StageLoad:                "load",
	StageBootstrapSelect:     "bootstrap-select",
	StagePruneBySignificance: "prune-by-significance",
	StageRefitReduced:        "refit-reduced",
	StageFilterInfluential:   "filter-influential",
	StageRefitFiltered:       "refit-filtered",
	StageDropCollinear:       "drop-collinear",
	StageRefitFinal:          "refit-final",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// StageError reports the stage at which a response's pipeline stopped.
type StageError struct {
	Response string
	Stage    Stage
	Err      error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline %s: %s: %v", e.Response, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Config holds configuration for a pipeline run.
type Config struct {
	Bootstrap *bootstrap.Config
	Alpha     float64  // significance level for pruning (default: 0.05)
	Drop      []string // fixed drop list, replaces the pruned predictors when set
	Filter    refine.FilterOptions
	Collinear string // predictor dropped before the final refit, "" to skip (default: "weekday")
}

// ReferenceDrop is the fixed drop list of the reference hourly analysis. It is
// not a default: set Config.Drop to it to reproduce that analysis.
var ReferenceDrop = []string{"instant", "yr", "mnth", "hr", "windspeed"}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		Bootstrap: bootstrap.DefaultConfig(),
		Alpha:     0.05,
		Filter:    refine.DefaultFilterOptions(),
		Collinear: "weekday",
	}
}

// Observer is called after every stage that produces a model, with the design
// the model was fitted or scored on.
type Observer func(response string, stage Stage, m *ols.Model, X *dataset.Frame)

// Result holds every intermediate model of one response's pipeline.
type Result struct {
	Response string
	Stage    Stage // last completed stage

	Selection *bootstrap.Result
	Pruned    []string // predictors flagged by significance pruning
	Dropped   []string // predictors actually removed before the reduced refit
	Reduced   *ols.Model

	Filtered      *refine.Filtered
	FilteredModel *ols.Model

	CollinearDropped bool
	Final            *ols.Model

	Err error
}

// Run executes the pipeline for one response. On failure the returned Result
// holds everything completed before the failing stage and the error is a
// *StageError.
func Run(ctx context.Context, X *dataset.Frame, y *dataset.Vector, config *Config, observe Observer) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if observe == nil {
		observe = func(string, Stage, *ols.Model, *dataset.Frame) {}
	}

	r := &Result{Response: y.Name, Stage: StageLoad}
	fail := func(stage Stage, err error) (*Result, error) {
		r.Err = &StageError{Response: y.Name, Stage: stage, Err: err}
		logger.Error("pipeline stage failed",
			zap.String("response", y.Name), zap.Stringer("stage", stage), zap.Error(err))
		return r, r.Err
	}
	done := func(stage Stage, fields ...zap.Field) {
		r.Stage = stage
		logger.Info("pipeline stage done",
			append([]zap.Field{zap.String("response", y.Name), zap.Stringer("stage", stage)}, fields...)...)
	}

	if err := X.AlignedWith(y); err != nil {
		return fail(StageLoad, err)
	}

	// Bootstrap selection
	sel, err := bootstrap.Select(ctx, X, y, config.Bootstrap)
	if err != nil {
		return fail(StageBootstrapSelect, err)
	}
	r.Selection = sel
	done(StageBootstrapSelect, zap.Float64("mse", sel.MSE), zap.Int("iteration", sel.Iteration))
	observe(y.Name, StageBootstrapSelect, sel.Model, X)

	// Significance pruning
	r.Pruned = refine.Prune(sel.Model, config.Alpha)
	r.Dropped = r.Pruned
	if len(config.Drop) > 0 {
		r.Dropped = append([]string(nil), config.Drop...)
	}
	done(StagePruneBySignificance, zap.Strings("pruned", r.Pruned), zap.Strings("dropped", r.Dropped))

	reducedX := X
	if len(r.Dropped) > 0 {
		if reducedX, err = X.Drop(r.Dropped...); err != nil {
			return fail(StageRefitReduced, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(StageRefitReduced, err)
	}
	if r.Reduced, err = ols.Fit(reducedX, y); err != nil {
		return fail(StageRefitReduced, err)
	}
	done(StageRefitReduced, zap.Float64("r2", r.Reduced.RSquared))
	observe(y.Name, StageRefitReduced, r.Reduced, reducedX)

	// Influence filter
	if r.Filtered, err = refine.FilterInfluential(r.Reduced, reducedX, y, config.Filter); err != nil {
		return fail(StageFilterInfluential, err)
	}
	done(StageFilterInfluential,
		zap.Int("removed", len(r.Filtered.Removed)), zap.Float64("threshold", r.Filtered.Threshold))

	if err := ctx.Err(); err != nil {
		return fail(StageRefitFiltered, err)
	}
	if r.FilteredModel, err = ols.Fit(r.Filtered.X, r.Filtered.Y); err != nil {
		return fail(StageRefitFiltered, err)
	}
	done(StageRefitFiltered, zap.Float64("r2", r.FilteredModel.RSquared))
	observe(y.Name, StageRefitFiltered, r.FilteredModel, r.Filtered.X)

	// Optional collinear drop
	finalX := r.Filtered.X
	if config.Collinear != "" && finalX.ColIndex(config.Collinear) >= 0 {
		if finalX, err = finalX.Drop(config.Collinear); err != nil {
			return fail(StageDropCollinear, err)
		}
		r.CollinearDropped = true
	}
	done(StageDropCollinear, zap.Bool("dropped", r.CollinearDropped))

	if !r.CollinearDropped {
		r.Final = r.FilteredModel
		done(StageRefitFinal)
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return fail(StageRefitFinal, err)
	}
	if r.Final, err = ols.Fit(finalX, r.Filtered.Y); err != nil {
		return fail(StageRefitFinal, err)
	}
	done(StageRefitFinal, zap.Float64("r2", r.Final.RSquared))
	observe(y.Name, StageRefitFinal, r.Final, finalX)

	return r, nil
}

// RunAll runs the pipeline for each response in turn. A failure is recorded
// in that response's Result.Err and never stops the others.
func RunAll(ctx context.Context, X *dataset.Frame, responses []*dataset.Vector, config *Config, observe Observer) []*Result {
	results := make([]*Result, len(responses))
	for i, y := range responses {
		r, err := Run(ctx, X, y, config, observe)
		if err != nil && r == nil {
			r = &Result{Response: y.Name, Err: err}
		}
		results[i] = r
	}
	return results
}
