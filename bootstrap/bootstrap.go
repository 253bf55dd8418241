package bootstrap

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/ols"
)

// ErrNoValidModel is returned when no bootstrap iteration produced a model.
var ErrNoValidModel = errors.New("bootstrap: no valid model")

// Config holds configuration for bootstrap selection.
type Config struct {
	Repeats int           // Number of resamples (default: 100)
	Seed    int64         // Iteration i draws with Seed+i (default: 42)
	Workers int           // Concurrent fits (default: 1)
	Budget  time.Duration // Wall-time bound, 0 disables it
}

// DefaultConfig returns the default bootstrap configuration.
func DefaultConfig() *Config {
	return &Config{
		Repeats: 100,
		Seed:    42,
		Workers: 1,
	}
}

// Failure records an iteration whose resample could not be fitted.
type Failure struct {
	Iteration int
	Err       error
}

// Result represents the outcome of bootstrap selection.
type Result struct {
	// Winning model, fitted on resample Iteration
	Model     *ols.Model
	Iteration int
	MSE       float64 // winner's error on the original data

	// Per-iteration record. Errors[i] is NaN when iteration i failed or was skipped.
	Errors       []float64
	Fingerprints []uint64

	Failures        []Failure
	Skipped         int  // iterations not started before the budget ran out
	Truncated       bool // the time budget skipped at least one resample
	ModelsEvaluated int
}

// Resample returns n row positions drawn uniformly with replacement.
// The same seed always yields the same positions.
func Resample(n int, seed int64) []int {
	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	positions := make([]int, n)
	for i := range positions {
		positions[i] = rng.IntN(n)
	}
	return positions
}

// Fingerprint hashes a list of row positions.
func Fingerprint(positions []int) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, p := range positions {
		binary.LittleEndian.PutUint64(buf[:], uint64(p))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

type outcome struct {
	started     bool
	mse         float64
	fingerprint uint64
	err         error
}

// Select fits y on X for Repeats bootstrap resamples and keeps the model with
// the lowest mean squared error on the full X and y. Ties go to the earliest
// iteration. Iterations whose design is singular are recorded as failures and
// never win.
func Select(ctx context.Context, X *dataset.Frame, y *dataset.Vector, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Repeats <= 0 {
		return nil, fmt.Errorf("bootstrap: repeats must be positive, got %d", config.Repeats)
	}
	if err := X.AlignedWith(y); err != nil {
		return nil, err
	}

	parent := ctx
	if config.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, config.Budget)
		defer cancel()
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	n := X.Nrow()
	outcomes := make([]outcome, config.Repeats)

	var (
		mu       sync.Mutex
		best     *ols.Model
		bestIter = -1
		bestMSE  = math.Inf(1)
	)

	var g errgroup.Group
	g.SetLimit(workers)
	for i := 0; i < config.Repeats; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			positions := Resample(n, config.Seed+int64(i))
			out := outcome{started: true, fingerprint: Fingerprint(positions)}

			model, err := ols.Fit(X.Take(positions), y.Take(positions))
			if err == nil {
				out.mse, err = model.MSE(X, y)
			}
			if err == nil && math.IsNaN(out.mse) {
				err = errors.New("bootstrap: NaN error on original data")
			}
			out.err = err
			outcomes[i] = out

			if err != nil {
				return nil
			}
			mu.Lock()
			if out.mse < bestMSE || (out.mse == bestMSE && i < bestIter) {
				best, bestIter, bestMSE = model, i, out.mse
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := parent.Err(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	result := &Result{
		Model:        best,
		Iteration:    bestIter,
		MSE:          bestMSE,
		Errors:       make([]float64, config.Repeats),
		Fingerprints: make([]uint64, config.Repeats),
	}
	for i, out := range outcomes {
		result.Fingerprints[i] = out.fingerprint
		switch {
		case !out.started:
			result.Errors[i] = math.NaN()
			result.Skipped++
		case out.err != nil:
			result.Errors[i] = math.NaN()
			result.Failures = append(result.Failures, Failure{Iteration: i, Err: out.err})
			logger.Debug("bootstrap iteration failed",
				zap.String("response", y.Name), zap.Int("iteration", i), zap.Error(out.err))
		default:
			result.Errors[i] = out.mse
			result.ModelsEvaluated++
		}
	}

	result.Truncated = result.Skipped > 0
	if result.Truncated {
		logger.Warn("bootstrap time budget exhausted",
			zap.String("response", y.Name),
			zap.Duration("budget", config.Budget),
			zap.Int("skipped", result.Skipped))
	}

	if best == nil {
		return nil, fmt.Errorf("%w for %q: %d failed, %d skipped",
			ErrNoValidModel, y.Name, len(result.Failures), result.Skipped)
	}

	logger.Info("bootstrap selection done",
		zap.String("response", y.Name),
		zap.Int("iteration", result.Iteration),
		zap.Float64("mse", result.MSE),
		zap.Int("evaluated", result.ModelsEvaluated),
		zap.Int("failed", len(result.Failures)))

	return result, nil
}

// Valid returns the per-iteration errors of the successful iterations.
func (r *Result) Valid() []float64 {
	out := make([]float64, 0, r.ModelsEvaluated)
	for _, e := range r.Errors {
		if !math.IsNaN(e) {
			out = append(out, e)
		}
	}
	return out
}
