package bootstrap

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/ols"
)

func init() {
	logger.Set(zap.NewNop())
}

func syntheticData(t *testing.T, n int, seed uint64) (*dataset.Frame, *dataset.Vector) {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, 0))
	temp := make([]float64, n)
	hum := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		temp[i] = rng.Float64()
		hum[i] = rng.Float64()
		y[i] = 10 + 50*temp[i] - 20*hum[i] + 5*rng.NormFloat64()
	}
	X, err := dataset.FrameFromColumns([]string{"temp", "hum"}, [][]float64{temp, hum})
	require.NoError(t, err)
	return X, dataset.NewVector("casual", y)
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, 100, config.Repeats)
	assert.Equal(t, int64(42), config.Seed)
	assert.Equal(t, 1, config.Workers)
	assert.Zero(t, config.Budget)
}

func TestResample(t *testing.T) {
	a := Resample(50, 7)
	b := Resample(50, 7)
	c := Resample(50, 8)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 50)
	for _, p := range a {
		assert.GreaterOrEqual(t, p, 0)
		assert.Less(t, p, 50)
	}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}

func TestSelectIsDeterministic(t *testing.T) {
	X, y := syntheticData(t, 120, 1)
	config := &Config{Repeats: 20, Seed: 42, Workers: 1}

	first, err := Select(context.Background(), X, y, config)
	require.NoError(t, err)
	second, err := Select(context.Background(), X, y, config)
	require.NoError(t, err)

	assert.Equal(t, first.Iteration, second.Iteration)
	assert.Equal(t, first.MSE, second.MSE)
	assert.Equal(t, first.Errors, second.Errors)
	assert.Equal(t, first.Fingerprints, second.Fingerprints)
	assert.Equal(t, first.Model.Params, second.Model.Params)
	assert.Equal(t, 20, first.ModelsEvaluated)

	t.Logf("best iteration %d, MSE %.4f", first.Iteration, first.MSE)
}

func TestSelectParallelMatchesSequential(t *testing.T) {
	X, y := syntheticData(t, 150, 2)

	seq, err := Select(context.Background(), X, y, &Config{Repeats: 30, Seed: 3, Workers: 1})
	require.NoError(t, err)
	par, err := Select(context.Background(), X, y, &Config{Repeats: 30, Seed: 3, Workers: 4})
	require.NoError(t, err)

	assert.Equal(t, seq.Iteration, par.Iteration)
	assert.Equal(t, seq.MSE, par.MSE)
	assert.Equal(t, seq.Errors, par.Errors)
	assert.Equal(t, seq.Model.Params, par.Model.Params)
}

func TestSelectPicksMinimumError(t *testing.T) {
	X, y := syntheticData(t, 100, 4)
	result, err := Select(context.Background(), X, y, &Config{Repeats: 25, Seed: 42, Workers: 2})
	require.NoError(t, err)

	for i, e := range result.Errors {
		assert.GreaterOrEqual(t, e, result.MSE, "iteration %d", i)
		if e == result.MSE {
			assert.GreaterOrEqual(t, i, result.Iteration)
		}
	}
	assert.Equal(t, result.MSE, result.Errors[result.Iteration])

	// The reported error is the winner's error on the original rows
	mse, err := result.Model.MSE(X, y)
	require.NoError(t, err)
	assert.InDelta(t, mse, result.MSE, 1e-12)

	// Each bootstrap model is trained on a resample, so none beats the full-data fit
	full, err := ols.Fit(X, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.MSE, full.SSR/float64(full.NObs)-1e-9)

	assert.Len(t, result.Valid(), 25)
}

func TestSelectExcludesSingularResamples(t *testing.T) {
	n := 20
	rng := rand.New(rand.NewPCG(5, 0))
	x := make([]float64, n)
	holiday := make([]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = rng.Float64() * 10
		y[i] = 1 + 2*x[i] + rng.NormFloat64()
	}
	// A single holiday row: resamples that miss it get an all-zero column
	holiday[3] = 1
	y[3] += 4

	X, err := dataset.FrameFromColumns([]string{"x", "holiday"}, [][]float64{x, holiday})
	require.NoError(t, err)
	yv := dataset.NewVector("registered", y)

	result, err := Select(context.Background(), X, yv, &Config{Repeats: 30, Seed: 42, Workers: 3})
	require.NoError(t, err)

	require.NotEmpty(t, result.Failures)
	for _, f := range result.Failures {
		assert.True(t, math.IsNaN(result.Errors[f.Iteration]))
		assert.ErrorIs(t, f.Err, ols.ErrSingular)
		assert.NotEqual(t, result.Iteration, f.Iteration)
	}
	assert.Equal(t, 30, result.ModelsEvaluated+len(result.Failures))
	assert.False(t, math.IsNaN(result.MSE))

	t.Logf("%d of 30 resamples were singular", len(result.Failures))
}

func TestSelectNoValidModel(t *testing.T) {
	X, err := dataset.FrameFromColumns(
		[]string{"x", "zero"},
		[][]float64{{1, 2, 3, 4, 5, 6, 7, 8}, {0, 0, 0, 0, 0, 0, 0, 0}},
	)
	require.NoError(t, err)
	y := dataset.NewVector("casual", []float64{1, 2, 3, 4, 5, 6, 7, 9})

	_, err = Select(context.Background(), X, y, &Config{Repeats: 5, Seed: 1, Workers: 1})
	assert.ErrorIs(t, err, ErrNoValidModel)
}

func TestSelectInvalidInput(t *testing.T) {
	X, y := syntheticData(t, 30, 6)

	_, err := Select(context.Background(), X, y, &Config{Repeats: 0})
	assert.Error(t, err)

	short, err := y.DropRows([]int{0})
	require.NoError(t, err)
	_, err = Select(context.Background(), X, short, nil)
	var ae *dataset.IndexAlignmentError
	assert.True(t, errors.As(err, &ae))
}

func TestSelectCancelled(t *testing.T) {
	X, y := syntheticData(t, 30, 7)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Select(ctx, X, y, DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelectBudgetAccounting(t *testing.T) {
	X, y := syntheticData(t, 60, 8)
	config := &Config{Repeats: 40, Seed: 42, Workers: 2, Budget: 1}

	result, err := Select(context.Background(), X, y, config)
	if err != nil {
		assert.ErrorIs(t, err, ErrNoValidModel)
		return
	}
	assert.Equal(t, 40, result.ModelsEvaluated+len(result.Failures)+result.Skipped)
	assert.Equal(t, result.Skipped > 0, result.Truncated)
}

func TestSelectBudgetNotReached(t *testing.T) {
	X, y := syntheticData(t, 60, 8)
	config := &Config{Repeats: 20, Seed: 42, Workers: 2, Budget: time.Hour}

	result, err := Select(context.Background(), X, y, config)
	require.NoError(t, err)
	assert.Zero(t, result.Skipped)
	assert.False(t, result.Truncated)
	assert.Equal(t, 20, result.ModelsEvaluated+len(result.Failures))
}
