package diagnostics

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sartorproj/bikereg/bootstrap"
	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/ols"
	"github.com/sartorproj/bikereg/pipeline"
)

func init() {
	logger.Set(zap.NewNop())
}

func fittedModel(t *testing.T, n int) (*ols.Model, *dataset.Frame) {
	t.Helper()
	rng := rand.New(rand.NewPCG(21, 0))
	temp := make([]float64, n)
	hum := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		temp[i] = rng.Float64()
		hum[i] = rng.Float64()
		y[i] = 3 + 40*temp[i] - 10*hum[i] + 2*rng.NormFloat64()
	}
	y[7] += 80

	X, err := dataset.FrameFromColumns([]string{"temp", "hum"}, [][]float64{temp, hum})
	require.NoError(t, err)
	m, err := ols.Fit(X, dataset.NewVector("casual", y))
	require.NoError(t, err)
	return m, X
}

func TestCompute(t *testing.T) {
	m, _ := fittedModel(t, 120)
	d := Compute(m)

	assert.Equal(t, "casual", d.Response)
	assert.Len(t, d.Residuals, 120)
	assert.Len(t, d.Studentized, 120)
	assert.Len(t, d.Leverage, 120)
	assert.InDelta(t, 4.0/120, d.Threshold, 1e-12)
	assert.Contains(t, d.InfluentialIDs(), 7)
	require.NotNil(t, d.QQ)
	require.NotNil(t, d.LjungBox)
	assert.Equal(t, 10, d.LjungBox.Lags)

	for _, p := range d.Influential {
		assert.Greater(t, d.CooksDistance[p], d.Threshold)
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	m, _ := fittedModel(t, 80)
	params := append([]float64(nil), m.Params...)

	first := Compute(m)
	second := Compute(m)

	assert.Equal(t, first.CooksDistance, second.CooksDistance)
	assert.Equal(t, first.Leverage, second.Leverage)
	assert.Equal(t, first.Studentized, second.Studentized)
	assert.Equal(t, first.Influential, second.Influential)
	assert.Equal(t, params, m.Params)
}

func TestPlots(t *testing.T) {
	m, X := fittedModel(t, 60)
	d := Compute(m)

	plots, err := Plots(d, X, "casual reduced")
	require.NoError(t, err)
	require.Len(t, plots, 5)

	types := []PlotType{ResidualsVsFitted, StudentizedVsFitted, CovariateResiduals, QQPlot, InfluencePlot}
	for i, p := range plots {
		assert.Equal(t, types[i], p.PlotType)
		assert.True(t, strings.HasPrefix(p.Title, "casual reduced"))
	}

	assert.Len(t, plots[0].Series[0].Data, 60)
	assert.Len(t, plots[2].Series, 2)
	assert.Equal(t, "temp", plots[2].Series[0].Name)

	influence := plots[4]
	assert.Len(t, influence.Series[1].Data, len(d.Influential))
	assert.Equal(t, 60, len(influence.Series[0].Data)+len(influence.Series[1].Data))
	assert.Equal(t, "red", influence.Series[1].Style["color"])
}

func TestPlotsRejectForeignDesign(t *testing.T) {
	m, X := fittedModel(t, 40)
	d := Compute(m)

	other, err := X.DropRows([]int{3})
	require.NoError(t, err)
	_, err = Plots(d, other, "x")
	var ae *dataset.IndexAlignmentError
	assert.True(t, errors.As(err, &ae))
}

func TestPlotsForBootstrapModel(t *testing.T) {
	m, X := fittedModel(t, 50)
	y := dataset.NewVector("casual", m.Endog())

	sel, err := bootstrap.Select(t.Context(), X, y, &bootstrap.Config{Repeats: 3, Seed: 1, Workers: 1})
	require.NoError(t, err)

	// The winner was fitted on a resample; its rows repeat ids of X
	plots, err := Plots(Compute(sel.Model), X, "bootstrap")
	require.NoError(t, err)
	assert.Len(t, plots, 5)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "casual-03-refit-reduced", Slug("casual", "03-refit-reduced"))
	assert.Equal(t, "a_b-c_d", Slug("A B", "c/d"))
}

func TestReporterConsoleOnly(t *testing.T) {
	m, X := fittedModel(t, 50)
	var buf bytes.Buffer

	r, err := NewReporter(&buf, "", false)
	require.NoError(t, err)
	assert.Empty(t, r.Dir)
	assert.NotEmpty(t, r.RunID)

	r.Observe("casual", pipeline.StageRefitReduced, m, X)
	require.NoError(t, r.Err())

	out := buf.String()
	assert.Contains(t, out, "=== casual: 03-refit-reduced ===")
	assert.Contains(t, out, "OLS Regression Results")
	assert.Contains(t, out, "Influential observations")
}

func TestReporterArtifacts(t *testing.T) {
	for _, compress := range []bool{false, true} {
		m, X := fittedModel(t, 50)
		var buf bytes.Buffer

		r, err := NewReporter(&buf, t.TempDir(), compress)
		require.NoError(t, err)

		r.Observe("registered", pipeline.StageRefitFinal, m, X)
		require.NoError(t, r.Err())

		name := "registered-07-refit-final.plots.json"
		if compress {
			name += ".zst"
		}
		plots, err := ReadPlots(filepath.Join(r.Dir, name))
		require.NoError(t, err)
		assert.Len(t, plots, 5)
		assert.Equal(t, "registered", plots[0].ModelName)

		table, err := dataset.LoadCSV(filepath.Join(r.Dir, "registered-07-refit-final.observations.csv"), &dataset.CSVOptions{
			Required:  []string{"row", "temp", "hum", "casual", "fitted", "residual", "studentized", "leverage", "cooks_distance"},
			Delimiter: ',',
		})
		require.NoError(t, err)
		assert.Equal(t, 50, table.Nrow())

		cooks, err := table.Column("cooks_distance")
		require.NoError(t, err)
		assert.InDeltaSlice(t, Compute(m).CooksDistance, cooks, 1e-6)
	}
}

func TestReporterRecordsErrors(t *testing.T) {
	m, X := fittedModel(t, 30)
	r, err := NewReporter(&bytes.Buffer{}, t.TempDir(), false)
	require.NoError(t, err)

	other, err := X.DropRows([]int{0})
	require.NoError(t, err)
	r.Observe("casual", pipeline.StageRefitFiltered, m, other)
	assert.Error(t, r.Err())

	entries, err := os.ReadDir(r.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
