package diagnostics

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"

	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/ols"
	"github.com/sartorproj/bikereg/pipeline"
)

var encoderPool = sync.Pool{
	New: func() any {
		encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd encoder: %v", err))
		}
		return encoder
	},
}

var decoderPool = sync.Pool{
	New: func() any {
		decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(fmt.Sprintf("failed to create zstd decoder: %v", err))
		}
		return decoder
	},
}

// Reporter prints stage summaries and, when given an output directory, writes
// plot data and per-observation tables for every reported model.
type Reporter struct {
	RunID string
	Dir   string // per-run artifact directory, "" when artifacts are disabled

	w        io.Writer
	compress bool
	errs     []error
}

// NewReporter creates a reporter writing text to w. A non-empty outputDir
// enables artifacts under outputDir/<run id>.
func NewReporter(w io.Writer, outputDir string, compress bool) (*Reporter, error) {
	r := &Reporter{
		RunID:    uuid.New().String(),
		w:        w,
		compress: compress,
	}
	if outputDir == "" {
		return r, nil
	}

	r.Dir = filepath.Join(outputDir, r.RunID)
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("diagnostics: create run directory: %w", err)
	}
	logger.Info("writing diagnostics", zap.String("run_id", r.RunID), zap.String("dir", r.Dir))
	return r, nil
}

// Observe reports a pipeline stage. Errors are kept and returned by Err.
func (r *Reporter) Observe(response string, stage pipeline.Stage, m *ols.Model, X *dataset.Frame) {
	label := fmt.Sprintf("%02d-%s", int(stage), stage)
	if err := r.Report(response, label, m, X); err != nil {
		logger.Error("diagnostics report failed",
			zap.String("response", response), zap.Stringer("stage", stage), zap.Error(err))
		r.errs = append(r.errs, err)
	}
}

// Err returns every error met by Observe.
func (r *Reporter) Err() error {
	return errors.Join(r.errs...)
}

// Report prints the summary and influence counts for m and writes its artifacts.
func (r *Reporter) Report(response, label string, m *ols.Model, X *dataset.Frame) error {
	d := Compute(m)

	fmt.Fprintf(r.w, "\n=== %s: %s ===\n", response, label)
	fmt.Fprint(r.w, m.Summary())
	fmt.Fprintf(r.w, "Influential observations (Cook's D > %.6f): %d\n", d.Threshold, len(d.Influential))
	if d.LjungBox != nil {
		fmt.Fprintf(r.w, "Ljung-Box Q(%d) = %.3f, p = %.4f, significant ACF lags: %v\n",
			d.LjungBox.Lags, d.LjungBox.Statistic, d.LjungBox.PValue, d.SignificantLags())
	}

	if r.Dir == "" {
		return nil
	}

	slug := Slug(response, label)
	plots, err := Plots(d, X, response+" "+label)
	if err != nil {
		return err
	}
	if err := r.writePlots(slug, plots); err != nil {
		return err
	}
	return r.writeObservations(slug, d, m, X)
}

// Slug makes a file-name-safe stem from a response and stage label.
func Slug(response, label string) string {
	s := strings.ToLower(response + "-" + label)
	return strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
			return c
		default:
			return '_'
		}
	}, s)
}

func (r *Reporter) writePlots(slug string, plots []PlotData) error {
	data, err := json.MarshalIndent(plots, "", "  ")
	if err != nil {
		return fmt.Errorf("diagnostics: encode plots: %w", err)
	}

	name := slug + ".plots.json"
	if r.compress {
		encoder := encoderPool.Get().(*zstd.Encoder)
		data = encoder.EncodeAll(data, nil)
		encoderPool.Put(encoder)
		name += ".zst"
	}
	return os.WriteFile(filepath.Join(r.Dir, name), data, 0o644)
}

func (r *Reporter) writeObservations(slug string, d *Diagnostics, m *ols.Model, X *dataset.Frame) error {
	X, err := alignTo(X, d.Index)
	if err != nil {
		return err
	}
	columns := []struct {
		name   string
		values []float64
	}{
		{m.Response, m.Endog()},
		{"fitted", d.Fitted},
		{"residual", d.Residuals},
		{"studentized", d.Studentized},
		{"leverage", d.Leverage},
		{"cooks_distance", d.CooksDistance},
	}

	vectors := make([]*dataset.Vector, len(columns))
	for i, c := range columns {
		vectors[i] = &dataset.Vector{Name: c.name, Index: d.Index, Values: c.values}
	}
	return dataset.SaveCSV(filepath.Join(r.Dir, slug+".observations.csv"), X, vectors...)
}

// ReadPlots loads plot data written by a Reporter, compressed or not.
func ReadPlots(path string) ([]PlotData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".zst") {
		decoder := decoderPool.Get().(*zstd.Decoder)
		defer decoderPool.Put(decoder)
		if data, err = decoder.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("zstd decompression failed: %w", err)
		}
	}

	var plots []PlotData
	if err := json.Unmarshal(data, &plots); err != nil {
		return nil, fmt.Errorf("diagnostics: decode plots: %w", err)
	}
	return plots, nil
}
