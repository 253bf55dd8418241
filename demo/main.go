// Package main runs bootstrap model selection and refinement on the hourly
// bike-sharing data for each configured response.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"github.com/sartorproj/bikereg/bootstrap"
	"github.com/sartorproj/bikereg/config"
	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/diagnostics"
	"github.com/sartorproj/bikereg/logger"
	"github.com/sartorproj/bikereg/pipeline"
	"github.com/sartorproj/bikereg/refine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg); err != nil {
		logger.Error("run failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	opts := dataset.DefaultCSVOptions()
	opts.DateColumn = cfg.Data.DateColumn
	opts.Required = append(append([]string(nil), dataset.Covariates...), dataset.Targets...)

	table, err := dataset.LoadCSV(cfg.Data.Path, opts)
	if err != nil {
		return err
	}
	X, responses, err := table.Split(cfg.Data.Responses...)
	if err != nil {
		return err
	}
	logger.Info("data loaded",
		zap.String("path", cfg.Data.Path),
		zap.Int("rows", table.Nrow()),
		zap.Int("skipped", table.Skipped),
		zap.Strings("design", X.Columns))

	reporter, err := diagnostics.NewReporter(os.Stdout, cfg.Output.Dir, cfg.Output.Compress)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := pipeline.RunAll(ctx, X, responses, pipelineConfig(cfg), reporter.Observe)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%-12s FAILED: %v\n", r.Response, r.Err)
			continue
		}
		printResult(r)
	}
	if reporter.Dir != "" {
		fmt.Printf("Artifacts written to %s\n", reporter.Dir)
	}
	if err := reporter.Err(); err != nil {
		logger.Warn("some diagnostics were not written", zap.Error(err))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d responses failed", failed, len(results))
	}
	return nil
}

// dropList expands DROP_PREDICTORS=reference to the reference drop list.
func dropList(drop []string) []string {
	if len(drop) == 1 && strings.EqualFold(drop[0], "reference") {
		return pipeline.ReferenceDrop
	}
	return drop
}

func pipelineConfig(cfg *config.Config) *pipeline.Config {
	return &pipeline.Config{
		Bootstrap: &bootstrap.Config{
			Repeats: cfg.Bootstrap.Repeats,
			Seed:    cfg.Bootstrap.Seed,
			Workers: cfg.Bootstrap.Workers,
			Budget:  cfg.Bootstrap.Budget,
		},
		Alpha: cfg.Refine.Alpha,
		Drop:  dropList(cfg.Refine.Drop),
		Filter: refine.FilterOptions{
			Factor: cfg.Refine.CooksFactor,
			Passes: cfg.Refine.InfluencePasses,
		},
		Collinear: cfg.Refine.Collinear,
	}
}

func printResult(r *pipeline.Result) {
	sel := r.Selection
	fmt.Printf("%s\n", r.Response)
	fmt.Printf("  Best MSE:            %.4f (iteration %d of %d, %d singular)\n",
		sel.MSE, sel.Iteration, len(sel.Errors), len(sel.Failures))
	if sel.Truncated {
		fmt.Printf("  Time budget reached: %d iterations skipped\n", sel.Skipped)
	}
	fmt.Printf("  Not significant:     %s\n", list(r.Pruned))
	fmt.Printf("  Dropped:             %s\n", list(r.Dropped))
	fmt.Printf("  Reduced R²:          %.4f\n", r.Reduced.RSquared)
	fmt.Printf("  Influential removed: %d (threshold %.6f)\n", len(r.Filtered.Removed), r.Filtered.Threshold)
	fmt.Printf("  Removed rows:        %s\n", ids(r.Filtered.Removed, 20))
	fmt.Printf("  Filtered R²:         %.4f\n", r.FilteredModel.RSquared)
	if r.CollinearDropped {
		fmt.Printf("  Final R²:            %.4f (without %s)\n", r.Final.RSquared, strings.Join(
			missing(r.FilteredModel.Predictors(), r.Final.Predictors()), ", "))
	}
	fmt.Println()
}

func list(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}

func ids(rows []int, limit int) string {
	if len(rows) == 0 {
		return "-"
	}
	parts := make([]string, 0, limit+1)
	for i, id := range rows {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... (+%d)", len(rows)-limit))
			break
		}
		parts = append(parts, fmt.Sprintf("%d", id))
	}
	return strings.Join(parts, " ")
}

func missing(from, in []string) []string {
	present := make(map[string]bool, len(in))
	for _, name := range in {
		present[name] = true
	}
	var out []string
	for _, name := range from {
		if !present[name] {
			out = append(out, name)
		}
	}
	return out
}
