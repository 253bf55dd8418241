// Package diagnostics computes residual and influence diagnostics for fitted
// models and reports them.
//
// # Basic Usage
//
//	d := diagnostics.Compute(model)
//	fmt.Printf("%d observations above %.5f\n", len(d.Influential), d.Threshold)
//
//	plots, err := diagnostics.Plots(d, X, "casual reduced")
//
// # Reporter
//
// A Reporter plugs into the pipeline as its observer. It prints each model's
// summary and, with an output directory, writes two files per stage under a
// directory named by the run id:
//
//	<response>-<stage>.plots.json[.zst]
//	<response>-<stage>.observations.csv
//
//	reporter, _ := diagnostics.NewReporter(os.Stdout, "out", true)
//	pipeline.RunAll(ctx, X, ys, config, reporter.Observe)
package diagnostics
