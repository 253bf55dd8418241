// Package bikereg selects and refines linear models of hourly bike-rental counts.
//
// Casual and registered rider counts are regressed on time and weather
// covariates. A model is chosen by bootstrap resampling, pruned of
// insignificant predictors, refitted without influential observations and
// reported with residual diagnostics.
//
// # Features
//
//   - Ordinary least squares with coefficient inference and fit statistics
//   - Bootstrap model selection scored on the original data, sequential or parallel
//   - Significance pruning and Cook's distance influence filtering
//   - Residual tests (Durbin-Watson, Jarque-Bera, Ljung-Box) and QQ data
//   - Diagnostic plot data and per-observation tables, optionally zstd-compressed
//
// # Quick Start
//
//	table, _ := dataset.LoadCSV("hour.csv", dataset.DefaultCSVOptions())
//	X, ys, _ := table.Split("casual", "registered")
//
//	for _, r := range pipeline.RunAll(ctx, X, ys, pipeline.DefaultConfig(), nil) {
//	    fmt.Println(r.Final.Summary())
//	}
//
// # Packages
//
// The library is organized into the following packages:
//
//   - dataset: CSV loading and immutable design/response views
//   - ols: Least-squares fitting, inference and influence measures
//   - stats: Residual tests and summary statistics
//   - bootstrap: Bootstrap model selection
//   - refine: Significance pruning and influence filtering
//   - pipeline: Staged selection and refinement per response
//   - diagnostics: Residual diagnostics, plot data and reports
//   - config: Environment configuration
//   - logger: Process-wide structured logger
package bikereg
