// Package bootstrap selects an OLS model by refitting on bootstrap resamples.
//
// Each iteration i draws n rows with replacement using seed Seed+i, fits the
// response on that resample and scores the fit by its mean squared error on
// the original data. The lowest error wins.
//
// # Basic Usage
//
//	config := bootstrap.DefaultConfig()
//	result, err := bootstrap.Select(ctx, X, y, config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Best iteration: %d, MSE: %.2f\n", result.Iteration, result.MSE)
//	fmt.Println(result.Model.Summary())
//
// # Parallel Search
//
// Workers > 1 fits resamples concurrently. The selected model does not depend
// on the number of workers.
//
//	config.Workers = runtime.NumCPU()
//	config.Budget = 2 * time.Minute // stop starting new iterations after this
package bootstrap
