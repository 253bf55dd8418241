// Package pipeline runs bootstrap selection and refinement for each response.
//
// Stages run once, strictly forward:
//
//	load → bootstrap-select → prune-by-significance → refit-reduced →
//	filter-influential → refit-filtered → drop-collinear → refit-final
//
// # Basic Usage
//
//	results := pipeline.RunAll(ctx, X, []*dataset.Vector{casual, registered},
//	    pipeline.DefaultConfig(), reporter.Observe)
//	for _, r := range results {
//	    if r.Err != nil {
//	        log.Printf("%s: %v", r.Response, r.Err)
//	        continue
//	    }
//	    fmt.Println(r.Final.Summary())
//	}
//
// A failure in one response never affects another. Errors are *StageError
// values naming the response and the stage that failed.
package pipeline
