// Package refine narrows a fitted model: it flags insignificant predictors and
// removes influential observations by Cook's distance.
//
//	drop := refine.Prune(model, 0.05)
//	reduced, _ := X.Drop(drop...)
//
//	out, err := refine.FilterInfluential(model, X, y, refine.DefaultFilterOptions())
//	fmt.Printf("removed %d rows above %.5f\n", len(out.Removed), out.Threshold)
package refine
