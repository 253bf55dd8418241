// Package ols implements ordinary least squares regression with an intercept.
//
// Fit solves the least-squares problem through a QR factorization of the
// design matrix [1 | X]. A design whose condition number is too large to
// give meaningful coefficients yields a *FittingError wrapping ErrSingular
// instead of degenerate estimates.
//
// # Basic Usage
//
//	model, err := ols.Fit(X, y)
//	if err != nil {
//	    // *ols.FittingError or *dataset.IndexAlignmentError
//	}
//	fmt.Println(model.Summary())
//
//	mse, _ := model.MSE(X, y)
//
// # Inference
//
// Coefficients carry standard errors, t statistics and two-sided p-values:
//
//	for _, c := range model.Coefficients(0.05) {
//	    fmt.Printf("%s %.3f p=%.3f\n", c.Name, c.Coef, c.P)
//	}
//
// # Influence
//
// Leverage, studentized residuals and Cook's distance:
//
//	inf := model.Influence()
//	outliers := inf.Exceeding(inf.Threshold(4)) // D_i > 4/n
package ols
