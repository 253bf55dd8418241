// Package stats provides residual tests and summary statistics for fitted models.
//
// # Residual Diagnostics
//
// Test regression residuals for autocorrelation and normality:
//
//	// Ljung-Box test for autocorrelation (fitdf 0 for regression residuals)
//	lb := stats.LjungBox(residuals, 10, 0)
//	if lb.PValue > 0.05 {
//	    // No evidence of autocorrelation
//	}
//
//	// Durbin-Watson statistic, near 2 without first-order autocorrelation
//	dw := stats.DurbinWatson(residuals)
//
//	// Jarque-Bera normality test
//	jb := stats.JarqueBera(residuals)
//	fmt.Printf("JB=%.2f p=%.4f skew=%.3f kurtosis=%.3f\n",
//	    jb.Statistic, jb.PValue, jb.Skew, jb.Kurtosis)
//
// # Autocorrelation Functions
//
//	acf := stats.ACF(residuals, 20)
//	acfResult := stats.ACFWithConfidence(residuals, 20)
//	significant := stats.SignificantLags(acfResult.Values, acfResult.ConfBounds)
//
// # Quantile Plots
//
//	qq := stats.QQNormal(residuals)
//	// qq.Theoretical against qq.Sample; the 45° line is the reference
//
// # Information Criteria
//
//	ll := stats.GaussianLogLik(rss, n)
//	ic := stats.CalculateIC(ll, n, k)
package stats
