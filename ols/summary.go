package ols

import (
	"fmt"
	"strings"
)

const summaryWidth = 78

// Summary renders the model as a plain-text regression report: fit
// statistics, the coefficient table with 95% intervals, and residual tests.
func (m *Model) Summary() string {
	var b strings.Builder
	rule := strings.Repeat("=", summaryWidth)
	thin := strings.Repeat("-", summaryWidth)

	title := "OLS Regression Results"
	fmt.Fprintf(&b, "%*s\n", (summaryWidth+len(title))/2, title)
	b.WriteString(rule + "\n")

	left := [][2]string{
		{"Dep. Variable:", m.Response},
		{"Model:", "OLS"},
		{"Method:", "Least Squares"},
		{"No. Observations:", fmt.Sprintf("%d", m.NObs)},
		{"Df Residuals:", fmt.Sprintf("%d", m.DfResid)},
		{"Df Model:", fmt.Sprintf("%d", m.DfModel)},
	}
	right := [][2]string{
		{"R-squared:", fmt.Sprintf("%.3f", m.RSquared)},
		{"Adj. R-squared:", fmt.Sprintf("%.3f", m.AdjRSquared)},
		{"F-statistic:", fmt.Sprintf("%.4g", m.FValue)},
		{"Prob (F-statistic):", fmt.Sprintf("%.3g", m.FPValue)},
		{"Log-Likelihood:", fmt.Sprintf("%.5g", m.LogLik)},
		{"AIC:", fmt.Sprintf("%.4g", m.AIC)},
	}
	for i := range left {
		fmt.Fprintf(&b, "%-20s%18s   %-22s%15s\n", left[i][0], left[i][1], right[i][0], right[i][1])
	}
	fmt.Fprintf(&b, "%-20s%18s   %-22s%15s\n", "Covariance Type:", "nonrobust", "BIC:", fmt.Sprintf("%.4g", m.BIC))
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "%-14s %10s %10s %9s %8s %11s %11s\n", "", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]")
	b.WriteString(thin + "\n")
	for _, c := range m.Coefficients(0.05) {
		fmt.Fprintf(&b, "%-14s %10.4f %10.3f %9.3f %8.3f %11.3f %11.3f\n",
			truncate(c.Name, 14), c.Coef, c.StdErr, c.T, c.P, c.Lower, c.Upper)
	}
	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "%-20s%18.3f   %-22s%15.3f\n", "Durbin-Watson:", m.DurbinWatson, "Jarque-Bera (JB):", m.JarqueBera)
	fmt.Fprintf(&b, "%-20s%18.3f   %-22s%15.3g\n", "Skew:", m.Skew, "Prob(JB):", m.JBPValue)
	fmt.Fprintf(&b, "%-20s%18.3f   %-22s%15.3g\n", "Kurtosis:", m.Kurtosis, "Cond. No.", m.CondNo)
	b.WriteString(rule + "\n")

	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
