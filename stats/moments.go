package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// MomentsResult holds the population (biased) shape statistics of a sample.
type MomentsResult struct {
	Mean     float64
	Variance float64 // second central moment
	Skew     float64
	Kurtosis float64 // Pearson kurtosis, not excess
}

// Moments computes mean, variance, skew and kurtosis with 1/n moments.
// Returns nil for an empty or constant sample.
func Moments(x []float64) *MomentsResult {
	if len(x) == 0 {
		return nil
	}
	mean := stat.Mean(x, nil)
	m2 := stat.MomentAbout(2, x, mean, nil)
	if m2 == 0 {
		return nil
	}
	m3 := stat.MomentAbout(3, x, mean, nil)
	m4 := stat.MomentAbout(4, x, mean, nil)

	return &MomentsResult{
		Mean:     mean,
		Variance: m2,
		Skew:     m3 / math.Pow(m2, 1.5),
		Kurtosis: m4 / (m2 * m2),
	}
}

// NormalQuantiles returns standard normal quantiles at the plotting
// positions i/(n+1), i = 1..n.
func NormalQuantiles(n int) []float64 {
	q := make([]float64, n)
	for i := range q {
		q[i] = distuv.UnitNormal.Quantile(float64(i+1) / float64(n+1))
	}
	return q
}

// QQResult pairs theoretical normal quantiles with sorted sample values.
type QQResult struct {
	Theoretical []float64
	Sample      []float64
}

// QQNormal prepares a normal quantile-quantile comparison. The sample is
// standardized before sorting so that the 45° line is the reference.
func QQNormal(x []float64) *QQResult {
	n := len(x)
	if n < 2 {
		return nil
	}

	mean, std := stat.MeanStdDev(x, nil)
	sample := make([]float64, n)
	for i, v := range x {
		if std > 0 {
			sample[i] = (v - mean) / std
		} else {
			sample[i] = 0
		}
	}
	sort.Float64s(sample)

	return &QQResult{
		Theoretical: NormalQuantiles(n),
		Sample:      sample,
	}
}
