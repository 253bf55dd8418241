package ols

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Influence holds per-observation influence measures of a fitted model.
type Influence struct {
	Index            []int     // original row ids, aligned with the slices below
	Leverage         []float64 // diagonal of the hat matrix
	StudentizedResid []float64 // internally studentized residuals
	CooksDistance    []float64
	NParams          int
}

// Influence computes leverage, internally studentized residuals and Cook's
// distance. Every call returns freshly allocated slices.
//
//	h_i = x_i' (X'X)^-1 x_i
//	r_i = e_i / (s sqrt(1 - h_i))
//	D_i = r_i² h_i / ((1 - h_i) k)
func (m *Model) Influence() *Influence {
	n, k := m.design.Dims()
	s := math.Sqrt(m.Scale)

	inf := &Influence{
		Index:            m.Index(),
		Leverage:         make([]float64, n),
		StudentizedResid: make([]float64, n),
		CooksDistance:    make([]float64, n),
		NParams:          k,
	}

	row := mat.NewVecDense(k, nil)
	for i := 0; i < n; i++ {
		row.CopyVec(m.design.RowView(i))
		h := mat.Inner(row, m.normCov, row)
		r := m.residuals[i] / (s * math.Sqrt(1-h))

		inf.Leverage[i] = h
		inf.StudentizedResid[i] = r
		inf.CooksDistance[i] = r * r * h / ((1 - h) * float64(k))
	}
	return inf
}

// Threshold returns factor/n, the conventional cut-off for Cook's distance.
func (inf *Influence) Threshold(factor float64) float64 {
	return factor / float64(len(inf.CooksDistance))
}

// Exceeding returns the positions whose Cook's distance is above threshold.
// NaN distances never exceed.
func (inf *Influence) Exceeding(threshold float64) []int {
	var out []int
	for i, d := range inf.CooksDistance {
		if d > threshold {
			out = append(out, i)
		}
	}
	return out
}
