package diagnostics

import (
	"fmt"

	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/ols"
	"github.com/sartorproj/bikereg/stats"
)

// CooksFactor gives the 4/n influence cut-off.
const CooksFactor = 4

// ljungBoxLags is the number of residual autocorrelation lags tested.
const ljungBoxLags = 10

// Diagnostics holds per-observation residual and influence measures of a model.
type Diagnostics struct {
	Response string
	Index    []int // original row ids, aligned with the slices below

	Fitted        []float64
	Residuals     []float64
	Studentized   []float64
	Leverage      []float64
	CooksDistance []float64

	Threshold   float64 // CooksFactor/n
	Influential []int   // positions with CooksDistance > Threshold

	QQ       *stats.QQResult       // nil for fewer than 2 observations
	LjungBox *stats.LjungBoxResult // nil for fewer than 10 observations
	ACF      *stats.ACFResult      // residual autocorrelation up to ljungBoxLags
}

// Compute derives diagnostics from a fitted model. The model is not modified
// and repeated calls return equal values.
func Compute(m *ols.Model) *Diagnostics {
	inf := m.Influence()
	residuals := m.Residuals()
	threshold := inf.Threshold(CooksFactor)

	return &Diagnostics{
		Response:      m.Response,
		Index:         inf.Index,
		Fitted:        m.FittedValues(),
		Residuals:     residuals,
		Studentized:   inf.StudentizedResid,
		Leverage:      inf.Leverage,
		CooksDistance: inf.CooksDistance,
		Threshold:     threshold,
		Influential:   inf.Exceeding(threshold),
		QQ:            stats.QQNormal(residuals),
		LjungBox:      stats.LjungBox(residuals, ljungBoxLags, 0),
		ACF:           stats.ACFWithConfidence(residuals, ljungBoxLags),
	}
}

// InfluentialIDs returns the original row ids of the influential observations.
func (d *Diagnostics) InfluentialIDs() []int {
	ids := make([]int, len(d.Influential))
	for k, p := range d.Influential {
		ids[k] = d.Index[p]
	}
	return ids
}

// SignificantLags returns the residual autocorrelation lags outside the 95%
// bounds.
func (d *Diagnostics) SignificantLags() []int {
	if d.ACF == nil {
		return nil
	}
	return stats.SignificantLags(d.ACF.Values, d.ACF.ConfBounds)
}

// alignTo returns the rows of X in the order of index. X must hold each id at
// most once; index may repeat ids, as a bootstrap resample does.
func alignTo(X *dataset.Frame, index []int) (*dataset.Frame, error) {
	if err := dataset.CheckAligned("diagnostics", index, X.Index); err == nil {
		return X, nil
	}

	pos := make(map[int]int, len(X.Index))
	for i, id := range X.Index {
		if _, dup := pos[id]; dup {
			return nil, &dataset.IndexAlignmentError{Op: "diagnostics", Reason: fmt.Sprintf("row %d repeats in design", id)}
		}
		pos[id] = i
	}
	positions := make([]int, len(index))
	for k, id := range index {
		p, ok := pos[id]
		if !ok {
			return nil, &dataset.IndexAlignmentError{Op: "diagnostics", Reason: fmt.Sprintf("row %d is not in design", id)}
		}
		positions[k] = p
	}
	if len(positions) == 0 {
		return nil, &dataset.IndexAlignmentError{Op: "diagnostics", Reason: "no rows"}
	}
	return X.Take(positions), nil
}
