package ols

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/bikereg/dataset"
	"github.com/sartorproj/bikereg/stats"
)

// ConstName is the name of the intercept column.
const ConstName = "const"

// maxCondition bounds the condition number of the design (with intercept).
// Beyond it the coefficients are numerically meaningless.
const maxCondition = 1e14

// Model represents a fitted OLS model. It is never modified after Fit.
type Model struct {
	Response string
	Names    []string // ConstName first, then the predictors in X order
	Params   []float64
	StdErr   []float64
	TValues  []float64
	PValues  []float64 // two-sided, Student t with DfResid degrees of freedom

	NObs    int
	DfModel int
	DfResid int

	SSR         float64 // residual sum of squares
	ESS         float64 // explained sum of squares
	CenteredTSS float64
	Scale       float64 // residual variance SSR/DfResid
	RSquared    float64
	AdjRSquared float64
	FValue      float64
	FPValue     float64

	LogLik float64
	AIC    float64
	AICc   float64 // Corrected AIC
	BIC    float64

	DurbinWatson float64
	JarqueBera   float64
	JBPValue     float64
	Skew         float64
	Kurtosis     float64
	CondNo       float64 // sqrt of the eigenvalue ratio of X'X

	index      []int
	design     *mat.Dense // n x k, intercept first
	endog      []float64
	fittedVals []float64
	residuals  []float64
	normCov    *mat.SymDense // (X'X)^-1
}

// Fit fits y on X plus an intercept. X and y must cover the same rows.
func Fit(X *dataset.Frame, y *dataset.Vector) (*Model, error) {
	if err := X.AlignedWith(y); err != nil {
		return nil, err
	}

	n := X.Nrow()
	k := X.Ncol() + 1
	if n <= k {
		return nil, &FittingError{Response: y.Name, NObs: n, NParams: k, Err: ErrDegreesOfFreedom}
	}

	design := addConstant(X)
	endog := append([]float64(nil), y.Values...)

	var qr mat.QR
	qr.Factorize(design)
	if cond := qr.Cond(); math.IsInf(cond, 0) || math.IsNaN(cond) || cond > maxCondition {
		return nil, &FittingError{Response: y.Name, NObs: n, NParams: k, Cond: cond, Err: ErrSingular}
	}

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, mat.NewVecDense(n, endog)); err != nil {
		return nil, singular(y.Name, n, k, err)
	}

	normCov, err := unscaledCovariance(&qr, k)
	if err != nil {
		return nil, singular(y.Name, n, k, err)
	}

	var fitted mat.VecDense
	fitted.MulVec(design, &beta)

	m := &Model{
		Response:   y.Name,
		Names:      append([]string{ConstName}, X.Columns...),
		Params:     mat.Col(nil, 0, &beta),
		NObs:       n,
		DfModel:    k - 1,
		DfResid:    n - k,
		index:      append([]int(nil), X.Index...),
		design:     design,
		endog:      endog,
		fittedVals: mat.Col(nil, 0, &fitted),
		normCov:    normCov,
	}
	m.residuals = make([]float64, n)
	floats.SubTo(m.residuals, endog, m.fittedVals)

	m.calculateFit()
	m.calculateInference()
	m.calculateIC()
	m.calculateResidualTests()
	m.CondNo = conditionNumber(design)

	return m, nil
}

func singular(response string, n, k int, err error) error {
	var cond mat.Condition
	fe := &FittingError{Response: response, NObs: n, NParams: k, Err: ErrSingular}
	if errors.As(err, &cond) {
		fe.Cond = float64(cond)
	}
	return fe
}

// addConstant returns [1 | X].
func addConstant(X *dataset.Frame) *mat.Dense {
	n, p := X.Nrow(), X.Ncol()
	design := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		for j := 0; j < p; j++ {
			design.Set(i, j+1, X.At(i, j))
		}
	}
	return design
}

// unscaledCovariance computes (X'X)^-1 = R^-1 R^-T from the QR factors.
func unscaledCovariance(qr *mat.QR, k int) (*mat.SymDense, error) {
	var r mat.Dense
	qr.RTo(&r)

	upper := mat.NewTriDense(k, mat.Upper, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			upper.SetTri(i, j, r.At(i, j))
		}
	}

	var rinv mat.TriDense
	if err := rinv.InverseTri(upper); err != nil {
		return nil, err
	}

	cov := mat.NewSymDense(k, nil)
	cov.SymOuterK(1, &rinv)
	return cov, nil
}

// conditionNumber mirrors the usual OLS report: sqrt(max/min eigenvalue of X'X).
func conditionNumber(design *mat.Dense) float64 {
	_, k := design.Dims()
	xtx := mat.NewSymDense(k, nil)
	xtx.SymOuterK(1, design.T())

	var eig mat.EigenSym
	if ok := eig.Factorize(xtx, false); !ok {
		return math.NaN()
	}
	vals := eig.Values(nil)
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo <= 0 {
		return math.Inf(1)
	}
	return math.Sqrt(hi / lo)
}

func (m *Model) calculateFit() {
	m.SSR = floats.Dot(m.residuals, m.residuals)

	mean := stat.Mean(m.endog, nil)
	tss := 0.0
	for _, v := range m.endog {
		d := v - mean
		tss += d * d
	}
	m.CenteredTSS = tss
	m.ESS = tss - m.SSR
	m.Scale = m.SSR / float64(m.DfResid)

	if tss == 0 {
		m.RSquared = math.NaN()
		m.AdjRSquared = math.NaN()
	} else {
		m.RSquared = 1 - m.SSR/tss
		m.AdjRSquared = 1 - float64(m.NObs-1)/float64(m.DfResid)*(1-m.RSquared)
	}

	if m.DfModel == 0 || m.SSR == 0 {
		m.FValue = math.NaN()
		m.FPValue = math.NaN()
		return
	}
	m.FValue = (m.ESS / float64(m.DfModel)) / m.Scale
	m.FPValue = distuv.F{D1: float64(m.DfModel), D2: float64(m.DfResid)}.Survival(m.FValue)
}

func (m *Model) calculateInference() {
	k := len(m.Params)
	m.StdErr = make([]float64, k)
	m.TValues = make([]float64, k)
	m.PValues = make([]float64, k)

	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DfResid)}
	for i := 0; i < k; i++ {
		m.StdErr[i] = math.Sqrt(m.Scale * m.normCov.At(i, i))
		m.TValues[i] = m.Params[i] / m.StdErr[i]
		m.PValues[i] = 2 * tdist.Survival(math.Abs(m.TValues[i]))
	}
}

// calculateIC calculates log-likelihood, AIC, AICc, and BIC.
func (m *Model) calculateIC() {
	m.LogLik = stats.GaussianLogLik(m.SSR, m.NObs)
	ic := stats.CalculateIC(m.LogLik, m.NObs, len(m.Params))
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

func (m *Model) calculateResidualTests() {
	m.DurbinWatson = math.NaN()
	if dw := stats.DurbinWatson(m.residuals); dw != nil {
		m.DurbinWatson = dw.Statistic
	}

	m.JarqueBera, m.JBPValue, m.Skew, m.Kurtosis = math.NaN(), math.NaN(), math.NaN(), math.NaN()
	if jb := stats.JarqueBera(m.residuals); jb != nil {
		m.JarqueBera = jb.Statistic
		m.JBPValue = jb.PValue
		m.Skew = jb.Skew
		m.Kurtosis = jb.Kurtosis
	}
}

// Predictors returns the predictor names, without the intercept.
func (m *Model) Predictors() []string {
	return append([]string(nil), m.Names[1:]...)
}

// Index returns the original row ids of the training data.
func (m *Model) Index() []int {
	return append([]int(nil), m.index...)
}

// Residuals returns the model residuals.
func (m *Model) Residuals() []float64 {
	return append([]float64(nil), m.residuals...)
}

// FittedValues returns the fitted values.
func (m *Model) FittedValues() []float64 {
	return append([]float64(nil), m.fittedVals...)
}

// Endog returns the response the model was trained on.
func (m *Model) Endog() []float64 {
	return append([]float64(nil), m.endog...)
}

// Coefficient is one row of the coefficient table.
type Coefficient struct {
	Name   string
	Coef   float64
	StdErr float64
	T      float64
	P      float64
	Lower  float64
	Upper  float64
}

// Coefficients returns the coefficient table with (1-alpha) confidence intervals.
func (m *Model) Coefficients(alpha float64) []Coefficient {
	tdist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(m.DfResid)}
	q := tdist.Quantile(1 - alpha/2)

	out := make([]Coefficient, len(m.Params))
	for i := range m.Params {
		out[i] = Coefficient{
			Name:   m.Names[i],
			Coef:   m.Params[i],
			StdErr: m.StdErr[i],
			T:      m.TValues[i],
			P:      m.PValues[i],
			Lower:  m.Params[i] - q*m.StdErr[i],
			Upper:  m.Params[i] + q*m.StdErr[i],
		}
	}
	return out
}

// Coef returns the estimate for the named term.
func (m *Model) Coef(name string) (Coefficient, bool) {
	for i, n := range m.Names {
		if n == name {
			return m.Coefficients(0.05)[i], true
		}
	}
	return Coefficient{}, false
}

// Predict evaluates the model on X. Columns are matched by name; extra
// columns in X are ignored.
func (m *Model) Predict(X *dataset.Frame) ([]float64, error) {
	cols := make([]int, len(m.Names)-1)
	for j, name := range m.Names[1:] {
		cols[j] = X.ColIndex(name)
		if cols[j] < 0 {
			return nil, fmt.Errorf("ols: predict: %w %q", ErrMissingPredictor, name)
		}
	}

	pred := make([]float64, X.Nrow())
	for i := range pred {
		v := m.Params[0]
		for j, c := range cols {
			v += m.Params[j+1] * X.At(i, c)
		}
		pred[i] = v
	}
	return pred, nil
}

// MSE returns mean((y - Predict(X))²).
func (m *Model) MSE(X *dataset.Frame, y *dataset.Vector) (float64, error) {
	if err := X.AlignedWith(y); err != nil {
		return 0, err
	}
	pred, err := m.Predict(X)
	if err != nil {
		return 0, err
	}
	d := floats.Distance(y.Values, pred, 2)
	return d * d / float64(len(pred)), nil
}
