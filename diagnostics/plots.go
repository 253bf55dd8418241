package diagnostics

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/bikereg/dataset"
)

// PlotType identifies a diagnostic chart.
type PlotType string

const (
	ResidualsVsFitted   PlotType = "residuals_vs_fitted"
	StudentizedVsFitted PlotType = "studentized_vs_fitted"
	CovariateResiduals  PlotType = "covariate_residuals"
	QQPlot              PlotType = "qq_plot"
	InfluencePlot       PlotType = "influence_plot"
)

// PlotData is a renderer-independent chart description, serialized as JSON.
type PlotData struct {
	PlotType  PlotType `json:"plot_type"`
	Title     string   `json:"title"`
	ModelName string   `json:"model_name"`

	Series []SeriesData `json:"series"`

	Config PlotConfig `json:"config"`

	Metrics map[string]interface{} `json:"metrics,omitempty"`
}

// SeriesData is one named series of a chart.
type SeriesData struct {
	Name  string                 `json:"name"`
	Type  string                 `json:"type"` // "scatter", "line"
	Data  []DataPoint            `json:"data"`
	Style map[string]interface{} `json:"style,omitempty"`
}

// DataPoint is a single point; Label carries the original row id.
type DataPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label,omitempty"`
}

// PlotConfig holds axis and layout settings.
type PlotConfig struct {
	XAxisLabel string `json:"x_axis_label"`
	YAxisLabel string `json:"y_axis_label"`
	ShowLegend bool   `json:"show_legend"`
	ShowGrid   bool   `json:"show_grid"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
}

func scatter(name string, xs, ys []float64, index []int) SeriesData {
	data := make([]DataPoint, 0, len(xs))
	for i := range xs {
		// JSON has no NaN or Inf
		if !finite(xs[i]) || !finite(ys[i]) {
			continue
		}
		p := DataPoint{X: xs[i], Y: ys[i]}
		if index != nil {
			p.Label = strconv.Itoa(index[i])
		}
		data = append(data, p)
	}
	return SeriesData{Name: name, Type: "scatter", Data: data}
}

func line(name string, x0, y0, x1, y1 float64) SeriesData {
	return SeriesData{
		Name:  name,
		Type:  "line",
		Data:  []DataPoint{{X: x0, Y: y0}, {X: x1, Y: y1}},
		Style: map[string]interface{}{"color": "red", "dash": "dash"},
	}
}

func config(xLabel, yLabel string, legend bool) PlotConfig {
	return PlotConfig{
		XAxisLabel: xLabel,
		YAxisLabel: yLabel,
		ShowLegend: legend,
		ShowGrid:   true,
		Width:      800,
		Height:     600,
	}
}

// Plots builds the five diagnostic charts: residuals and studentized residuals
// against fitted values, residuals against each covariate, a normal QQ plot,
// and leverage against Cook's distance with influential points highlighted.
// X supplies the covariates and must cover the model's rows.
func Plots(d *Diagnostics, X *dataset.Frame, title string) ([]PlotData, error) {
	X, err := alignTo(X, d.Index)
	if err != nil {
		return nil, err
	}

	lo, hi := floats.Min(d.Fitted), floats.Max(d.Fitted)

	plots := make([]PlotData, 0, 5)

	plots = append(plots, PlotData{
		PlotType:  ResidualsVsFitted,
		Title:     title + ": residuals vs fitted",
		ModelName: d.Response,
		Series: []SeriesData{
			scatter("residuals", d.Fitted, d.Residuals, d.Index),
			line("zero", lo, 0, hi, 0),
		},
		Config: config("fitted", "residual", false),
	})

	plots = append(plots, PlotData{
		PlotType:  StudentizedVsFitted,
		Title:     title + ": studentized residuals vs fitted",
		ModelName: d.Response,
		Series: []SeriesData{
			scatter("studentized", d.Fitted, d.Studentized, d.Index),
			line("zero", lo, 0, hi, 0),
		},
		Config: config("fitted", "studentized residual", false),
	})

	covariates := PlotData{
		PlotType:  CovariateResiduals,
		Title:     title + ": residuals vs covariates",
		ModelName: d.Response,
		Config:    config("covariate", "residual", true),
	}
	for _, name := range X.Columns {
		col, err := X.Col(name)
		if err != nil {
			return nil, err
		}
		covariates.Series = append(covariates.Series, scatter(name, col, d.Residuals, d.Index))
	}
	plots = append(plots, covariates)

	qq := PlotData{
		PlotType:  QQPlot,
		Title:     title + ": normal QQ",
		ModelName: d.Response,
		Config:    config("theoretical quantiles", "sample quantiles", false),
	}
	if d.QQ != nil {
		n := len(d.QQ.Theoretical)
		q0, q1 := d.QQ.Theoretical[0], d.QQ.Theoretical[n-1]
		qq.Series = []SeriesData{
			scatter("residuals", d.QQ.Theoretical, d.QQ.Sample, nil),
			line("45°", q0, q0, q1, q1),
		}
	}
	plots = append(plots, qq)

	normal := make([]int, 0, len(d.Index))
	flagged := make(map[int]bool, len(d.Influential))
	for _, p := range d.Influential {
		flagged[p] = true
	}
	for i := range d.Index {
		if !flagged[i] {
			normal = append(normal, i)
		}
	}
	influential := scatter("influential", pick(d.Leverage, d.Influential), pick(d.CooksDistance, d.Influential), pick(d.Index, d.Influential))
	influential.Style = map[string]interface{}{"color": "red"}
	plots = append(plots, PlotData{
		PlotType:  InfluencePlot,
		Title:     title + ": influence",
		ModelName: d.Response,
		Series: []SeriesData{
			scatter("observations", pick(d.Leverage, normal), pick(d.CooksDistance, normal), pick(d.Index, normal)),
			influential,
			line("4/n", floats.Min(d.Leverage), d.Threshold, floats.Max(d.Leverage), d.Threshold),
		},
		Config: config("leverage", "Cook's distance", true),
		Metrics: map[string]interface{}{
			"threshold":   d.Threshold,
			"influential": len(d.Influential),
			"n":           len(d.Index),
		},
	})

	return plots, nil
}

func pick[T any](values []T, positions []int) []T {
	out := make([]T, len(positions))
	for k, p := range positions {
		out[k] = values[p]
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
