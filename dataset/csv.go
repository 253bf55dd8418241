package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Covariates lists the time and weather columns of the hourly bike-sharing file.
var Covariates = []string{
	"season", "yr", "mnth", "hr", "holiday", "weekday", "workingday",
	"weathersit", "temp", "atemp", "hum", "windspeed",
}

// Targets lists the rider-count columns. They never enter a design matrix,
// whichever of them is modelled, since cnt is their sum.
var Targets = []string{"casual", "registered"}

// CSVOptions holds options for CSV loading.
type CSVOptions struct {
	DateColumn string   // Column dropped at load (default: "dteday"; empty keeps every column)
	Required   []string // Columns that must be present
	Delimiter  rune     // Field delimiter (default: ',')
	NaNValues  []string // Cells read as missing
}

// DefaultCSVOptions returns default options for the hourly bike-sharing file.
func DefaultCSVOptions() *CSVOptions {
	required := append([]string(nil), Covariates...)
	required = append(required, Targets...)
	return &CSVOptions{
		DateColumn: "dteday",
		Required:   required,
		Delimiter:  ',',
		NaNValues:  []string{"", "NA", "NaN", "null"},
	}
}

// Table is a loaded file: numeric columns in file order, minus the date column.
type Table struct {
	Columns []string
	Index   []int
	Skipped int // rows rejected for a missing or non-numeric cell
	values  map[string][]float64
}

// LoadCSV loads a table from a CSV file.
func LoadCSV(filename string, opts *CSVOptions) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}
	defer file.Close()

	table, err := LoadCSVFromReader(file, opts)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = filename
		}
		return nil, err
	}
	return table, nil
}

// LoadCSVFromReader loads a table from an io.Reader.
func LoadCSVFromReader(r io.Reader, opts *CSVOptions) (*Table, error) {
	if opts == nil {
		opts = DefaultCSVOptions()
	}
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}

	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delim),
		dataframe.NaNValues(opts.NaNValues),
	)
	if df.Err != nil {
		return nil, &LoadError{Err: df.Err}
	}

	names := df.Names()
	present := make(map[string]string, len(names))
	for _, raw := range names {
		present[strings.TrimSpace(strings.Trim(raw, "\""))] = raw
	}
	for _, name := range opts.Required {
		if _, ok := present[name]; !ok {
			return nil, &LoadError{Err: fmt.Errorf("%w %q", ErrMissingColumn, name)}
		}
	}
	if opts.DateColumn != "" {
		if _, ok := present[opts.DateColumn]; !ok {
			return nil, &LoadError{Err: fmt.Errorf("%w %q", ErrMissingColumn, opts.DateColumn)}
		}
	}
	if df.Nrow() == 0 {
		return nil, &LoadError{Err: ErrNoRows}
	}

	var columns []string
	raw := make(map[string][]float64)
	for _, name := range names {
		clean := strings.TrimSpace(strings.Trim(name, "\""))
		if clean == opts.DateColumn {
			continue
		}
		columns = append(columns, clean)
		raw[clean] = df.Col(name).Float()
	}

	// Skip rows with a missing or unparsable cell in any model column
	var index []int
	for i := 0; i < df.Nrow(); i++ {
		ok := true
		for _, c := range columns {
			if math.IsNaN(raw[c][i]) {
				ok = false
				break
			}
		}
		if ok {
			index = append(index, i)
		}
	}
	if len(index) == 0 {
		return nil, &LoadError{Err: ErrNoRows}
	}

	values := make(map[string][]float64, len(columns))
	for _, c := range columns {
		col := make([]float64, len(index))
		for k, i := range index {
			col[k] = raw[c][i]
		}
		values[c] = col
	}

	return &Table{
		Columns: columns,
		Index:   index,
		Skipped: df.Nrow() - len(index),
		values:  values,
	}, nil
}

// Nrow returns the number of usable rows.
func (t *Table) Nrow() int {
	return len(t.Index)
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("dataset: %w %q", ErrUnknownColumn, name)
	}
	return append([]float64(nil), col...), nil
}

// Frame builds a design view from the named columns, in the given order.
func (t *Table) Frame(names ...string) (*Frame, error) {
	cols := make([][]float64, len(names))
	for j, name := range names {
		col, ok := t.values[name]
		if !ok {
			return nil, fmt.Errorf("dataset: %w %q", ErrUnknownColumn, name)
		}
		cols[j] = col
	}
	f, err := FrameFromColumns(names, cols)
	if err != nil {
		return nil, err
	}
	f.Index = append([]int(nil), t.Index...)
	return f, nil
}

// Vector builds a response view from the named column.
func (t *Table) Vector(name string) (*Vector, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return &Vector{Name: name, Index: append([]int(nil), t.Index...), Values: col}, nil
}

// Split separates the responses from the design: the Frame holds every column
// that is neither a response nor one of Targets, in file order, and one
// Vector is returned per response.
func (t *Table) Split(responses ...string) (*Frame, []*Vector, error) {
	return t.SplitExcluding(Targets, responses...)
}

// SplitExcluding is Split with an explicit list of columns kept out of the
// design. Responses are always kept out as well.
func (t *Table) SplitExcluding(excluded []string, responses ...string) (*Frame, []*Vector, error) {
	isTarget := make(map[string]struct{}, len(excluded)+len(responses))
	for _, name := range excluded {
		isTarget[name] = struct{}{}
	}
	for _, name := range responses {
		isTarget[name] = struct{}{}
	}
	var design []string
	for _, c := range t.Columns {
		if _, ok := isTarget[c]; !ok {
			design = append(design, c)
		}
	}

	X, err := t.Frame(design...)
	if err != nil {
		return nil, nil, err
	}
	ys := make([]*Vector, len(responses))
	for i, name := range responses {
		if ys[i], err = t.Vector(name); err != nil {
			return nil, nil, err
		}
	}
	return X, ys, nil
}

// SaveCSV writes a frame and any aligned vectors to a CSV file, with the
// original row id as the first column.
func SaveCSV(filename string, f *Frame, vectors ...*Vector) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, f, vectors...)
}

// WriteCSV writes a frame and any aligned vectors as CSV.
func WriteCSV(w io.Writer, f *Frame, vectors ...*Vector) error {
	cols := []series.Series{series.New(f.Index, series.Int, "row")}
	for j, name := range f.Columns {
		cols = append(cols, series.New(columnOf(f, j), series.Float, name))
	}
	for _, v := range vectors {
		if err := f.AlignedWith(v); err != nil {
			return err
		}
		cols = append(cols, series.New(v.Values, series.Float, v.Name))
	}

	df := dataframe.New(cols...)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func columnOf(f *Frame, j int) []float64 {
	col := make([]float64, f.Nrow())
	for i := range col {
		col[i] = f.At(i, j)
	}
	return col
}
