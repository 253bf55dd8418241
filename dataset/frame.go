package dataset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Frame is an immutable design-matrix view: named numeric columns over rows
// identified by their original row id.
type Frame struct {
	Columns []string
	Index   []int
	data    *mat.Dense
}

// Vector is an immutable response view aligned to a Frame by Index.
type Vector struct {
	Name   string
	Index  []int
	Values []float64
}

// NewFrame wraps data (rows x len(columns)). A nil index numbers rows from 0.
func NewFrame(columns []string, index []int, data *mat.Dense) (*Frame, error) {
	if data == nil {
		return nil, errors.New("dataset: nil frame data")
	}
	r, c := data.Dims()
	if c != len(columns) {
		return nil, fmt.Errorf("dataset: %d columns named for %d data columns", len(columns), c)
	}
	if index == nil {
		index = sequence(r)
	}
	if len(index) != r {
		return nil, &IndexAlignmentError{Op: "new frame", Reason: fmt.Sprintf("%d ids for %d rows", len(index), r)}
	}
	seen := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("dataset: duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	return &Frame{
		Columns: append([]string(nil), columns...),
		Index:   append([]int(nil), index...),
		data:    data,
	}, nil
}

// FrameFromColumns builds a Frame from column slices of equal length.
func FrameFromColumns(names []string, cols [][]float64) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("dataset: %d names for %d columns", len(names), len(cols))
	}
	if len(cols) == 0 || len(cols[0]) == 0 {
		return nil, errors.New("dataset: empty frame")
	}
	n := len(cols[0])
	data := mat.NewDense(n, len(cols), nil)
	for j, col := range cols {
		if len(col) != n {
			return nil, fmt.Errorf("dataset: column %q has %d rows, want %d", names[j], len(col), n)
		}
		data.SetCol(j, col)
	}
	return NewFrame(names, nil, data)
}

// NewVector creates a response vector with rows numbered from 0.
func NewVector(name string, values []float64) *Vector {
	return &Vector{
		Name:   name,
		Index:  sequence(len(values)),
		Values: append([]float64(nil), values...),
	}
}

// Nrow returns the number of rows.
func (f *Frame) Nrow() int {
	return len(f.Index)
}

// Ncol returns the number of columns.
func (f *Frame) Ncol() int {
	return len(f.Columns)
}

// At returns the value at row position i, column position j.
func (f *Frame) At(i, j int) float64 {
	return f.data.At(i, j)
}

// Dense returns a read-only view of the underlying matrix. It is nil for a
// Frame without rows or columns.
func (f *Frame) Dense() mat.Matrix {
	if f.data == nil {
		return nil
	}
	return f.data
}

// ColIndex returns the position of the named column or -1.
func (f *Frame) ColIndex(name string) int {
	for j, c := range f.Columns {
		if c == name {
			return j
		}
	}
	return -1
}

// Col returns a copy of the named column.
func (f *Frame) Col(name string) ([]float64, error) {
	j := f.ColIndex(name)
	if j < 0 {
		return nil, fmt.Errorf("dataset: %w %q", ErrUnknownColumn, name)
	}
	if f.data == nil {
		return make([]float64, f.Nrow()), nil
	}
	return mat.Col(nil, j, f.data), nil
}

// Drop returns a Frame without the named columns. Every name must exist.
// Dropping every column leaves a Frame that keeps its rows, which fits as an
// intercept-only design.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if f.ColIndex(name) < 0 {
			return nil, fmt.Errorf("dataset: drop: %w %q", ErrUnknownColumn, name)
		}
		drop[name] = struct{}{}
	}

	keep := make([]int, 0, f.Ncol())
	for j, c := range f.Columns {
		if _, ok := drop[c]; !ok {
			keep = append(keep, j)
		}
	}
	if len(keep) == 0 {
		return f.empty(nil, f.Index), nil
	}
	return f.Select(keep)
}

// Select returns a Frame holding the columns at the given positions.
func (f *Frame) Select(positions []int) (*Frame, error) {
	if len(positions) == 0 {
		return nil, errors.New("dataset: select: no columns")
	}
	columns := make([]string, len(positions))
	for k, j := range positions {
		if j < 0 || j >= f.Ncol() {
			return nil, fmt.Errorf("dataset: select: column position %d out of range", j)
		}
		columns[k] = f.Columns[j]
	}
	n := f.Nrow()
	if n == 0 {
		return f.empty(columns, nil), nil
	}
	data := mat.NewDense(n, len(positions), nil)
	col := make([]float64, n)
	for k, j := range positions {
		mat.Col(col, j, f.data)
		data.SetCol(k, col)
	}
	return NewFrame(columns, f.Index, data)
}

// Take returns the rows at the given positions, in order. Positions may
// repeat; the original ids travel with the rows. Positions must be in range.
// No positions, or a Frame without columns, gives a Frame without data.
func (f *Frame) Take(positions []int) *Frame {
	index := make([]int, len(positions))
	for k, i := range positions {
		index[k] = f.Index[i]
	}
	if len(positions) == 0 || f.Ncol() == 0 {
		return f.empty(f.Columns, index)
	}
	data := mat.NewDense(len(positions), f.Ncol(), nil)
	for k, i := range positions {
		data.SetRow(k, f.data.RawRowView(i))
	}
	return &Frame{
		Columns: append([]string(nil), f.Columns...),
		Index:   index,
		data:    data,
	}
}

// DropRows removes every row whose original id is listed. An id the Frame
// does not hold is an IndexAlignmentError.
func (f *Frame) DropRows(ids []int) (*Frame, error) {
	keep, err := keepPositions("frame drop rows", f.Index, ids)
	if err != nil {
		return nil, err
	}
	if len(keep) == 0 {
		return nil, errors.New("dataset: drop rows: no rows left")
	}
	return f.Take(keep), nil
}

// empty returns a Frame with no backing matrix. gonum has no zero-sized
// Dense, so a Frame without rows or columns carries only its names and ids.
func (f *Frame) empty(columns []string, index []int) *Frame {
	return &Frame{
		Columns: append([]string{}, columns...),
		Index:   append([]int{}, index...),
	}
}

// AlignedWith reports whether v covers exactly the rows of f, in order.
func (f *Frame) AlignedWith(v *Vector) error {
	return CheckAligned("frame/vector", f.Index, v.Index)
}

// Len returns the number of observations.
func (v *Vector) Len() int {
	return len(v.Values)
}

// Take returns the observations at the given positions, in order.
func (v *Vector) Take(positions []int) *Vector {
	values := make([]float64, len(positions))
	index := make([]int, len(positions))
	for k, i := range positions {
		values[k] = v.Values[i]
		index[k] = v.Index[i]
	}
	return &Vector{Name: v.Name, Index: index, Values: values}
}

// DropRows removes every observation whose original id is listed.
func (v *Vector) DropRows(ids []int) (*Vector, error) {
	keep, err := keepPositions("vector drop rows", v.Index, ids)
	if err != nil {
		return nil, err
	}
	if len(keep) == 0 {
		return nil, errors.New("dataset: drop rows: no rows left")
	}
	return v.Take(keep), nil
}

func keepPositions(op string, index, ids []int) ([]int, error) {
	present := make(map[int]struct{}, len(index))
	for _, id := range index {
		present[id] = struct{}{}
	}
	drop := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := present[id]; !ok {
			return nil, &IndexAlignmentError{Op: op, Reason: fmt.Sprintf("row %d is not present", id)}
		}
		drop[id] = struct{}{}
	}

	keep := make([]int, 0, len(index))
	for i, id := range index {
		if _, ok := drop[id]; !ok {
			keep = append(keep, i)
		}
	}
	return keep, nil
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i
	}
	return s
}
