package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is wrapped by LoadError when a required column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoRows is wrapped by LoadError when no usable data row remains.
	ErrNoRows = errors.New("no data rows")
	// ErrUnknownColumn is returned when a view references a column it does not hold.
	ErrUnknownColumn = errors.New("unknown column")
)

// LoadError reports a file that cannot become a Table. It is fatal for a run.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return "dataset: load: " + e.Err.Error()
	}
	return fmt.Sprintf("dataset: load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IndexAlignmentError reports two snapshots whose row ids disagree.
type IndexAlignmentError struct {
	Op     string
	Reason string
}

func (e *IndexAlignmentError) Error() string {
	return fmt.Sprintf("dataset: %s: index misaligned: %s", e.Op, e.Reason)
}

// CheckAligned returns an IndexAlignmentError when the two id sequences differ.
func CheckAligned(op string, want, got []int) error {
	if len(want) != len(got) {
		return &IndexAlignmentError{
			Op:     op,
			Reason: fmt.Sprintf("%d rows vs %d rows", len(want), len(got)),
		}
	}
	for i := range want {
		if want[i] != got[i] {
			return &IndexAlignmentError{
				Op:     op,
				Reason: fmt.Sprintf("position %d holds row %d, expected row %d", i, got[i], want[i]),
			}
		}
	}
	return nil
}
