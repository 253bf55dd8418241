// Package dataset provides the tabular views the regression pipeline works on.
//
// A Table is the loaded file. Frames (design matrices) and Vectors (responses)
// are immutable views cut from it; every row carries its original row id in
// Index so that views derived at different stages can be checked against
// each other.
//
// # Loading from CSV
//
// Load the hourly bike-sharing file:
//
//	table, err := dataset.LoadCSV("hour.csv", nil)
//	if err != nil {
//	    var le *dataset.LoadError
//	    errors.As(err, &le) // missing column, unreadable file, no rows
//	}
//
//	X, ys, err := table.Split("casual", "registered")
//
// # Deriving Views
//
// Views never mutate their source:
//
//	reduced, _ := X.Drop("instant", "yr")
//	resample := X.Take([]int{3, 3, 0, 7})   // ids travel with the rows
//	filtered, _ := X.DropRows([]int{17, 42}) // by original row id
//
// # Alignment
//
// Row ids are compared, never re-derived:
//
//	if err := X.AlignedWith(y); err != nil {
//	    // *dataset.IndexAlignmentError
//	}
package dataset
