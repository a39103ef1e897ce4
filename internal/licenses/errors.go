package licenses

import "github.com/rotisserie/eris"

var (
	// ErrNoWorksheet is returned when a workbook contains no worksheets.
	ErrNoWorksheet = eris.New("there is no any worksheet")

	// ErrDateFormat is returned when a non-blank date cell does not match
	// the registry's locale format.
	ErrDateFormat = eris.New("date cell does not match registry format")
)
