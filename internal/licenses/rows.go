package licenses

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// headerMark identifies the header row of a license sheet by its first cell.
const headerMark = "номер лицензии"

// RowIter is a lazy, single-pass iterator over the normalized rows of one
// license workbook. It follows the usual Next/Row/Err scanner shape and is
// not restartable: once exhausted (or failed) it yields nothing further, and
// re-reading requires re-opening the workbook.
type RowIter struct {
	rows []*xlsx.Row // physical rows of the first sheet
	next int         // index of the next row to normalize
	cur  Row
	err  error
	done bool
}

// Rows opens row iteration over the first worksheet of wb. It fails with
// ErrNoWorksheet when the workbook has no sheets. The header row is located
// by content: rows are skipped up to and including the first row whose first
// cell, trimmed and lowercased, equals "номер лицензии". When no such row
// exists the iterator is empty.
func Rows(wb *xlsx.File) (*RowIter, error) {
	if len(wb.Sheets) == 0 {
		return nil, ErrNoWorksheet
	}
	sheet := wb.Sheets[0]

	start := len(sheet.Rows)
	for i, row := range sheet.Rows {
		if len(row.Cells) == 0 {
			continue
		}
		if normalize(row.Cells[0].String()) == headerMark {
			start = i + 1
			break
		}
	}

	return &RowIter{rows: sheet.Rows, next: start}, nil
}

// Next advances to the next data row, normalizing it. It returns false when
// the sheet is exhausted or a row fails to normalize; check Err afterwards.
func (it *RowIter) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if it.next >= len(it.rows) {
		it.done = true
		return false
	}

	row := it.rows[it.next]
	physical := it.next + 1 // sheet rows are numbered from 1
	it.next++

	cells := rowStrings(row)
	if len(cells) >= 2 {
		cells = cells[:len(cells)-2] // trailing columns carry no modeled data
	} else {
		cells = nil
	}

	r, err := newRow(physical, cells)
	if err != nil {
		it.err = eris.Wrap(err, "normalize row")
		it.done = true
		return false
	}

	it.cur = r
	return true
}

// Row returns the row produced by the last successful Next.
func (it *RowIter) Row() Row { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *RowIter) Err() error { return it.err }

func rowStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}
