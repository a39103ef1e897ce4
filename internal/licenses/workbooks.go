package licenses

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// workbookExt is the spreadsheet member extension recognized inside archives.
const workbookExt = ".xlsx"

// Workbook pairs an open workbook with the region it was downloaded for.
type Workbook struct {
	RegionName string
	File       *xlsx.File
}

type regionArchive struct {
	regionName string
	data       []byte
}

// WorkbookIter is a lazy, single-pass iterator over the spreadsheet members
// of the downloaded archives, one Workbook per .xlsx member. An archive is
// not unpacked until the caller advances past the previous archive's members,
// since open workbooks are memory-heavy. Close releases everything held for
// the current position; exhausting the iterator does the same.
type WorkbookIter struct {
	archives []regionArchive
	members  []*zip.File // remaining .xlsx members of the current archive
	region   string
	cur      Workbook
	err      error
	closed   bool
}

// NewWorkbookIter builds an iterator over the region-name -> archive-bytes
// mapping. Regions are visited in name order.
func NewWorkbookIter(archives map[string][]byte) *WorkbookIter {
	names := make([]string, 0, len(archives))
	for name := range archives {
		names = append(names, name)
	}
	sort.Strings(names)

	ordered := make([]regionArchive, 0, len(names))
	for _, name := range names {
		ordered = append(ordered, regionArchive{regionName: name, data: archives[name]})
	}
	return &WorkbookIter{archives: ordered}
}

// Next advances to the next spreadsheet member, unpacking the next archive
// only when needed. It returns false on exhaustion or error; check Err.
func (it *WorkbookIter) Next() bool {
	if it.closed || it.err != nil {
		return false
	}

	for len(it.members) == 0 {
		if len(it.archives) == 0 {
			it.Close()
			return false
		}

		next := it.archives[0]
		it.archives = it.archives[1:]

		zr, err := zip.NewReader(bytes.NewReader(next.data), int64(len(next.data)))
		if err != nil {
			it.err = eris.Wrapf(err, "open archive for %s", next.regionName)
			it.Close()
			return false
		}

		it.region = next.regionName
		for _, member := range zr.File {
			if strings.HasSuffix(member.Name, workbookExt) {
				it.members = append(it.members, member)
			}
		}
	}

	member := it.members[0]
	it.members = it.members[1:]

	wb, err := openWorkbook(member)
	if err != nil {
		it.err = eris.Wrapf(err, "open workbook %s for %s", member.Name, it.region)
		it.Close()
		return false
	}

	it.cur = Workbook{RegionName: it.region, File: wb}
	return true
}

// Workbook returns the pair produced by the last successful Next.
func (it *WorkbookIter) Workbook() Workbook { return it.cur }

// Err returns the error that stopped iteration, if any.
func (it *WorkbookIter) Err() error { return it.err }

// Close releases the remaining archives and members. Safe to call more than
// once; Next always returns false afterwards.
func (it *WorkbookIter) Close() {
	it.closed = true
	it.archives = nil
	it.members = nil
}

func openWorkbook(member *zip.File) (*xlsx.File, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, eris.Wrap(err, "open member")
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrap(err, "read member")
	}

	wb, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "parse workbook")
	}
	return wb, nil
}
