package licenses

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// buildWorkbook serializes a single-sheet workbook from string rows.
func buildWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Реестр лицензий")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// buildZip packs named members into an in-memory zip archive.
func buildZip(t *testing.T, members map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range members {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

// dataRow builds a full 22-cell sheet row (20 field cells plus the two
// trailing cells the normalizer drops), with positional overrides. The
// trailing cells default to non-empty markers so the row keeps its full
// width through an xlsx write/read round trip.
func dataRow(overrides map[int]string) []string {
	cells := make([]string, 22)
	cells[20] = "-"
	cells[21] = "-"
	for i, v := range overrides {
		cells[i] = v
	}
	return cells
}

// headerRow returns a sheet row whose first cell marks the license header.
func headerRow() []string {
	return []string{"Номер лицензии", "Дата лицензии", "Статус лицензии"}
}
