package licenses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookIter_YieldsOnlySpreadsheetMembers(t *testing.T) {
	wbBytes := buildWorkbook(t, [][]string{headerRow()})
	archive := buildZip(t, map[string][]byte{
		"readme.txt":    []byte("не спредшит"),
		"licenses.xlsx": wbBytes,
		"licenses.sig":  []byte{0x01},
	})

	it := NewWorkbookIter(map[string][]byte{"Москва": archive})

	require.True(t, it.Next())
	wb := it.Workbook()
	assert.Equal(t, "Москва", wb.RegionName)
	require.NotNil(t, wb.File)
	require.NotEmpty(t, wb.File.Sheets)

	assert.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestWorkbookIter_MultipleRegionsInNameOrder(t *testing.T) {
	wbBytes := buildWorkbook(t, [][]string{headerRow()})
	archives := map[string][]byte{
		"Москва":             buildZip(t, map[string][]byte{"m.xlsx": wbBytes}),
		"Московская область": buildZip(t, map[string][]byte{"mo.xlsx": wbBytes}),
	}

	it := NewWorkbookIter(archives)

	var names []string
	for it.Next() {
		names = append(names, it.Workbook().RegionName)
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"Москва", "Московская область"}, names)
}

func TestWorkbookIter_MultipleMembersPerArchive(t *testing.T) {
	wbBytes := buildWorkbook(t, [][]string{headerRow()})
	archive := buildZip(t, map[string][]byte{
		"part1.xlsx": wbBytes,
		"part2.xlsx": wbBytes,
	})

	it := NewWorkbookIter(map[string][]byte{"Республика Татарстан": archive})

	count := 0
	for it.Next() {
		assert.Equal(t, "Республика Татарстан", it.Workbook().RegionName)
		count++
	}
	require.NoError(t, it.Err())
	assert.Equal(t, 2, count)
}

func TestWorkbookIter_Empty(t *testing.T) {
	it := NewWorkbookIter(nil)
	assert.False(t, it.Next())
	require.NoError(t, it.Err())
}

func TestWorkbookIter_CorruptArchive(t *testing.T) {
	it := NewWorkbookIter(map[string][]byte{"Москва": []byte("definitely not a zip")})

	assert.False(t, it.Next())
	require.Error(t, it.Err())
	assert.Contains(t, it.Err().Error(), "Москва")
}

func TestWorkbookIter_CloseStopsIteration(t *testing.T) {
	wbBytes := buildWorkbook(t, [][]string{headerRow()})
	archives := map[string][]byte{
		"Москва":             buildZip(t, map[string][]byte{"m.xlsx": wbBytes}),
		"Московская область": buildZip(t, map[string][]byte{"mo.xlsx": wbBytes}),
	}

	it := NewWorkbookIter(archives)
	require.True(t, it.Next())

	it.Close()
	assert.False(t, it.Next())
	require.NoError(t, it.Err())

	// Close is idempotent.
	it.Close()
	assert.False(t, it.Next())
}
