package reportwriter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/xlsxparser"
)

var report = types.Table{
	{"Reference ID", "Zip", "Actual Fee", "Percentage"},
	{"0042", "02134", "600", "N/A"},
	{"A7", "76102", "1200", "0.5"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, report, '|'))

	assert.Equal(t,
		"Reference ID|Zip|Actual Fee|Percentage\n0042|02134|600|N/A\nA7|76102|1200|0.5\n",
		buf.String())
}

func TestWriteByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "out.csv")
	require.NoError(t, Write(csvPath, report, Options{}))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Reference ID,Zip,Actual Fee,Percentage\n")

	err = Write(filepath.Join(dir, "out.xls"), report, Options{})
	assert.ErrorContains(t, err, "unsupported report format")
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "increases.xlsx")
	require.NoError(t, Write(path, report, Options{Sheet: "Increases"}))

	table, err := xlsxparser.Parse(path, "Increases")
	require.NoError(t, err)
	assert.Equal(t, report, table)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	// Leading zeros stay text, fees become numbers.
	typ, err := f.GetCellType("Increases", "B2")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, typ)

	raw, err := f.GetCellValue("Increases", "C3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "1200", raw)
}

func TestCellValue(t *testing.T) {
	assert.Equal(t, 600, cellValue("600"))
	assert.Equal(t, -5, cellValue("-5"))
	assert.Equal(t, 0.25, cellValue("0.25"))
	assert.Equal(t, "007", cellValue("007"))
	assert.Equal(t, "1,200", cellValue("1,200"))
	assert.Equal(t, "Quote", cellValue("Quote"))
	assert.Equal(t, "", cellValue(""))
}
