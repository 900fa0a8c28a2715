package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runTime = time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

const runID = "a1b2c3d4-e5f6-7890-abcd-ef1234567890"

func newManager(t *testing.T) *FileManager {
	dir := t.TempDir()
	return NewFileManager(filepath.Join(dir, "output"), filepath.Join(dir, "archive"), runTime, runID)
}

func TestOutputFileName(t *testing.T) {
	fm := newManager(t)

	tests := []struct {
		format, report, ext, want string
	}{
		{"output_file_{report}", "increases", "xlsx", "output_file_increases.xlsx"},
		{"{report}_{timestamp}", "rushes", ".csv", "rushes_20240115_143022.csv"},
		{"{date}-{time}-{uuid}", "rushes", "csv", "20240115-143022-" + runID + ".csv"},
		{"audit_{report}.CSV", "increases", "csv", "audit_increases.CSV"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fm.OutputFileName(tt.format, tt.report, tt.ext), tt.format)
	}

	assert.Equal(t, filepath.Join(fm.OutputDir, "x_rushes.xlsx"), fm.OutputPath("x_{report}", "rushes", "xlsx"))
}

func TestEnsureDirectoriesAndArchive(t *testing.T) {
	fm := newManager(t)
	require.NoError(t, fm.EnsureDirectories(false))
	assert.DirExists(t, fm.OutputDir)
	assert.NoDirExists(t, fm.InputArchiveDir)

	require.NoError(t, fm.EnsureDirectories(true))
	assert.DirExists(t, fm.InputArchiveDir)

	input := filepath.Join(fm.OutputDir, "orders.csv")
	require.NoError(t, os.WriteFile(input, []byte("Ref\n"), 0o644))

	archived, err := fm.ArchiveInputFile(input)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fm.InputArchiveDir, "20240115_143022", "orders.csv"), archived)
	assert.False(t, FileExists(input))
	assert.True(t, FileExists(archived))

	_, err = fm.ArchiveInputFile(input)
	assert.Error(t, err)
}

func TestWriteErrorLog(t *testing.T) {
	fm := newManager(t)
	require.NoError(t, fm.EnsureDirectories(false))

	path, err := fm.WriteErrorLog(nil)
	require.NoError(t, err)
	assert.Empty(t, path)

	path, err = fm.WriteErrorLog([]ErrorLogEntry{
		{Source: "orders", ErrorType: "key_not_found", ErrorMessage: "no fee schedule entry", RowNumber: 6, ReferenceID: "A5"},
		{Source: "orders", ErrorType: "malformed_numeric", ErrorMessage: "bad value", RowNumber: 7, ReferenceID: "A6", FieldName: "GLA", FieldValue: "big"},
	})
	require.NoError(t, err)
	assert.Equal(t, "error_log_20240115_143022.txt", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "error_log", data)
}

func TestWriteSummary(t *testing.T) {
	summary := ProcessingSummary{
		RunID:              runID,
		StartTime:          runTime,
		EndTime:            runTime.Add(1500 * time.Millisecond),
		ScheduleFile:       "fees.xlsx",
		OrdersFile:         "orders.xlsx",
		ScheduleRows:       4,
		OrderRows:          9,
		AuditRows:          2,
		RushRows:           3,
		Quoted:             3,
		RecordErrors:       3,
		ValidationWarnings: 1,
		Tiers:              map[string]int{"1": 4, "3": 1, "Quote": 1},
		Levels:             map[string]int{"state": 3, "city": 2, "county": 1},
		OutputFiles:        []string{"output/output_file_increases.xlsx", "output/output_file_rushes.xlsx"},
	}

	var buf bytes.Buffer
	WriteSummary(&buf, summary)

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "summary", buf.Bytes())

	fm := newManager(t)
	require.NoError(t, fm.EnsureDirectories(false))
	path, err := fm.WriteSummaryLog(summary)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, buf.String(), string(data))
}
