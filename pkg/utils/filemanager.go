// =============================================================================
// Appraisal Fee Audit - File Manager Utility
// =============================================================================
//
// This module provides file management utilities for an audit run, including:
//   - Report file naming
//   - Input archival (moving processed inputs)
//   - Error log generation
//   - Processing summary generation
//   - Directory management
//
// ARCHIVAL STRATEGY:
//   - Input files are moved to input_archive/<run timestamp>/ after a run
//     with no record errors
//   - Inputs of a failed or partial run remain in their original location
//   - Error logs and summaries are created in the output directory
//
// Every name produced by one FileManager shares the same run timestamp and
// run id, so the reports, logs and archive of a run can be matched up.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const stampLayout = "20060102_150405"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for one audit run.
type FileManager struct {
	// OutputDir is the directory where reports and logs are placed.
	OutputDir string

	// InputArchiveDir is the directory for archived input files.
	InputArchiveDir string

	// RunTime stamps every file name of the run.
	RunTime time.Time

	// RunID fills the {uuid} placeholder.
	RunID string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(outputDir, inputArchiveDir string, runTime time.Time, runID string) *FileManager {
	return &FileManager{
		OutputDir:       outputDir,
		InputArchiveDir: inputArchiveDir,
		RunTime:         runTime,
		RunID:           runID,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the output directory, and the archive directory
// when archive is true.
//
// RETURNS:
//   - An error if any directory cannot be created.
func (fm *FileManager) EnsureDirectories(archive bool) error {
	dirs := []string{fm.OutputDir}
	if archive {
		dirs = append(dirs, fm.InputArchiveDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// =============================================================================
// FILE ARCHIVAL
// =============================================================================

// ArchiveInputFile moves an input file to the run's archive directory.
//
// PARAMETERS:
//   - filePath: The path to the file to archive.
//
// RETURNS:
//   - The path to the archived file.
//   - An error if archival fails.
func (fm *FileManager) ArchiveInputFile(filePath string) (string, error) {
	archivePath := filepath.Join(fm.InputArchiveDir, fm.RunTime.Format(stampLayout), filepath.Base(filePath))

	if err := os.MkdirAll(filepath.Dir(archivePath), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	if err := os.Rename(filePath, archivePath); err != nil {
		// If rename fails (e.g., cross-device), try copy and delete.
		if err := copyFile(filePath, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(filePath); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputFileName generates a report file name.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {report}    - Report name ("increases", "rushes")
//               {uuid}      - The run id
//               {timestamp} - Run start (YYYYMMDD_HHMMSS)
//               {date}      - Run date (YYYYMMDD)
//               {time}      - Run time (HHMMSS)
//   - report: The report name.
//   - ext: The extension without the dot ("xlsx", "csv").
//
// RETURNS:
//   - The generated file name.
//
// EXAMPLE:
//   format: "output_file_{report}_{date}"
//   report: "rushes", ext: "xlsx"
//   output: "output_file_rushes_20240115.xlsx"
func (fm *FileManager) OutputFileName(format, report, ext string) string {
	replacements := []string{
		"{report}", report,
		"{uuid}", fm.RunID,
		"{timestamp}", fm.RunTime.Format(stampLayout),
		"{date}", fm.RunTime.Format("20060102"),
		"{time}", fm.RunTime.Format("150405"),
	}
	result := strings.NewReplacer(replacements...).Replace(format)

	suffix := "." + strings.TrimPrefix(ext, ".")
	if !strings.HasSuffix(strings.ToLower(result), strings.ToLower(suffix)) {
		result += suffix
	}

	return result
}

// OutputPath joins OutputFileName to the output directory.
func (fm *FileManager) OutputPath(format, report, ext string) string {
	return filepath.Join(fm.OutputDir, fm.OutputFileName(format, report, ext))
}

// =============================================================================
// ERROR LOG GENERATION
// =============================================================================

// ErrorLogEntry represents a single error log entry.
type ErrorLogEntry struct {
	Source       string
	ErrorType    string
	ErrorMessage string
	RowNumber    int
	ReferenceID  string
	FieldName    string
	FieldValue   string
}

// WriteErrorLog writes error entries to a log file in the output directory.
//
// PARAMETERS:
//   - entries: The error entries to write.
//
// RETURNS:
//   - The path to the error log file, empty when there are no entries.
//   - An error if writing fails.
func (fm *FileManager) WriteErrorLog(entries []ErrorLogEntry) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}

	logPath := filepath.Join(fm.OutputDir, fmt.Sprintf("error_log_%s.txt", fm.RunTime.Format(stampLayout)))

	file, err := os.Create(logPath)
	if err != nil {
		return "", fmt.Errorf("failed to create error log: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writeErrorLog(writer, entries, fm.RunTime, fm.RunID)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush error log: %w", err)
	}

	return logPath, nil
}

func writeErrorLog(w io.Writer, entries []ErrorLogEntry, runTime time.Time, runID string) {
	fmt.Fprintf(w, "Appraisal Fee Audit - Error Log\n"+
		"Run:          %s\n"+
		"Generated:    %s\n"+
		"Total Errors: %d\n"+
		"================================================================================\n\n",
		runID,
		runTime.Format("2006-01-02 15:04:05"),
		len(entries))

	for i, entry := range entries {
		fmt.Fprintf(w, "Error #%d\n"+
			"  Source:       %s\n"+
			"  Error Type:   %s\n"+
			"  Message:      %s\n",
			i+1,
			entry.Source,
			entry.ErrorType,
			entry.ErrorMessage)

		if entry.RowNumber > 0 {
			fmt.Fprintf(w, "  Row Number:   %d\n", entry.RowNumber)
		}
		if entry.ReferenceID != "" {
			fmt.Fprintf(w, "  Reference ID: %s\n", entry.ReferenceID)
		}
		if entry.FieldName != "" {
			fmt.Fprintf(w, "  Field:        %s\n", entry.FieldName)
		}
		if entry.FieldValue != "" {
			fmt.Fprintf(w, "  Value:        %s\n", entry.FieldValue)
		}

		fmt.Fprint(w, "\n")
	}

	fmt.Fprint(w, "================================================================================\n"+
		"End of Error Log\n")
}

// =============================================================================
// PROCESSING SUMMARY
// =============================================================================

// ProcessingSummary contains summary information about an audit run.
type ProcessingSummary struct {
	RunID              string
	StartTime          time.Time
	EndTime            time.Time
	DryRun             bool
	ScheduleFile       string
	OrdersFile         string
	ScheduleRows       int
	OrderRows          int
	AuditRows          int
	RushRows           int
	Quoted             int
	RecordErrors       int
	ValidationWarnings int
	Tiers              map[string]int
	Levels             map[string]int
	OutputFiles        []string
	ArchivedFiles      []string
}

// WriteSummaryLog writes a processing summary to the output directory.
//
// PARAMETERS:
//   - summary: The processing summary.
//
// RETURNS:
//   - The path to the summary file.
//   - An error if writing fails.
func (fm *FileManager) WriteSummaryLog(summary ProcessingSummary) (string, error) {
	summaryPath := filepath.Join(fm.OutputDir, fmt.Sprintf("processing_summary_%s.txt", fm.RunTime.Format(stampLayout)))

	file, err := os.Create(summaryPath)
	if err != nil {
		return "", fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	WriteSummary(writer, summary)

	if err := writer.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush summary file: %w", err)
	}

	return summaryPath, nil
}

// WriteSummary renders summary as text. The CLI prints the same text.
func WriteSummary(w io.Writer, summary ProcessingSummary) {
	mode := "audit"
	if summary.DryRun {
		mode = "dry run"
	}

	fmt.Fprintf(w, "Appraisal Fee Audit - Processing Summary\n"+
		"================================================================================\n\n"+
		"Run Information:\n"+
		"  Run ID:         %s\n"+
		"  Mode:           %s\n"+
		"  Start Time:     %s\n"+
		"  End Time:       %s\n"+
		"  Duration:       %s\n"+
		"  Fee Schedule:   %s\n"+
		"  Order List:     %s\n\n"+
		"Statistics:\n"+
		"  Schedule Rows:       %d\n"+
		"  Orders:              %d\n"+
		"  Fee Increases:       %d\n"+
		"  Rush Orders:         %d\n"+
		"  Quoted:              %d\n"+
		"  Record Errors:       %d\n"+
		"  Validation Warnings: %d\n\n",
		summary.RunID,
		mode,
		summary.StartTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Format("2006-01-02 15:04:05"),
		summary.EndTime.Sub(summary.StartTime).String(),
		summary.ScheduleFile,
		summary.OrdersFile,
		summary.ScheduleRows,
		summary.OrderRows,
		summary.AuditRows,
		summary.RushRows,
		summary.Quoted,
		summary.RecordErrors,
		summary.ValidationWarnings)

	writeCounts(w, "Tiers", summary.Tiers)
	writeCounts(w, "Fee Schedule Matches", summary.Levels)
	writeList(w, "Output Files", summary.OutputFiles)
	writeList(w, "Archived Inputs", summary.ArchivedFiles)

	fmt.Fprint(w, "================================================================================\n"+
		"End of Summary\n")
}

func writeCounts(w io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "%s:\n", title)
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %d\n", k+":", counts[k])
	}
	fmt.Fprint(w, "\n")
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(w, "%s:\n", title)
	fmt.Fprint(w, "--------------------------------------------------------------------------------\n")
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
	fmt.Fprint(w, "\n")
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// copyFile copies a file from src to dst.
func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	if err != nil {
		return err
	}

	return destFile.Sync()
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
