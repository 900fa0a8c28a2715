// =============================================================================
// Appraisal Fee Audit - Report Writer Module
// =============================================================================
//
// This module writes the audit and rush reports. A report is a types.Table
// whose first row holds the column titles. The file extension picks the
// format:
//
//   .xlsx : one worksheet, bold frozen title row, numeric cells stored as
//           numbers so fees can be summed in Excel
//   .csv  : UTF-8, configured delimiter, "\n" line endings
//
// Cells that only look numeric (zip codes with leading zeros, reference ids
// such as "0042") are kept as text.
//
// =============================================================================

package reportwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// DefaultSheet is the worksheet name when Options.Sheet is empty.
const DefaultSheet = "Report"

// Options controls report output.
type Options struct {
	// Sheet names the worksheet in .xlsx output.
	Sheet string

	// Comma is the field delimiter for .csv output.
	// Default: ','
	Comma rune
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// Write saves table to path in the format named by its extension.
//
// PARAMETERS:
//   - path: The output file, ending in .xlsx or .csv.
//   - table: The report, title row first.
//   - opts: Sheet name and CSV delimiter.
//
// RETURNS:
//   - An error if the extension is unsupported or the file cannot be written.
func Write(path string, table types.Table, opts Options) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		return WriteXLSX(path, table, opts.Sheet)
	case ".csv":
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		if err := WriteCSV(file, table, opts.Comma); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	default:
		return fmt.Errorf("unsupported report format %q", ext)
	}
}

// WriteCSV writes table as delimited text.
func WriteCSV(w io.Writer, table types.Table, comma rune) error {
	writer := csv.NewWriter(w)
	if comma != 0 {
		writer.Comma = comma
	}

	if err := writer.WriteAll(table); err != nil {
		return fmt.Errorf("failed to write CSV report: %w", err)
	}
	return nil
}

// WriteXLSX writes table to a new workbook with a single sheet.
func WriteXLSX(path string, table types.Table, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		values := make([]interface{}, len(row))
		for j, v := range row {
			if i == 0 {
				values[j] = v
				continue
			}
			values[j] = cellValue(v)
		}

		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(table) > 0 {
		if err := styleHeader(f, sheet); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// styleHeader bolds and freezes the title row.
func styleHeader(f *excelize.File, sheet string) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// numericPattern matches plain decimal numbers without leading zeros.
var numericPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// cellValue returns v as a number when it is a plain decimal, else as text.
func cellValue(v string) interface{} {
	if !numericPattern.MatchString(v) {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
