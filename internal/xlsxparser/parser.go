// =============================================================================
// Appraisal Fee Audit - XLSX Parser
// =============================================================================
//
// This module reads the fee schedule and order list workbooks. Both are plain
// grids: the first non-blank row holds column titles and every following row
// is one record.
//
// WORKBOOK STRUCTURE (Fee Schedule):
//
//   | Column A | Column B | Column C   | Column D | Column E | Column F |
//   |----------|----------|------------|----------|----------|----------|
//   | State    | County   | City       | 1004     | 1073     | 2055     |
//   | TX       | Tarrant  | Fort Worth | 500      | 450      | Quote    |
//   | TX       | Tarrant  |            | 475      | 425      | 300      |
//
// Cells are returned as the text Excel would display, so "Quote" and
// formatted fees come through untouched.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

var (
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrEmpty is returned when the chosen sheet has no rows.
	ErrEmpty = errors.New("sheet is empty")
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads one worksheet of an XLSX file into a table.
//
// PARAMETERS:
//   - filePath: The path to the XLSX file.
//   - sheet: The worksheet to read. Empty means the first sheet.
//
// RETURNS:
//   - The table, title row first, blank rows dropped.
//   - An error if the file cannot be opened or the sheet is missing or empty.
func Parse(filePath, sheet string) (types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := ReadSheet(f, sheet)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return table, nil
}

// ReadSheet reads a worksheet from an open workbook. See Parse.
func ReadSheet(f *excelize.File, sheet string) (types.Table, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, ErrNoSheets
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found (have %v)", sheet, f.GetSheetList())
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	table := types.Table(rows).Normalize()
	if len(table) == 0 {
		return nil, fmt.Errorf("sheet %q: %w", sheet, ErrEmpty)
	}
	return table, nil
}

// Sheets lists the worksheet names of an XLSX file in workbook order.
func Sheets(filePath string) ([]string, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return f.GetSheetList(), nil
}
