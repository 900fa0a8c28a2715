// =============================================================================
// Appraisal Fee Audit - Validation Engine
// =============================================================================
//
// This module checks the fee schedule and order tables before they are
// indexed. It catches layout problems that would make the whole run
// meaningless and flags cells the audit will reject later.
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Table-level: title row present, titles unique, enough columns for the
//      configured positions. These are errors and stop the run.
//   2. Cell-level: numeric measurements and fees, required keys, duplicate
//      schedule keys, job types missing from the schedule. These are
//      warnings: the audit skips or reports the affected rows on its own.
//
// ERROR HANDLING:
//   - Errors are collected, not returned one at a time
//   - Each error includes the table, row, field and value
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/audit"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/indexer"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Table names used in ValidationError.Table.
const (
	TableSchedule = "schedule"
	TableOrders   = "orders"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = fatal, the audit should not run
	// "warning" = non-fatal, the audit can run
	Severity string

	// Table is "schedule" or "orders".
	Table string

	// Field is the column title, empty for table-level findings.
	Field string

	// Value is the cell that failed validation.
	Value string

	// Rule is the check that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string

	// RowNumber is the 1-indexed source row, 0 for table-level findings.
	RowNumber int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.RowNumber == 0 {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Table, e.Message)
	}
	return fmt.Sprintf("[%s] %s row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Table,
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all validation errors (including warnings).
	Errors []*ValidationError

	// ErrorCount is the number of fatal errors.
	ErrorCount int

	// WarningCount is the number of warnings.
	WarningCount int

	// RowsValidated is the number of data rows checked.
	RowsValidated int
}

func newResult() *ValidationResult {
	return &ValidationResult{IsValid: true}
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityError {
		r.ErrorCount++
		r.IsValid = false
	} else {
		r.WarningCount++
	}
}

// Merge folds other into r.
func (r *ValidationResult) Merge(other *ValidationResult) {
	for _, e := range other.Errors {
		r.add(e)
	}
	r.RowsValidated += other.RowsValidated
}

// Warnings returns the non-fatal findings.
func (r *ValidationResult) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator checks input tables against the configured layout.
type Validator struct {
	columns    audit.Columns
	keyColumns [3]int
	rules      audit.Rules
}

// NewValidator creates a validator for the given order columns, schedule key
// columns and rules.
func NewValidator(columns audit.Columns, keyColumns [3]int, rules audit.Rules) *Validator {
	return &Validator{columns: columns, keyColumns: keyColumns, rules: rules}
}

// ValidateSchedule checks the fee schedule table.
//
// PARAMETERS:
//   - table: The fee schedule, title row first.
//
// RETURNS:
//   - The findings. Fee cells that are neither whole numbers nor the quote
//     marker are warnings, as are repeated keys and rows without a state.
func (v *Validator) ValidateSchedule(table types.Table) *ValidationResult {
	result := newResult()
	header := table.Header()
	if !v.checkHeader(result, TableSchedule, header) {
		return result
	}

	for _, col := range v.keyColumns {
		if col >= len(header) {
			result.add(&ValidationError{
				Severity: SeverityError,
				Table:    TableSchedule,
				Rule:     "key_columns",
				Message:  fmt.Sprintf("key column %d is beyond the %d-column header", col, len(header)),
			})
			return result
		}
	}

	isKey := make(map[int]bool, 3)
	for _, col := range v.keyColumns {
		isKey[col] = true
	}

	firstSeen := make(map[string]int)
	for rowNumber, row := range table.Rows() {
		rec := types.NewRecord(rowNumber, header, row)
		result.RowsValidated++

		key := indexer.ScheduleKey{
			State:  rec.At(v.keyColumns[0]),
			County: rec.At(v.keyColumns[1]),
			City:   rec.At(v.keyColumns[2]),
		}
		if strings.TrimSpace(key.State) == "" {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Table:     TableSchedule,
				Field:     header[v.keyColumns[0]],
				Rule:      "required",
				Message:   "row has no state and can only match orders without one",
				RowNumber: rowNumber,
			})
		}
		if first, ok := firstSeen[key.String()]; ok {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Table:     TableSchedule,
				Field:     header[v.keyColumns[0]],
				Value:     key.String(),
				Rule:      "duplicate_key",
				Message:   fmt.Sprintf("key repeats row %d; this row replaces it", first),
				RowNumber: rowNumber,
			})
		} else {
			firstSeen[key.String()] = rowNumber
		}

		for col, cell := range rec.Cells() {
			if isKey[col] || strings.TrimSpace(cell) == "" || strings.Contains(cell, v.rules.QuoteMarker) {
				continue
			}
			if _, err := audit.ParseWhole(cell); err != nil {
				result.add(&ValidationError{
					Severity:  SeverityWarning,
					Table:     TableSchedule,
					Field:     header[col],
					Value:     cell,
					Rule:      "fee",
					Message:   fmt.Sprintf("fee is neither a whole number nor %q", v.rules.QuoteMarker),
					RowNumber: rowNumber,
				})
			}
		}
	}

	return result
}

// ValidateOrders checks the order table.
//
// PARAMETERS:
//   - table: The order list, title row first.
//   - scheduleHeader: The fee schedule titles. When not nil, job types
//     missing from it are reported.
//
// RETURNS:
//   - The findings. A title row shorter than the configured order columns is
//     an error; unreadable measurements and fees are warnings.
func (v *Validator) ValidateOrders(table types.Table, scheduleHeader []string) *ValidationResult {
	result := newResult()
	header := table.Header()
	if !v.checkHeader(result, TableOrders, header) {
		return result
	}

	if need := v.columns.Max() + 1; len(header) < need {
		result.add(&ValidationError{
			Severity: SeverityError,
			Table:    TableOrders,
			Rule:     "column_count",
			Message:  fmt.Sprintf("header has %d columns, order columns need %d", len(header), need),
		})
		return result
	}

	jobTypes := make(map[string]bool, len(scheduleHeader))
	for _, title := range scheduleHeader {
		jobTypes[title] = true
	}

	c := v.columns
	for rowNumber, row := range table.Rows() {
		rec := types.NewRecord(rowNumber, header, row)
		result.RowsValidated++

		warn := func(col int, rule, message string) {
			result.add(&ValidationError{
				Severity:  SeverityWarning,
				Table:     TableOrders,
				Field:     header[col],
				Value:     rec.At(col),
				Rule:      rule,
				Message:   message,
				RowNumber: rowNumber,
			})
		}

		if _, err := audit.ParseSiteSize(rec.At(c.SiteSize)); err != nil {
			warn(c.SiteSize, "numeric", "site size has no leading number")
		}
		for _, col := range []int{c.GLA, c.AppraisedValue} {
			if _, err := audit.ParseWhole(rec.At(col)); err != nil {
				warn(col, "numeric", "value is not a whole number")
			}
		}

		fee := rec.At(c.ActualFee)
		if strings.TrimSpace(fee) == "" {
			warn(c.ActualFee, "required", "actual fee is empty")
		} else if _, err := audit.ParseWhole(fee); err != nil {
			warn(c.ActualFee, "numeric", "actual fee is not a whole number")
		}

		if scheduleHeader != nil && !jobTypes[rec.At(c.JobType)] {
			warn(c.JobType, "job_type", "job type is not a fee schedule column")
		}
	}

	return result
}

// checkHeader reports a missing title row and repeated titles.
func (v *Validator) checkHeader(result *ValidationResult, table string, header []string) bool {
	if len(header) == 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Table:    table,
			Rule:     "header",
			Message:  "table has no title row",
		})
		return false
	}

	seen := make(map[string]int, len(header))
	for i, title := range header {
		if first, ok := seen[title]; ok {
			result.add(&ValidationError{
				Severity: SeverityError,
				Table:    table,
				Field:    title,
				Rule:     "unique_header",
				Message:  fmt.Sprintf("column title %q appears at columns %d and %d", title, first+1, i+1),
			})
			continue
		}
		seen[title] = i
	}
	return result.IsValid
}

// =============================================================================
// ERROR REPORTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errors)))

	for i, err := range errors {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
