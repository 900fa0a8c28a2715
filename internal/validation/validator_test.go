package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/audit"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// smallColumns packs the order fields into the first nine columns.
func smallColumns() audit.Columns {
	return audit.Columns{
		ReferenceID:    0,
		City:           1,
		State:          2,
		County:         3,
		Rush:           4,
		SiteSize:       5,
		GLA:            6,
		AppraisedValue: 7,
		JobType:        8,
		ActualFee:      9,
	}
}

func newValidator() *Validator {
	return NewValidator(smallColumns(), [3]int{0, 1, 2}, audit.DefaultRules())
}

var orderHeader = []string{"Ref", "City", "State", "County", "Rush", "Site", "GLA", "Value", "Job", "Fee"}

func rules(errs []*ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Rule)
	}
	return out
}

func TestValidateScheduleClean(t *testing.T) {
	table := types.Table{
		{"State", "County", "City", "1004", "2055"},
		{"TX", "Tarrant", "Fort Worth", "500", "Quote"},
		{"TX", "", "", "1,450", ""},
	}

	result := newValidator().ValidateSchedule(table)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.RowsValidated)
}

func TestValidateScheduleWarnings(t *testing.T) {
	table := types.Table{
		{"State", "County", "City", "1004"},
		{"TX", "Tarrant", "", "500"},
		{"TX", "Tarrant", "", "call"},
		{"", "", "", "100"},
	}

	result := newValidator().ValidateSchedule(table)
	assert.True(t, result.IsValid)
	assert.Equal(t, 3, result.WarningCount)
	assert.Equal(t, []string{"duplicate_key", "fee", "required"}, rules(result.Errors))
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Equal(t, "call", result.Errors[1].Value)
}

func TestValidateScheduleLayoutErrors(t *testing.T) {
	v := newValidator()

	result := v.ValidateSchedule(types.Table{})
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"header"}, rules(result.Errors))

	result = v.ValidateSchedule(types.Table{{"State", "State", "City"}})
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"unique_header"}, rules(result.Errors))

	result = v.ValidateSchedule(types.Table{{"State", "County"}})
	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"key_columns"}, rules(result.Errors))
}

func TestValidateOrders(t *testing.T) {
	table := types.Table{
		orderHeader,
		{"A1", "Waco", "TX", "McLennan", "No", "2 ac", "1800", "250000", "1004", "500"},
		{"A2", "Waco", "TX", "McLennan", "No", "lots", "big", "250,000", "9999", ""},
		{"A3", "Waco", "TX", "McLennan", "No", "N/A", "N/A", "", "1004", "five"},
	}

	result := newValidator().ValidateOrders(table, []string{"State", "County", "City", "1004"})
	require.True(t, result.IsValid)
	assert.Equal(t, 3, result.RowsValidated)
	assert.Equal(t,
		[]string{"numeric", "numeric", "required", "job_type", "numeric"},
		rules(result.Errors))

	assert.Equal(t, "Site", result.Errors[0].Field)
	assert.Equal(t, 3, result.Errors[0].RowNumber)
	assert.Equal(t, "GLA", result.Errors[1].Field)
	assert.Equal(t, 4, result.Errors[4].RowNumber)
}

func TestValidateOrdersBlankRowsKeepNumbering(t *testing.T) {
	table := types.Table{
		{},
		orderHeader,
		{"", "", " "},
		{"A1", "Waco", "TX", "McLennan", "No", "2", "big", "250000", "1004", "500"},
	}

	result := newValidator().ValidateOrders(table, nil)
	assert.Equal(t, 1, result.RowsValidated)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "GLA", result.Errors[0].Field)
	assert.Equal(t, 4, result.Errors[0].RowNumber)
}

func TestValidateOrdersWithoutSchedule(t *testing.T) {
	table := types.Table{
		orderHeader,
		{"A1", "Waco", "TX", "McLennan", "No", "2", "1800", "250000", "9999", "500"},
	}

	result := newValidator().ValidateOrders(table, nil)
	assert.Empty(t, result.Errors)
}

func TestValidateOrdersShortHeader(t *testing.T) {
	result := newValidator().ValidateOrders(types.Table{orderHeader[:5]}, nil)
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, "column_count", result.Errors[0].Rule)
	assert.Contains(t, result.Errors[0].Error(), "header has 5 columns, order columns need 10")
}

func TestMergeAndWarnings(t *testing.T) {
	v := newValidator()
	all := v.ValidateSchedule(types.Table{{"State", "County", "City", "1004"}, {"TX", "", "", "x"}})
	all.Merge(v.ValidateOrders(types.Table{{"Ref"}}, nil))

	assert.False(t, all.IsValid)
	assert.Equal(t, 1, all.WarningCount)
	assert.Equal(t, 1, all.ErrorCount)
	assert.Len(t, all.Warnings(), 1)
	assert.Equal(t, 1, all.RowsValidated)
}

func TestErrorFormatting(t *testing.T) {
	row := &ValidationError{
		Severity:  SeverityWarning,
		Table:     TableOrders,
		Field:     "GLA",
		Value:     "big",
		Message:   "value is not a whole number",
		RowNumber: 7,
	}
	assert.Equal(t, "[WARNING] orders row 7, Field 'GLA': value is not a whole number (value: 'big')", row.Error())

	table := &ValidationError{Severity: SeverityError, Table: TableSchedule, Message: "table has no title row"}
	assert.Equal(t, "[ERROR] schedule: table has no title row", table.Error())

	assert.Equal(t, "No validation errors.", FormatErrors(nil))
	assert.Contains(t, FormatErrors([]*ValidationError{row, table}), "2. [ERROR] schedule")
}
