// =============================================================================
// Appraisal Fee Audit - Transformation Engine
// =============================================================================
//
// This module cleans input cells before the tables are indexed. Order
// exports often carry stray whitespace, lower-case state codes or county
// names spelled several ways; a mismatch there sends an order to a less
// specific fee schedule entry, or to none at all.
//
// RULES:
//   Each rule names a column title and the table it applies to ("schedule",
//   "orders" or "both"). Its actions run in order on every data cell of that
//   column. The title row is never changed.
//
// EXAMPLE:
//   transformation_rules:
//     - table: both
//       field: State
//       actions:
//         - type: trim
//         - type: uppercase
//
// =============================================================================

package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/appraisal-fee-audit/internal/config"
	"github.com/ginjaninja78/appraisal-fee-audit/internal/types"
)

// Table names accepted by Apply.
const (
	TableSchedule = "schedule"
	TableOrders   = "orders"
	TableBoth     = "both"
)

var (
	digitsPattern     = regexp.MustCompile(`\d+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	titleCaser        = cases.Title(language.English)
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies configured transformation rules to tables.
type Transformer struct {
	rules   []config.TransformationRule
	regexes map[string]*regexp.Regexp
}

// New compiles the rules. Unknown action types and invalid patterns are
// reported here rather than on the first matching cell.
func New(rules []config.TransformationRule) (*Transformer, error) {
	t := &Transformer{
		rules:   rules,
		regexes: make(map[string]*regexp.Regexp),
	}

	for _, rule := range rules {
		for _, action := range rule.Actions {
			if !known(action.Type) {
				return nil, fmt.Errorf("field %q: unknown transformation %q", rule.Field, action.Type)
			}
			if action.Type != "regex_replace" {
				continue
			}
			if _, ok := t.regexes[action.Find]; ok {
				continue
			}
			re, err := regexp.Compile(action.Find)
			if err != nil {
				return nil, fmt.Errorf("field %q: invalid pattern %q: %w", rule.Field, action.Find, err)
			}
			t.regexes[action.Find] = re
		}
	}

	return t, nil
}

// Apply returns a copy of table with every matching rule applied.
//
// PARAMETERS:
//   - table: the input table; blank rows are left as they are
//   - kind: TableSchedule or TableOrders
//
// RETURNS:
//   - the transformed copy
//   - the number of cells that changed
func (t *Transformer) Apply(table types.Table, kind string) (types.Table, int) {
	out := make(types.Table, len(table))
	for i, row := range table {
		out[i] = append([]string(nil), row...)
	}

	header := table.Header()
	hi := table.HeaderIndex()
	changed := 0

	for _, rule := range t.rules {
		if rule.Table != TableBoth && rule.Table != "" && rule.Table != kind {
			continue
		}

		col := -1
		for i, name := range header {
			if name == rule.Field {
				col = i
				break
			}
		}
		if col < 0 {
			continue
		}

		for i := hi + 1; i < len(out); i++ {
			row := out[i]
			if col >= len(row) || types.IsBlankRow(table[i]) {
				continue
			}
			before := row[col]
			value := before
			for _, action := range rule.Actions {
				value = t.apply(value, action)
			}
			if value != before {
				row[col] = value
				changed++
			}
		}
	}

	return out, changed
}

// =============================================================================
// ACTIONS
// =============================================================================

func known(action string) bool {
	switch action {
	case "trim", "trim_left", "trim_right",
		"uppercase", "lowercase", "title_case", "normalize_whitespace",
		"prepend_string", "append_string",
		"replace", "regex_replace", "remove_chars",
		"remove_leading_zeros", "pad_zeros_to_length", "extract_digits",
		"if_empty_use_default", "lookup", "lookup_with_default":
		return true
	}
	return false
}

// apply runs a single action. Actions were checked by New.
func (t *Transformer) apply(value string, action config.TransformationAction) string {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "trim":
		return strings.TrimSpace(value)

	case "trim_left":
		return strings.TrimLeft(value, " \t")

	case "trim_right":
		return strings.TrimRight(value, " \t\r\n")

	case "uppercase":
		return strings.ToUpper(value)

	case "lowercase":
		return strings.ToLower(value)

	case "title_case":
		// "TARRANT county" -> "Tarrant County"
		return titleCaser.String(value)

	case "normalize_whitespace":
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " "))

	case "prepend_string":
		return action.Value + value

	case "append_string":
		return value + action.Value

	case "replace":
		if action.Find == "" {
			return value
		}
		return strings.ReplaceAll(value, action.Find, action.Value)

	case "regex_replace":
		return t.regexes[action.Find].ReplaceAllString(value, action.Value)

	case "remove_chars":
		// Value lists the characters to drop, e.g. "$," for "$1,200".
		return strings.Map(func(r rune) rune {
			if strings.ContainsRune(action.Value, r) {
				return -1
			}
			return r
		}, value)

	// =========================================================================
	// NUMERIC FORMATTING
	// =========================================================================

	case "remove_leading_zeros":
		result := strings.TrimLeft(value, "0")
		if result == "" && value != "" {
			return "0"
		}
		return result

	case "pad_zeros_to_length":
		// Zip codes exported as numbers lose their leading zeros.
		n, err := strconv.Atoi(action.Value)
		if err != nil || n <= len(value) {
			return value
		}
		return strings.Repeat("0", n-len(value)) + value

	case "extract_digits":
		return strings.Join(digitsPattern.FindAllString(value, -1), "")

	// =========================================================================
	// DEFAULTS AND LOOKUPS
	// =========================================================================

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value
		}
		return value

	case "lookup":
		if replacement, ok := action.LookupTable[value]; ok {
			return replacement
		}
		return value

	case "lookup_with_default":
		if replacement, ok := action.LookupTable[value]; ok {
			return replacement
		}
		return action.Value
	}

	return value
}
