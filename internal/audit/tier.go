package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// SquareFeetPerAcre converts a site size given in square feet.
const SquareFeetPerAcre = 43560

// notApplicable is the marker for a missing measurement in the order export
// and for an undefined increase in the audit report.
const notApplicable = "N/A"

// Tier is the complexity classification of a property.
type Tier int

// Tiers in increasing order of complexity.
const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
	TierQuote
)

func (t Tier) String() string {
	switch t {
	case Tier1:
		return "1"
	case Tier2:
		return "2"
	case Tier3:
		return "3"
	case TierQuote:
		return "Quote"
	default:
		return fmt.Sprintf("Tier(%d)", int(t))
	}
}

// Measurements are the normalized property figures used for tiering.
type Measurements struct {
	SiteAcres      float64
	GLA            int
	AppraisedValue int
}

// Classify returns the first tier whose limits any measurement exceeds,
// checking Quote, then Tier 3, then Tier 2.
func Classify(m Measurements, th Thresholds) Tier {
	switch {
	case m.exceeds(th.Quote):
		return TierQuote
	case m.exceeds(th.Tier3):
		return Tier3
	case m.exceeds(th.Tier2):
		return Tier2
	default:
		return Tier1
	}
}

func (m Measurements) exceeds(l Limits) bool {
	return m.SiteAcres > l.SiteAcres || m.GLA > l.GLA || m.AppraisedValue > l.AppraisedValue
}

// =============================================================================
// NORMALIZATION
// =============================================================================

func missing(cell string) bool {
	return strings.TrimSpace(cell) == "" || strings.Contains(cell, notApplicable)
}

// ParseSiteSize returns the site size in acres. The leading numeral is read
// with thousands separators removed. A cell that contains "s" or "S" is
// taken to be in square feet and converted. Missing values are 0.
//
// Examples:
//   "2.5 ac"       -> 2.5
//   "87,120 sq ft" -> 2
//   "N/A"          -> 0
func ParseSiteSize(cell string) (float64, error) {
	if missing(cell) {
		return 0, nil
	}

	trimmed := strings.TrimSpace(cell)
	end := strings.IndexFunc(trimmed, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != ','
	})
	numeral := trimmed
	if end >= 0 {
		numeral = trimmed[:end]
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(numeral, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: site size %q", ErrMalformedNumeric, cell)
	}

	if strings.ContainsAny(trimmed, "sS") {
		value /= SquareFeetPerAcre
	}
	return value, nil
}

// ParseWhole parses an integer cell with thousands separators removed.
// Missing values are 0.
func ParseWhole(cell string) (int, error) {
	if missing(cell) {
		return 0, nil
	}
	return parseInt(cell)
}

// parseInt is ParseWhole without the missing-value default.
func parseInt(cell string) (int, error) {
	n, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(cell), ",", ""))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedNumeric, cell)
	}
	return n, nil
}
