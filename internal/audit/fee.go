package audit

import (
	"strconv"
	"strings"
)

// Fee is either a whole-dollar amount or a Quote.
type Fee struct {
	Amount int
	Quote  bool
}

// QuoteFee is the fee of an order that must be individually quoted.
var QuoteFee = Fee{Quote: true}

// String renders the fee as it appears in reports.
func (f Fee) String() string {
	if f.Quote {
		return "Quote"
	}
	return strconv.Itoa(f.Amount)
}

// ComputeFee prices an order from its scheduled base fee.
//
// A base fee containing the quote marker prices as Quote. Otherwise the
// tier surcharge, the rush surcharge and the per-tag surcharge are added.
// A Quote tier discards all of it.
func ComputeFee(base string, tier Tier, rush bool, tags int, rules Rules) (Fee, error) {
	if strings.Contains(base, rules.QuoteMarker) {
		return QuoteFee, nil
	}

	amount, err := parseInt(base)
	if err != nil {
		return Fee{}, err
	}

	switch tier {
	case Tier2:
		amount += rules.Fees.Tier2
	case Tier3:
		amount += rules.Fees.Tier3
	case TierQuote:
		return QuoteFee, nil
	}

	if rush {
		amount += rules.Fees.Rush
	}
	amount += tags * rules.Fees.PerTag

	return Fee{Amount: amount}, nil
}

// Variance compares what was charged with what should have been.
type Variance struct {
	Commensurate Fee

	// Increase is set only when HasIncrease is true. Percentage also
	// needs a non-zero commensurate fee.
	Increase      int
	Percentage    float64
	HasIncrease   bool
	HasPercentage bool

	OverExpected bool
}

// IncreaseText renders the increase amount, or N/A.
func (v Variance) IncreaseText() string {
	if !v.HasIncrease {
		return notApplicable
	}
	return strconv.Itoa(v.Increase)
}

// PercentageText renders the increase ratio, or N/A.
func (v Variance) PercentageText() string {
	if !v.HasPercentage {
		return notApplicable
	}
	return strconv.FormatFloat(v.Percentage, 'f', -1, 64)
}

// CompareFee computes the variance between the actual and commensurate
// fee. A quote factor turns a computed overcharge into a Quote.
func CompareFee(actual int, commensurate Fee, quoteFactor bool) Variance {
	if commensurate.Quote {
		return Variance{Commensurate: QuoteFee, OverExpected: true}
	}

	if actual <= commensurate.Amount {
		return Variance{Commensurate: commensurate}
	}

	if quoteFactor {
		return Variance{Commensurate: QuoteFee, OverExpected: true}
	}

	increase := actual - commensurate.Amount
	v := Variance{
		Commensurate: commensurate,
		Increase:     increase,
		HasIncrease:  true,
		OverExpected: true,
	}
	if commensurate.Amount != 0 {
		v.Percentage = float64(increase) / float64(commensurate.Amount)
		v.HasPercentage = true
	}
	return v
}
