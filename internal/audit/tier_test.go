package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBoundaries(t *testing.T) {
	th := DefaultRules().Thresholds

	tests := []struct {
		name string
		m    Measurements
		want Tier
	}{
		{"empty", Measurements{}, Tier1},
		{"site at tier 2 limit", Measurements{SiteAcres: 1.9}, Tier1},
		{"site above tier 2 limit", Measurements{SiteAcres: 1.90001}, Tier2},
		{"gla at tier 2 limit", Measurements{GLA: 1999}, Tier1},
		{"gla above tier 2 limit", Measurements{GLA: 2000}, Tier2},
		{"value above tier 2 limit", Measurements{AppraisedValue: 1005001}, Tier2},
		{"site above tier 3 limit", Measurements{SiteAcres: 3.91}, Tier3},
		{"gla above tier 3 limit", Measurements{GLA: 3000}, Tier3},
		{"value at quote limit", Measurements{AppraisedValue: 4005000}, Tier3},
		{"value above quote limit", Measurements{AppraisedValue: 4005001}, TierQuote},
		{"site above quote limit", Measurements{SiteAcres: 8.5}, TierQuote},
		{"gla above quote limit", Measurements{GLA: 5000}, TierQuote},
		{"highest tier wins", Measurements{SiteAcres: 2, GLA: 5000}, TierQuote},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.m, th))
		})
	}
}

func TestParseSiteSize(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"N/A", 0},
		{"N/A ", 0},
		{"2.5 ac", 2.5},
		{"2.5", 2.5},
		{"87,120 sq ft", 2},
		{"43560 SF", 1},
		{"1.5 acres", 1.5 / SquareFeetPerAcre},
	}

	for _, tt := range tests {
		got, err := ParseSiteSize(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, tt.in)
	}

	_, err := ParseSiteSize("about two acres")
	assert.ErrorIs(t, err, ErrMalformedNumeric)
}

func TestParseWhole(t *testing.T) {
	n, err := ParseWhole("1,999")
	require.NoError(t, err)
	assert.Equal(t, 1999, n)

	n, err = ParseWhole("N/A")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = ParseWhole(" 2500 ")
	require.NoError(t, err)
	assert.Equal(t, 2500, n)

	_, err = ParseWhole("2,500 sq ft")
	assert.ErrorIs(t, err, ErrMalformedNumeric)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "1", Tier1.String())
	assert.Equal(t, "3", Tier3.String())
	assert.Equal(t, "Quote", TierQuote.String())
	assert.Equal(t, "Tier(9)", Tier(9).String())
}
