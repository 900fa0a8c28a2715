package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchTags(t *testing.T) {
	rules := DefaultRules().Complexity

	tests := []struct {
		notes string
		want  []string
	}{
		{"", nil},
		{"standard subdivision", nil},
		{"remote rural ranch", []string{"rural/remote"}},
		{"river front lot", []string{"waterfront"}},
		{"golf course view, gated entry, solar panels", []string{"solar energy home", "golf course", "gated community"}},
		{"condotel unit in mixed use building", []string{"condotel", "mixed use"}},
		{"Rural Waterfront", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MatchTags(tt.notes, rules), tt.notes)
	}
}

func TestMatchTagsCustomTable(t *testing.T) {
	rules := []ComplexityRule{
		{Tag: "historic", Keywords: []string{"historic", "landmark"}},
		{Tag: "farm", Keywords: []string{"barn"}},
	}
	assert.Equal(t, []string{"historic", "farm"}, MatchTags("landmark barn", rules))
}

func TestHasQuoteFactor(t *testing.T) {
	keywords := DefaultRules().QuoteKeywords
	assert.True(t, HasQuoteFactor("two outbuildings", keywords))
	assert.True(t, HasQuoteFactor("mountain top", keywords))
	assert.False(t, HasQuoteFactor("Mountain top", keywords))
	assert.False(t, HasQuoteFactor("", keywords))
}
