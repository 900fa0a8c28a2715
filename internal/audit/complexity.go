package audit

import "strings"

// MatchTags returns one tag per rule with a keyword in notes, in rule order.
func MatchTags(notes string, rules []ComplexityRule) []string {
	var tags []string
	for _, rule := range rules {
		if containsAny(notes, rule.Keywords) {
			tags = append(tags, rule.Tag)
		}
	}
	return tags
}

// HasQuoteFactor reports whether notes name a feature that forces a quote.
func HasQuoteFactor(notes string, keywords []string) bool {
	return containsAny(notes, keywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
