package citation

import (
	"regexp"
	"sort"
	"strings"
)

// ExtractCitations scans the response body for inline citation markers and
// returns the deduplicated set of citation numbers, sorted ascending by
// numeric value. Both the preferred ^[N]^ form and the bare [N] fallback
// are pooled. The result only feeds the citation-vs-reference count
// warning; pass/fail classification is driven by the parsed reference list.
func ExtractCitations(response string) []string {
	seen := make(map[string]bool)
	var numbers []string

	for _, pattern := range []*regexp.Regexp{caretMarkerPattern, bracketMarkerPattern} {
		for _, match := range pattern.FindAllStringSubmatch(response, -1) {
			n := normalizeMarker(match[1])
			if !seen[n] {
				seen[n] = true
				numbers = append(numbers, n)
			}
		}
	}

	sort.Slice(numbers, func(i, j int) bool {
		return lessNumeric(numbers[i], numbers[j])
	})

	return numbers
}

// normalizeMarker reduces a digit sequence to its numeric identity so
// "01" and "1" dedupe to the same citation.
func normalizeMarker(digits string) string {
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// lessNumeric orders non-negative digit strings by numeric value without
// parsing, so arbitrarily large citation numbers stay safe.
func lessNumeric(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
