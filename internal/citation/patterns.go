package citation

import (
	"regexp"
	"strings"
)

// Extraction patterns. Each marker or identifier convention gets its own
// named pattern so new conventions can be added without touching the
// classification logic.
var (
	// caretMarkerPattern matches the preferred inline citation form ^[N]^
	// that the system prompt asks models to emit.
	caretMarkerPattern = regexp.MustCompile(`\^\[(\d+)\]\^`)

	// bracketMarkerPattern tolerates models that drop the caret wrapping.
	bracketMarkerPattern = regexp.MustCompile(`\[(\d+)\]`)

	// referencesHeadingPattern matches a References section heading:
	// one or two # markers, then "Reference"/"References" with optional
	// trailing heading text.
	referencesHeadingPattern = regexp.MustCompile(`(?mi)^#{1,2}\s*References?\b[^\n]*$`)

	// headingPattern matches any one- or two-level heading and terminates
	// the captured References section.
	headingPattern = regexp.MustCompile(`(?m)^#{1,2}\s`)

	// referenceItemPattern matches the start of a numbered reference item.
	// Item bodies run up to the next item start, so wrapped lines belong
	// to the preceding entry.
	referenceItemPattern = regexp.MustCompile(`(?m)^\s*(\d+)\.\s+`)

	// pmidPattern matches "PMID" with an optional colon, then digits.
	pmidPattern = regexp.MustCompile(`(?i)PMID:?\s*(\d+)`)

	// doiPattern matches a "DOI" marker followed by a standard DOI stem.
	doiPattern = regexp.MustCompile(`(?i)DOI:?\s*(10\.\d{4,}/\S+)`)

	// nctPattern matches a ClinicalTrials.gov trial identifier token.
	nctPattern = regexp.MustCompile(`(?i)\b(NCT\d+)\b`)
)

// NormalizeDOI strips trailing sentence punctuation that commonly
// terminates a DOI written in running text.
func NormalizeDOI(doi string) string {
	return strings.TrimRight(doi, ".,;:")
}

// normalizeNCT upper-cases a trial identifier so matching stays
// case-insensitive across response and evidence.
func normalizeNCT(nct string) string {
	return strings.ToUpper(nct)
}
