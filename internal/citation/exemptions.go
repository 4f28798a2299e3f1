package citation

import "strings"

// DefaultExemptions returns the built-in vocabulary of lowercase substrings
// that mark a reference as an authoritative source not indexed in the
// PMID/DOI/NCT registries: FDA safety databases and named clinical
// guideline bodies. A reference matching any phrase and carrying no
// identifier is accepted by convention.
//
// The vocabulary is open data, not code branches: callers may supply their
// own list to NewValidator and the classification algorithm is unchanged.
func DefaultExemptions() []string {
	return []string{
		// FDA safety and labeling databases
		"fda faers",
		"faers",
		"fda adverse event",
		"fda drug label",
		"fda label",
		"dailymed",
		"source: fda",

		// Clinical guideline bodies and publications
		"who guideline",
		"source: who",
		"cdc",
		"nice guideline",
		"source: nice",
		"bmj best practice",
		"ada standards of care",
		"acc/aha",
		"aha/acc",
		"uptodate",
		"clinical practice guideline",
	}
}

// isExempt reports whether the reference text names a trusted non-indexed
// source. Matching is case-insensitive substring containment.
func isExempt(text string, exemptions []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range exemptions {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
