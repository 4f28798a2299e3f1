package citation

import (
	"fmt"
	"strings"

	"github.com/verimed/citegate/internal/model"
)

// truncateAt is how much of a reference's text appears in a hallucination
// finding before the ellipsis.
const truncateAt = 100

// Validator cross-references parsed references against the evidence
// identifier index and the exemption vocabulary. It holds no per-call
// state: every Validate call is an independent pure function of its two
// string inputs and is safe for concurrent use.
type Validator struct {
	exemptions []string
}

// NewValidator creates a validator with the given exemption vocabulary
// (lowercase substrings). A nil slice selects DefaultExemptions.
func NewValidator(exemptions []string) *Validator {
	if exemptions == nil {
		exemptions = DefaultExemptions()
	}
	return &Validator{exemptions: exemptions}
}

// ValidateCitations checks every citation in the response against the
// evidence text using the default exemption vocabulary.
func ValidateCitations(response, evidenceText string) *model.ValidationResult {
	return NewValidator(nil).Validate(response, evidenceText)
}

// Validate runs the full single-pass pipeline: extract markers, parse the
// reference list, index the evidence, and classify each reference. It is
// total over all string inputs; malformed input degrades to warnings and
// hallucination findings, never an error.
func (v *Validator) Validate(response, evidenceText string) *model.ValidationResult {
	markers := ExtractCitations(response)
	refs := ExtractReferences(response)
	index := ExtractEvidenceIdentifiers(evidenceText)

	result := &model.ValidationResult{
		Hallucinations: []model.Hallucination{},
		Warnings:       []string{},
	}

	if len(markers) > len(refs) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d citation markers found in response body but only %d reference entries parsed; some references may be missing",
			len(markers), len(refs)))
	}

	valid := 0
	for _, ref := range refs {
		if v.classify(ref, index, result) {
			valid++
		}
	}

	if strings.TrimSpace(evidenceText) != "" && len(refs) == 0 {
		result.Warnings = append(result.Warnings,
			"evidence was provided but the response cites nothing")
	}
	if len(markers) > 0 && len(refs) == 0 {
		result.Warnings = append(result.Warnings,
			"citation markers found but no References section was parsed")
	}

	// TotalCitations is the parsed-reference count, intentionally distinct
	// from the raw marker count used for the mismatch warning above.
	result.TotalCitations = len(refs)
	result.ValidCitations = valid
	result.InvalidCitations = len(result.Hallucinations)
	result.IsValid = len(result.Hallucinations) == 0

	return result
}

// classify decides one reference. Returns true when the reference is
// counted valid.
//
// Identifiers are checked in the fixed order PMID, DOI, NCT; the first
// match wins. Failures are recorded eagerly as they are encountered and
// are NOT retracted if a later identifier succeeds, so the hallucinations
// list can contain a finding for a reference counted valid overall. That
// asymmetry is established behavior downstream code tests against.
func (v *Validator) classify(ref model.Reference, index model.EvidenceIndex, result *model.ValidationResult) bool {
	if !ref.HasIdentifier() {
		// Exemption wins over the no-identifier failure.
		if isExempt(ref.Text, v.exemptions) {
			return true
		}
		result.Hallucinations = append(result.Hallucinations, model.Hallucination{
			Citation: truncate(ref.Text, truncateAt),
			Reason:   fmt.Sprintf("Reference %d has no PMID, DOI, or NCT ID", ref.Number),
		})
		return false
	}

	if ref.PMID != "" {
		if index.PMIDs[ref.PMID] {
			return true
		}
		result.Hallucinations = append(result.Hallucinations, model.Hallucination{
			Citation: truncate(ref.Text, truncateAt),
			Reason:   fmt.Sprintf("PMID:%s not found in provided evidence", ref.PMID),
		})
	}

	if ref.DOI != "" {
		if index.DOIs[ref.DOI] {
			return true
		}
		result.Hallucinations = append(result.Hallucinations, model.Hallucination{
			Citation: truncate(ref.Text, truncateAt),
			Reason:   fmt.Sprintf("DOI:%s not found in provided evidence", ref.DOI),
		})
	}

	if ref.NCTID != "" {
		if index.NCTIDs[ref.NCTID] {
			return true
		}
		result.Hallucinations = append(result.Hallucinations, model.Hallucination{
			Citation: truncate(ref.Text, truncateAt),
			Reason:   fmt.Sprintf("NCT ID %s not found in provided evidence", ref.NCTID),
		})
	}

	return false
}

// truncate cuts text to at most n runes and appends an ellipsis.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}
