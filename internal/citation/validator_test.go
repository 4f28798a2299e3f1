package citation

import (
	"reflect"
	"strings"
	"testing"
)

func TestValidateCitations_PMIDMatch(t *testing.T) {
	response := "Metformin works^[1]^.\n## References\n1. Smith J. Metformin study. PMID: 12345678\n"
	evidence := "Key study on metformin efficacy, PMID: 12345678, 2020."

	result := ValidateCitations(response, evidence)

	if !result.IsValid {
		t.Errorf("Expected valid result, got hallucinations: %+v", result.Hallucinations)
	}
	if result.TotalCitations != 1 || result.ValidCitations != 1 || result.InvalidCitations != 0 {
		t.Errorf("Unexpected counts: %+v", result)
	}
	if len(result.Hallucinations) != 0 {
		t.Errorf("A verified reference must never appear in hallucinations: %+v", result.Hallucinations)
	}
}

func TestValidateCitations_PMIDMismatch(t *testing.T) {
	// Scenario B: claimed PMID differs from the one in evidence.
	response := "Claim^[1]^.\n## References\n1. Smith et al. PMID: 99999999\n"
	evidence := "Background literature includes PMID:88888888."

	result := ValidateCitations(response, evidence)

	if result.IsValid {
		t.Error("Expected invalid result")
	}
	if result.InvalidCitations != 1 {
		t.Errorf("Expected 1 invalid citation, got %d", result.InvalidCitations)
	}
	if len(result.Hallucinations) != 1 {
		t.Fatalf("Expected exactly one hallucination, got %+v", result.Hallucinations)
	}
	if result.Hallucinations[0].Reason != "PMID:99999999 not found in provided evidence" {
		t.Errorf("Unexpected reason: %q", result.Hallucinations[0].Reason)
	}
}

func TestValidateCitations_NoReferencesSection(t *testing.T) {
	// Scenario A: markers in the body, no References heading, evidence
	// non-empty. Zero references were checked, so the result is valid.
	response := "First claim [1] and second claim [2], but no reference list."
	evidence := "Some evidence text with PMID: 11111111."

	result := ValidateCitations(response, evidence)

	if result.TotalCitations != 0 {
		t.Errorf("Expected totalCitations 0, got %d", result.TotalCitations)
	}
	if !result.IsValid {
		t.Error("Expected valid result when zero references were checked")
	}
	if len(result.Hallucinations) != 0 {
		t.Errorf("Expected no hallucinations, got %+v", result.Hallucinations)
	}

	foundMissingSection := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "no References section") {
			foundMissingSection = true
		}
	}
	if !foundMissingSection {
		t.Errorf("Expected a missing-references-section warning, got %v", result.Warnings)
	}
}

func TestValidateCitations_ExemptionWithEmptyEvidence(t *testing.T) {
	// Scenario C: a guideline-body reference with no identifier is valid
	// by convention, even against empty evidence.
	response := "Hypertension guidance^[1]^.\n## References\n1. WHO Guidelines on Hypertension, Source: WHO\n"

	result := ValidateCitations(response, "")

	if !result.IsValid {
		t.Errorf("Expected exemption to apply, got %+v", result.Hallucinations)
	}
	if result.ValidCitations != 1 {
		t.Errorf("Expected validCitations 1, got %d", result.ValidCitations)
	}
}

func TestValidateCitations_FAERSExemption(t *testing.T) {
	response := "Adverse events are documented^[1]^.\n## References\n1. Adverse event reports for semaglutide, Source: FDA FAERS\n"

	// Regardless of evidence content, including empty evidence.
	for _, evidence := range []string{"", "PMID: 11111111 unrelated evidence"} {
		result := ValidateCitations(response, evidence)
		if !result.IsValid {
			t.Errorf("Expected FAERS exemption with evidence %q, got %+v", evidence, result.Hallucinations)
		}
	}
}

func TestValidateCitations_NoIdentifierNoExemption(t *testing.T) {
	longTitle := strings.Repeat("Very long reference title segment. ", 10)
	response := "Claim^[1]^.\n## References\n1. " + longTitle + "\n"

	result := ValidateCitations(response, "PMID: 11111111")

	if result.IsValid {
		t.Error("Expected invalid result for identifier-free reference")
	}
	if len(result.Hallucinations) != 1 {
		t.Fatalf("Expected one hallucination, got %+v", result.Hallucinations)
	}

	h := result.Hallucinations[0]
	if h.Reason != "Reference 1 has no PMID, DOI, or NCT ID" {
		t.Errorf("Unexpected reason: %q", h.Reason)
	}
	if !strings.HasSuffix(h.Citation, "...") {
		t.Errorf("Expected truncated citation label with ellipsis, got %q", h.Citation)
	}
	if len([]rune(h.Citation)) > truncateAt+3 {
		t.Errorf("Citation label too long: %d runes", len([]rune(h.Citation)))
	}
}

func TestValidateCitations_EagerFailureNotRetracted(t *testing.T) {
	// Scenario D: PMID check fails and is recorded, DOI check succeeds.
	// The reference counts as valid but the PMID finding stays.
	response := "Claim^[1]^.\n## References\n1. Zinman B. Outcomes trial. PMID: 99999999, DOI:10.1056/NEJMoa1504720\n"
	evidence := "The trial report is available at DOI:10.1056/NEJMoa1504720."

	result := ValidateCitations(response, evidence)

	if result.ValidCitations != 1 {
		t.Errorf("Expected reference counted valid via DOI, got %+v", result)
	}
	if len(result.Hallucinations) != 1 {
		t.Fatalf("Expected the eager PMID finding to remain, got %+v", result.Hallucinations)
	}
	if !strings.Contains(result.Hallucinations[0].Reason, "PMID:99999999") {
		t.Errorf("Expected PMID finding, got %q", result.Hallucinations[0].Reason)
	}
	if result.IsValid {
		t.Error("Recorded findings drive IsValid even when the reference is counted valid")
	}
	if result.InvalidCitations != 1 {
		t.Errorf("InvalidCitations must equal hallucination count, got %d", result.InvalidCitations)
	}
}

func TestValidateCitations_IdentifierOrderShortCircuits(t *testing.T) {
	// PMID matches, so the bogus DOI is never checked and never recorded.
	response := "Claim^[1]^.\n## References\n1. Trial. PMID: 12345678, DOI:10.9999/does.not.exist\n"
	evidence := "PMID: 12345678"

	result := ValidateCitations(response, evidence)

	if !result.IsValid {
		t.Errorf("Expected first-success short circuit, got %+v", result.Hallucinations)
	}
}

func TestValidateCitations_NCTMatch(t *testing.T) {
	response := "Claim^[1]^.\n## References\n1. Cardiovascular outcomes trial, NCT01131676\n"
	evidence := "Registry record nct01131676 describes the trial protocol."

	result := ValidateCitations(response, evidence)

	if !result.IsValid {
		t.Errorf("Expected case-insensitive NCT match, got %+v", result.Hallucinations)
	}
}

func TestValidateCitations_DOIPunctuationRoundTrip(t *testing.T) {
	response := "Claim^[1]^.\n## References\n1. Jackson R. DOI:10.1001/jama.2020.1234.\n"
	evidence := "The cited analysis, DOI:10.1001/jama.2020.1234., was published in 2020."

	result := ValidateCitations(response, evidence)

	if !result.IsValid {
		t.Errorf("Expected trailing punctuation to normalize on both sides, got %+v", result.Hallucinations)
	}
}

func TestValidateCitations_MarkerCountWarning(t *testing.T) {
	response := "Claims [1] [2] [3].\n## References\n1. Smith J. PMID: 12345678\n"
	evidence := "PMID: 12345678"

	result := ValidateCitations(response, evidence)

	if !result.IsValid {
		t.Errorf("Count mismatch is advisory only, got %+v", result.Hallucinations)
	}
	if len(result.Warnings) == 0 {
		t.Fatal("Expected a marker/reference count mismatch warning")
	}
	if !strings.Contains(result.Warnings[0], "3 citation markers") {
		t.Errorf("Unexpected warning: %q", result.Warnings[0])
	}
}

func TestValidateCitations_UncitedEvidenceWarning(t *testing.T) {
	result := ValidateCitations("An answer with no citations at all.", "PMID: 12345678")

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "cites nothing") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected uncited-evidence warning, got %v", result.Warnings)
	}
}

func TestValidateCitations_TotalOverEmptyInputs(t *testing.T) {
	result := ValidateCitations("", "")

	if !result.IsValid {
		t.Error("Empty inputs must validate cleanly")
	}
	if result.TotalCitations != 0 || len(result.Warnings) != 0 {
		t.Errorf("Unexpected result for empty inputs: %+v", result)
	}
}

func TestValidateCitations_Idempotent(t *testing.T) {
	response := "Claims [1] [2].\n## References\n1. Smith. PMID: 1\n2. No identifiers here at all.\n"
	evidence := "PMID: 1 appears here."

	first := ValidateCitations(response, evidence)
	second := ValidateCitations(response, evidence)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical results on identical inputs:\n%+v\n%+v", first, second)
	}
}

func TestNewValidator_CustomExemptions(t *testing.T) {
	v := NewValidator([]string{"internal hospital formulary"})

	response := "Claim^[1]^.\n## References\n1. Dosing per Internal Hospital Formulary, 2024 edition.\n"
	result := v.Validate(response, "")

	if !result.IsValid {
		t.Errorf("Expected custom exemption vocabulary to apply, got %+v", result.Hallucinations)
	}

	// The default vocabulary must not accept it.
	if ValidateCitations(response, "").IsValid {
		t.Error("Expected default vocabulary to reject the reference")
	}
}

func TestValidateCitations_ExemptionRequiresNoIdentifier(t *testing.T) {
	// A reference naming a guideline body but carrying an unverifiable
	// PMID is still checked against evidence.
	response := "Claim^[1]^.\n## References\n1. WHO Guidelines companion paper. PMID: 77777777\n"

	result := ValidateCitations(response, "")

	if result.IsValid {
		t.Error("Identifier-bearing references are always verified, exemption or not")
	}
}
