package citation

import (
	"strings"
	"testing"

	"github.com/verimed/citegate/internal/model"
)

func TestFormatValidationResults_Success(t *testing.T) {
	result := &model.ValidationResult{
		IsValid:        true,
		TotalCitations: 2,
		ValidCitations: 2,
	}

	out := FormatValidationResults(result)

	if !strings.Contains(out, "2 total, 2 valid, 0 invalid") {
		t.Errorf("Expected totals line, got:\n%s", out)
	}
	if strings.Contains(out, "Warnings:") || strings.Contains(out, "Hallucinated") {
		t.Errorf("Empty blocks must be omitted:\n%s", out)
	}
	if !strings.Contains(out, "✓") {
		t.Errorf("Expected success banner:\n%s", out)
	}
}

func TestFormatValidationResults_Failure(t *testing.T) {
	result := &model.ValidationResult{
		IsValid:          false,
		TotalCitations:   1,
		ValidCitations:   0,
		InvalidCitations: 1,
		Hallucinations: []model.Hallucination{
			{Citation: "Smith et al. PMID: 99999999...", Reason: "PMID:99999999 not found in provided evidence"},
		},
		Warnings: []string{"2 citation markers found in response body but only 1 reference entries parsed; some references may be missing"},
	}

	out := FormatValidationResults(result)

	if !strings.Contains(out, "Warnings:") {
		t.Errorf("Expected warnings block:\n%s", out)
	}
	if !strings.Contains(out, "Smith et al. PMID: 99999999...") {
		t.Errorf("Expected citation label:\n%s", out)
	}
	if !strings.Contains(out, "PMID:99999999 not found in provided evidence") {
		t.Errorf("Expected reason on following line:\n%s", out)
	}
	if !strings.Contains(out, "✗") {
		t.Errorf("Expected failure banner:\n%s", out)
	}
}

func TestFormatValidationResults_DoesNotMutate(t *testing.T) {
	result := &model.ValidationResult{
		IsValid:        true,
		TotalCitations: 1,
		ValidCitations: 1,
	}
	before := *result

	_ = FormatValidationResults(result)

	if result.TotalCitations != before.TotalCitations || result.IsValid != before.IsValid {
		t.Error("Formatter must not modify the result")
	}
}
