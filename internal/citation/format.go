package citation

import (
	"fmt"
	"strings"

	"github.com/verimed/citegate/internal/model"
)

// FormatValidationResults renders a validation result as human-readable
// diagnostic text for logs and the console. Pure presentation: the result
// is not modified and empty blocks are omitted.
func FormatValidationResults(result *model.ValidationResult) string {
	var b strings.Builder

	b.WriteString("Citation Validation\n")
	b.WriteString(fmt.Sprintf("References: %d total, %d valid, %d invalid\n",
		result.TotalCitations, result.ValidCitations, result.InvalidCitations))

	if len(result.Warnings) > 0 {
		b.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			b.WriteString("  - " + w + "\n")
		}
	}

	if len(result.Hallucinations) > 0 {
		b.WriteString("\nHallucinated citations:\n")
		for _, h := range result.Hallucinations {
			b.WriteString("  " + h.Citation + "\n")
			b.WriteString("    " + h.Reason + "\n")
		}
	}

	if result.IsValid {
		b.WriteString("\n✓ All citations verified against provided evidence\n")
	} else {
		b.WriteString("\n✗ Hallucinated citations detected\n")
	}

	return b.String()
}
