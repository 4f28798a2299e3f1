package heuristics

import (
	"fmt"
	"strings"

	"github.com/verimed/citegate/internal/model"
)

// Analyzer flags clinically sensitive language in model answers using
// fixed keyword tables. It sets advisory flags only; the citation verdict
// is never affected.
type Analyzer struct {
	emergency   []string
	dosage      []string
	interaction []string
}

// NewAnalyzer creates an analyzer with the built-in keyword tables
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		emergency: []string{
			"call 911", "emergency department", "anaphylaxis", "chest pain",
			"shortness of breath", "suicidal", "stroke symptoms",
			"loss of consciousness", "severe bleeding", "sepsis",
		},
		dosage: []string{
			"mg twice daily", "mg once daily", "mg/kg", "titrate",
			"loading dose", "maximum daily dose", "mcg", "units subcutaneously",
		},
		interaction: []string{
			"contraindicated with", "do not combine", "drug interaction",
			"concomitant use", "potentiates", "cyp3a4", "qt prolongation",
			"serotonin syndrome",
		},
	}
}

// Analyze scans the response for keyword matches and returns one flag per
// matched keyword, deduplicated.
func (a *Analyzer) Analyze(response string) []model.ClinicalFlag {
	lower := strings.ToLower(response)

	var flags []model.ClinicalFlag
	flags = append(flags, matchTable(lower, a.emergency, model.FlagEmergency, model.SeverityCritical,
		"response contains emergency red-flag language")...)
	flags = append(flags, matchTable(lower, a.dosage, model.FlagDosage, model.SeverityWarning,
		"response contains specific dosing instructions")...)
	flags = append(flags, matchTable(lower, a.interaction, model.FlagInteraction, model.SeverityWarning,
		"response contains drug-interaction language")...)

	return flags
}

// matchTable returns a flag for every table keyword found in the text
func matchTable(lower string, keywords []string, flagType model.FlagType, severity model.FlagSeverity, description string) []model.ClinicalFlag {
	var flags []model.ClinicalFlag
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			flags = append(flags, model.ClinicalFlag{
				Type:        flagType,
				Severity:    severity,
				Keyword:     keyword,
				Description: fmt.Sprintf("%s (%q)", description, keyword),
			})
		}
	}
	return flags
}
