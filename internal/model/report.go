package model

import "time"

// Report represents a complete gate run: the answer that was checked,
// the evidence it was checked against, and everything the checks found
type Report struct {
	Subject     string    `json:"subject"`      // Short label for the run (question or file name)
	Question    string    `json:"question,omitempty"`
	Answer      string    `json:"answer"`       // The model response that was gated
	GeneratedAt time.Time `json:"generated_at"` // When the gate ran

	EvidenceSources []EvidenceSource `json:"evidence_sources"` // Where the evidence text came from
	EvidenceChars   int              `json:"evidence_chars"`   // Total evidence length

	Validation *ValidationResult `json:"validation"`      // Citation verification verdict
	Flags      []ClinicalFlag    `json:"flags,omitempty"` // Advisory clinical keyword flags

	LLM *LLMMeta `json:"llm,omitempty"` // Present when the answer was generated by a provider
}

// EvidenceSource describes one contributor to the evidence text
type EvidenceSource struct {
	Kind     SourceKind `json:"kind"`
	Location string     `json:"location"` // File path, URL, or query
	Chars    int        `json:"chars"`    // Characters contributed
}

// SourceKind classifies where a piece of evidence came from
type SourceKind string

const (
	SourceFile           SourceKind = "file"
	SourceURL            SourceKind = "url"
	SourceStdin          SourceKind = "stdin"
	SourcePubMed         SourceKind = "pubmed"
	SourceClinicalTrials SourceKind = "clinicaltrials"
)

// ClinicalFlag is an advisory signal raised by the keyword heuristics.
// Flags never affect the validation verdict.
type ClinicalFlag struct {
	Type        FlagType     `json:"type"`
	Severity    FlagSeverity `json:"severity"`
	Keyword     string       `json:"keyword"`     // The table entry that matched
	Description string       `json:"description"` // Human-readable description
}

// FlagType classifies the clinical keyword heuristic that fired
type FlagType string

const (
	FlagEmergency   FlagType = "emergency"   // Red-flag symptom language
	FlagDosage      FlagType = "dosage"      // Specific dosing instructions
	FlagInteraction FlagType = "interaction" // Drug-interaction language
)

// FlagSeverity indicates the importance of a clinical flag
type FlagSeverity string

const (
	SeverityInfo     FlagSeverity = "info"
	SeverityWarning  FlagSeverity = "warning"
	SeverityCritical FlagSeverity = "critical"
)

// LLMMeta records which provider produced the gated answer
type LLMMeta struct {
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	TokensUsed int    `json:"tokens_used,omitempty"`
}
