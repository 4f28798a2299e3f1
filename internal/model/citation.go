package model

// Reference represents one entry of a response's References section
type Reference struct {
	Number int    `json:"number"`           // Ordinal as written by the author
	Text   string `json:"text"`             // Raw reference text, including wrapped lines
	PMID   string `json:"pmid,omitempty"`   // PubMed identifier, if present
	DOI    string `json:"doi,omitempty"`    // Digital Object Identifier, if present
	NCTID  string `json:"nct_id,omitempty"` // ClinicalTrials.gov identifier, if present
}

// HasIdentifier reports whether the reference carries any known identifier
func (r Reference) HasIdentifier() bool {
	return r.PMID != "" || r.DOI != "" || r.NCTID != ""
}

// EvidenceIndex holds every identifier found in the evidence text.
// It is the sole ground truth a reference is verified against.
type EvidenceIndex struct {
	PMIDs  map[string]bool `json:"pmids"`
	DOIs   map[string]bool `json:"dois"`
	NCTIDs map[string]bool `json:"nct_ids"`
}

// NewEvidenceIndex creates an empty index
func NewEvidenceIndex() EvidenceIndex {
	return EvidenceIndex{
		PMIDs:  make(map[string]bool),
		DOIs:   make(map[string]bool),
		NCTIDs: make(map[string]bool),
	}
}

// Hallucination describes a single reference that failed verification
type Hallucination struct {
	Citation string `json:"citation"` // Display label (truncated reference text)
	Reason   string `json:"reason"`   // Human-readable failure reason
}

// ValidationResult is the output of citation validation
type ValidationResult struct {
	IsValid          bool            `json:"is_valid"`          // True iff zero hallucinations
	TotalCitations   int             `json:"total_citations"`   // Count of parsed references
	ValidCitations   int             `json:"valid_citations"`   // References that reached a valid branch
	InvalidCitations int             `json:"invalid_citations"` // Number of hallucination findings
	Hallucinations   []Hallucination `json:"hallucinations"`    // Findings, in reference-list order
	Warnings         []string        `json:"warnings"`          // Advisory structural mismatches
}
