package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// ClinicalTrialsClient queries the ClinicalTrials.gov v2 studies API
type ClinicalTrialsClient struct {
	client   *Client
	baseURL  string
	pageSize int
}

// NewClinicalTrialsClient creates a ClinicalTrials.gov search client
func NewClinicalTrialsClient(client *Client, baseURL string, pageSize int) *ClinicalTrialsClient {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &ClinicalTrialsClient{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		pageSize: pageSize,
	}
}

// TrialResult is one registered trial
type TrialResult struct {
	NCTID  string `json:"nct_id"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

type studiesResponse struct {
	Studies []struct {
		ProtocolSection struct {
			IdentificationModule struct {
				NCTID      string `json:"nctId"`
				BriefTitle string `json:"briefTitle"`
			} `json:"identificationModule"`
			StatusModule struct {
				OverallStatus string `json:"overallStatus"`
			} `json:"statusModule"`
		} `json:"protocolSection"`
	} `json:"studies"`
}

// Search resolves a free-text query to registered trials
func (c *ClinicalTrialsClient) Search(ctx context.Context, query string) ([]TrialResult, error) {
	searchURL := fmt.Sprintf("%s/studies?pageSize=%d&query.term=%s",
		c.baseURL, c.pageSize, url.QueryEscape(query))

	var resp studiesResponse
	if err := c.client.getJSON(ctx, searchURL, &resp); err != nil {
		return nil, fmt.Errorf("clinicaltrials studies: %w", err)
	}

	results := make([]TrialResult, 0, len(resp.Studies))
	for _, s := range resp.Studies {
		ident := s.ProtocolSection.IdentificationModule
		if ident.NCTID == "" {
			continue
		}
		results = append(results, TrialResult{
			NCTID:  ident.NCTID,
			Title:  ident.BriefTitle,
			Status: s.ProtocolSection.StatusModule.OverallStatus,
		})
	}

	return results, nil
}

// TrialEvidenceBlock renders trial results as grounding text. Every line
// carries the NCT token so the evidence identifier index picks it up.
func TrialEvidenceBlock(results []TrialResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("ClinicalTrials.gov search results:\n")
	for _, r := range results {
		b.WriteString("- " + r.Title)
		if r.Status != "" {
			b.WriteString(" (" + r.Status + ")")
		}
		b.WriteString(". NCT ID: " + r.NCTID + "\n")
	}
	return b.String()
}
