package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// PubMedClient queries NCBI E-utilities: esearch to resolve a query to
// PMIDs, esummary to hydrate the records.
type PubMedClient struct {
	client     *Client
	baseURL    string
	maxResults int
}

// NewPubMedClient creates a PubMed search client
func NewPubMedClient(client *Client, baseURL string, maxResults int) *PubMedClient {
	if maxResults <= 0 {
		maxResults = 10
	}
	return &PubMedClient{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
	}
}

// PubMedResult is one hydrated PubMed record
type PubMedResult struct {
	PMID    string `json:"pmid"`
	Title   string `json:"title"`
	Journal string `json:"journal,omitempty"`
	PubDate string `json:"pub_date,omitempty"`
}

type esearchResponse struct {
	ESearchResult struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type esummaryResponse struct {
	Result map[string]json.RawMessage `json:"result"`
}

type esummaryRecord struct {
	Title           string `json:"title"`
	FullJournalName string `json:"fulljournalname"`
	PubDate         string `json:"pubdate"`
}

// Search resolves a free-text query to hydrated PubMed records
func (p *PubMedClient) Search(ctx context.Context, query string) ([]PubMedResult, error) {
	searchURL := fmt.Sprintf("%s/esearch.fcgi?db=pubmed&retmode=json&retmax=%d&term=%s",
		p.baseURL, p.maxResults, url.QueryEscape(query))

	var sr esearchResponse
	if err := p.client.getJSON(ctx, searchURL, &sr); err != nil {
		return nil, fmt.Errorf("pubmed esearch: %w", err)
	}

	ids := sr.ESearchResult.IDList
	if len(ids) == 0 {
		return nil, nil
	}

	summaryURL := fmt.Sprintf("%s/esummary.fcgi?db=pubmed&retmode=json&id=%s",
		p.baseURL, strings.Join(ids, ","))

	var sum esummaryResponse
	if err := p.client.getJSON(ctx, summaryURL, &sum); err != nil {
		return nil, fmt.Errorf("pubmed esummary: %w", err)
	}

	results := make([]PubMedResult, 0, len(ids))
	for _, id := range ids {
		raw, ok := sum.Result[id]
		if !ok {
			continue
		}
		var rec esummaryRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			continue
		}
		results = append(results, PubMedResult{
			PMID:    id,
			Title:   rec.Title,
			Journal: rec.FullJournalName,
			PubDate: rec.PubDate,
		})
	}

	return results, nil
}

// EvidenceBlock renders PubMed results as grounding text. Every line
// carries a "PMID:" token so the evidence identifier index picks it up.
func EvidenceBlock(results []PubMedResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("PubMed search results:\n")
	for _, r := range results {
		b.WriteString("- ")
		b.WriteString(r.Title)
		if r.Journal != "" {
			b.WriteString(" " + r.Journal + ".")
		}
		if r.PubDate != "" {
			b.WriteString(" " + r.PubDate + ".")
		}
		b.WriteString(" PMID: " + r.PMID + "\n")
	}
	return b.String()
}
