package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/verimed/citegate/internal/cache"
)

func newTestClient(c cache.Cache) *Client {
	return NewClient(Options{
		Timeout:           5 * time.Second,
		UserAgent:         "citegate-test",
		RequestsPerSecond: 1000,
		Burst:             1000,
		Cache:             c,
	})
}

func pubmedTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		switch {
		case strings.HasPrefix(r.URL.Path, "/esearch.fcgi"):
			if r.URL.Query().Get("db") != "pubmed" {
				t.Errorf("expected db=pubmed, got %s", r.URL.Query().Get("db"))
			}
			_, _ = w.Write([]byte(`{"esearchresult":{"idlist":["12345678","22222222"]}}`))
		case strings.HasPrefix(r.URL.Path, "/esummary.fcgi"):
			_, _ = w.Write([]byte(`{"result":{
				"uids":["12345678","22222222"],
				"12345678":{"title":"Metformin in type 2 diabetes.","fulljournalname":"N Engl J Med","pubdate":"2020 Jan"},
				"22222222":{"title":"Empagliflozin outcomes.","fulljournalname":"Lancet","pubdate":"2021 Mar"}
			}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestPubMedClient_Search(t *testing.T) {
	server := pubmedTestServer(t, nil)
	defer server.Close()

	client := NewPubMedClient(newTestClient(nil), server.URL, 10)

	results, err := client.Search(context.Background(), "metformin")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].PMID != "12345678" || results[0].Title != "Metformin in type 2 diabetes." {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Journal != "Lancet" {
		t.Errorf("unexpected journal: %+v", results[1])
	}
}

func TestPubMedClient_EmptyQueryResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"esearchresult":{"idlist":[]}}`))
	}))
	defer server.Close()

	client := NewPubMedClient(newTestClient(nil), server.URL, 10)

	results, err := client.Search(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %+v", results)
	}
}

func TestPubMedClient_CachedSecondSearch(t *testing.T) {
	var hits int32
	server := pubmedTestServer(t, &hits)
	defer server.Close()

	statsCache := cache.NewStatsCache(cache.NewMemoryCache(time.Minute, time.Minute))
	client := NewPubMedClient(newTestClient(statsCache), server.URL, 10)

	for i := 0; i < 2; i++ {
		if _, err := client.Search(context.Background(), "metformin"); err != nil {
			t.Fatalf("Search %d failed: %v", i+1, err)
		}
	}

	// First pass hits esearch+esummary; second pass is served from cache.
	if got := atomic.LoadInt32(&hits); got != 2 {
		t.Errorf("expected 2 upstream requests, got %d", got)
	}
	stats := statsCache.Stats()
	if stats.Hits != 2 || stats.Misses != 2 {
		t.Errorf("unexpected cache stats: %+v", stats)
	}
}

func TestEvidenceBlock_CarriesPMIDTokens(t *testing.T) {
	block := EvidenceBlock([]PubMedResult{
		{PMID: "12345678", Title: "Metformin in type 2 diabetes.", Journal: "NEJM", PubDate: "2020"},
	})

	if !strings.Contains(block, "PMID: 12345678") {
		t.Errorf("expected PMID token in evidence block:\n%s", block)
	}

	if EvidenceBlock(nil) != "" {
		t.Error("expected empty block for no results")
	}
}

func TestPubMedClient_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewPubMedClient(newTestClient(nil), server.URL, 10)

	if _, err := client.Search(context.Background(), "metformin"); err == nil {
		t.Error("expected error on non-200 upstream status")
	}
}
