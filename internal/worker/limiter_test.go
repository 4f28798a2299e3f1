package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(1, 2)

	url := "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	if !limiter.Allow(url) {
		t.Error("first request should be allowed")
	}
	if !limiter.Allow(url) {
		t.Error("second request within burst should be allowed")
	}
	if limiter.Allow(url) {
		t.Error("third request should exceed the burst")
	}
}

func TestLimiter_HostsAreIndependent(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if !limiter.Allow("https://eutils.ncbi.nlm.nih.gov/esearch.fcgi") {
		t.Error("first host should be allowed")
	}
	if !limiter.Allow("https://clinicaltrials.gov/api/v2/studies") {
		t.Error("second host has its own budget")
	}
	if limiter.Allow("https://eutils.ncbi.nlm.nih.gov/esummary.fcgi") {
		t.Error("same host should share the budget across paths")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(1, 1)
	limiter.SetHostRate("eutils.ncbi.nlm.nih.gov", 100, 10)

	url := "https://eutils.ncbi.nlm.nih.gov/esearch.fcgi"
	for i := 0; i < 5; i++ {
		if !limiter.Allow(url) {
			t.Fatalf("request %d should be allowed under the raised quota", i+1)
		}
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	limiter := NewLimiter(0.001, 1)

	url := "https://clinicaltrials.gov/api/v2/studies"
	if err := limiter.Wait(context.Background(), url); err != nil {
		t.Fatalf("first wait should pass immediately: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, url); err == nil {
		t.Error("expected context deadline to interrupt the wait")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(1, 1)

	if limiter.Allow("://bad-url") {
		t.Error("unparseable URLs should not be allowed")
	}
}
