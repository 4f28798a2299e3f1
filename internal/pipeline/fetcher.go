package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/verimed/citegate/internal/util"
)

// fetchSleepFunc allows tests to override retry backoff
var fetchSleepFunc = time.Sleep

const fetchMaxAttempts = 3

// Fetcher retrieves evidence documents from URLs
type Fetcher struct {
	httpClient    *http.Client
	userAgent     string
	maxBytes      int64
	respectRobots bool
	robots        *util.RobotsChecker
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, respectRobots bool, httpProxy, httpsProxy, noProxy string) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(httpProxy, httpsProxy, noProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	return &Fetcher{
		httpClient:    client,
		userAgent:     userAgent,
		maxBytes:      maxBytes,
		respectRobots: respectRobots,
		robots:        util.NewRobotsChecker(client, userAgent),
	}
}

// FetchResult contains the fetched evidence text and metadata
type FetchResult struct {
	Text        string
	ContentType string
	FinalURL    string
}

// FetchWithRetry retrieves a document, retrying transient failures with backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchMaxAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) {
			return nil, err
		}
		if attempt < fetchMaxAttempts {
			fetchSleepFunc(time.Duration(attempt) * time.Second)
		}
	}
	return nil, lastErr
}

// Fetch retrieves a single document from the given URL
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.respectRobots && !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	text := string(body)
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		text = htmlToText(text)
	}

	return &FetchResult{
		Text:        text,
		ContentType: contentType,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// isRetryableFetchError determines if an error warrants a retry
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()

	// Retryable HTTP status codes
	for _, code := range []string{"status: 429", "status: 500", "status: 502", "status: 503", "status: 504"} {
		if strings.Contains(errStr, code) {
			return true
		}
	}

	// Transient network errors
	for _, fragment := range []string{"connection refused", "connection reset", "timeout", "temporary failure"} {
		if strings.Contains(errStr, fragment) {
			return true
		}
	}

	return false
}

// htmlToText extracts visible text from an HTML document. Identifiers in
// markup survive the conversion so they can be indexed as evidence.
func htmlToText(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				sb.WriteString(trimmed)
				sb.WriteString("\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(sb.String())
}
