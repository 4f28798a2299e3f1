package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/verimed/citegate/internal/cache"
	"github.com/verimed/citegate/internal/util"
	"github.com/verimed/citegate/internal/worker"
)

// Client is the shared HTTP plumbing for the literature-search clients:
// per-host rate limiting, cache-first responses, proxy support, and a
// response size cap.
type Client struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	userAgent  string
	maxBytes   int64
}

// Options configures the shared search client
type Options struct {
	Timeout           time.Duration
	UserAgent         string
	MaxBodyBytes      int64
	RequestsPerSecond float64
	Burst             int
	Cache             cache.Cache // nil disables caching
	CacheTTL          time.Duration
	HTTPProxy         string
	HTTPSProxy        string
	NoProxy           string
}

// NewClient creates the shared client with sensible defaults
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxBodyBytes == 0 {
		opts.MaxBodyBytes = 2_000_000
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 3
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 15 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy, opts.NoProxy),
			},
		},
		limiter:   worker.NewLimiter(opts.RequestsPerSecond, opts.Burst),
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		userAgent: opts.UserAgent,
		maxBytes:  opts.MaxBodyBytes,
	}
}

// getJSON fetches a URL cache-first and decodes the JSON body into out
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	key := cache.Key("search", rawURL)

	if c.cache != nil {
		if body, found := c.cache.Get(key); found {
			return json.Unmarshal(body, out)
		}
	}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if c.cache != nil {
		_ = c.cache.Set(key, body, c.cacheTTL)
	}

	return json.Unmarshal(body, out)
}
