package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ccong2/austin-open-data/pkg/buildinfo"
	"github.com/ccong2/austin-open-data/pkg/errors"
	"github.com/ccong2/austin-open-data/pkg/httputil"
)

const (
	// DefaultBaseURL is the Socrata discovery API endpoint for US portals.
	DefaultBaseURL = "http://api.us.socrata.com/api/catalog/v1"

	// DefaultLimit is the default maximum number of catalog entries fetched.
	DefaultLimit = 2000

	// DefaultCacheTTL is how long fetched catalog documents stay fresh.
	DefaultCacheTTL = 24 * time.Hour

	requestTimeout = 30 * time.Second

	// The discovery API occasionally throws 5xx under load; a catalog
	// fetch is a single large GET, so a short doubling backoff is enough.
	fetchAttempts = 3
	fetchBackoff  = time.Second
)

// Document is a parsed catalog response: the ordered entry list plus the
// portal-reported total result-set size.
type Document struct {
	results       []resultEntry
	resultSetSize int
}

// EntryCount returns the number of entries in the fetched document.
func (d *Document) EntryCount() int { return len(d.results) }

// ResultSetSize returns the total number of matching assets the portal
// reports, which may exceed EntryCount when the limit truncates the fetch.
func (d *Document) ResultSetSize() int { return d.resultSetSize }

// Client fetches catalog documents from the discovery API.
//
// Responses are cached on disk (keyed by request URL) when a cache is
// configured, so repeated analysis runs within the TTL reuse the same
// document. Transient failures (transport errors, 5xx) are retried with
// exponential backoff; 4xx responses and malformed JSON are fatal.
type Client struct {
	http          *http.Client
	cache         *httputil.Cache
	baseURL       string
	retryAttempts int
	retryDelay    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the discovery API endpoint. Mostly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetryPolicy overrides how transient fetch failures are retried.
func WithRetryPolicy(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.retryAttempts = attempts
		c.retryDelay = delay
	}
}

// NewClient creates a catalog client. Pass a nil cache to disable response
// caching entirely.
func NewClient(cache *httputil.Cache, opts ...Option) *Client {
	c := &Client{
		http:          &http.Client{Timeout: requestTimeout},
		cache:         cache,
		baseURL:       DefaultBaseURL,
		retryAttempts: fetchAttempts,
		retryDelay:    fetchBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchCatalog issues the catalog GET for a portal domain and returns the
// parsed document. If refresh is true the cache is bypassed and the fetched
// document replaces any cached copy.
func (c *Client) FetchCatalog(ctx context.Context, domain string, limit int, refresh bool) (*Document, error) {
	if domain == "" {
		return nil, errors.New(errors.ErrCodeInvalidDomain, "portal domain is required")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	reqURL := fmt.Sprintf("%s?domains=%s&limit=%d", c.baseURL, url.QueryEscape(domain), limit)

	var raw catalogResponse
	if err := c.cached(ctx, reqURL, refresh, &raw, func() error {
		return c.get(ctx, reqURL, &raw)
	}); err != nil {
		return nil, err
	}
	return &Document{results: raw.Results, resultSetSize: raw.ResultSetSize}, nil
}

// cached serves v from the cache when possible, otherwise runs fetch (with
// retry) and stores the result. A nil cache degrades to fetch-every-time.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if c.cache != nil && !refresh {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.Retry(ctx, c.retryAttempts, c.retryDelay, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) get(ctx context.Context, reqURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "austin-open-data/"+buildinfo.Version)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "catalog request")}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode catalog response")
	}
	return nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "catalog endpoint not found")
	case code >= 500:
		return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "catalog status %d", code)}
	default:
		return errors.New(errors.ErrCodeNetwork, "catalog status %d", code)
	}
}
