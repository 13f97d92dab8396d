// SPDX-License-Identifier: MPL-2.0

package guidelines

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// defaultTimeout bounds each fetch, covering connection setup through
	// the full body read.
	defaultTimeout = 15 * time.Second

	// defaultUserAgent is the identifying header sent with every request.
	defaultUserAgent = "Continuum/1.0 (Guidelines updater)"

	// maxResponseBytes is the upper bound on response body size (10 MB).
	// Prevents unbounded memory consumption from malicious or malformed
	// responses.
	maxResponseBytes = 10 << 20
)

type (
	// Fetcher performs HTTPS-only GET requests for catalog and pack artifacts.
	// The zero value is not usable; construct with NewFetcher.
	Fetcher struct {
		httpClient *http.Client
		timeout    time.Duration
		userAgent  string
	}

	// FetcherOption configures a Fetcher during construction.
	FetcherOption func(*Fetcher)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations. The client's own timeout, if any, takes precedence over
// the Fetcher timeout.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher with sensible defaults: a 15 second timeout
// and the standard Continuum User-Agent.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: f.timeout}
	}
	return f
}

// FetchBytes performs a single GET request for rawURL and returns the full
// response body. Non-HTTPS URLs are rejected with ErrInsecureTransport
// before any network I/O. A non-200 status is an error. No retries are
// attempted; the caller decides whether to retry the whole operation.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	if err := requireHTTPS(rawURL); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	return body, nil
}

// requireHTTPS enforces the HTTPS-only fetch policy. The scheme check is
// case-insensitive.
func requireHTTPS(rawURL string) error {
	if !strings.HasPrefix(strings.ToLower(rawURL), "https://") {
		return fmt.Errorf("%w: %s", ErrInsecureTransport, rawURL)
	}
	return nil
}
