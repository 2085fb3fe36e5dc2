package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"page-health-checker/config"
)

// FetchResult carries the raw page markup and the URL left after the
// server finished issuing redirects.
type FetchResult struct {
	HTML     string
	FinalURL string
}

// PageFetcher defines the interface for page fetchers
type PageFetcher interface {
	FetchPage(pageURL string, ctx context.Context) (*FetchResult, error)
}

type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(cfg config.FetcherConfig) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        cfg.MaxIdleConns,
				MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
				MaxConnsPerHost:     cfg.MaxConnsPerHost,
				IdleConnTimeout:     cfg.IdleConnTimeout,
				TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
				DisableKeepAlives:   false,
				ForceAttemptHTTP2:   true,
			},
		},
		userAgent: cfg.UserAgent,
	}
}

// NewPageFetcherWithBackend creates a page fetcher based on the backend choice
func NewPageFetcherWithBackend(useColly bool, fetcherConfig config.FetcherConfig, collyConfig config.CollyConfig) PageFetcher {
	if useColly {
		return NewCollyFetcher(collyConfig)
	}
	return NewHTTPFetcher(fetcherConfig)
}

// FetchPage performs a single GET with redirects followed. A single
// attempt only; retrying is the caller's concern.
func (f *HTTPFetcher) FetchPage(pageURL string, ctx context.Context) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %v", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed reading response body: %v", err)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &FetchResult{
		HTML:     string(body),
		FinalURL: finalURL,
	}, nil
}

// SetTimeout overrides the client timeout, mainly for tests.
func (f *HTTPFetcher) SetTimeout(d time.Duration) {
	f.client.Timeout = d
}
