package crawler

import (
	"context"
	"fmt"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/debug"

	"page-health-checker/config"
)

// CollyFetcher is the alternate fetch backend. It honors the same
// single-attempt contract as HTTPFetcher.
type CollyFetcher struct {
	config config.CollyConfig
}

func NewCollyFetcher(cfg config.CollyConfig) *CollyFetcher {
	return &CollyFetcher{config: cfg}
}

func (cf *CollyFetcher) FetchPage(pageURL string, ctx context.Context) (*FetchResult, error) {
	// Fresh collector per request to avoid callback conflicts
	c := colly.NewCollector(
		colly.UserAgent(cf.config.UserAgent),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(cf.config.Timeout)

	if cf.config.DebugMode {
		c.SetDebugger(&debug.LogDebugger{})
	}

	var result *FetchResult
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		finalURL := pageURL
		if r.Request != nil && r.Request.URL != nil {
			finalURL = r.Request.URL.String()
		}
		result = &FetchResult{
			HTML:     string(r.Body),
			FinalURL: finalURL,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			fetchErr = fmt.Errorf("HTTP %d: %v", r.StatusCode, err)
			return
		}
		fetchErr = fmt.Errorf("colly fetch failed: %v", err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("colly visit failed: %v", err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if result == nil {
		return nil, fmt.Errorf("no response received for %s", pageURL)
	}

	return result, nil
}
