package health

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"page-health-checker/audit"
	"page-health-checker/browser"
	"page-health-checker/config"
	"page-health-checker/crawler"
)

// LinkAuditor probes a parsed document's internal links.
type LinkAuditor interface {
	Audit(ctx context.Context, doc *goquery.Document, pageURL string) []audit.LinkIssue
}

// ConsoleAuditor surfaces severe browser console entries for a URL.
type ConsoleAuditor interface {
	Audit(ctx context.Context, pageURL string) []browser.ConsoleIssue
}

// Checker sequences the fetch, the structural audits, and the browser
// audit into one report. Each run builds a fresh report; the checker
// itself holds no per-run state.
type Checker struct {
	fetcher crawler.PageFetcher
	links   LinkAuditor
	console ConsoleAuditor
}

func NewChecker(fetcher crawler.PageFetcher, links LinkAuditor, console ConsoleAuditor) *Checker {
	return &Checker{
		fetcher: fetcher,
		links:   links,
		console: console,
	}
}

// NewDefaultChecker wires the standard collaborators from settings.
func NewDefaultChecker(cfg *config.Settings) *Checker {
	fetcher := crawler.NewPageFetcherWithBackend(cfg.Colly.Enabled, cfg.Fetcher, cfg.Colly)
	prober := audit.NewHTTPProber(cfg.Probe)
	return NewChecker(
		fetcher,
		audit.NewLinkAuditor(prober, cfg.Probe.Workers),
		browser.NewConsoleAuditor(cfg.Browser),
	)
}

// Run executes all health checks for startURL. A fetch failure is the
// only short-circuit: it is recorded in the report and every finding
// collection stays at its default empty state.
func (c *Checker) Run(ctx context.Context, startURL string) *Report {
	log.Printf("Starting health check for %s", startURL)
	report := NewReport(startURL)

	page, err := c.fetcher.FetchPage(startURL, ctx)
	if err != nil {
		report.FetchStatus = fmt.Sprintf("Failed to fetch content for %s", startURL)
		log.Printf("Aborting checks for %s due to fetch failure: %v", startURL, err)
		return report
	}
	report.FinalURL = page.FinalURL

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		report.FetchStatus = fmt.Sprintf("Failed to parse content for %s", startURL)
		log.Printf("Aborting checks for %s due to parse failure: %v", startURL, err)
		return report
	}

	// The browser audit re-fetches through its own session and never
	// touches the parsed document, so it runs alongside the structural
	// audits. It dominates wall-clock time.
	consoleCh := make(chan []browser.ConsoleIssue, 1)
	go func() {
		consoleCh <- c.console.Audit(ctx, page.FinalURL)
	}()

	report.BrokenLinks = append(report.BrokenLinks, c.links.Audit(ctx, doc, page.FinalURL)...)
	log.Printf("Found %d broken internal links", len(report.BrokenLinks))

	report.ImagesMissingAlt = append(report.ImagesMissingAlt, audit.AltTexts(doc)...)
	log.Printf("Found %d images with alt text issues", len(report.ImagesMissingAlt))

	report.H1Status = audit.H1Tags(doc)
	log.Printf("H1 tag status: %s (count: %d)", report.H1Status.Status, report.H1Status.Count)

	report.ConsoleErrors = append(report.ConsoleErrors, <-consoleCh...)
	log.Printf("Found %d severe console errors", len(report.ConsoleErrors))

	report.PageExcerpt = pageExcerpt(doc)

	return report
}
