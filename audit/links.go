package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"page-health-checker/config"
)

// SentinelTimeout marks a probe that timed out instead of answering.
const SentinelTimeout = "Timeout"

// LinkIssue describes one broken internal link.
type LinkIssue struct {
	URL        string     `json:"url"`
	StatusCode LinkStatus `json:"status_code"`
	Text       string     `json:"text"`
}

// LinkStatus is either a numeric HTTP status or a sentinel string for
// network-level failures. It serializes to a JSON number or string.
type LinkStatus struct {
	Code     int
	Sentinel string
}

func StatusCode(code int) LinkStatus { return LinkStatus{Code: code} }

func StatusSentinel(text string) LinkStatus { return LinkStatus{Sentinel: text} }

func (s LinkStatus) MarshalJSON() ([]byte, error) {
	if s.Sentinel != "" {
		return json.Marshal(s.Sentinel)
	}
	return json.Marshal(s.Code)
}

func (s *LinkStatus) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Sentinel)
	}
	return json.Unmarshal(data, &s.Code)
}

func (s LinkStatus) String() string {
	if s.Sentinel != "" {
		return s.Sentinel
	}
	return strconv.Itoa(s.Code)
}

// Prober issues an existence probe for a single URL and reports the
// final HTTP status determination.
type Prober interface {
	Probe(ctx context.Context, link string) (int, error)
}

type HTTPProber struct {
	client    *http.Client
	userAgent string
}

func NewHTTPProber(cfg config.ProbeConfig) *HTTPProber {
	return &HTTPProber{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent: cfg.UserAgent,
	}
}

// Probe tries a HEAD request first to save bandwidth. Some servers
// mishandle HEAD, so any HEAD status >= 400 (including 405) is confirmed
// with a full GET before the link counts as broken.
func (p *HTTPProber) Probe(ctx context.Context, link string) (int, error) {
	status, err := p.request(ctx, http.MethodHead, link)
	if err != nil {
		return 0, err
	}
	if status >= 400 {
		return p.request(ctx, http.MethodGet, link)
	}
	return status, nil
}

func (p *HTTPProber) request(ctx context.Context, method, link string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if method == http.MethodGet {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	}

	return resp.StatusCode, nil
}

// LinkAuditor finds internal links on a page and probes each distinct
// one for reachability.
type LinkAuditor struct {
	prober  Prober
	workers int
}

func NewLinkAuditor(prober Prober, workers int) *LinkAuditor {
	if workers < 1 {
		workers = 1
	}
	return &LinkAuditor{prober: prober, workers: workers}
}

// Audit probes every distinct internal link once and reports the broken
// ones. Finding order follows probe completion, not document order.
func (a *LinkAuditor) Audit(ctx context.Context, doc *goquery.Document, pageURL string) []LinkIssue {
	targets := collectInternalLinks(doc, pageURL)
	if len(targets) == 0 {
		return nil
	}

	type probeJob struct {
		url  string
		text string
	}

	jobs := make(chan probeJob)
	var mu sync.Mutex
	var issues []LinkIssue
	var wg sync.WaitGroup

	workers := a.workers
	if workers > len(targets) {
		workers = len(targets)
	}

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				issue, broken := a.probeOne(ctx, job.url, job.text)
				if !broken {
					continue
				}
				mu.Lock()
				issues = append(issues, issue)
				mu.Unlock()
			}
		}()
	}

	for linkURL, text := range targets {
		jobs <- probeJob{url: linkURL, text: text}
	}
	close(jobs)
	wg.Wait()

	return issues
}

// probeOne never aborts the audit: every failure becomes a finding.
func (a *LinkAuditor) probeOne(ctx context.Context, linkURL, text string) (LinkIssue, bool) {
	status, err := a.prober.Probe(ctx, linkURL)
	if err != nil {
		sentinel := err.Error()
		if isTimeout(err) {
			sentinel = SentinelTimeout
		}
		return LinkIssue{URL: linkURL, StatusCode: StatusSentinel(sentinel), Text: text}, true
	}
	if status >= 400 {
		return LinkIssue{URL: linkURL, StatusCode: StatusCode(status), Text: text}, true
	}
	return LinkIssue{}, false
}

// collectInternalLinks resolves anchor targets against the page URL and
// keeps same-host ones, deduplicated by absolute URL. The anchor text of
// the first anchor seen for a URL wins.
func collectInternalLinks(doc *goquery.Document, pageURL string) map[string]string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	targets := make(map[string]string)

	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !strings.EqualFold(resolved.Host, base.Host) {
			return
		}

		absolute := resolved.String()
		if _, seen := targets[absolute]; seen {
			return
		}
		targets[absolute] = strings.TrimSpace(s.Text())
	})

	return targets
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
