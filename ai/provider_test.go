package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"page-health-checker/config"
)

const sampleReport = `{
  "url_checked": "https://example.com/testpage",
  "final_url": "https://example.com/testpage",
  "fetch_status": "OK",
  "broken_links": [
    {"url": "https://example.com/broken-page", "status_code": 404, "text": "Broken Link Text"}
  ],
  "images_missing_alt": [
    {"src": "images/logo_no_alt.png", "issue": "Missing alt attribute"}
  ],
  "h1_status": {"status": "Multiple H1s", "count": 2, "texts": ["Main Title", "Another H1"]},
  "console_errors": [
    {"level": "SEVERE", "message": "Uncaught TypeError", "source": "main.js", "timestamp": 1678886400000}
  ]
}`

func chatCompletionServer(t *testing.T, reply string, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if status >= 400 {
			http.Error(w, reply, status)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testAIConfig(endpoint string) config.AIConfig {
	return config.AIConfig{
		Backend:    "direct",
		Model:      "gpt-4o-mini",
		APIKey:     "test-key",
		Endpoint:   endpoint,
		MaxTokens:  256,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}
}

func TestAnalyzeReturnsSummary(t *testing.T) {
	srv, calls := chatCompletionServer(t, "The page has two H1 elements and one broken link.", 200)

	analyzer := NewOpenAIAnalyzer(testAIConfig(srv.URL))
	text, err := analyzer.Analyze(context.Background(), sampleReport)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if !strings.Contains(text, "broken link") {
		t.Errorf("unexpected summary %q", text)
	}
	if calls.Load() != 1 {
		t.Errorf("expected a single API call, got %d", calls.Load())
	}
}

func TestAnalyzeMissingAPIKey(t *testing.T) {
	srv, calls := chatCompletionServer(t, "should never be reached", 200)

	cfg := testAIConfig(srv.URL)
	cfg.APIKey = ""
	analyzer := NewOpenAIAnalyzer(cfg)

	_, err := analyzer.Analyze(context.Background(), sampleReport)
	if err == nil {
		t.Fatal("expected error for missing API key")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("error %q should mention the missing key", err)
	}
	if calls.Load() != 0 {
		t.Errorf("missing key must be detected before any network call, got %d calls", calls.Load())
	}
}

func TestAnalyzeInvalidJSON(t *testing.T) {
	srv, calls := chatCompletionServer(t, "should never be reached", 200)

	analyzer := NewOpenAIAnalyzer(testAIConfig(srv.URL))
	_, err := analyzer.Analyze(context.Background(), "{not json")
	if err == nil {
		t.Fatal("expected error for invalid report JSON")
	}
	if !strings.Contains(err.Error(), "invalid JSON") {
		t.Errorf("error %q should mention invalid JSON", err)
	}
	if calls.Load() != 0 {
		t.Errorf("invalid input must be detected before any network call, got %d calls", calls.Load())
	}
}

func TestAnalyzeRetriesTransientFailures(t *testing.T) {
	srv, calls := chatCompletionServer(t, "temporarily unavailable", 500)

	analyzer := NewOpenAIAnalyzer(testAIConfig(srv.URL))
	_, err := analyzer.Analyze(context.Background(), sampleReport)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestAnalyzeQuotaErrorAbortsRetries(t *testing.T) {
	srv, calls := chatCompletionServer(t, `{"error": {"code": "insufficient_quota"}}`, 429)

	analyzer := NewOpenAIAnalyzer(testAIConfig(srv.URL))
	_, err := analyzer.Analyze(context.Background(), sampleReport)
	if err == nil {
		t.Fatal("expected quota error")
	}
	if !strings.Contains(err.Error(), "quota") {
		t.Errorf("error %q should mention quota", err)
	}
	if calls.Load() != 1 {
		t.Errorf("quota errors must not be retried, got %d calls", calls.Load())
	}
}

func TestCoTPrioritizerUsesSameContract(t *testing.T) {
	srv, _ := chatCompletionServer(t, "1. Identify Issues: ...", 200)

	prioritizer := NewCoTPrioritizer(testAIConfig(srv.URL))
	text, err := prioritizer.Analyze(context.Background(), sampleReport)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if text == "" {
		t.Error("expected non-empty analysis")
	}
}

func TestSummarizeFoldsErrorsIntoText(t *testing.T) {
	cfg := testAIConfig("http://127.0.0.1:0")
	cfg.APIKey = ""
	analyzer := NewOpenAIAnalyzer(cfg)

	text := Summarize(context.Background(), analyzer, sampleReport)
	if !strings.HasPrefix(text, "Error:") {
		t.Errorf("Summarize() = %q, want Error: prefix", text)
	}
}

func TestReportDetailsFormatting(t *testing.T) {
	data, err := parseReport(sampleReport)
	if err != nil {
		t.Fatalf("parseReport() error: %v", err)
	}

	details := reportDetails(data)

	if !strings.Contains(details, "Broken Internal Links Found (1):") {
		t.Errorf("missing broken links section:\n%s", details)
	}
	if !strings.Contains(details, "Severe Console Errors Found (1):") {
		t.Errorf("missing console errors section:\n%s", details)
	}
	if !strings.Contains(details, "Multiple H1s") {
		t.Errorf("missing h1 status:\n%s", details)
	}
}

func TestReportDetailsEmptySections(t *testing.T) {
	clean := `{
		"url_checked": "https://flawless-site.com",
		"final_url": "https://flawless-site.com",
		"fetch_status": "OK",
		"broken_links": [],
		"images_missing_alt": [],
		"h1_status": {"status": "OK", "count": 1, "texts": ["Perfect Main Title"]},
		"console_errors": []
	}`

	data, err := parseReport(clean)
	if err != nil {
		t.Fatalf("parseReport() error: %v", err)
	}

	details := reportDetails(data)
	if !strings.Contains(details, "Broken Internal Links Found (0):\nNone") {
		t.Errorf("empty section should render as None:\n%s", details)
	}
}

func TestAppendExcerpt(t *testing.T) {
	if got := appendExcerpt("base", ""); got != "base" {
		t.Errorf("empty excerpt must leave content untouched, got %q", got)
	}
	if got := appendExcerpt("base", "# Title"); !strings.Contains(got, "# Title") {
		t.Errorf("excerpt missing from %q", got)
	}
}
