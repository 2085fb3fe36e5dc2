package health

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"page-health-checker/audit"
	"page-health-checker/browser"
)

func TestNewReportDefaultJSON(t *testing.T) {
	report := NewReport("https://example.com/")
	data, err := report.JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	text := string(data)

	// Empty collections must serialize as [], never null.
	for _, fragment := range []string{
		`"broken_links": []`,
		`"images_missing_alt": []`,
		`"console_errors": []`,
		`"texts": []`,
	} {
		if !strings.Contains(text, fragment) {
			t.Errorf("serialized report missing %q:\n%s", fragment, text)
		}
	}

	if strings.Contains(text, "null") {
		t.Errorf("serialized report contains null:\n%s", text)
	}
	if strings.Contains(text, "PageExcerpt") || strings.Contains(text, "page_excerpt") {
		t.Errorf("page excerpt must not be serialized:\n%s", text)
	}
}

func TestReportWireFieldNames(t *testing.T) {
	report := NewReport("https://example.com/testpage")
	report.FinalURL = "https://example.com/final"
	report.BrokenLinks = append(report.BrokenLinks, audit.LinkIssue{
		URL:        "https://example.com/broken-page",
		StatusCode: audit.StatusCode(404),
		Text:       "Broken Link Text",
	})
	report.ImagesMissingAlt = append(report.ImagesMissingAlt, audit.AltIssue{
		Src:   "images/logo_no_alt.png",
		Issue: audit.IssueMissingAlt,
	})
	report.H1Status = audit.HeadingStatus{
		Status: audit.H1StatusMultiple,
		Count:  2,
		Texts:  []string{"Main Title", "Another H1"},
	}
	report.ConsoleErrors = append(report.ConsoleErrors, browser.ConsoleIssue{
		Level:     browser.LevelSevere,
		Message:   "Uncaught TypeError",
		Source:    "https://example.com/scripts/main.js",
		Timestamp: 1678886400000,
	})

	data, err := report.JSON()
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	for _, key := range []string{
		"url_checked", "final_url", "fetch_status",
		"broken_links", "images_missing_alt", "h1_status", "console_errors",
	} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("serialized report missing field %q", key)
		}
	}
	if len(decoded) != 7 {
		t.Errorf("serialized report has %d fields, want 7: %v", len(decoded), decoded)
	}

	links := decoded["broken_links"].([]interface{})
	link := links[0].(map[string]interface{})
	if link["status_code"] != float64(404) {
		t.Errorf("status_code = %v, want numeric 404", link["status_code"])
	}
}

func TestReportSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "health_report.json")

	report := NewReport("https://example.com/")
	if err := report.Save(path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if !strings.Contains(string(data), `"url_checked": "https://example.com/"`) {
		t.Errorf("unexpected saved report:\n%s", data)
	}
}
