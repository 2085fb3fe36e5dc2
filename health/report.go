package health

import (
	"encoding/json"
	"os"

	"page-health-checker/audit"
	"page-health-checker/browser"
)

const FetchStatusOK = "OK"

// Report is the assembled outcome of one health-check run. Field names
// match the wire shape consumed by the summarizer backends.
type Report struct {
	URLChecked       string                 `json:"url_checked"`
	FinalURL         string                 `json:"final_url"`
	FetchStatus      string                 `json:"fetch_status"`
	BrokenLinks      []audit.LinkIssue      `json:"broken_links"`
	ImagesMissingAlt []audit.AltIssue       `json:"images_missing_alt"`
	H1Status         audit.HeadingStatus    `json:"h1_status"`
	ConsoleErrors    []browser.ConsoleIssue `json:"console_errors"`

	// PageExcerpt carries a markdown rendering of the page body for
	// summarizer prompts. It is not part of the serialized report.
	PageExcerpt string `json:"-"`
}

// NewReport returns a report in its default state: collections are
// allocated empty so serialization yields [] rather than null.
func NewReport(startURL string) *Report {
	return &Report{
		URLChecked:       startURL,
		FinalURL:         startURL,
		FetchStatus:      FetchStatusOK,
		BrokenLinks:      []audit.LinkIssue{},
		ImagesMissingAlt: []audit.AltIssue{},
		H1Status:         audit.HeadingStatus{Texts: []string{}},
		ConsoleErrors:    []browser.ConsoleIssue{},
	}
}

// JSON renders the canonical 2-space-indented report document.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Save writes the serialized report to path.
func (r *Report) Save(path string) error {
	data, err := r.JSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
