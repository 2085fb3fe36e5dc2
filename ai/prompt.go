package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// reportData mirrors the serialized report shape. Sections stay raw so
// prompts can embed them pretty-printed without knowing their structure.
type reportData struct {
	URLChecked       string            `json:"url_checked"`
	FinalURL         string            `json:"final_url"`
	FetchStatus      string            `json:"fetch_status"`
	BrokenLinks      []json.RawMessage `json:"broken_links"`
	ImagesMissingAlt []json.RawMessage `json:"images_missing_alt"`
	H1Status         json.RawMessage   `json:"h1_status"`
	ConsoleErrors    []json.RawMessage `json:"console_errors"`
}

func parseReport(reportJSON string) (*reportData, error) {
	var data reportData
	if err := json.Unmarshal([]byte(reportJSON), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON input for health report")
	}
	return &data, nil
}

func prettySection(items []json.RawMessage) string {
	if len(items) == 0 {
		return "None"
	}
	rendered, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "None"
	}
	return string(rendered)
}

func prettyH1Status(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "Not checked"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// reportDetails formats each findings section with its count, matching
// what the summarizer prompts expect to reason over.
func reportDetails(data *reportData) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Broken Internal Links Found (%d):\n%s",
		len(data.BrokenLinks), prettySection(data.BrokenLinks)))
	parts = append(parts, fmt.Sprintf("Images Missing or with Empty Alt Text (%d):\n%s",
		len(data.ImagesMissingAlt), prettySection(data.ImagesMissingAlt)))
	parts = append(parts, fmt.Sprintf("H1 Tag Status:\n%s", prettyH1Status(data.H1Status)))
	parts = append(parts, fmt.Sprintf("Severe Console Errors Found (%d):\n%s",
		len(data.ConsoleErrors), prettySection(data.ConsoleErrors)))

	return strings.Join(parts, "\n\n")
}

func appendExcerpt(content, excerpt string) string {
	if excerpt == "" {
		return content
	}
	return content + "\n\nPage Content (markdown excerpt):\n" + excerpt
}
