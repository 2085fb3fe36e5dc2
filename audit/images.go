package audit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	IssueMissingAlt = "Missing alt attribute"
	IssueEmptyAlt   = "Empty alt attribute"
)

// AltIssue describes one image with an absent or useless alt attribute.
type AltIssue struct {
	Src   string `json:"src"`
	Issue string `json:"issue"`
}

// AltTexts scans images in document order and reports the ones missing
// alternative text. Whitespace-only alt values count as empty.
func AltTexts(doc *goquery.Document) []AltIssue {
	var issues []AltIssue

	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		src := s.AttrOr("src", "N/A")
		alt, exists := s.Attr("alt")

		if !exists {
			issues = append(issues, AltIssue{Src: src, Issue: IssueMissingAlt})
			return
		}
		if strings.TrimSpace(alt) == "" {
			issues = append(issues, AltIssue{Src: src, Issue: IssueEmptyAlt})
		}
	})

	return issues
}
