package audit

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	H1StatusOK       = "OK"
	H1StatusMissing  = "Missing H1"
	H1StatusMultiple = "Multiple H1s"
)

// HeadingStatus classifies the page's top-level heading usage.
type HeadingStatus struct {
	Status string   `json:"status"`
	Count  int      `json:"count"`
	Texts  []string `json:"texts"`
}

// H1Tags counts h1 elements and collects their trimmed texts in
// document order. Status is derived from the count alone.
func H1Tags(doc *goquery.Document) HeadingStatus {
	texts := []string{}
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})

	status := H1StatusOK
	switch {
	case len(texts) == 0:
		status = H1StatusMissing
	case len(texts) > 1:
		status = H1StatusMultiple
	}

	return HeadingStatus{
		Status: status,
		Count:  len(texts),
		Texts:  texts,
	}
}
