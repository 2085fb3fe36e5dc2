package health

import (
	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// Limit markdown content to avoid overwhelming the AI
const maxExcerptLength = 8000

func pageExcerpt(doc *goquery.Document) string {
	converter := md.NewConverter("", true, nil)
	bodyHTML, err := doc.Find("body").Html()
	if err != nil {
		return ""
	}
	markdown, err := converter.ConvertString(bodyHTML)
	if err != nil {
		return ""
	}
	if len(markdown) > maxExcerptLength {
		return markdown[:maxExcerptLength] + "\n... (content truncated for length)"
	}
	return markdown
}
