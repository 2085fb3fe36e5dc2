package ai

import (
	"context"
	"fmt"

	"page-health-checker/config"
)

const prioritizerSystemPrompt = `You are an expert AI QA Analyst. Your task is to analyze a website health check report using a step-by-step reasoning process (Chain-of-Thought).
Based on this analysis, you will prioritize the identified issues and provide actionable advice.

Follow these steps carefully:
1.  **Identify Issues:** List each distinct issue found in the report (broken links, alt text problems, H1 tag issues, console errors).
2.  **Impact Assessment:** For each identified issue, briefly explain its potential impact on:
    a.  User Experience (UX)
    b.  Search Engine Optimization (SEO)
    c.  Accessibility (A11y)
3.  **Severity Assignment:** Based on the impact assessment, assign a severity level (Low, Medium, High) to each issue. Justify your severity rating.
4.  **Prioritized Recommendations:** Create a prioritized list of actions to address these issues. Start with the highest severity issues. For each action, provide a concise suggestion for how to fix it.
5.  **Overall Summary:** Provide a brief overall summary of the website's health based on your analysis.

Present your final output clearly, using markdown for headings and lists where appropriate.
If no significant issues are found across all categories, state that the page appears healthy based on these checks.`

// CoTPrioritizer is the alternate summarizer backend: same report in,
// but the model reasons through impact and severity step by step before
// recommending fixes.
type CoTPrioritizer struct {
	client *chatClient

	PageExcerpt string
}

func NewCoTPrioritizer(cfg config.AIConfig) *CoTPrioritizer {
	return &CoTPrioritizer{client: newChatClient(cfg)}
}

func (p *CoTPrioritizer) Analyze(ctx context.Context, reportJSON string) (string, error) {
	if p.client.config.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not found, please set it as an environment variable")
	}

	data, err := parseReport(reportJSON)
	if err != nil {
		return "", err
	}

	userContent := fmt.Sprintf(`Here is the website health report for the URL: %s
Final URL (after redirects): %s
Page Fetch Status: %s

Identified Issues:
<report_data>
%s
</report_data>

Please perform the Chain-of-Thought analysis and prioritization as instructed.`,
		data.URLChecked, data.FinalURL, data.FetchStatus, reportDetails(data))

	messages := []chatMessage{
		{Role: "system", Content: prioritizerSystemPrompt},
		{Role: "user", Content: appendExcerpt(userContent, p.PageExcerpt)},
	}

	return p.client.completeWithRetry(ctx, messages, 0.3)
}
