package ai

import (
	"context"
	"fmt"

	"page-health-checker/config"
)

const analyzerSystemPrompt = "You are a helpful AI QA Assistant. Your task is to analyze a website health check report, " +
	"summarize the findings, prioritize issues by potential impact (user experience, SEO, accessibility), " +
	"and suggest general best practices for fixing common types of issues found. " +
	"Be concise yet informative. Use markdown for formatting if appropriate (e.g., lists)."

// OpenAIAnalyzer sends the health report to a chat-completions endpoint
// for a prioritized summary.
type OpenAIAnalyzer struct {
	client *chatClient

	// PageExcerpt, when set, is appended to the prompt to give the
	// model page context beyond the raw findings.
	PageExcerpt string
}

func NewOpenAIAnalyzer(cfg config.AIConfig) *OpenAIAnalyzer {
	return &OpenAIAnalyzer{client: newChatClient(cfg)}
}

func (a *OpenAIAnalyzer) Analyze(ctx context.Context, reportJSON string) (string, error) {
	// Credential check happens before any parsing or network traffic.
	if a.client.config.APIKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not found, please set it as an environment variable")
	}

	data, err := parseReport(reportJSON)
	if err != nil {
		return "", err
	}

	userContent := fmt.Sprintf(`Please analyze the following website health report:

URL Checked: %s
Final URL (after redirects): %s
Page Fetch Status: %s

%s

---
Based on this report, provide:
1. A concise overall summary of the website's health.
2. Prioritized list of issues (if any) with a brief explanation of their potential impact.
3. General actionable advice or best practices for addressing the types of issues found.
If no significant issues are found, acknowledge that the page appears to be in good health based on these checks.`,
		data.URLChecked, data.FinalURL, data.FetchStatus, reportDetails(data))

	messages := []chatMessage{
		{Role: "system", Content: analyzerSystemPrompt},
		{Role: "user", Content: appendExcerpt(userContent, a.PageExcerpt)},
	}

	return a.client.completeWithRetry(ctx, messages, 0.5)
}
