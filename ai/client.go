package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"page-health-checker/config"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c chatCompletionResponse) FirstMessage() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(c.Choices[0].Message.Content)
}

// chatClient posts chat-completion requests with a bounded retry policy.
type chatClient struct {
	httpClient *http.Client
	config     config.AIConfig
}

func newChatClient(cfg config.AIConfig) *chatClient {
	return &chatClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		config:     cfg,
	}
}

func (c *chatClient) complete(ctx context.Context, messages []chatMessage, temperature float64) (string, error) {
	payload := chatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	endpoint := c.config.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("authorization", "Bearer "+c.config.APIKey)
	httpReq.Header.Set("content-type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return "", fmt.Errorf("openai: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}

	content := decoded.FirstMessage()
	if content == "" {
		return "", fmt.Errorf("unexpected API response structure")
	}
	return content, nil
}

// completeWithRetry retries transient failures up to the configured
// attempt count. Quota exhaustion aborts immediately.
func (c *chatClient) completeWithRetry(ctx context.Context, messages []chatMessage, temperature float64) (string, error) {
	retries := c.config.MaxRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		text, err := c.complete(ctx, messages, temperature)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if isQuotaError(err) {
			return "", fmt.Errorf("OpenAI quota exhausted, check your billing and plan: %v", err)
		}

		if attempt < retries {
			select {
			case <-time.After(c.config.RetryDelay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", fmt.Errorf("analysis failed after %d retries: %v", retries, lastErr)
}

func isQuotaError(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "insufficient_quota")
}
