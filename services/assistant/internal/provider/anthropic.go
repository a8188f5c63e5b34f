package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"postdeck/pkg/logger"
)

const (
	defaultAnthropicBase = "https://api.anthropic.com"
	anthropicVersion     = "2023-06-01"

	// The messages API rejects requests without max_tokens.
	defaultMaxTokens = 1024
)

// AnthropicClient talks the Anthropic messages REST contract.
type AnthropicClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logger.Logger
}

func NewAnthropicClient(baseURL, apiKey string, log *logger.Logger) *AnthropicClient {
	if baseURL == "" {
		baseURL = defaultAnthropicBase
	}
	return &AnthropicClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  log,
	}
}

type anthropicPayload struct {
	Model       string        `json:"model"`
	System      string        `json:"system,omitempty"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(anthropicPayload{
		Model:       req.Model,
		System:      req.System,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	headers := map[string]string{
		"x-api-key":         c.apiKey,
		"anthropic-version": anthropicVersion,
	}

	respBody, err := postWithRetry(ctx, c.client, c.logger, c.baseURL+"/v1/messages", headers, body)
	if err != nil {
		return "", err
	}

	var completion anthropicResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	for _, block := range completion.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("provider returned no text content")
}
