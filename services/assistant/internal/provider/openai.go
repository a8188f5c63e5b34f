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
	defaultOpenAIBase = "https://api.openai.com"
	embeddingModel    = "text-embedding-3-small"
)

// OpenAIClient talks the OpenAI-style REST contract for chat completions
// and embeddings.
type OpenAIClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logger.Logger
}

func NewOpenAIClient(baseURL, apiKey string, log *logger.Logger) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBase
	}
	return &OpenAIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionPayload struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatCompletionPayload{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	respBody, err := postWithRetry(ctx, c.client, c.logger, c.baseURL+"/v1/chat/completions", c.headers(), body)
	if err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("provider returned no completion choices")
	}

	return completion.Choices[0].Message.Content, nil
}

type embeddingPayload struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(embeddingPayload{
		Model: embeddingModel,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding payload: %w", err)
	}

	respBody, err := postWithRetry(ctx, c.client, c.logger, c.baseURL+"/v1/embeddings", c.headers(), body)
	if err != nil {
		return nil, err
	}

	var embedding embeddingResponse
	if err := json.Unmarshal(respBody, &embedding); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	if len(embedding.Data) == 0 {
		return nil, fmt.Errorf("provider returned no embedding data")
	}

	return embedding.Data[0].Embedding, nil
}

func (c *OpenAIClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.apiKey}
}
