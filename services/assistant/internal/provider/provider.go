package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"postdeck/pkg/config"
	"postdeck/pkg/logger"
)

const (
	maxRetries   = 3
	initialDelay = 1 * time.Second
)

// CompletionRequest is one prompt for a chat model.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider is the outbound port for one AI model vendor.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Resolver picks the vendor client by model name prefix. Embeddings
// always go through OpenAI; Anthropic has no embedding endpoint.
type Resolver struct {
	openai    *OpenAIClient
	anthropic *AnthropicClient
}

func NewResolver(cfg *config.Config, log *logger.Logger) *Resolver {
	return &Resolver{
		openai:    NewOpenAIClient("", cfg.OpenAIAPIKey, log),
		anthropic: NewAnthropicClient("", cfg.AnthropicAPIKey, log),
	}
}

func (r *Resolver) ForModel(model string) Provider {
	if strings.HasPrefix(model, "claude") {
		return r.anthropic
	}
	return r.openai
}

func (r *Resolver) Embedder() Embedder {
	return r.openai
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// postWithRetry POSTs a JSON body and retries 429/5xx responses with
// exponential backoff, honoring context cancellation. Client errors are
// final.
func postWithRetry(ctx context.Context, client *http.Client, log *logger.Logger, url string, headers map[string]string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
				lastErr = fmt.Errorf("provider API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
			} else {
				lastErr = fmt.Errorf("provider API error (%d): %s", resp.StatusCode, string(respBody))
			}

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				log.Warn("Provider attempt %d failed: %v", attempt+1, lastErr)
				continue
			}
			return nil, lastErr
		}

		return respBody, nil
	}

	return nil, fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, lastErr)
}
