package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postdeck/pkg/logger"
)

func TestOpenAICompleteSuccess(t *testing.T) {
	var gotPayload chatCompletionPayload
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A fresh caption"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", logger.New())

	text, err := client.Complete(context.Background(), CompletionRequest{
		Model:       "gpt-4o-mini",
		System:      "You write social media posts.",
		Prompt:      "Write a caption about coffee",
		MaxTokens:   256,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "A fresh caption", text)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotPayload.Model)
	require.Len(t, gotPayload.Messages, 2)
	assert.Equal(t, "system", gotPayload.Messages[0].Role)
	assert.Equal(t, "user", gotPayload.Messages[1].Role)
}

func TestOpenAICompleteRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"second try"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", logger.New())

	text, err := client.Complete(context.Background(), CompletionRequest{Model: "gpt-4o-mini", Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "second try", text)
	assert.Equal(t, 2, calls)
}

func TestOpenAICompleteClientErrorIsFinal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"model not found"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", logger.New())

	_, err := client.Complete(context.Background(), CompletionRequest{Model: "bogus", Prompt: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
	assert.Equal(t, 1, calls)
}

func TestOpenAIEmbedSuccess(t *testing.T) {
	var gotPayload embeddingPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3]}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", logger.New())

	vec, err := client.Embed(context.Background(), "refund policy")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, embeddingModel, gotPayload.Model)
	assert.Equal(t, []string{"refund policy"}, gotPayload.Input)
}

func TestAnthropicCompleteSuccess(t *testing.T) {
	var gotPayload anthropicPayload
	var gotKey, gotVersion string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"content":[{"type":"text","text":"An idea list"}]}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(server.URL, "ak-test", logger.New())

	text, err := client.Complete(context.Background(), CompletionRequest{
		Model:  "claude-3-5-haiku-latest",
		System: "You write social media posts.",
		Prompt: "Give me ideas",
	})
	require.NoError(t, err)
	assert.Equal(t, "An idea list", text)
	assert.Equal(t, "ak-test", gotKey)
	assert.Equal(t, anthropicVersion, gotVersion)
	assert.Equal(t, defaultMaxTokens, gotPayload.MaxTokens, "missing max_tokens must fall back to the default")
}

func TestCompleteHonorsContextDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewOpenAIClient(server.URL, "sk-test", logger.New())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Complete(ctx, CompletionRequest{Model: "gpt-4o-mini", Prompt: "hi"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResolverPicksVendorByModelPrefix(t *testing.T) {
	r := &Resolver{
		openai:    NewOpenAIClient("", "", logger.New()),
		anthropic: NewAnthropicClient("", "", logger.New()),
	}

	assert.IsType(t, &AnthropicClient{}, r.ForModel("claude-3-5-sonnet-latest"))
	assert.IsType(t, &OpenAIClient{}, r.ForModel("gpt-4o"))
	assert.IsType(t, &OpenAIClient{}, r.ForModel("unknown-model"))
	assert.IsType(t, &OpenAIClient{}, r.Embedder())
}
