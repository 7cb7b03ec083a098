package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Model: "test-model"})
	return server, client
}

func TestClient_Analyze_Success(t *testing.T) {
	var gotReq openai.ChatCompletionRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-1",
			Object: "chat.completion",
			Model:  "test-model",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: `{"score": 70}`}, FinishReason: "stop"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	raw, err := client.Analyze(context.Background(), "the contract text body", "en")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 70}`, raw)

	// Deterministic low-temperature sampling with JSON-mode output.
	assert.InDelta(t, 0.1, gotReq.Temperature, 0.001)
	require.NotNil(t, gotReq.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, gotReq.ResponseFormat.Type)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotReq.Messages[0].Role)
	assert.Contains(t, gotReq.Messages[1].Content, "the contract text body")
}

func TestClient_Analyze_ProviderError(t *testing.T) {
	calls := 0
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	})

	_, err := client.Analyze(context.Background(), "contract text", "en")
	require.Error(t, err)
	var rerr *domain.ReasoningError
	assert.ErrorAs(t, err, &rerr)
	// No automatic retry: a single failed call surfaces immediately.
	assert.Equal(t, 1, calls)
}

func TestClient_Configured(t *testing.T) {
	assert.True(t, NewClient(Config{APIKey: "k"}).Configured())
	assert.False(t, NewClient(Config{}).Configured())
}

func TestClient_Defaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"})
	assert.Equal(t, DefaultBaseURL, c.cfg.BaseURL)
	assert.Equal(t, DefaultModel, c.cfg.Model)
	assert.NotZero(t, c.cfg.Timeout)
}
