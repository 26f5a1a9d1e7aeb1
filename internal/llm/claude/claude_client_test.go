package claude_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docinsight/internal/config"
	"docinsight/internal/llm"
	"docinsight/internal/llm/claude"
	"docinsight/internal/port"
)

func newTestClient(serverURL string) *claude.Client {
	cfg := &config.ProviderConfig{
		Provider:     "claude",
		APIKey:       "test-api-key",
		DefaultModel: "claude-sonnet-4-20250514",
		TimeoutSecs:  30,
	}
	return claude.NewClientWithEndpoint(cfg, serverURL)
}

func TestClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
		assert.Equal(t, float64(2000), body["max_tokens"])
		assert.Equal(t, "Be precise.", body["system"])

		msgs := body["messages"].([]interface{})
		require.Len(t, msgs, 1)
		msg := msgs[0].(map[string]interface{})
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "summarize", msg["content"])

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":       "claude-sonnet-4-20250514",
			"content":     []map[string]interface{}{{"type": "text", "text": "Part one. "}, {"type": "text", "text": "Part two."}},
			"stop_reason": "end_turn",
			"usage":       map[string]interface{}{"input_tokens": 40, "output_tokens": 10},
		})
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionRequest{
		System:    "Be precise.",
		Messages:  []port.Message{{Role: "user", Text: "summarize"}},
		MaxTokens: 2000,
	})

	require.NoError(t, err)
	assert.Equal(t, "Part one. Part two.", out.Text)
	assert.Equal(t, 50, out.TotalTokens)
	assert.False(t, out.Truncated)
}

func TestClient_Complete_ImageBlocksAndDefaultMaxTokens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(4096), body["max_tokens"])
		_, hasSystem := body["system"]
		assert.False(t, hasSystem)

		content := body["messages"].([]interface{})[0].(map[string]interface{})["content"].([]interface{})
		require.Len(t, content, 2)
		img := content[0].(map[string]interface{})
		assert.Equal(t, "image", img["type"])
		src := img["source"].(map[string]interface{})
		assert.Equal(t, "image/jpeg", src["media_type"])
		assert.Equal(t, "text", content[1].(map[string]interface{})["type"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"content":     []map[string]interface{}{{"type": "text", "text": "a person"}},
			"stop_reason": "max_tokens",
		})
	}))
	defer server.Close()

	out, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionRequest{
		Messages: []port.Message{{
			Role:   "user",
			Text:   "describe",
			Images: []port.Image{{ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}}},
		}},
	})

	require.NoError(t, err)
	assert.True(t, out.Truncated)
	assert.Equal(t, "claude-sonnet-4-20250514", out.Model)
}

func TestClient_Complete_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionRequest{
		Messages: []port.Message{{Role: "user", Text: "x"}},
	})

	var rl *llm.RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "claude", rl.Provider)
	assert.Equal(t, 15*time.Second, rl.RetryAfter)
}

func TestClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"overloaded"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionRequest{
		Messages: []port.Message{{Role: "user", Text: "x"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestClient_Complete_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), port.CompletionRequest{
		Messages: []port.Message{{Role: "user", Text: "x"}},
	})

	assert.ErrorContains(t, err, "empty response")
}
