package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cubie-assistant/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_ParsesToolCalls(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"model":"llama3","done":true,"message":{"role":"assistant","content":"","tool_calls":[{"function":{"name":"update_dispute_status","arguments":{"dispute_id":1001,"action":"close"}}}]}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	out, err := p.Complete(context.Background(),
		[]llm.Message{{Role: "user", Content: "close dispute 1001"}},
		llm.WithSystem("You are Cubie."),
		llm.WithTools(llm.Tool{Name: "update_dispute_status", Parameters: llm.Object(nil, nil)}),
	)
	require.NoError(t, err)

	require.Len(t, out.ToolCalls, 1)
	assert.Equal(t, "update_dispute_status", out.ToolCalls[0].Name)
	assert.EqualValues(t, 1001, out.ToolCalls[0].Args["dispute_id"])

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.Len(t, got.Tools, 1)
	assert.Equal(t, "function", got.Tools[0].Type)
}

func TestComplete_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, llm.ErrRateLimited)
}
