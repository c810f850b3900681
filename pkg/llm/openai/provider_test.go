package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

func TestChatSendsLowercaseWireKeys(t *testing.T) {
	var captured []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hi there"}}]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("test-key", server.URL, "gpt-4o-mini")

	reply, err := provider.Chat(context.Background(),
		[]llm.Message{
			{Role: "system", Content: "be kind"},
			{Role: "model", Content: "earlier reply"},
			{Role: "user", Content: "hello"},
		},
		llm.WithJSONObject(),
		llm.WithMaxTokens(256),
	)
	require.NoError(t, err)
	assert.Equal(t, "hi there", reply)

	// The chat-completions API requires lowercase message keys.
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens      int `json:"max_tokens"`
		ResponseFormat *struct {
			Type string `json:"type"`
		} `json:"response_format"`
	}
	require.NoError(t, json.Unmarshal(captured, &body))

	assert.Equal(t, "gpt-4o-mini", body.Model)
	require.Len(t, body.Messages, 3)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "assistant", body.Messages[1].Role) // "model" mapped to wire role
	assert.Equal(t, "user", body.Messages[2].Role)
	assert.Equal(t, "hello", body.Messages[2].Content)
	assert.Equal(t, 256, body.MaxTokens)
	require.NotNil(t, body.ResponseFormat)
	assert.Equal(t, "json_object", body.ResponseFormat.Type)

	assert.NotContains(t, string(captured), `"Role"`)
	assert.NotContains(t, string(captured), `"Content"`)
}

func TestChatSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider("bad-key", server.URL, "gpt-4o-mini")

	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hello"}})
	assert.ErrorContains(t, err, "status 401")
}
