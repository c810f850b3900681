package stage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

type stubProvider struct {
	reply    string
	err      error
	messages []llm.Message
	opts     llm.Options
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	s.messages = history
	for _, o := range options {
		o(&s.opts)
	}
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, promptText string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: promptText}}, options...)
}

func TestInvokeParsesJSONReply(t *testing.T) {
	provider := &stubProvider{reply: `{"mode": "grounding"}`}
	inv := NewInvoker(prompt.NewRegistry(), provider)

	raw, err := inv.Invoke(context.Background(), prompt.TemplateRouting, "I feel overwhelmed", map[string]string{
		"conversation_history": "[]",
	})

	require.NoError(t, err)
	assert.Equal(t, "grounding", raw.Get("mode").String())
	assert.Equal(t, MaxCompletionTokens, provider.opts.MaxTokens)
	assert.True(t, provider.opts.JSONObject)

	// The question slot must be bound into the formatted messages.
	require.Len(t, provider.messages, 2)
	assert.Contains(t, provider.messages[1].Content, "I feel overwhelmed")
	assert.NotContains(t, provider.messages[1].Content, "{question}")
}

func TestInvokeUnknownTemplate(t *testing.T) {
	inv := NewInvoker(prompt.NewRegistry(), &stubProvider{reply: `{}`})

	_, err := inv.Invoke(context.Background(), "no_such_template", "hello", nil)

	var fetchErr *TemplateFetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "no_such_template", fetchErr.Template)
}

func TestInvokeBackendFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	inv := NewInvoker(prompt.NewRegistry(), provider)

	_, err := inv.Invoke(context.Background(), prompt.TemplateFallback, "hello", nil)

	var callErr *ModelCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, prompt.TemplateFallback, callErr.Template)
}

func TestInvokeNonJSONReply(t *testing.T) {
	provider := &stubProvider{reply: "Sure! Here is my answer in plain prose."}
	inv := NewInvoker(prompt.NewRegistry(), provider)

	_, err := inv.Invoke(context.Background(), prompt.TemplateCoach, "hello", map[string]string{
		"conversation_history": "[]",
		"mode":                 "normal_support (privacy_context: unknown)",
	})

	var callErr *ModelCallError
	require.ErrorAs(t, err, &callErr)
}

func TestInvokeFencedJSONReply(t *testing.T) {
	provider := &stubProvider{reply: "```json\n{\"response\": {\"message\": \"hi\"}}\n```"}
	inv := NewInvoker(prompt.NewRegistry(), provider)

	raw, err := inv.Invoke(context.Background(), prompt.TemplateFallback, "hello", nil)

	require.NoError(t, err)
	assert.Equal(t, "hi", raw.Get("response.message").String())
}
