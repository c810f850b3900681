package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryServesBuiltins(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{TemplateRouting, TemplateCoach, TemplateFallback} {
		tpl, err := r.Get(context.Background(), name)
		require.NoError(t, err, name)
		assert.Equal(t, name, tpl.Name)
		assert.NotEmpty(t, tpl.Messages)
	}
}

func TestRegistryUnknownName(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get(context.Background(), "missing_prompt")
	assert.Error(t, err)
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register(&Template{
		Name:     TemplateFallback,
		Messages: []TemplateMessage{{Role: "system", Content: "custom"}},
	})

	tpl, err := r.Get(context.Background(), TemplateFallback)
	require.NoError(t, err)
	require.Len(t, tpl.Messages, 1)
	assert.Equal(t, "custom", tpl.Messages[0].Content)
}

func TestTemplateFormat(t *testing.T) {
	tpl := &Template{
		Name: "test",
		Messages: []TemplateMessage{
			{Role: "system", Content: "Mode is {mode}."},
			{Role: "user", Content: "{question} / history: {conversation_history}"},
		},
	}

	messages := tpl.Format(map[string]string{
		"mode":                 "grounding",
		"question":             "how do I calm down",
		"conversation_history": "[]",
	})

	require.Len(t, messages, 2)
	assert.Equal(t, "Mode is grounding.", messages[0].Content)
	assert.Equal(t, "how do I calm down / history: []", messages[1].Content)
}

func TestTemplateFormatLeavesUnknownSlots(t *testing.T) {
	tpl := &Template{
		Name:     "test",
		Messages: []TemplateMessage{{Role: "user", Content: "{question} {unbound}"}},
	}

	messages := tpl.Format(map[string]string{"question": "hi"})
	assert.Equal(t, "hi {unbound}", messages[0].Content)
}
