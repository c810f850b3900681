package prompt

import (
	"context"
	"fmt"
)

// Store resolves a template by name.
type Store interface {
	Get(ctx context.Context, name string) (*Template, error)
}

const (
	TemplateRouting  = "routing_agent_prompt"
	TemplateCoach    = "support_coach"
	TemplateFallback = "safety_fallback"
)

// Registry is the builtin template store. It serves the shipped prompt set
// and needs no network, which makes it the safe default when no remote
// prompt service is configured.
type Registry struct {
	templates map[string]*Template
}

func NewRegistry() *Registry {
	r := &Registry{templates: make(map[string]*Template)}
	for _, t := range builtinTemplates {
		r.templates[t.Name] = t
	}
	return r
}

// Register adds or replaces a template. Useful for tests and for overriding
// a single builtin prompt without standing up a remote store.
func (r *Registry) Register(t *Template) {
	r.templates[t.Name] = t
}

func (r *Registry) Get(ctx context.Context, name string) (*Template, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown prompt template: %s", name)
	}
	return t, nil
}

var builtinTemplates = []*Template{
	{
		Name: TemplateRouting,
		Messages: []TemplateMessage{
			{
				Role: "system",
				Content: `You are a routing classifier for a peer-support chat service.
Read the conversation and the latest user message, then classify the turn.

Return ONLY a JSON object with exactly these fields:
- "mode": one of "normal_support", "grounding", "therapy_prep", "crisis_resources"
- "privacy_context": one of "unknown", "private", "bystander_possible"
- "risk_level": one of "low", "medium", "high"

Do not include prose, markdown, or any field other than the three above.`,
			},
			{
				Role: "user",
				Content: `Conversation so far (JSON):
{conversation_history}

Latest user message:
{question}`,
			},
		},
	},
	{
		Name: TemplateCoach,
		Messages: []TemplateMessage{
			{
				Role: "system",
				Content: `You are a warm, trauma-informed support coach. Respond in the style
required by the current mode: {mode}.

Guidelines:
- Validate the user's feelings before anything else.
- Keep the reply short (2-4 sentences) and conversational.
- Never diagnose, never promise outcomes, never pressure.
- In grounding mode, offer one concrete grounding exercise.
- In crisis_resources mode, gently point at professional help lines.
- If privacy_context is bystander_possible, keep wording discreet.

Return ONLY a JSON object:
{"response": {"message": "<your reply>", "options": ["<up to 3 short follow-up suggestions>"]}}`,
			},
			{
				Role: "user",
				Content: `Conversation so far (JSON):
{conversation_history}

Latest user message:
{question}`,
			},
		},
	},
	{
		Name: TemplateFallback,
		Messages: []TemplateMessage{
			{
				Role: "system",
				Content: `You are a calm, supportive presence. The main support flow is
unavailable, so give one short, safe, validating reply to the user's
message. No advice, no questions that demand an answer, no diagnosis.

Return ONLY a JSON object:
{"response": {"message": "<your reply>", "options": []}}`,
			},
			{
				Role:    "user",
				Content: `{question}`,
			},
		},
	},
}
