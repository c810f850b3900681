package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

// MaxCompletionTokens caps every stage completion.
const MaxCompletionTokens = 1024

// Invoker runs one pipeline stage: fetch template, bind variables, call the
// backend in JSON mode, parse the reply.
type Invoker struct {
	store    prompt.Store
	provider llm.LLMProvider
}

func NewInvoker(store prompt.Store, provider llm.LLMProvider) *Invoker {
	return &Invoker{
		store:    store,
		provider: provider,
	}
}

// Invoke formats the named template with the user message bound to the
// "question" slot plus any extra variables, requests a JSON completion and
// returns the parsed result. Failures are typed: *TemplateFetchError when
// the template cannot be resolved, *ModelCallError for backend or parse
// failures. A non-JSON reply is a ModelCallError, never a partial success.
func (inv *Invoker) Invoke(ctx context.Context, templateName, userMessage string, variables map[string]string) (gjson.Result, error) {
	tpl, err := inv.store.Get(ctx, templateName)
	if err != nil {
		return gjson.Result{}, &TemplateFetchError{Template: templateName, Err: err}
	}

	vars := make(map[string]string, len(variables)+1)
	for k, v := range variables {
		vars[k] = v
	}
	vars["question"] = userMessage

	messages := tpl.Format(vars)

	raw, err := inv.provider.Chat(ctx, messages,
		llm.WithJSONObject(),
		llm.WithMaxTokens(MaxCompletionTokens),
	)
	if err != nil {
		return gjson.Result{}, &ModelCallError{Template: templateName, Err: err}
	}

	cleaned := stripCodeFence(raw)
	if !gjson.Valid(cleaned) {
		return gjson.Result{}, &ModelCallError{
			Template: templateName,
			Err:      fmt.Errorf("reply is not valid JSON: %.80s", cleaned),
		}
	}

	return gjson.Parse(cleaned), nil
}

// stripCodeFence unwraps replies that arrive as a ```json fenced block,
// which some backends emit even when asked for a bare object.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
