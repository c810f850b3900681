package prompt

import (
	"strings"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

// TemplateMessage is one role/content pair inside a template. Content may
// contain {variable} slots that Format fills in.
type TemplateMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Template is a named, ordered message sequence with variable slots.
type Template struct {
	Name     string            `json:"name"`
	Messages []TemplateMessage `json:"messages"`
}

// Format binds the given variables into every {slot} occurrence and returns
// the resulting message sequence in provider shape. Unknown slots are left
// untouched so a missing variable is visible downstream instead of silently
// collapsing to an empty string.
func (t *Template) Format(vars map[string]string) []llm.Message {
	pairs := make([]string, 0, len(vars)*2)
	for key, value := range vars {
		pairs = append(pairs, "{"+key+"}", value)
	}
	replacer := strings.NewReplacer(pairs...)

	messages := make([]llm.Message, len(t.Messages))
	for i, tm := range t.Messages {
		messages[i] = llm.Message{
			Role:    tm.Role,
			Content: replacer.Replace(tm.Content),
		}
	}
	return messages
}
