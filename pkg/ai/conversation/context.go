package conversation

import (
	"encoding/json"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

// ContextWindow is how many trailing turns the routing and coach stages see.
const ContextWindow = 6

type turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Serialize renders the last `limit` turns as a JSON array suitable for a
// prompt variable. A marshal failure yields "[]" rather than an error since
// a degraded context must never block the turn.
func Serialize(history []llm.Message, limit int) string {
	window := LastN(history, limit)

	turns := make([]turn, len(window))
	for i, msg := range window {
		turns[i] = turn{Role: msg.Role, Content: msg.Content}
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// LastN returns the trailing n messages without copying the backing array.
func LastN(history []llm.Message, n int) []llm.Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
