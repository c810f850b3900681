package summary

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/conversation"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

// Placeholder is stored when summarization fails. Summaries are best effort
// and must never block message delivery.
const Placeholder = "Conversation summary unavailable"

// window is how many trailing messages feed the summary.
const window = 10

// Summarizer condenses a session into a couple of sentences for future
// session context.
type Summarizer struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewSummarizer(provider llm.LLMProvider, logger *log.Logger) *Summarizer {
	return &Summarizer{
		provider: provider,
		logger:   logger,
	}
}

// Summarize never fails; any error yields the placeholder text.
func (s *Summarizer) Summarize(ctx context.Context, messages []llm.Message) string {
	recent := conversation.LastN(messages, window)

	var sb strings.Builder
	for _, msg := range recent {
		fmt.Fprintf(&sb, "%s: %s\n", msg.Role, msg.Content)
	}

	prompt := []llm.Message{
		{
			Role:    "system",
			Content: "Summarize this conversation in 2-3 sentences. Focus on the main topics discussed and key points.",
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Conversation to summarize:\n%s", sb.String()),
		},
	}

	text, err := s.provider.Chat(ctx, prompt, llm.WithMaxTokens(300))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.logger.Printf("[SUMMARY] generation failed: %v", err)
		}
		return Placeholder
	}

	return strings.TrimSpace(text)
}
