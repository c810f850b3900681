package pipeline

import (
	"context"
	"log"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/response"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

// SafeReply is the literal returned when even the fallback stage fails.
const SafeReply = "I'm here to support you. Take your time."

// Fallback produces a context-free safe reply. It is deliberately blind to
// history so it keeps working when history assembly itself is suspect.
type Fallback struct {
	invoker *stage.Invoker
	logger  *log.Logger
}

func NewFallback(invoker *stage.Invoker, logger *log.Logger) *Fallback {
	return &Fallback{
		invoker: invoker,
		logger:  logger,
	}
}

// Respond cannot fail in an externally visible way. Any error collapses to
// the hardcoded safe reply with no options.
func (f *Fallback) Respond(ctx context.Context, userMessage string) *Reply {
	raw, err := f.invoker.Invoke(ctx, prompt.TemplateFallback, userMessage, nil)
	if err != nil {
		f.logger.Printf("[FALLBACK] stage failed, using safe reply: %v", err)
		return &Reply{Text: SafeReply}
	}

	text := response.ExtractText(raw)
	if text == "" {
		f.logger.Printf("[FALLBACK] reply had no usable text, using safe reply")
		return &Reply{Text: SafeReply}
	}

	return &Reply{
		Text:    text,
		Options: response.ExtractOptions(raw),
	}
}
