package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/conversation"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/response"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/router"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

// Reply is what a stage hands back to the controller.
type Reply struct {
	Text    string
	Options []string
}

// Coach produces the main supportive reply for a routed turn.
type Coach struct {
	invoker *stage.Invoker
	logger  *log.Logger
}

func NewCoach(invoker *stage.Invoker, logger *log.Logger) *Coach {
	return &Coach{
		invoker: invoker,
		logger:  logger,
	}
}

// Respond returns (nil, nil) when the stage ran but produced no usable
// text. That soft failure is distinct from a hard invoker error, though
// both send the controller down the fallback path.
func (c *Coach) Respond(ctx context.Context, userMessage string, history []llm.Message, decision router.Decision) (*Reply, error) {
	mode := fmt.Sprintf("%s (privacy_context: %s)", decision.Mode, decision.PrivacyContext)

	raw, err := c.invoker.Invoke(ctx, prompt.TemplateCoach, userMessage, map[string]string{
		"conversation_history": conversation.Serialize(history, conversation.ContextWindow),
		"mode":                 mode,
	})
	if err != nil {
		return nil, err
	}

	text := response.ExtractText(raw)
	if text == "" {
		c.logger.Printf("[COACH] reply had no usable text, signaling soft failure")
		return nil, nil
	}

	return &Reply{
		Text:    text,
		Options: response.ExtractOptions(raw),
	}, nil
}
