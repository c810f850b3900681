package router

import (
	"context"
	"log"
	"strings"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/conversation"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

// Router classifies each turn into a mode, privacy context and risk level.
type Router struct {
	invoker *stage.Invoker
	logger  *log.Logger
}

func NewRouter(invoker *stage.Invoker, logger *log.Logger) *Router {
	return &Router{
		invoker: invoker,
		logger:  logger,
	}
}

// Route never fails. Any invoker error yields the safe default decision,
// and each field is validated independently so one bad value does not
// discard the others.
func (r *Router) Route(ctx context.Context, userMessage string, history []llm.Message) Decision {
	raw, err := r.invoker.Invoke(ctx, prompt.TemplateRouting, userMessage, map[string]string{
		"conversation_history": conversation.Serialize(history, conversation.ContextWindow),
	})
	if err != nil {
		r.logger.Printf("[ROUTER] classification failed, using defaults: %v", err)
		return DefaultDecision()
	}

	decision := DefaultDecision()

	// Classifiers are sloppy about casing, so normalize before validating.
	mode := Mode(normalize(raw.Get("mode").String()))
	if _, ok := validModes[mode]; ok {
		decision.Mode = mode
	} else {
		r.logger.Printf("[ROUTER] invalid mode %q, defaulting to %s", mode, decision.Mode)
	}

	privacy := PrivacyContext(normalize(raw.Get("privacy_context").String()))
	if _, ok := validPrivacyContexts[privacy]; ok {
		decision.PrivacyContext = privacy
	} else {
		r.logger.Printf("[ROUTER] invalid privacy_context %q, defaulting to %s", privacy, decision.PrivacyContext)
	}

	risk := RiskLevel(normalize(raw.Get("risk_level").String()))
	if _, ok := validRiskLevels[risk]; ok {
		decision.RiskLevel = risk
	} else {
		r.logger.Printf("[ROUTER] invalid risk_level %q, defaulting to %s", risk, decision.RiskLevel)
	}

	return decision
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
