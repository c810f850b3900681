package pipeline

import (
	"context"
	"log"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/router"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

// Result is the only data the pipeline ever hands to its caller. Routing
// and risk internals stay inside.
type Result struct {
	ResponseText string
	Options      []string
}

// Pipeline wires the route, coach and fallback stages into one turn.
// Stages run strictly in sequence, each at most once, with no retries.
type Pipeline struct {
	router   *router.Router
	coach    *Coach
	fallback *Fallback
	logger   *log.Logger
}

func NewPipeline(r *router.Router, coach *Coach, fallback *Fallback, logger *log.Logger) *Pipeline {
	return &Pipeline{
		router:   r,
		coach:    coach,
		fallback: fallback,
		logger:   logger,
	}
}

// Run executes one chat turn and never returns an error: every internal
// failure is absorbed into the fallback path. summaryContext, when present,
// is prepended as a system turn so past sessions inform the reply.
func (p *Pipeline) Run(ctx context.Context, userMessage string, history []llm.Message, summaryContext string) Result {
	if summaryContext != "" {
		history = append([]llm.Message{{Role: "system", Content: summaryContext}}, history...)
	}

	decision := p.router.Route(ctx, userMessage, history)
	p.logger.Printf("[PIPELINE] routed turn: mode=%s privacy=%s risk=%s",
		decision.Mode, decision.PrivacyContext, decision.RiskLevel)

	reply, err := p.coach.Respond(ctx, userMessage, history, decision)
	if err != nil {
		p.logger.Printf("[PIPELINE] coach stage failed: %v", err)
	}

	if reply == nil || reply.Text == "" {
		// Fallback is intentionally context-free; decision and history
		// are discarded here.
		reply = p.fallback.Respond(ctx, userMessage)
	}

	return Result{
		ResponseText: reply.Text,
		Options:      reply.Options,
	}
}
