package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
)

const (
	// greetingWithContext is used when the model call fails but we do know
	// the user has been here before.
	greetingWithContext = "Welcome back. It's good to see you again. How have you been feeling since we last talked?"

	// greetingDefault covers the no-context failure path.
	greetingDefault = "Hello, I'm glad you're here. What's on your mind today?"

	// maxGreetingSummaries bounds the prompt; older summaries add little.
	maxGreetingSummaries = 3

	// maxSummaryChars keeps a single runaway summary from eating the prompt.
	maxSummaryChars = 500
)

// GreetingOptions is the fixed option set shown with every session-open
// greeting.
var GreetingOptions = []string{"Share how I'm feeling", "Just checking in"}

// Greeter opens a returning user's session with a short personalized
// greeting instead of a full routing round trip.
type Greeter struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewGreeter(provider llm.LLMProvider, logger *log.Logger) *Greeter {
	return &Greeter{
		provider: provider,
		logger:   logger,
	}
}

// Greet never fails. It uses up to three most recent summaries and falls
// back to a hardcoded greeting whose wording depends on whether any
// summaries were supplied.
func (g *Greeter) Greet(ctx context.Context, summaries []string) string {
	if len(summaries) > maxGreetingSummaries {
		summaries = summaries[:maxGreetingSummaries]
	}

	var sb strings.Builder
	sb.WriteString("You are a warm peer-support companion greeting a returning user at the start of a new session.\n")
	if len(summaries) > 0 {
		sb.WriteString("Here is what past sessions covered:\n")
		for _, summary := range summaries {
			if len(summary) > maxSummaryChars {
				summary = summary[:maxSummaryChars]
			}
			fmt.Fprintf(&sb, "- %s\n", summary)
		}
	}
	sb.WriteString("\nWrite one short greeting (1-2 sentences) that welcomes them back and gently invites them to share. Plain text only, no lists, no JSON.")

	greeting, err := g.provider.Generate(ctx, sb.String(), llm.WithMaxTokens(200))
	if err != nil || strings.TrimSpace(greeting) == "" {
		if err != nil {
			g.logger.Printf("[GREETING] generation failed, using fixed greeting: %v", err)
		}
		if len(summaries) > 0 {
			return greetingWithContext
		}
		return greetingDefault
	}

	return strings.TrimSpace(greeting)
}
