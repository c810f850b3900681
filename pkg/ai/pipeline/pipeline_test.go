package pipeline

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/router"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

// scriptedProvider returns one canned outcome per call, in order.
type scriptedProvider struct {
	replies []string
	errs    []error
	calls   int
	history [][]llm.Message
}

func (s *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	i := s.calls
	s.calls++
	s.history = append(s.history, history)
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var reply string
	if i < len(s.replies) {
		reply = s.replies[i]
	}
	return reply, err
}

func (s *scriptedProvider) Generate(ctx context.Context, promptText string, options ...llm.Option) (string, error) {
	return s.Chat(ctx, []llm.Message{{Role: "user", Content: promptText}}, options...)
}

func newTestPipeline(provider llm.LLMProvider) *Pipeline {
	logger := log.New(io.Discard, "", 0)
	inv := stage.NewInvoker(prompt.NewRegistry(), provider)
	return NewPipeline(
		router.NewRouter(inv, logger),
		NewCoach(inv, logger),
		NewFallback(inv, logger),
		logger,
	)
}

func TestRunHappyPath(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{
			`{"mode": "grounding", "privacy_context": "private", "risk_level": "low"}`,
			`{"response": {"message": "Let's take a slow breath together before anything else.", "options": ["Try a grounding exercise", "Keep talking"]}}`,
		},
	}

	result := newTestPipeline(provider).Run(context.Background(), "I can't stop shaking", nil, "")

	assert.Equal(t, "Let's take a slow breath together before anything else.", result.ResponseText)
	assert.Equal(t, []string{"Try a grounding exercise", "Keep talking"}, result.Options)
	// Exactly one router call and one coach call, no fallback.
	assert.Equal(t, 2, provider.calls)
}

func TestRunCoachHardFailureFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{
			`{"mode": "normal_support", "privacy_context": "unknown", "risk_level": "low"}`,
			"",
			`{"response": {"message": "Whatever you're carrying right now, you don't have to rush.", "options": []}}`,
		},
		errs: []error{nil, errors.New("model unavailable"), nil},
	}

	result := newTestPipeline(provider).Run(context.Background(), "hello", nil, "")

	assert.Equal(t, "Whatever you're carrying right now, you don't have to rush.", result.ResponseText)
	assert.Empty(t, result.Options)
	assert.Equal(t, 3, provider.calls)
}

func TestRunCoachSoftFailureFallsBack(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{
			`{"mode": "normal_support", "privacy_context": "unknown", "risk_level": "low"}`,
			`{"response": {"message": "normal_support"}}`,
			`{"response": {"message": "I'm right here with you, whenever you're ready."}}`,
		},
	}

	result := newTestPipeline(provider).Run(context.Background(), "hello", nil, "")

	assert.Equal(t, "I'm right here with you, whenever you're ready.", result.ResponseText)
	assert.Equal(t, 3, provider.calls)
}

func TestRunTotalOutageYieldsSafeReply(t *testing.T) {
	outage := errors.New("backend down")
	provider := &scriptedProvider{
		errs: []error{outage, outage, outage},
	}

	result := newTestPipeline(provider).Run(context.Background(), "hello", nil, "")

	assert.Equal(t, SafeReply, result.ResponseText)
	assert.Empty(t, result.Options)
	assert.Equal(t, 3, provider.calls)
}

func TestRunPrependsSummaryContext(t *testing.T) {
	provider := &scriptedProvider{
		replies: []string{
			`{"mode": "normal_support", "privacy_context": "unknown", "risk_level": "low"}`,
			`{"response": {"message": "It sounds like work has stayed on your mind since last time."}}`,
		},
	}

	history := []llm.Message{{Role: "user", Content: "hi again"}}
	newTestPipeline(provider).Run(context.Background(), "still stressed", history, "Previous session summaries:\n- Work stress")

	// Both the router and the coach see the summary context in their
	// serialized history.
	require.Len(t, provider.history, 2)
	for _, msgs := range provider.history {
		require.NotEmpty(t, msgs)
		assert.Contains(t, msgs[len(msgs)-1].Content, "Work stress")
	}
}

func TestFallbackRespondDirect(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	provider := &scriptedProvider{
		replies: []string{`{"response": {"message": "Take whatever time you need, I'm not going anywhere."}}`},
	}
	f := NewFallback(stage.NewInvoker(prompt.NewRegistry(), provider), logger)

	reply := f.Respond(context.Background(), "hello")
	assert.Equal(t, "Take whatever time you need, I'm not going anywhere.", reply.Text)
}

func TestCoachModeStringFormat(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	provider := &scriptedProvider{
		replies: []string{`{"response": {"message": "That sounds really hard, and it makes sense you feel this way."}}`},
	}
	c := NewCoach(stage.NewInvoker(prompt.NewRegistry(), provider), logger)

	decision := router.Decision{
		Mode:           router.ModeGrounding,
		PrivacyContext: router.PrivacyPrivate,
		RiskLevel:      router.RiskLow,
	}
	_, err := c.Respond(context.Background(), "hello", nil, decision)
	require.NoError(t, err)

	require.Len(t, provider.history, 1)
	assert.Contains(t, provider.history[0][0].Content, "grounding (privacy_context: private)")
}
