package router

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
)

type stubProvider struct {
	reply string
	err   error
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *stubProvider) Generate(ctx context.Context, promptText string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func newTestRouter(provider llm.LLMProvider) *Router {
	inv := stage.NewInvoker(prompt.NewRegistry(), provider)
	return NewRouter(inv, log.New(io.Discard, "", 0))
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		err   error
		want  Decision
	}{
		{
			name:  "valid classification honored",
			reply: `{"mode": "grounding", "privacy_context": "private", "risk_level": "medium"}`,
			want:  Decision{Mode: ModeGrounding, PrivacyContext: PrivacyPrivate, RiskLevel: RiskMedium},
		},
		{
			name:  "uppercase values normalized",
			reply: `{"mode": "CRISIS_RESOURCES", "privacy_context": "Bystander_Possible", "risk_level": "HIGH"}`,
			want:  Decision{Mode: ModeCrisisResources, PrivacyContext: PrivacyBystanderPossible, RiskLevel: RiskHigh},
		},
		{
			name:  "invalid field defaults independently",
			reply: `{"mode": "party_mode", "privacy_context": "private", "risk_level": "medium"}`,
			want:  Decision{Mode: ModeNormalSupport, PrivacyContext: PrivacyPrivate, RiskLevel: RiskMedium},
		},
		{
			name:  "missing fields default",
			reply: `{"mode": "therapy_prep"}`,
			want:  Decision{Mode: ModeTherapyPrep, PrivacyContext: PrivacyUnknown, RiskLevel: RiskLow},
		},
		{
			name:  "backend error yields full default",
			reply: "",
			err:   errors.New("timeout"),
			want:  DefaultDecision(),
		},
		{
			name:  "non-json reply yields full default",
			reply: "I think this is a normal conversation",
			want:  DefaultDecision(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubProvider{reply: tt.reply, err: tt.err})
			got := r.Route(context.Background(), "how are you", nil)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultDecision(t *testing.T) {
	d := DefaultDecision()
	assert.Equal(t, ModeNormalSupport, d.Mode)
	assert.Equal(t, PrivacyUnknown, d.PrivacyContext)
	assert.Equal(t, RiskLow, d.RiskLevel)
}
