package service

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/summary"
)

type recordingSummaryRepo struct {
	fakeSummaryRepo
	upserts []*entity.SessionSummary
}

func (r *recordingSummaryRepo) Upsert(ctx context.Context, s *entity.SessionSummary) error {
	r.upserts = append(r.upserts, s)
	return nil
}

func TestGenerateAndStoreBoundsReadAndUpserts(t *testing.T) {
	userId := uuid.New()
	sessionId := uuid.New()
	now := time.Now()

	// Newest-first page, as the repository serves it.
	chatRepo := &fakeChatRepo{stored: []*entity.ChatMessage{
		{Role: entity.RoleAssistant, Content: "newest", CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour)},
		{Role: entity.RoleUser, Content: "middle", CreatedAt: now.Add(-time.Minute), ExpiresAt: now.Add(23 * time.Hour)},
		{Role: entity.RoleUser, Content: "oldest", CreatedAt: now.Add(-2 * time.Minute), ExpiresAt: now.Add(22 * time.Hour)},
	}}
	summaryRepo := &recordingSummaryRepo{}

	discard := log.New(io.Discard, "", 0)
	backend := &scriptedBackend{chatReplies: []string{"Talked through a stressful week and tried one grounding exercise."}}
	svc := NewSummaryService(
		&fakeUowFactory{uow: &fakeUow{chatRepo: chatRepo, summaryRepo: summaryRepo}},
		summary.NewSummarizer(backend, discard),
		20,
		nopLogger{},
	)

	require.NoError(t, svc.GenerateAndStore(context.Background(), userId, sessionId, 30))

	// The session read is a bounded newest-first page.
	require.Len(t, chatRepo.findArgs, 1)
	assert.Contains(t, chatRepo.findArgs[0], specification.Pagination{Limit: 20})
	assert.Contains(t, chatRepo.findArgs[0], specification.OrderBy{Field: "created_at", Desc: true})

	// One upsert, expiring with the newest message of the session.
	require.Len(t, summaryRepo.upserts, 1)
	stored := summaryRepo.upserts[0]
	assert.Equal(t, userId, stored.UserId)
	assert.Equal(t, sessionId, stored.SessionId)
	assert.Equal(t, "Talked through a stressful week and tried one grounding exercise.", stored.Summary)
	assert.Equal(t, now.Add(24*time.Hour), stored.ExpiresAt)
}

func TestGenerateAndStoreEmptySessionIsNoop(t *testing.T) {
	chatRepo := &fakeChatRepo{}
	summaryRepo := &recordingSummaryRepo{}

	discard := log.New(io.Discard, "", 0)
	svc := NewSummaryService(
		&fakeUowFactory{uow: &fakeUow{chatRepo: chatRepo, summaryRepo: summaryRepo}},
		summary.NewSummarizer(&scriptedBackend{}, discard),
		20,
		nopLogger{},
	)

	require.NoError(t, svc.GenerateAndStore(context.Background(), uuid.New(), uuid.New(), 30))
	assert.Empty(t, summaryRepo.upserts)
}
