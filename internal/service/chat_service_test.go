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

	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/dto"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/entity"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/contract"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/specification"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/internal/repository/unitofwork"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/pipeline"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/router"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/ai/stage"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/llm"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/prompt"
	"github.com/Austin-Artificial-Intelligence-Hub/SoulShield/pkg/usage"
)

// --- Stub collaborators ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

// scriptedBackend returns one canned chat reply per call, in order, and a
// fixed greeting for Generate.
type scriptedBackend struct {
	chatReplies   []string
	generateReply string
	chatCalls     int
	generateCalls int
}

func (b *scriptedBackend) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	i := b.chatCalls
	b.chatCalls++
	if i < len(b.chatReplies) {
		return b.chatReplies[i], nil
	}
	return "", nil
}

func (b *scriptedBackend) Generate(ctx context.Context, promptText string, options ...llm.Option) (string, error) {
	b.generateCalls++
	return b.generateReply, nil
}

type fakeChatRepo struct {
	stored   []*entity.ChatMessage
	created  []*entity.ChatMessage
	findArgs [][]specification.Specification
}

func (r *fakeChatRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.created = append(r.created, message)
	return nil
}

func (r *fakeChatRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	r.created = append(r.created, messages...)
	return nil
}

func (r *fakeChatRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	r.findArgs = append(r.findArgs, specs)
	return r.stored, nil
}

func (r *fakeChatRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.stored)), nil
}

func (r *fakeChatRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(ctx context.Context, user *entity.User) error { return nil }
func (fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return nil, nil
}
func (fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}

type fakeSummaryRepo struct{}

func (fakeSummaryRepo) Upsert(ctx context.Context, summary *entity.SessionSummary) error { return nil }
func (fakeSummaryRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionSummary, error) {
	return nil, nil
}
func (fakeSummaryRepo) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type fakeUow struct {
	chatRepo    *fakeChatRepo
	summaryRepo contract.SessionSummaryRepository
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }
func (u *fakeUow) UserRepository() contract.UserRepository {
	return fakeUserRepo{}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.chatRepo
}
func (u *fakeUow) SessionSummaryRepository() contract.SessionSummaryRepository {
	if u.summaryRepo != nil {
		return u.summaryRepo
	}
	return fakeSummaryRepo{}
}

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type stubSummaryService struct {
	recent      []string
	recentCalls int
}

func (s *stubSummaryService) GetSummaries(ctx context.Context, userId uuid.UUID) ([]dto.SummaryDTO, error) {
	return nil, nil
}

func (s *stubSummaryService) GetRecentTexts(ctx context.Context, userId uuid.UUID, limit int) []string {
	s.recentCalls++
	return s.recent
}

func (s *stubSummaryService) GenerateAndStore(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, retentionDays int) error {
	return nil
}

type stubPublisher struct {
	jobs []dto.SummaryJobMessage
}

func (p *stubPublisher) PublishSummaryJob(ctx context.Context, job dto.SummaryJobMessage) error {
	p.jobs = append(p.jobs, job)
	return nil
}

func newChatServiceForTest(
	repo *fakeChatRepo,
	summaries *stubSummaryService,
	pub *stubPublisher,
	backend *scriptedBackend,
	settings ChatSettings,
) IChatService {
	discard := log.New(io.Discard, "", 0)
	inv := stage.NewInvoker(prompt.NewRegistry(), backend)
	chatPipeline := pipeline.NewPipeline(
		router.NewRouter(inv, discard),
		pipeline.NewCoach(inv, discard),
		pipeline.NewFallback(inv, discard),
		discard,
	)
	return NewChatService(
		&fakeUowFactory{uow: &fakeUow{chatRepo: repo}},
		chatPipeline,
		pipeline.NewGreeter(backend, discard),
		summaries,
		pub,
		usage.NewLimiter(nil, 0, discard),
		nil,
		nopLogger{},
		settings,
	)
}

func defaultSettings() ChatSettings {
	return ChatSettings{HistoryWindow: 20, SummaryThreshold: 10, RetentionDays: 30}
}

func storedTurns(userId, sessionId uuid.UUID, count int) []*entity.ChatMessage {
	now := time.Now()
	messages := make([]*entity.ChatMessage, count)
	for i := range messages {
		role := entity.RoleUser
		if i%2 == 1 {
			role = entity.RoleAssistant
		}
		messages[i] = &entity.ChatMessage{
			Id:        uuid.New(),
			UserId:    userId,
			SessionId: sessionId,
			Role:      role,
			Content:   "earlier message",
			CreatedAt: now.Add(-time.Duration(count-i) * time.Minute),
			ExpiresAt: now.Add(24 * time.Hour),
		}
	}
	return messages
}

// --- SendChat scenarios ---

func TestSendChatGreetingBypassForReturningUser(t *testing.T) {
	repo := &fakeChatRepo{}
	summaries := &stubSummaryService{recent: []string{"Talked about work stress.", "Practiced grounding."}}
	pub := &stubPublisher{}
	backend := &scriptedBackend{generateReply: "Welcome back, it's good to see you."}
	svc := newChatServiceForTest(repo, summaries, pub, backend, defaultSettings())

	userId := uuid.New()
	res, err := svc.SendChat(context.Background(), userId, "alice", &dto.ChatRequest{Message: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "Welcome back, it's good to see you.", res.Response)
	assert.Equal(t, pipeline.GreetingOptions, res.Options)

	// Greeting comes from one Generate call; the routed pipeline never runs.
	assert.Equal(t, 1, backend.generateCalls)
	assert.Equal(t, 0, backend.chatCalls)

	// Absent session id starts a fresh session.
	_, parseErr := uuid.Parse(res.SessionId)
	assert.NoError(t, parseErr)

	// Both halves of the turn are persisted, the greeting with its options.
	require.Len(t, repo.created, 2)
	assert.Equal(t, entity.RoleUser, repo.created[0].Role)
	assert.Equal(t, entity.RoleAssistant, repo.created[1].Role)
	assert.Equal(t, pipeline.GreetingOptions, repo.created[1].Options)

	assert.Empty(t, pub.jobs)
}

func TestSendChatRunsPipelineForBrandNewUser(t *testing.T) {
	repo := &fakeChatRepo{}
	summaries := &stubSummaryService{} // no past sessions
	pub := &stubPublisher{}
	backend := &scriptedBackend{
		chatReplies: []string{
			`{"mode": "normal_support", "privacy_context": "unknown", "risk_level": "low"}`,
			`{"response": {"message": "That sounds heavy. I'm glad you reached out today.", "options": ["Tell me more"]}}`,
		},
	}
	svc := newChatServiceForTest(repo, summaries, pub, backend, defaultSettings())

	res, err := svc.SendChat(context.Background(), uuid.New(), "alice", &dto.ChatRequest{Message: "rough day"})
	require.NoError(t, err)

	// No past summaries means no greeting, even on a brand new session.
	assert.Equal(t, "That sounds heavy. I'm glad you reached out today.", res.Response)
	assert.Equal(t, []string{"Tell me more"}, res.Options)
	assert.Equal(t, 2, backend.chatCalls)
	assert.Equal(t, 0, backend.generateCalls)
	assert.Empty(t, pub.jobs)
}

func TestSendChatPublishesSummaryJobAtThreshold(t *testing.T) {
	userId := uuid.New()
	sessionId := uuid.New()
	settings := defaultSettings()
	settings.SummaryThreshold = 4

	repo := &fakeChatRepo{stored: storedTurns(userId, sessionId, 4)}
	summaries := &stubSummaryService{recent: []string{"should not be consulted"}}
	pub := &stubPublisher{}
	backend := &scriptedBackend{
		chatReplies: []string{
			`{"mode": "normal_support", "privacy_context": "unknown", "risk_level": "low"}`,
			`{"response": {"message": "It sounds like a lot has built up over this conversation."}}`,
		},
	}
	svc := newChatServiceForTest(repo, summaries, pub, backend, settings)

	res, err := svc.SendChat(context.Background(), userId, "alice", &dto.ChatRequest{
		SessionId: sessionId.String(),
		Message:   "still going",
	})
	require.NoError(t, err)

	// Mid-session turns never consult past-session summaries.
	assert.Equal(t, 0, summaries.recentCalls)
	assert.Equal(t, 2, backend.chatCalls)
	assert.Equal(t, sessionId.String(), res.SessionId)

	// Exactly one job, carrying the identifiers the worker needs.
	require.Len(t, pub.jobs, 1)
	assert.Equal(t, userId, pub.jobs[0].UserId)
	assert.Equal(t, sessionId, pub.jobs[0].SessionId)
	assert.Equal(t, "alice", pub.jobs[0].Username)
}

func TestSendChatBelowThresholdPublishesNothing(t *testing.T) {
	userId := uuid.New()
	sessionId := uuid.New()
	settings := defaultSettings()
	settings.SummaryThreshold = 4

	repo := &fakeChatRepo{stored: storedTurns(userId, sessionId, 2)}
	pub := &stubPublisher{}
	backend := &scriptedBackend{
		chatReplies: []string{
			`{"mode": "normal_support", "privacy_context": "unknown", "risk_level": "low"}`,
			`{"response": {"message": "Thanks for sharing that with me."}}`,
		},
	}
	svc := newChatServiceForTest(repo, &stubSummaryService{}, pub, backend, settings)

	_, err := svc.SendChat(context.Background(), userId, "alice", &dto.ChatRequest{
		SessionId: sessionId.String(),
		Message:   "hello again",
	})
	require.NoError(t, err)

	assert.Empty(t, pub.jobs)
}

func TestGetHistoryBoundsAndOrdersWindow(t *testing.T) {
	userId := uuid.New()
	sessionId := uuid.New()
	now := time.Now()

	// Repo serves newest first; one row is past its expiry.
	repo := &fakeChatRepo{stored: []*entity.ChatMessage{
		{Role: entity.RoleAssistant, Content: "newest", CreatedAt: now, ExpiresAt: now.Add(time.Hour)},
		{Role: entity.RoleUser, Content: "middle", CreatedAt: now.Add(-time.Minute), ExpiresAt: now.Add(time.Hour)},
		{Role: entity.RoleUser, Content: "expired", CreatedAt: now.Add(-2 * time.Minute), ExpiresAt: now.Add(-time.Minute)},
	}}
	svc := newChatServiceForTest(repo, &stubSummaryService{}, &stubPublisher{}, &scriptedBackend{}, defaultSettings())

	items, err := svc.GetHistory(context.Background(), userId, sessionId)
	require.NoError(t, err)

	// Chronological output, not-yet-swept expired rows skipped.
	require.Len(t, items, 2)
	assert.Equal(t, "middle", items[0].Content)
	assert.Equal(t, "newest", items[1].Content)

	// The read is a bounded newest-first page.
	require.Len(t, repo.findArgs, 1)
	assert.Contains(t, repo.findArgs[0], specification.Pagination{Limit: defaultSettings().HistoryWindow})
	assert.Contains(t, repo.findArgs[0], specification.OrderBy{Field: "created_at", Desc: true})
}

// --- Helpers ---

func TestBuildSummaryContext(t *testing.T) {
	assert.Equal(t, "", buildSummaryContext(nil))
	assert.Equal(t, "", buildSummaryContext([]string{}))

	got := buildSummaryContext([]string{
		"Talked about work stress.",
		"Practiced a grounding exercise.",
	})
	assert.Equal(t,
		"Previous session summaries:\n- Talked about work stress.\n- Practiced a grounding exercise.",
		got,
	)
}

func TestToLLMHistoryReversesNewestFirstPage(t *testing.T) {
	now := time.Now()
	stored := []*entity.ChatMessage{
		{Id: uuid.New(), Role: entity.RoleAssistant, Content: "third", CreatedAt: now},
		{Id: uuid.New(), Role: entity.RoleUser, Content: "second", CreatedAt: now.Add(-time.Minute)},
		{Id: uuid.New(), Role: entity.RoleUser, Content: "first", CreatedAt: now.Add(-2 * time.Minute)},
	}

	history := toLLMHistory(stored)

	assert.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)
	assert.Equal(t, "third", history[2].Content)
	assert.Equal(t, entity.RoleAssistant, history[2].Role)
}

func TestToLLMHistoryEmpty(t *testing.T) {
	assert.Empty(t, toLLMHistory(nil))
}
