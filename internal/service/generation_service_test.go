package service

import (
	"context"
	"sync"
	"testing"

	"pm-assist-be/internal/constant"
	"pm-assist-be/internal/entity"
	"pm-assist-be/internal/repository/contract"
	"pm-assist-be/internal/repository/specification"
	"pm-assist-be/internal/repository/unitofwork"
	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type quietLogger struct{}

func (quietLogger) Debug(module, message string, details map[string]interface{}) {}
func (quietLogger) Info(module, message string, details map[string]interface{})  {}
func (quietLogger) Warn(module, message string, details map[string]interface{})  {}
func (quietLogger) Error(module, message string, details map[string]interface{}) {}
func (quietLogger) Sync() error                                                  { return nil }

// memStore backs the in-memory repositories shared by one test.
type memStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.ConversationSession
	items    []*entity.ConversationItem
}

func newMemStore() *memStore {
	return &memStore{sessions: make(map[uuid.UUID]*entity.ConversationSession)}
}

type memSessionRepo struct{ s *memStore }

func (r memSessionRepo) Create(ctx context.Context, session *entity.ConversationSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *session
	r.s.sessions[session.Id] = &clone
	return nil
}

func (r memSessionRepo) Update(ctx context.Context, session *entity.ConversationSession) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *session
	r.s.sessions[session.Id] = &clone
	return nil
}

func (r memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ConversationSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sp := range specs {
		if byID, ok := sp.(specification.ByID); ok {
			if s, found := r.s.sessions[byID.ID]; found {
				clone := *s
				return &clone, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationSession, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.ConversationSession, 0, len(r.s.sessions))
	for _, s := range r.s.sessions {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.sessions)), nil
}

type memItemRepo struct{ s *memStore }

func (r memItemRepo) Create(ctx context.Context, item *entity.ConversationItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clone := *item
	r.s.items = append(r.s.items, &clone)
	return nil
}

func (r memItemRepo) Update(ctx context.Context, item *entity.ConversationItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, it := range r.s.items {
		if it.Id == item.Id {
			clone := *item
			r.s.items[i] = &clone
			break
		}
	}
	return nil
}

func (r memItemRepo) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.items[:0]
	for _, it := range r.s.items {
		if it.SessionId != sessionId {
			kept = append(kept, it)
		}
	}
	r.s.items = kept
	return nil
}

func (r memItemRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var filter *uuid.UUID
	for _, sp := range specs {
		if bySession, ok := sp.(specification.BySessionID); ok {
			id := bySession.SessionID
			filter = &id
		}
	}
	out := make([]*entity.ConversationItem, 0, len(r.s.items))
	for _, it := range r.s.items {
		if filter != nil && it.SessionId != *filter {
			continue
		}
		clone := *it
		out = append(out, &clone)
	}
	return out, nil
}

type memUow struct{ s *memStore }

func (u memUow) Begin(ctx context.Context) error { return nil }
func (u memUow) Commit() error                   { return nil }
func (u memUow) Rollback() error                 { return nil }
func (u memUow) ConversationSessionRepository() contract.ConversationSessionRepository {
	return memSessionRepo{s: u.s}
}
func (u memUow) ConversationItemRepository() contract.ConversationItemRepository {
	return memItemRepo{s: u.s}
}

type memFactory struct{ s *memStore }

func (f memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return memUow{s: f.s}
}

// scriptedLLM serves one canned reply or error.
type scriptedLLM struct {
	reply string
	err   error
}

func (s *scriptedLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func (s *scriptedLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return s.reply, s.err
}

func TestGenerateAnswerSkipsPersistenceForScratchConversations(t *testing.T) {
	store := newMemStore()
	svc := NewGenerationService(memFactory{s: store}, &scriptedLLM{reply: "The schedule holds."}, quietLogger{})

	// A cleared panel submits without a session; the exchange has no row to
	// attach to and must not be written.
	ans, err := svc.GenerateAnswer(context.Background(), askai.GenerateRequest{
		EntityID:       "p1",
		EntityType:     "project",
		SessionID:      "",
		ConversationID: uuid.NewString(),
		Question:       "Does the schedule hold?",
	})
	assert.NoError(t, err)
	assert.Equal(t, "The schedule holds.", ans.Answer)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.items)
}

func TestGenerateAnswerPersistsExchangeAndPromotesTitle(t *testing.T) {
	store := newMemStore()
	svc := NewGenerationService(memFactory{s: store}, &scriptedLLM{reply: "Two blockers remain."}, quietLogger{})
	scope := askai.Scope{EntityID: "p1", EntityType: "project"}

	created, err := svc.CreateSession(context.Background(), scope, askai.ConversationSession{ID: uuid.NewString()})
	assert.NoError(t, err)

	_, err = svc.GenerateAnswer(context.Background(), askai.GenerateRequest{
		EntityID:   "p1",
		EntityType: "project",
		SessionID:  created.ID,
		Question:   "What blocks the release?",
	})
	assert.NoError(t, err)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Len(t, store.items, 1)
	assert.Equal(t, "What blocks the release?", store.items[0].Question)
	assert.Equal(t, "Two blockers remain.", store.items[0].Answer)

	session := store.sessions[uuid.MustParse(created.ID)]
	assert.NotNil(t, session)
	assert.Equal(t, "What blocks the release?", session.Title, "first question becomes the title")
	assert.NotNil(t, session.LastAccessedAt)
}

func TestCreateSessionKeepsMintedID(t *testing.T) {
	store := newMemStore()
	svc := NewGenerationService(memFactory{s: store}, &scriptedLLM{}, quietLogger{})
	scope := askai.Scope{EntityID: "p1", EntityType: "project"}

	minted := uuid.NewString()
	created, err := svc.CreateSession(context.Background(), scope, askai.ConversationSession{ID: minted})
	assert.NoError(t, err)
	assert.Equal(t, minted, created.ID)
	assert.Equal(t, constant.UnnamedSessionTitle, created.Title)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Contains(t, store.sessions, uuid.MustParse(minted))
}
