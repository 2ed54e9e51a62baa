package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pm-assist-be/internal/constant"
	"pm-assist-be/internal/entity"
	"pm-assist-be/internal/repository/specification"
	"pm-assist-be/internal/repository/unitofwork"
	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/coordinator"
	"pm-assist-be/pkg/askai/prompt"
	"pm-assist-be/pkg/llm"

	"pm-assist-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// generationService is the Query/Generation backend: it answers questions
// through the LLM provider and owns persistence of sessions and items.
// Failures surface as *askai.ServiceError so the retry policy can classify
// them.
type generationService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	log         logger.ILogger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) askai.QueryService {
	return &generationService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		log:         log,
	}
}

func (gs *generationService) ListSessions(ctx context.Context, scope askai.Scope) ([]askai.ConversationSession, error) {
	uow := gs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ConversationSessionRepository().FindAll(ctx,
		specification.ByEntityScope{EntityID: scope.EntityID, EntityType: scope.EntityType, ContextID: scope.ContextID},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	out := make([]askai.ConversationSession, 0, len(sessions))
	for _, s := range sessions {
		items, err := uow.ConversationItemRepository().FindAll(ctx,
			specification.BySessionID{SessionID: s.Id},
			specification.OrderBy{Field: "created_at"},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load items for session %s: %w", s.Id, err)
		}
		out = append(out, toAskAiSession(s, items))
	}
	return out, nil
}

// CreateSession persists a session minted by the manager. The manager hands
// over its locally generated id so both sides agree on the row.
func (gs *generationService) CreateSession(ctx context.Context, scope askai.Scope, session askai.ConversationSession) (askai.ConversationSession, error) {
	id := uuid.New()
	if session.ID != "" {
		parsed, err := uuid.Parse(session.ID)
		if err != nil {
			return askai.ConversationSession{}, fmt.Errorf("invalid session id %q: %w", session.ID, err)
		}
		id = parsed
	}

	title := session.Title
	if title == "" {
		title = constant.UnnamedSessionTitle
	}
	created := session.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	uow := gs.uowFactory.NewUnitOfWork(ctx)
	s := &entity.ConversationSession{
		Id:         id,
		EntityId:   scope.EntityID,
		EntityType: scope.EntityType,
		ContextId:  scope.ContextID,
		Title:      title,
		CreatedAt:  created,
	}
	if err := uow.ConversationSessionRepository().Create(ctx, s); err != nil {
		return askai.ConversationSession{}, fmt.Errorf("failed to create session: %w", err)
	}
	return toAskAiSession(s, nil), nil
}

// SaveSession persists session metadata (title, access time). It is an
// upsert: the manager creates ids locally, so the row may not exist yet.
// Items are persisted by GenerateAnswer, not here.
func (gs *generationService) SaveSession(ctx context.Context, scope askai.Scope, session askai.ConversationSession) error {
	id, err := uuid.Parse(session.ID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", session.ID, err)
	}

	uow := gs.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ConversationSessionRepository()

	existing, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return fmt.Errorf("failed to look up session %s: %w", id, err)
	}

	if existing == nil {
		created := session.CreatedAt
		if created.IsZero() {
			created = time.Now()
		}
		return repo.Create(ctx, &entity.ConversationSession{
			Id:             id,
			EntityId:       scope.EntityID,
			EntityType:     scope.EntityType,
			ContextId:      scope.ContextID,
			Title:          session.Title,
			CreatedAt:      created,
			LastAccessedAt: session.LastAccessedAt,
		})
	}

	existing.Title = session.Title
	existing.LastAccessedAt = session.LastAccessedAt
	return repo.Update(ctx, existing)
}

func (gs *generationService) DeleteSession(ctx context.Context, scope askai.Scope, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}

	uow := gs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := uow.ConversationItemRepository().DeleteBySessionId(ctx, id); err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to delete session items: %w", err)
	}
	if err := uow.ConversationSessionRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return uow.Commit()
}

func (gs *generationService) GenerateAnswer(ctx context.Context, req askai.GenerateRequest) (askai.Answer, error) {
	fullPrompt := prompt.Build(req.Question, req.Format, req.Documents, req.Insights)

	raw, err := gs.llmProvider.Generate(ctx, fullPrompt, llm.WithTemperature(0.2))
	if err != nil {
		return askai.Answer{}, gs.classifyError(err)
	}

	answer := strings.TrimSpace(raw)
	if answer == "" {
		return askai.Answer{}, askai.NewServiceError(askai.CodeInsufficientData, "the model returned an empty answer")
	}

	ans := askai.Answer{
		Answer:     answer,
		Sources:    sourceTitles(req.Documents),
		Confidence: estimateConfidence(answer, len(req.Documents)),
	}

	if req.SessionID == "" {
		// Ephemeral scratch conversation: the panel was cleared and no
		// session exists to attach the exchange to.
		return ans, nil
	}

	if err := gs.persistExchange(ctx, req, ans); err != nil {
		// The answer is already generated; losing the audit row is not a
		// reason to fail the user's question.
		gs.log.Error("GenerationService", "Failed to persist exchange", map[string]interface{}{
			"session_id": req.SessionID,
			"error":      err.Error(),
		})
	}

	return ans, nil
}

// persistExchange records the resolved question/answer pair, creating the
// session row on first contact and promoting the first question to the
// session title.
func (gs *generationService) persistExchange(ctx context.Context, req askai.GenerateRequest, ans askai.Answer) error {
	sessionId, err := uuid.Parse(req.SessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", req.SessionID, err)
	}

	uow := gs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	sessionRepo := uow.ConversationSessionRepository()
	session, err := sessionRepo.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		uow.Rollback()
		return err
	}

	now := time.Now()
	if session == nil {
		session = &entity.ConversationSession{
			Id:         sessionId,
			EntityId:   req.EntityID,
			EntityType: req.EntityType,
			ContextId:  req.ContextID,
			Title:      constant.UnnamedSessionTitle,
			CreatedAt:  now,
		}
		if err := sessionRepo.Create(ctx, session); err != nil {
			uow.Rollback()
			return err
		}
	}

	if session.Title == constant.UnnamedSessionTitle {
		session.Title = titleFromQuestion(req.Question)
		session.LastAccessedAt = &now
		if err := sessionRepo.Update(ctx, session); err != nil {
			uow.Rollback()
			return err
		}
	}

	item := &entity.ConversationItem{
		Id:         uuid.New(),
		SessionId:  sessionId,
		Question:   req.Question,
		Answer:     ans.Answer,
		Sources:    ans.Sources,
		Confidence: ans.Confidence,
		CreatedAt:  now,
	}
	if err := uow.ConversationItemRepository().Create(ctx, item); err != nil {
		uow.Rollback()
		return err
	}

	return uow.Commit()
}

// classifyError maps transport/provider failures onto the reason codes the
// retry policy understands.
func (gs *generationService) classifyError(err error) error {
	var statusErr *llm.StatusError
	if errors.As(err, &statusErr) {
		return askai.NewServiceError(askai.CodeForHTTPStatus(statusErr.StatusCode), statusErr.Body)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return askai.NewServiceError(askai.CodeTimeout, "the model did not answer in time")
	}
	// Connection-level failures behave like an overloaded backend.
	return askai.NewServiceError(askai.CodeOverload, err.Error())
}

func sourceTitles(docs []askai.Document) []string {
	if len(docs) == 0 {
		return nil
	}
	titles := make([]string, 0, len(docs))
	for _, d := range docs {
		titles = append(titles, d.Title)
	}
	return titles
}

// estimateConfidence is a cheap heuristic: grounding material raises it,
// hedging answers lower it.
func estimateConfidence(answer string, docCount int) float64 {
	confidence := 0.6
	if docCount > 0 {
		confidence += 0.1 * float64(docCount)
	}
	if confidence > 0.95 {
		confidence = 0.95
	}
	lower := strings.ToLower(answer)
	if strings.Contains(lower, "insufficient") || strings.Contains(lower, "don't have information") {
		confidence = 0.3
	}
	return confidence
}

func titleFromQuestion(question string) string {
	// The wire text may carry the context prefix; keep only the question.
	title := strings.TrimSpace(coordinator.CleanQuestionForDisplay(question))
	runes := []rune(title)
	if len(runes) > 60 {
		title = string(runes[:57]) + "..."
	}
	if title == "" {
		title = constant.UnnamedSessionTitle
	}
	return title
}

func toAskAiSession(s *entity.ConversationSession, items []*entity.ConversationItem) askai.ConversationSession {
	out := askai.ConversationSession{
		ID:             s.Id.String(),
		Title:          s.Title,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		Items:          make([]askai.ConversationItem, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, askai.ConversationItem{
			Question:        it.Question,
			Answer:          it.Answer,
			Sources:         it.Sources,
			Confidence:      it.Confidence,
			Timestamp:       it.CreatedAt,
			IsAnswerPending: it.IsAnswerPending,
			IsFailed:        it.IsFailed,
		})
	}
	return out
}
