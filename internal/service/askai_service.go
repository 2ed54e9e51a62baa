package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"pm-assist-be/internal/constant"
	"pm-assist-be/internal/dto"
	"pm-assist-be/internal/entity"
	"pm-assist-be/internal/repository/memory"
	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/coordinator"
	"pm-assist-be/pkg/askai/pagination"
	"pm-assist-be/pkg/askai/retry"
	"pm-assist-be/pkg/askai/session"
	"pm-assist-be/pkg/events"
	pktNats "pm-assist-be/pkg/nats"
	"pm-assist-be/pkg/notify"
)

// IAskAiService is the surface-facing API of the Ask-AI panel: one live
// conversation surface per entity context, with all state transitions
// applied through the session manager.
type IAskAiService interface {
	GetState(ctx context.Context, req *dto.ScopeRequest) (*dto.QueryStateResponse, error)
	CreateSession(ctx context.Context, req *dto.ScopeRequest) (*dto.SessionResponse, error)
	SwitchSession(ctx context.Context, req *dto.SwitchSessionRequest) (*dto.QueryStateResponse, error)
	DeleteSession(ctx context.Context, req *dto.DeleteSessionRequest) error
	ClearConversation(ctx context.Context, req *dto.ScopeRequest) error
	SubmitQuestion(ctx context.Context, req *dto.SubmitQuestionRequest) (*dto.SubmitQuestionResponse, error)
	LoadMore(ctx context.Context, req *dto.LoadMoreRequest) (*dto.LoadMoreResponse, error)
	CopyAnswer(ctx context.Context, req *dto.CopyAnswerRequest) error
}

type askAiService struct {
	registry     *memory.ManagerRegistry
	generator    askai.QueryService
	toastBus     *notify.Bus
	publisher    *pktNats.Publisher
	clip         askai.Clipboard
	policy       *retry.Policy
	visibleItems int
	loadMoreStep int
	stdLogger    *log.Logger
}

func NewAskAiService(
	registry *memory.ManagerRegistry,
	generator askai.QueryService,
	toastBus *notify.Bus,
	publisher *pktNats.Publisher,
	clip askai.Clipboard,
	policy *retry.Policy,
	visibleItems int,
	loadMoreStep int,
) IAskAiService {
	if policy == nil {
		policy = retry.NewPolicy()
	}
	return &askAiService{
		registry:     registry,
		generator:    generator,
		toastBus:     toastBus,
		publisher:    publisher,
		clip:         clip,
		policy:       policy,
		visibleItems: visibleItems,
		loadMoreStep: loadMoreStep,
		stdLogger:    log.Default(),
	}
}

// surface returns the live Surface for the scope, creating and hydrating it
// on first contact.
func (as *askAiService) surface(ctx context.Context, scope askai.Scope) *memory.Surface {
	if s, found := as.registry.Get(scope.EntityType, scope.EntityID, scope.ContextID); found {
		return s
	}

	notifier := notify.NewBusNotifier(as.toastBus, scope.EntityID)

	mgr := session.NewManager(as.generator, pagination.NewWindowSized(as.visibleItems, as.loadMoreStep, 0), as.stdLogger)
	if err := mgr.LoadConversations(ctx, scope); err != nil {
		// The manager recorded the failure in its state; the surface stays
		// usable for fresh conversations.
		notifier.Toast(askai.ToastError, constant.ToastHistoryUnavailable)
	}

	s := &memory.Surface{
		Manager:     mgr,
		Coordinator: coordinator.New(mgr, as.generator, as.policy, as.stdLogger),
		Notifier:    notifier,
	}
	as.registry.Save(scope.EntityType, scope.EntityID, scope.ContextID, s)
	return s
}

func scopeFromRequest(req *dto.ScopeRequest) askai.Scope {
	return askai.Scope{
		EntityID:   req.EntityId,
		EntityType: req.EntityType,
		ContextID:  req.ContextId,
	}
}

func (as *askAiService) GetState(ctx context.Context, req *dto.ScopeRequest) (*dto.QueryStateResponse, error) {
	s := as.surface(ctx, scopeFromRequest(req))
	return toStateResponse(s), nil
}

func (as *askAiService) CreateSession(ctx context.Context, req *dto.ScopeRequest) (*dto.SessionResponse, error) {
	s := as.surface(ctx, scopeFromRequest(req))
	created := s.Manager.CreateNewSession(ctx, req.EntityId)
	resp := toSessionResponse(created)
	return &resp, nil
}

func (as *askAiService) SwitchSession(ctx context.Context, req *dto.SwitchSessionRequest) (*dto.QueryStateResponse, error) {
	s := as.surface(ctx, scopeFromRequest(&req.ScopeRequest))
	s.Manager.SwitchToSession(req.EntityId, req.SessionId)
	return toStateResponse(s), nil
}

func (as *askAiService) DeleteSession(ctx context.Context, req *dto.DeleteSessionRequest) error {
	s := as.surface(ctx, scopeFromRequest(&req.ScopeRequest))
	s.Manager.DeleteSession(ctx, req.EntityId, req.SessionId)

	s.Notifier.Toast(askai.ToastSuccess, constant.ToastSessionDeleted)
	as.publish(ctx, events.NewSessionDeleted(req.EntityId, req.SessionId))
	return nil
}

func (as *askAiService) ClearConversation(ctx context.Context, req *dto.ScopeRequest) error {
	s := as.surface(ctx, scopeFromRequest(req))
	s.Manager.ClearConversation()
	return nil
}

func (as *askAiService) SubmitQuestion(ctx context.Context, req *dto.SubmitQuestionRequest) (*dto.SubmitQuestionResponse, error) {
	insights, err := parseInsights(req.Insights)
	if err != nil {
		return nil, err
	}

	s := as.surface(ctx, scopeFromRequest(&req.ScopeRequest))

	format := req.Format
	if format == "" {
		format = askai.FormatGeneral
	}

	result, err := s.Coordinator.SubmitQuery(ctx, coordinator.SubmitInput{
		EntityID:    req.EntityId,
		EntityType:  req.EntityType,
		ContextID:   req.ContextId,
		Question:    req.Question,
		IsFollowUp:  req.IsFollowUp,
		Format:      format,
		ContextInfo: req.ContextInfo,
		Documents:   toDocuments(req.Documents),
		Insights:    insights,
	})
	if err != nil {
		// Validation rejections and busy submits never appended a question,
		// so there is no failure to announce.
		if !errors.Is(err, coordinator.ErrEmptyQuestion) && !errors.Is(err, session.ErrBusy) {
			s.Notifier.Toast(askai.ToastError, constant.ToastAnswerFailed)
		}
		return nil, err
	}

	state := s.Manager.Snapshot()
	as.publish(ctx, events.NewAnswerGenerated(req.EntityId, req.EntityType, state.ActiveSessionID, result.Answer.Confidence))

	return &dto.SubmitQuestionResponse{
		SessionId: state.ActiveSessionID,
		Item: dto.ConversationItemResponse{
			Question:   coordinator.CleanQuestionForDisplay(req.Question),
			Answer:     result.Answer.Answer,
			Sources:    result.Answer.Sources,
			Confidence: result.Answer.Confidence,
			Timestamp:  time.Now(),
		},
		Suggestions: result.Suggestions,
	}, nil
}

func (as *askAiService) LoadMore(ctx context.Context, req *dto.LoadMoreRequest) (*dto.LoadMoreResponse, error) {
	s := as.surface(ctx, scopeFromRequest(&req.ScopeRequest))
	total := len(s.Manager.Snapshot().Conversation)
	expanded := s.Manager.Window().LoadMoreItems(total)
	return &dto.LoadMoreResponse{
		VisibleItems: s.Manager.Window().VisibleItemCount(),
		Expanded:     expanded,
	}, nil
}

func (as *askAiService) CopyAnswer(ctx context.Context, req *dto.CopyAnswerRequest) error {
	s := as.surface(ctx, scopeFromRequest(&req.ScopeRequest))
	conversation := s.Manager.Snapshot().Conversation
	if req.ItemIndex >= len(conversation) {
		return fmt.Errorf("no conversation item at index %d", req.ItemIndex)
	}

	item := conversation[req.ItemIndex]
	if item.IsAnswerPending || item.IsFailed {
		return fmt.Errorf("conversation item %d has no answer to copy", req.ItemIndex)
	}

	as.clip.Copy(item.Answer)
	s.Notifier.Toast(askai.ToastSuccess, constant.ToastAnswerCopied)
	return nil
}

func (as *askAiService) publish(ctx context.Context, event events.Event) {
	if as.publisher == nil {
		return
	}
	if err := as.publisher.Publish(ctx, event); err != nil {
		as.stdLogger.Printf("[ASKAI] Event publish failed for %s: %v", event.EventType(), err)
	}
}

func parseInsights(raw []dto.InsightDTO) ([]entity.Insight, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	loose := make([]map[string]interface{}, 0, len(raw))
	for _, in := range raw {
		m := map[string]interface{}{
			"kind":        in.Kind,
			"severity":    in.Severity,
			"description": in.Description,
		}
		if in.Mitigation != "" {
			m["mitigation"] = in.Mitigation
		}
		loose = append(loose, m)
	}
	return entity.ParseInsights(loose)
}

func toDocuments(docs []dto.DocumentDTO) []askai.Document {
	if len(docs) == 0 {
		return nil
	}
	out := make([]askai.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, askai.Document{ID: d.Id, Title: d.Title, Content: d.Content})
	}
	return out
}

func toSessionResponse(s askai.ConversationSession) dto.SessionResponse {
	return dto.SessionResponse{
		Id:             s.ID,
		Title:          s.Title,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		ItemCount:      len(s.Items),
	}
}

func toStateResponse(s *memory.Surface) *dto.QueryStateResponse {
	state := s.Manager.Snapshot()

	sessions := make([]dto.SessionResponse, 0, len(state.Sessions))
	for _, sess := range state.Sessions {
		sessions = append(sessions, toSessionResponse(sess))
	}

	conversation := make([]dto.ConversationItemResponse, 0, len(state.Conversation))
	for _, item := range state.Conversation {
		conversation = append(conversation, dto.ConversationItemResponse{
			Question:        coordinator.CleanQuestionForDisplay(item.Question),
			Answer:          item.Answer,
			Sources:         item.Sources,
			Confidence:      item.Confidence,
			Timestamp:       item.Timestamp,
			IsAnswerPending: item.IsAnswerPending,
			IsFailed:        item.IsFailed,
		})
	}

	return &dto.QueryStateResponse{
		IsLoading:            state.IsLoading,
		Conversation:         conversation,
		Error:                state.Error,
		Sessions:             sessions,
		ActiveSessionId:      state.ActiveSessionID,
		ActiveConversationId: state.ActiveConversationID,
		VisibleItems:         s.Manager.Window().VisibleItemCount(),
	}
}
