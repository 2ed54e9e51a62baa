package coordinator

import (
	"context"
	"errors"
	"log"
	"strings"

	"pm-assist-be/internal/entity"
	"pm-assist-be/pkg/askai"
	"pm-assist-be/pkg/askai/retry"
	"pm-assist-be/pkg/askai/session"
	"pm-assist-be/pkg/askai/suggest"
)

// ErrEmptyQuestion rejects blank submissions locally; they never reach the
// network and cause no state change.
var ErrEmptyQuestion = errors.New("question must not be empty")

// userQuestionMarker separates injected background context from the user's
// actual question in the text sent to the backend. The display layer strips
// it to recover the clean question.
const userQuestionMarker = "User question: "

// AugmentWithContext builds the outgoing text for the first question of a
// conversation: the backend receives the background context exactly once,
// the user never sees it.
func AugmentWithContext(contextInfo, question string) string {
	return contextInfo + "\n\n" + userQuestionMarker + question
}

// CleanQuestionForDisplay is the inverse of AugmentWithContext: given text
// that may carry the context prefix, it returns the user-facing question.
func CleanQuestionForDisplay(text string) string {
	if i := strings.Index(text, userQuestionMarker); i >= 0 {
		return strings.TrimSpace(text[i+len(userQuestionMarker):])
	}
	return text
}

// SubmitInput is one user-submitted question plus its scoping.
type SubmitInput struct {
	EntityID    string
	EntityType  string
	ContextID   string
	Question    string
	IsFollowUp  bool
	Format      string
	ContextInfo string // background text, prefixed once per conversation
	Documents   []askai.Document
	Insights    []entity.Insight
}

// Result is the resolved outcome of a submit, including quick-reply
// suggestions synthesized locally from the answer text.
type Result struct {
	Answer      askai.Answer
	Suggestions []string
}

// Coordinator turns a user-submitted question into a resolved
// ConversationItem. It owns the pending-placeholder protocol: the manager
// state is updated before and after the remote call, and failures land in
// QueryState.Error rather than panicking across the manager boundary. The
// returned error mirrors what was recorded, for callers that notify.
type Coordinator struct {
	mgr    *session.Manager
	svc    askai.QueryService
	policy *retry.Policy
	logger *log.Logger
}

func New(mgr *session.Manager, svc askai.QueryService, policy *retry.Policy, logger *log.Logger) *Coordinator {
	if policy == nil {
		policy = retry.NewPolicy()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{mgr: mgr, svc: svc, policy: policy, logger: logger}
}

// SubmitQuery validates, appends the pending placeholder, calls the
// generation backend (with retry on transient failures) and reconciles the
// placeholder with the answer or an error. A second call while a question is
// in flight is rejected with session.ErrBusy.
func (c *Coordinator) SubmitQuery(ctx context.Context, in SubmitInput) (*Result, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	// The stored item keeps the clean question; only the wire text is
	// augmented, and only for the conversation's first exchange.
	sessionID, first, err := c.mgr.BeginSubmit(question)
	if err != nil {
		return nil, err
	}

	outgoing := question
	if first && in.ContextInfo != "" {
		outgoing = AugmentWithContext(in.ContextInfo, question)
	}

	req := askai.GenerateRequest{
		EntityID:       in.EntityID,
		EntityType:     in.EntityType,
		ContextID:      in.ContextID,
		SessionID:      sessionID,
		ConversationID: c.mgr.Snapshot().ActiveConversationID,
		Question:       outgoing,
		IsFollowUp:     in.IsFollowUp,
		Format:         in.Format,
		Documents:      in.Documents,
		Insights:       in.Insights,
	}

	var ans askai.Answer
	err = c.policy.Do(ctx, func(ctx context.Context) error {
		a, genErr := c.svc.GenerateAnswer(ctx, req)
		if genErr != nil {
			return genErr
		}
		ans = a
		return nil
	})
	if err != nil {
		c.logger.Printf("[COORDINATOR] Generation failed for session %q: %v", sessionID, err)
		c.mgr.FailSubmit(sessionID, err.Error())
		return nil, err
	}

	c.mgr.ResolveSubmit(sessionID, ans)
	return &Result{
		Answer:      ans,
		Suggestions: suggest.Suggestions(ans.Answer, question),
	}, nil
}
