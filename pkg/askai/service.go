package askai

import (
	"context"

	"pm-assist-be/internal/entity"
)

// Scope identifies which entity/context a conversation surface belongs to.
// ContextID is optional and narrows to one dialog context within the entity.
type Scope struct {
	EntityID   string
	EntityType string
	ContextID  string
}

// GenerateRequest carries a question plus the scoping ids the backend needs
// for contextual continuity. Question may already be context-prefixed by the
// coordinator; the backend receives the augmented text, never the UI.
type GenerateRequest struct {
	EntityID       string
	EntityType     string
	ContextID      string
	SessionID      string
	ConversationID string
	Question       string
	IsFollowUp     bool
	Format         string           // executive | technical | stakeholder | general
	Documents      []Document       // grounding material supplied by the caller
	Insights       []entity.Insight // open risks/blockers, already validated
}

// Answer is a resolved generation result.
type Answer struct {
	Answer     string
	Sources    []string
	Confidence float64
}

// QueryService is the remote Query/Generation backend the session manager
// consumes. Failures carry a *ServiceError with a machine-readable code.
type QueryService interface {
	ListSessions(ctx context.Context, scope Scope) ([]ConversationSession, error)
	// CreateSession persists a freshly minted session. An empty ID lets the
	// backend mint one; the canonical row is returned either way.
	CreateSession(ctx context.Context, scope Scope, session ConversationSession) (ConversationSession, error)
	// SaveSession updates metadata (title, access time) of an existing
	// session, creating the row if the create was lost.
	SaveSession(ctx context.Context, scope Scope, session ConversationSession) error
	DeleteSession(ctx context.Context, scope Scope, sessionID string) error
	GenerateAnswer(ctx context.Context, req GenerateRequest) (Answer, error)
}

// Notifier fires user-facing toasts (success/error banners, clipboard
// confirmations). Fire-and-forget, nothing meaningful to return.
type Notifier interface {
	Toast(level, message string)
}

// Clipboard copies answer text for the user.
type Clipboard interface {
	Copy(text string)
}

// Toast levels.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)
