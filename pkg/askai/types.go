package askai

import "time"

// ConversationItem is a single question/answer exchange inside a session.
// While IsAnswerPending is true the answer is empty and Confidence is 0.
// An item transitions exactly once: to a resolved answer, or to IsFailed.
type ConversationItem struct {
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Sources         []string  `json:"sources,omitempty"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
	IsAnswerPending bool      `json:"is_answer_pending"`
	IsFailed        bool      `json:"is_failed,omitempty"`
}

// ConversationSession is a named, timestamped thread scoped to an entity.
// Items are chronological and append-only; the ID never changes once set.
type ConversationSession struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt *time.Time         `json:"last_accessed_at,omitempty"`
	Items          []ConversationItem `json:"items"`
}

// Document is a piece of grounding material (project summary section,
// status report, etc.) attached to a generation request.
type Document struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// QueryState is the aggregate owned by the session manager. Observers only
// ever see copies produced by Manager.Snapshot.
type QueryState struct {
	IsLoading            bool                  `json:"is_loading"`
	Conversation         []ConversationItem    `json:"conversation"`
	Error                string                `json:"error,omitempty"`
	Sessions             []ConversationSession `json:"sessions"`
	ActiveSessionID      string                `json:"active_session_id,omitempty"`
	ActiveConversationID string                `json:"active_conversation_id,omitempty"`
	CurrentEntityID      string                `json:"current_entity_id,omitempty"`
	CurrentEntityType    string                `json:"current_entity_type,omitempty"`
	CurrentContextID     string                `json:"current_context_id,omitempty"`
}

// Summary formats the assistant can answer in.
const (
	FormatExecutive   = "executive"
	FormatTechnical   = "technical"
	FormatStakeholder = "stakeholder"
	FormatGeneral     = "general"
)

// Entity types a conversation can be scoped to.
const (
	EntityTypeProject   = "project"
	EntityTypeProgram   = "program"
	EntityTypePortfolio = "portfolio"
)
