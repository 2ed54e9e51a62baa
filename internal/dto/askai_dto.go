package dto

import "time"

// ScopeRequest identifies the entity a conversation surface belongs to.
// Embedded by every conversation operation.
type ScopeRequest struct {
	EntityId   string `json:"entity_id" query:"entity_id" validate:"required"`
	EntityType string `json:"entity_type" query:"entity_type" validate:"required,oneof=project program portfolio"`
	ContextId  string `json:"context_id" query:"context_id"`
}

type SessionResponse struct {
	Id             string     `json:"id"`
	Title          string     `json:"title"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	ItemCount      int        `json:"item_count"`
}

type ConversationItemResponse struct {
	Question        string    `json:"question"`
	Answer          string    `json:"answer"`
	Sources         []string  `json:"sources,omitempty"`
	Confidence      float64   `json:"confidence"`
	Timestamp       time.Time `json:"timestamp"`
	IsAnswerPending bool      `json:"is_answer_pending"`
	IsFailed        bool      `json:"is_failed,omitempty"`
}

type QueryStateResponse struct {
	IsLoading            bool                       `json:"is_loading"`
	Conversation         []ConversationItemResponse `json:"conversation"`
	Error                string                     `json:"error,omitempty"`
	Sessions             []SessionResponse          `json:"sessions"`
	ActiveSessionId      string                     `json:"active_session_id,omitempty"`
	ActiveConversationId string                     `json:"active_conversation_id,omitempty"`
	VisibleItems         int                        `json:"visible_items"`
}

type DocumentDTO struct {
	Id      string `json:"id"`
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// InsightDTO arrives loosely typed from callers; kind/severity are validated
// against the domain rules before use.
type InsightDTO struct {
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation,omitempty"`
}

type SubmitQuestionRequest struct {
	ScopeRequest
	Question    string        `json:"question" validate:"required"`
	Format      string        `json:"format" validate:"omitempty,oneof=executive technical stakeholder general"`
	IsFollowUp  bool          `json:"is_follow_up"`
	ContextInfo string        `json:"context_info,omitempty"`
	Documents   []DocumentDTO `json:"documents,omitempty" validate:"dive"`
	Insights    []InsightDTO  `json:"insights,omitempty"`
}

type SubmitQuestionResponse struct {
	SessionId   string                   `json:"session_id"`
	Item        ConversationItemResponse `json:"item"`
	Suggestions []string                 `json:"suggestions,omitempty"`
}

type SwitchSessionRequest struct {
	ScopeRequest
	SessionId string `json:"session_id" validate:"required"`
}

type DeleteSessionRequest struct {
	ScopeRequest
	SessionId string `json:"session_id" validate:"required"`
}

type LoadMoreRequest struct {
	ScopeRequest
}

type LoadMoreResponse struct {
	VisibleItems int  `json:"visible_items"`
	Expanded     bool `json:"expanded"`
}

type CopyAnswerRequest struct {
	ScopeRequest
	ItemIndex int `json:"item_index" validate:"min=0"`
}
