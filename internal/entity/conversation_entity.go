package entity

import (
	"time"

	"github.com/google/uuid"
)

type ConversationSession struct {
	Id             uuid.UUID
	EntityId       string
	EntityType     string
	ContextId      string
	Title          string
	CreatedAt      time.Time
	LastAccessedAt *time.Time
	UpdatedAt      *time.Time
	DeletedAt      *time.Time
	IsDeleted      bool
}

type ConversationItem struct {
	Id              uuid.UUID
	SessionId       uuid.UUID
	Question        string
	Answer          string
	Sources         []string
	Confidence      float64
	IsAnswerPending bool
	IsFailed        bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
