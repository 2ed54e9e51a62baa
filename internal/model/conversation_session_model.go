package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationSession struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EntityId       string    `gorm:"type:varchar(64);not null;index:idx_conversation_scope"`
	EntityType     string    `gorm:"type:varchar(32);not null;index:idx_conversation_scope"`
	ContextId      string    `gorm:"type:varchar(64);index:idx_conversation_scope"`
	Title          string    `gorm:"type:text;not null"`
	LastAccessedAt *time.Time
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (ConversationSession) TableName() string {
	return "conversation_sessions"
}
