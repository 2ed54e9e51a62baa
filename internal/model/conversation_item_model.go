package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationItem struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Question        string         `gorm:"type:text;not null"`
	Answer          string         `gorm:"type:text"`
	Sources         datatypes.JSON `gorm:"type:jsonb"`
	Confidence      float64        `gorm:"type:numeric"`
	IsAnswerPending bool           `gorm:"not null;default:false"`
	IsFailed        bool           `gorm:"not null;default:false"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (ConversationItem) TableName() string {
	return "conversation_items"
}
