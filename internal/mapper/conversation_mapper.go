package mapper

import (
	"encoding/json"
	"time"

	"pm-assist-be/internal/entity"
	"pm-assist-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Session Mappers

func (m *ConversationMapper) SessionToEntity(s *model.ConversationSession) *entity.ConversationSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ConversationSession{
		Id:             s.Id,
		EntityId:       s.EntityId,
		EntityType:     s.EntityType,
		ContextId:      s.ContextId,
		Title:          s.Title,
		CreatedAt:      s.CreatedAt,
		LastAccessedAt: s.LastAccessedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
		IsDeleted:      s.DeletedAt.Valid,
	}
}

func (m *ConversationMapper) SessionToModel(s *entity.ConversationSession) *model.ConversationSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.ConversationSession{
		Id:             s.Id,
		EntityId:       s.EntityId,
		EntityType:     s.EntityType,
		ContextId:      s.ContextId,
		Title:          s.Title,
		LastAccessedAt: s.LastAccessedAt,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
		DeletedAt:      deletedAt,
	}
}

// Item Mappers

func (m *ConversationMapper) ItemToEntity(it *model.ConversationItem) *entity.ConversationItem {
	if it == nil {
		return nil
	}

	var deletedAt *time.Time
	if it.DeletedAt.Valid {
		t := it.DeletedAt.Time
		deletedAt = &t
	}

	var sources []string
	if len(it.Sources) > 0 {
		// Corrupt rows degrade to no sources rather than failing the read.
		_ = json.Unmarshal(it.Sources, &sources)
	}

	return &entity.ConversationItem{
		Id:              it.Id,
		SessionId:       it.SessionId,
		Question:        it.Question,
		Answer:          it.Answer,
		Sources:         sources,
		Confidence:      it.Confidence,
		IsAnswerPending: it.IsAnswerPending,
		IsFailed:        it.IsFailed,
		CreatedAt:       it.CreatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       it.DeletedAt.Valid,
	}
}

func (m *ConversationMapper) ItemToModel(it *entity.ConversationItem) *model.ConversationItem {
	if it == nil {
		return nil
	}

	var sources datatypes.JSON
	if len(it.Sources) > 0 {
		raw, _ := json.Marshal(it.Sources)
		sources = datatypes.JSON(raw)
	}

	var deletedAt gorm.DeletedAt
	if it.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *it.DeletedAt, Valid: true}
	}

	return &model.ConversationItem{
		Id:              it.Id,
		SessionId:       it.SessionId,
		Question:        it.Question,
		Answer:          it.Answer,
		Sources:         sources,
		Confidence:      it.Confidence,
		IsAnswerPending: it.IsAnswerPending,
		IsFailed:        it.IsFailed,
		CreatedAt:       it.CreatedAt,
		DeletedAt:       deletedAt,
	}
}
