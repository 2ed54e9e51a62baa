package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByEntityScope narrows sessions to one entity context. ContextID is
// optional; empty means the entity-wide conversation surface.
type ByEntityScope struct {
	EntityID   string
	EntityType string
	ContextID  string
}

func (s ByEntityScope) Apply(db *gorm.DB) *gorm.DB {
	db = db.Where("entity_id = ? AND entity_type = ?", s.EntityID, s.EntityType)
	if s.ContextID != "" {
		db = db.Where("context_id = ?", s.ContextID)
	}
	return db
}

// BySessionID narrows items to one conversation session.
type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}
