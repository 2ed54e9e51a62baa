package contract

import (
	"context"

	"pm-assist-be/internal/entity"
	"pm-assist-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationItemRepository interface {
	Create(ctx context.Context, item *entity.ConversationItem) error
	Update(ctx context.Context, item *entity.ConversationItem) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationItem, error)
}
