package unitofwork

import (
	"context"

	"pm-assist-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ConversationSessionRepository() contract.ConversationSessionRepository
	ConversationItemRepository() contract.ConversationItemRepository
}
