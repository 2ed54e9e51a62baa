package implementation

import (
	"context"

	"pm-assist-be/internal/entity"
	"pm-assist-be/internal/mapper"
	"pm-assist-be/internal/model"
	"pm-assist-be/internal/repository/contract"
	"pm-assist-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConversationItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewConversationItemRepository(db *gorm.DB) contract.ConversationItemRepository {
	return &ConversationItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *ConversationItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConversationItemRepositoryImpl) Create(ctx context.Context, item *entity.ConversationItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *ConversationItemRepositoryImpl) Update(ctx context.Context, item *entity.ConversationItem) error {
	m := r.mapper.ItemToModel(item)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ItemToEntity(m)
	return nil
}

func (r *ConversationItemRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.ConversationItem{}).Error
}

func (r *ConversationItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationItem, error) {
	var models []*model.ConversationItem
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ConversationItem, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ItemToEntity(m)
	}
	return entities, nil
}
