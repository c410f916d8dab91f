package repository

import (
	"context"

	"tradedesk/internal/model"

	"gorm.io/gorm"
)

type OperationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) *OperationRepository {
	return &OperationRepository{db: db}
}

func (r *OperationRepository) ListByUserID(ctx context.Context, userID int64) ([]*model.Operation, error) {
	operations := make([]*model.Operation, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&operations).Error
	return operations, err
}
