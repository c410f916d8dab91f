package repository

import (
	"context"

	"tradedesk/internal/model"

	"gorm.io/gorm"
)

type WithdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

func (r *WithdrawalRepository) Create(ctx context.Context, tx *gorm.DB, withdrawal *model.Withdrawal) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(withdrawal).Error
}

func (r *WithdrawalRepository) ListByUserID(ctx context.Context, userID int64) ([]*model.Withdrawal, error) {
	withdrawals := make([]*model.Withdrawal, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("requested_at DESC").
		Order("id DESC").
		Find(&withdrawals).Error
	return withdrawals, err
}

// ListAll 管理端全量列表，pageSize <= 0 时不分页
func (r *WithdrawalRepository) ListAll(ctx context.Context, page, pageSize int) ([]*model.Withdrawal, int64, error) {
	withdrawals := make([]*model.Withdrawal, 0)
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Withdrawal{})

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	query = query.Order("requested_at DESC").Order("id DESC")
	if pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	err = query.Find(&withdrawals).Error
	return withdrawals, total, err
}
