package repository

import (
	"context"
	"errors"

	"tradedesk/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BalanceRepository struct {
	db *gorm.DB
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{db: db}
}

func (r *BalanceRepository) Create(ctx context.Context, tx *gorm.DB, balance *model.Balance) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(balance).Error
}

func (r *BalanceRepository) GetByUserID(ctx context.Context, userID int64) (*model.Balance, error) {
	var balance model.Balance
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceMissing
		}
		return nil, err
	}
	return &balance, nil
}

// GetByUserIDForUpdate 事务内锁定余额行，用户被删除后返回 ErrBalanceMissing
func (r *BalanceRepository) GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID int64) (*model.Balance, error) {
	var balance model.Balance
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBalanceMissing
		}
		return nil, err
	}
	return &balance, nil
}

// IncreaseReal 增加真实余额，只允许在充值完成的事务中调用
func (r *BalanceRepository) IncreaseReal(ctx context.Context, tx *gorm.DB, userID int64, amount decimal.Decimal) error {
	result := tx.WithContext(ctx).
		Model(&model.Balance{}).
		Where("user_id = ?", userID).
		Update("real_amount", gorm.Expr("real_amount + ?", amount))

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBalanceMissing
	}

	return nil
}

func (r *BalanceRepository) SetDemo(ctx context.Context, userID int64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.Balance{}).
		Where("user_id = ?", userID).
		Update("demo_amount", amount)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrBalanceMissing
	}

	return nil
}
