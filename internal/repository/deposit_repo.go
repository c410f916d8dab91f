package repository

import (
	"context"
	"errors"
	"time"

	"tradedesk/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrDepositNotFound        = errors.New("deposit not found")
	ErrDepositStatusInvalid   = errors.New("deposit status transition not allowed")
	ErrDuplicateTransactionID = errors.New("transaction id already used")
)

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

// Create transaction_id 唯一索引冲突时返回 ErrDuplicateTransactionID，需要开启 gorm TranslateError
func (r *DepositRepository) Create(ctx context.Context, tx *gorm.DB, deposit *model.Deposit) error {
	if tx == nil {
		tx = r.db
	}
	err := tx.WithContext(ctx).Create(deposit).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateTransactionID
	}
	return err
}

// GetByTransactionIDForUpdate 事务内对充值行加锁，锁持有到事务结束
func (r *DepositRepository) GetByTransactionIDForUpdate(ctx context.Context, tx *gorm.DB, transactionID string) (*model.Deposit, error) {
	var deposit model.Deposit
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("transaction_id = ?", transactionID).
		First(&deposit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// MarkCompleted pendente -> concluido，带状态条件，重复执行时影响行数为 0
func (r *DepositRepository) MarkCompleted(ctx context.Context, tx *gorm.DB, id int64, paidAt time.Time) error {
	result := tx.WithContext(ctx).
		Model(&model.Deposit{}).
		Where("id = ? AND status = ?", id, model.DepositStatusPending).
		Updates(map[string]interface{}{
			"status":  model.DepositStatusCompleted,
			"paid_at": paidAt,
		})

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrDepositStatusInvalid
	}

	return nil
}

func (r *DepositRepository) ListByUserID(ctx context.Context, userID int64) ([]*model.Deposit, error) {
	deposits := make([]*model.Deposit, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&deposits).Error
	return deposits, err
}
