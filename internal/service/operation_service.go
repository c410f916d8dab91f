package service

import (
	"context"

	"tradedesk/internal/model"
	"tradedesk/internal/repository"

	"gorm.io/gorm"
)

type OperationService struct {
	operationRepo *repository.OperationRepository
}

func NewOperationService(db *gorm.DB) *OperationService {
	return &OperationService{
		operationRepo: repository.NewOperationRepository(db),
	}
}

// ListOperations 没有记录时返回空列表，与充值、提现列表一致
func (s *OperationService) ListOperations(ctx context.Context, userID int64) ([]*model.Operation, error) {
	return s.operationRepo.ListByUserID(ctx, userID)
}
