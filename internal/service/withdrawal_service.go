package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/pkg/idgen"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var withdrawalLog = logger.Component("withdrawal_service")

var hundred = decimal.NewFromInt(100)

type WithdrawalService struct {
	db             *gorm.DB
	cfg            *config.Config
	withdrawalRepo *repository.WithdrawalRepository
	balanceRepo    *repository.BalanceRepository
	siteConfigRepo *repository.SiteConfigRepository
}

func NewWithdrawalService(db *gorm.DB, cfg *config.Config) *WithdrawalService {
	return &WithdrawalService{
		db:             db,
		cfg:            cfg,
		withdrawalRepo: repository.NewWithdrawalRepository(db),
		balanceRepo:    repository.NewBalanceRepository(db),
		siteConfigRepo: repository.NewSiteConfigRepository(db),
	}
}

type CreateWithdrawalRequest struct {
	UserID   int64
	KeyType  string
	KeyValue string
	Amount   decimal.Decimal
}

// CreateWithdrawal 只登记提现申请，不扣减真实余额
func (s *WithdrawalService) CreateWithdrawal(ctx context.Context, req *CreateWithdrawalRequest) (*model.Withdrawal, error) {
	keyType := strings.ToLower(strings.TrimSpace(req.KeyType))
	if !model.IsValidKeyType(keyType) {
		return nil, ErrInvalidKeyType
	}
	keyValue := strings.TrimSpace(req.KeyValue)
	if keyValue == "" {
		return nil, ErrMissingKeyValue
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	amount := req.Amount.Round(2)

	siteCfg, err := s.siteConfigRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}
	if amount.LessThan(siteCfg.MinWithdrawal) {
		return nil, ErrBelowMinWithdrawal
	}

	withdrawal := &model.Withdrawal{
		RequestNo: idgen.GenerateWithdrawalNo(),
		UserID:    req.UserID,
		KeyType:   keyType,
		KeyValue:  keyValue,
		Amount:    amount,
		Fee:       s.fee(amount),
		Status:    model.WithdrawalStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.balanceRepo.GetByUserIDForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		if balance.RealAmount.LessThan(amount) {
			return ErrInsufficientBalance
		}
		return s.withdrawalRepo.Create(ctx, tx, withdrawal)
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientBalance) || errors.Is(err, repository.ErrBalanceMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	withdrawalLog.WithFields(logrus.Fields{
		"user_id":    req.UserID,
		"request_no": withdrawal.RequestNo,
		"amount":     withdrawal.Amount.StringFixed(2),
		"fee":        withdrawal.Fee.StringFixed(2),
	}).Info("提现申请已创建")
	return withdrawal, nil
}

func (s *WithdrawalService) fee(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(s.cfg.Business.WithdrawalFeePercent).Div(hundred).Round(2)
}

func (s *WithdrawalService) ListWithdrawals(ctx context.Context, userID int64) ([]*model.Withdrawal, error) {
	return s.withdrawalRepo.ListByUserID(ctx, userID)
}

// ListAll pageSize <= 0 时返回全部
func (s *WithdrawalService) ListAll(ctx context.Context, page, pageSize int) ([]*model.Withdrawal, int64, error) {
	if page < 1 {
		page = 1
	}
	return s.withdrawalRepo.ListAll(ctx, page, pageSize)
}
