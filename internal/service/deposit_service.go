package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/lock"
	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/infrastructure/metrics"
	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/pkg/idgen"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var depositLog = logger.Component("deposit_service")

const (
	WebhookOutcomeIgnored          = "ignored"
	WebhookOutcomeProcessed        = "processed"
	WebhookOutcomeAlreadyProcessed = "already_processed"
)

const (
	webhookStatusPaid   = "paid"
	webhookMethodPix    = "pix"
	minorUnitsExponent  = -2
	webhookLockRetry    = 50 * time.Millisecond
	webhookLockAttempts = 100
)

type DepositService struct {
	db             *gorm.DB
	redisClient    *redis.Client
	cfg            *config.Config
	depositRepo    *repository.DepositRepository
	balanceRepo    *repository.BalanceRepository
	siteConfigRepo *repository.SiteConfigRepository
	outboxRepo     *repository.OutboxRepository
}

// NewDepositService redisClient 为 nil 时不加分布式锁
func NewDepositService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *DepositService {
	return &DepositService{
		db:             db,
		redisClient:    redisClient,
		cfg:            cfg,
		depositRepo:    repository.NewDepositRepository(db),
		balanceRepo:    repository.NewBalanceRepository(db),
		siteConfigRepo: repository.NewSiteConfigRepository(db),
		outboxRepo:     repository.NewOutboxRepository(db),
	}
}

type CreateDepositRequest struct {
	UserID        int64
	Amount        decimal.Decimal
	TransactionID string
}

func (s *DepositService) CreateDeposit(ctx context.Context, req *CreateDepositRequest) (*model.Deposit, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	siteCfg, err := s.siteConfigRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load site config: %w", err)
	}
	if req.Amount.LessThan(siteCfg.MinDeposit) {
		return nil, ErrBelowMinDeposit
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = idgen.GenerateDepositTransactionID()
	}

	deposit := &model.Deposit{
		UserID:        req.UserID,
		TransactionID: transactionID,
		Amount:        req.Amount.Round(2),
		Status:        model.DepositStatusPending,
	}

	// 锁住余额行再插入，与并发的 DeleteUser 互斥，不会留下无主充值单
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.balanceRepo.GetByUserIDForUpdate(ctx, tx, req.UserID); err != nil {
			return err
		}
		return s.depositRepo.Create(ctx, tx, deposit)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTransactionID) {
			return nil, ErrDuplicateDeposit
		}
		return nil, fmt.Errorf("create deposit: %w", err)
	}

	depositLog.WithFields(logrus.Fields{
		"user_id":        req.UserID,
		"transaction_id": transactionID,
		"amount":         deposit.Amount.StringFixed(2),
	}).Info("充值单已创建")
	return deposit, nil
}

func (s *DepositService) ListDeposits(ctx context.Context, userID int64) ([]*model.Deposit, error) {
	return s.depositRepo.ListByUserID(ctx, userID)
}

// WebhookEvent 支付渠道回调，Amount 为最小货币单位（分）
type WebhookEvent struct {
	Status        string
	PaymentMethod string
	SecureID      string
	Amount        int64
}

type WebhookResult struct {
	Outcome       string          `json:"status"`
	TransactionID string          `json:"transactionId,omitempty"`
	Credited      decimal.Decimal `json:"credited"`
}

// ProcessWebhook 处理充值回调
//
// 查单、改状态、加余额在同一事务内完成，充值行在事务期间持有行锁；
// 状态更新带 status = pendente 条件，同一笔充值最多入账一次。
func (s *DepositService) ProcessWebhook(ctx context.Context, event *WebhookEvent) (*WebhookResult, error) {
	if event.Status != webhookStatusPaid || event.PaymentMethod != webhookMethodPix {
		metrics.RecordWebhookOutcome(WebhookOutcomeIgnored)
		depositLog.WithFields(logrus.Fields{
			"status":         event.Status,
			"payment_method": event.PaymentMethod,
			"secure_id":      event.SecureID,
		}).Info("忽略非 pix 支付成功回调")
		return &WebhookResult{Outcome: WebhookOutcomeIgnored, TransactionID: event.SecureID}, nil
	}

	if event.SecureID == "" {
		return nil, ErrMissingTransaction
	}
	if event.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if s.redisClient != nil {
		webhookLock := lock.NewDepositWebhookLock(s.redisClient, event.SecureID, uuid.NewString())
		if err := webhookLock.Lock(ctx, webhookLockRetry, webhookLockAttempts); err != nil {
			metrics.RecordWebhookOutcome("failed")
			return nil, fmt.Errorf("acquire webhook lock: %w", err)
		}
		defer func() {
			if err := webhookLock.Unlock(context.Background()); err != nil {
				depositLog.WithError(err).WithField("secure_id", event.SecureID).Warn("释放回调锁失败")
			}
		}()
	}

	credit := decimal.New(event.Amount, minorUnitsExponent)
	result := &WebhookResult{TransactionID: event.SecureID}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deposit, err := s.depositRepo.GetByTransactionIDForUpdate(ctx, tx, event.SecureID)
		if err != nil {
			return err
		}

		if deposit.IsCompleted() {
			result.Outcome = WebhookOutcomeAlreadyProcessed
			return nil
		}

		if !deposit.Amount.Equal(credit) {
			depositLog.WithFields(logrus.Fields{
				"secure_id":       event.SecureID,
				"deposit_amount":  deposit.Amount.StringFixed(2),
				"callback_amount": credit.StringFixed(2),
			}).Warn("回调金额与充值单金额不一致，按回调金额入账")
		}

		paidAt := time.Now()
		if err := s.depositRepo.MarkCompleted(ctx, tx, deposit.ID, paidAt); err != nil {
			if errors.Is(err, repository.ErrDepositStatusInvalid) {
				result.Outcome = WebhookOutcomeAlreadyProcessed
				return nil
			}
			return fmt.Errorf("mark deposit completed: %w", err)
		}

		if err := s.balanceRepo.IncreaseReal(ctx, tx, deposit.UserID, credit); err != nil {
			return fmt.Errorf("credit real balance: %w", err)
		}

		payload := map[string]interface{}{
			"event_id":       idgen.GenerateEventKey(),
			"deposit_id":     deposit.ID,
			"user_id":        deposit.UserID,
			"transaction_id": deposit.TransactionID,
			"amount":         credit.StringFixed(2),
			"status":         model.DepositStatusCompleted,
			"paid_at":        paidAt.Format(time.RFC3339),
		}
		if err := s.outboxRepo.Enqueue(ctx, tx, s.cfg.Kafka.Topic.DepositCompleted, deposit.TransactionID, payload); err != nil {
			return fmt.Errorf("enqueue deposit event: %w", err)
		}

		result.Outcome = WebhookOutcomeProcessed
		result.Credited = credit
		return nil
	})

	if err != nil {
		if errors.Is(err, repository.ErrDepositNotFound) {
			metrics.RecordWebhookOutcome("not_found")
			depositLog.WithField("secure_id", event.SecureID).Warn("回调对应的充值单不存在")
		} else {
			metrics.RecordWebhookOutcome("failed")
		}
		return nil, err
	}

	metrics.RecordWebhookOutcome(result.Outcome)
	entry := depositLog.WithFields(logrus.Fields{
		"secure_id": event.SecureID,
		"outcome":   result.Outcome,
	})
	if result.Outcome == WebhookOutcomeAlreadyProcessed {
		entry.Info("充值回调重复，已跳过")
	} else {
		entry.WithField("credited", credit.StringFixed(2)).Info("充值回调处理成功")
	}
	return result, nil
}
