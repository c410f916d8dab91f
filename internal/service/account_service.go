package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/infrastructure/metrics"
	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/pkg/ratelimit"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

var accountLog = logger.Component("account_service")

type AccountService struct {
	userRepo    *repository.UserRepository
	balanceRepo *repository.BalanceRepository
	limiter     *ratelimit.KeyedLimiter
}

func NewAccountService(db *gorm.DB, cfg *config.Config) *AccountService {
	limit := rate.Inf
	if cfg.Business.DemoReloadPerMinute > 0 {
		limit = rate.Limit(cfg.Business.DemoReloadPerMinute / 60)
	}
	return &AccountService{
		userRepo:    repository.NewUserRepository(db),
		balanceRepo: repository.NewBalanceRepository(db),
		limiter:     ratelimit.NewKeyedLimiter(limit, cfg.Business.DemoReloadBurst),
	}
}

// AccountView 用户资料与余额
type AccountView struct {
	UserID         int64           `json:"userId"`
	AvatarURL      string          `json:"avatarUrl"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	CPF            string          `json:"cpf"`
	Nationality    string          `json:"nationality"`
	DocumentType   string          `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
	Phone          string          `json:"phone"`
	Birthdate      string          `json:"birthdate"`
	CreatedAt      time.Time       `json:"createdAt"`
	DemoBalance    decimal.Decimal `json:"demoBalance"`
	RealBalance    decimal.Decimal `json:"realBalance"`
}

// GetBalances 用户或余额行缺失都返回 NotFound
func (s *AccountService) GetBalances(ctx context.Context, userID int64) (*AccountView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	balance, err := s.balanceRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrBalanceMissing) {
			accountLog.WithField("user_id", userID).Error("用户缺少余额行")
		}
		return nil, err
	}

	return &AccountView{
		UserID:         user.ID,
		AvatarURL:      user.AvatarURL,
		Email:          user.Email,
		Name:           user.Name,
		CPF:            user.CPF,
		Nationality:    user.Nationality,
		DocumentType:   user.DocumentType,
		DocumentNumber: user.DocumentNumber,
		Phone:          user.Phone,
		Birthdate:      user.Birthdate,
		CreatedAt:      user.CreatedAt,
		DemoBalance:    balance.DemoAmount,
		RealBalance:    balance.RealAmount,
	}, nil
}

// ReloadDemoBalance 将模拟余额重置为固定值
func (s *AccountService) ReloadDemoBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	if !s.limiter.Allow(strconv.FormatInt(userID, 10)) {
		metrics.RecordDemoReload("rate_limited")
		return decimal.Zero, ErrReloadRateLimited
	}

	if err := s.balanceRepo.SetDemo(ctx, userID, model.DemoBalanceReset); err != nil {
		metrics.RecordDemoReload("failed")
		return decimal.Zero, err
	}

	metrics.RecordDemoReload("ok")
	accountLog.WithField("user_id", userID).Info("模拟余额已重置")
	return model.DemoBalanceReset, nil
}
