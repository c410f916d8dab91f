package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/internal/session"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var authLog = logger.Component("auth_service")

var ErrInvalidCredentials = errors.New("invalid credentials")

const minPasswordLength = 8

type AuthService struct {
	db          *gorm.DB
	userRepo    *repository.UserRepository
	balanceRepo *repository.BalanceRepository
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		balanceRepo: repository.NewBalanceRepository(db),
	}
}

type RegisterRequest struct {
	Email          string
	Password       string
	Name           string
	CPF            string
	Nationality    string
	DocumentType   string
	DocumentNumber string
	Phone          string
	Birthdate      string
}

// Register 用户和余额行在同一事务中创建
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:          email,
		PasswordHash:   string(hash),
		Name:           req.Name,
		CPF:            req.CPF,
		Nationality:    req.Nationality,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Birthdate:      req.Birthdate,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := s.userRepo.ExistsByEmail(ctx, tx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		balance := &model.Balance{
			UserID:     user.ID,
			DemoAmount: model.DemoBalanceReset,
		}
		if err := s.balanceRepo.Create(ctx, tx, balance); err != nil {
			return fmt.Errorf("create balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	authLog.WithField("user_id", user.ID).Info("用户注册成功")
	return user, nil
}

// Login 校验密码，成功后返回会话身份
func (s *AuthService) Login(ctx context.Context, email, password string) (session.Identity, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return session.Identity{}, ErrInvalidCredentials
		}
		return session.Identity{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return session.Identity{}, ErrInvalidCredentials
	}

	return session.Identity{UserID: user.ID, Email: user.Email}, nil
}
