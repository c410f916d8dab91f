package service

import (
	"context"
	"fmt"
	"time"

	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/pkg/idgen"

	"gorm.io/gorm"
)

var adminLog = logger.Component("admin_service")

type AdminService struct {
	db         *gorm.DB
	cfg        *config.Config
	userRepo   *repository.UserRepository
	outboxRepo *repository.OutboxRepository
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:         db,
		cfg:        cfg,
		userRepo:   repository.NewUserRepository(db),
		outboxRepo: repository.NewOutboxRepository(db),
	}
}

// DeleteUser 级联删除用户，不可恢复
//
// 用户不存在时在开启事务前返回 ErrUserNotFound；
// 事务中任意一步失败都会整体回滚。
func (s *AdminService) DeleteUser(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.DeleteCascade(ctx, tx, userID); err != nil {
			return fmt.Errorf("cascade delete user %d: %w", userID, err)
		}

		payload := map[string]interface{}{
			"event_id":   idgen.GenerateEventKey(),
			"user_id":    user.ID,
			"email":      user.Email,
			"deleted_at": time.Now().Format(time.RFC3339),
		}
		key := fmt.Sprintf("user-%d", user.ID)
		if err := s.outboxRepo.Enqueue(ctx, tx, s.cfg.Kafka.Topic.UserDeleted, key, payload); err != nil {
			return fmt.Errorf("enqueue user deleted event: %w", err)
		}
		return nil
	})
	if err != nil {
		adminLog.WithError(err).WithField("user_id", userID).Error("删除用户失败，事务已回滚")
		return err
	}

	adminLog.WithField("user_id", userID).Info("用户及关联数据已删除")
	return nil
}

func (s *AdminService) ListUsers(ctx context.Context, page, pageSize int) ([]*model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.userRepo.List(ctx, page, pageSize)
}
