// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/database"
	"tradedesk/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	AdminToken = "admin-test-token"
	Password   = "correct-horse"
)

// Config 测试用配置，不连接 Redis 和 Kafka
func Config() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 0, WorkerID: 1, Name: "tradedesk-test"},
		Kafka: config.KafkaConfig{
			Topic: config.KafkaTopicConfig{
				DepositCompleted: "deposit.completed",
				UserDeleted:      "user.deleted",
			},
		},
		Business: config.BusinessConfig{
			MaxRetryCount:        3,
			WithdrawalFeePercent: decimal.NewFromInt(5),
			DemoReloadPerMinute:  0,
			DemoReloadBurst:      1,
			SiteName:             "TradeDesk",
			LogoURL:              "https://cdn.example.com/logo.png",
			MinDeposit:           decimal.NewFromInt(20),
			MinWithdrawal:        decimal.NewFromInt(50),
		},
		Session: config.SessionConfig{MaxAgeDays: 7},
		Admin:   config.AdminConfig{Token: AdminToken},
	}
}

// NewDB 每个测试独立的内存 sqlite，单连接，事务天然串行
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedSiteConfig(db, &Config().Business))
	return db
}

// SeedUser 创建用户和余额行
func SeedUser(t *testing.T, db *gorm.DB, email string, real decimal.Decimal) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Test User",
		CPF:          "123.456.789-09",
		Nationality:  "BR",
		Phone:        "+5511999999999",
		Birthdate:    "1990-01-01",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&model.Balance{
		UserID:     user.ID,
		DemoAmount: model.DemoBalanceReset,
		RealAmount: real,
	}).Error)
	return user
}

func SeedDeposit(t *testing.T, db *gorm.DB, userID int64, transactionID string, amount decimal.Decimal) *model.Deposit {
	t.Helper()

	deposit := &model.Deposit{
		UserID:        userID,
		TransactionID: transactionID,
		Amount:        amount,
		Status:        model.DepositStatusPending,
	}
	require.NoError(t, db.Create(deposit).Error)
	return deposit
}

func SeedWithdrawal(t *testing.T, db *gorm.DB, userID int64, requestNo string, amount, fee decimal.Decimal) *model.Withdrawal {
	t.Helper()

	withdrawal := &model.Withdrawal{
		RequestNo: requestNo,
		UserID:    userID,
		KeyType:   model.KeyTypeEmail,
		KeyValue:  "pix@example.com",
		Amount:    amount,
		Fee:       fee,
		Status:    model.WithdrawalStatusPending,
	}
	require.NoError(t, db.Create(withdrawal).Error)
	return withdrawal
}

func SeedOperation(t *testing.T, db *gorm.DB, userID int64, asset string) *model.Operation {
	t.Helper()

	op := &model.Operation{
		UserID:      userID,
		Asset:       asset,
		Direction:   "call",
		AccountType: model.AccountTypeDemo,
		Amount:      decimal.NewFromInt(10),
		Payout:      decimal.NewFromInt(18),
		Result:      "win",
	}
	require.NoError(t, db.Create(op).Error)
	return op
}

func Balance(t *testing.T, db *gorm.DB, userID int64) *model.Balance {
	t.Helper()

	var balance model.Balance
	require.NoError(t, db.Where("user_id = ?", userID).First(&balance).Error)
	return &balance
}

func Deposit(t *testing.T, db *gorm.DB, transactionID string) *model.Deposit {
	t.Helper()

	var deposit model.Deposit
	require.NoError(t, db.Where("transaction_id = ?", transactionID).First(&deposit).Error)
	return &deposit
}

func Count(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}
