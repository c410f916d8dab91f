package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tradedesk/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

// 余额更新失败时，MySQL 上看到的是回滚而不是提交
func TestProcessWebhookIssuesRollbackOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewDepositService(db, nil, testutil.Config())

	rows := sqlmock.NewRows([]string{"id", "user_id", "transaction_id", "amount", "status", "created_at", "paid_at"}).
		AddRow(7, 3, "sec-mock", "40.00", "pendente", time.Now(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM .deposits. WHERE transaction_id = \\?.*FOR UPDATE").
		WillReturnRows(rows)
	mock.ExpectExec("UPDATE .deposits. SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE .balances. SET").
		WillReturnError(errors.New("lock wait timeout exceeded"))
	mock.ExpectRollback()

	_, err := svc.ProcessWebhook(context.Background(), paidPix("sec-mock", 4000))
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessWebhookCommitsOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewDepositService(db, nil, testutil.Config())

	rows := sqlmock.NewRows([]string{"id", "user_id", "transaction_id", "amount", "status", "created_at", "paid_at"}).
		AddRow(7, 3, "sec-mock", "40.00", "pendente", time.Now(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM .deposits.").WillReturnRows(rows)
	mock.ExpectExec("UPDATE .deposits. SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE .balances. SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO .outbox_message.").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := svc.ProcessWebhook(context.Background(), paidPix("sec-mock", 4000))
	require.NoError(t, err)
	require.Equal(t, WebhookOutcomeProcessed, result.Outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}

// 行锁读到 pendente，但状态条件更新影响 0 行：另一投递已入账，本次不得加余额
func TestProcessWebhookLostRaceOnMySQL(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewDepositService(db, nil, testutil.Config())

	rows := sqlmock.NewRows([]string{"id", "user_id", "transaction_id", "amount", "status", "created_at", "paid_at"}).
		AddRow(7, 3, "sec-mock", "40.00", "pendente", time.Now(), nil)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM .deposits. WHERE transaction_id = \\?.*FOR UPDATE").
		WillReturnRows(rows)
	mock.ExpectExec("UPDATE .deposits. SET .* WHERE .*id = \\? AND status = \\?").
		WithArgs(sqlmock.AnyArg(), "concluido", 7, "pendente").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	result, err := svc.ProcessWebhook(context.Background(), paidPix("sec-mock", 4000))
	require.NoError(t, err)
	require.Equal(t, WebhookOutcomeAlreadyProcessed, result.Outcome)
	require.True(t, result.Credited.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
