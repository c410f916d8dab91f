package service

import (
	"context"
	"testing"

	"tradedesk/internal/model"
	"tradedesk/internal/repository"
	"tradedesk/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBalances(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccountService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.RequireFromString("12.34"))

	view, err := svc.GetBalances(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, view.UserID)
	assert.Equal(t, "ana@example.com", view.Email)
	assert.Equal(t, "12.34", view.RealBalance.StringFixed(2))
	assert.Equal(t, "10000.00", view.DemoBalance.StringFixed(2))

	_, err = svc.GetBalances(context.Background(), 777)
	require.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestGetBalancesMissingBalanceRow(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccountService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.Zero)
	require.NoError(t, db.Where("user_id = ?", user.ID).Delete(&model.Balance{}).Error)

	_, err := svc.GetBalances(context.Background(), user.ID)
	require.ErrorIs(t, err, repository.ErrBalanceMissing)
}

func TestReloadDemoBalance(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAccountService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.NewFromInt(7))
	require.NoError(t, db.Model(&model.Balance{}).Where("user_id = ?", user.ID).
		Update("demo_amount", decimal.RequireFromString("3.5")).Error)

	value, err := svc.ReloadDemoBalance(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000.00", value.StringFixed(2))

	balance := testutil.Balance(t, db, user.ID)
	assert.True(t, balance.DemoAmount.Equal(model.DemoBalanceReset))
	assert.True(t, balance.RealAmount.Equal(decimal.NewFromInt(7)))

	_, err = svc.ReloadDemoBalance(context.Background(), 555)
	require.ErrorIs(t, err, repository.ErrBalanceMissing)
}

func TestReloadDemoBalanceRateLimited(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.Business.DemoReloadPerMinute = 1
	cfg.Business.DemoReloadBurst = 2
	svc := NewAccountService(db, cfg)
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.Zero)
	other := testutil.SeedUser(t, db, "bia@example.com", decimal.Zero)

	for i := 0; i < 2; i++ {
		_, err := svc.ReloadDemoBalance(context.Background(), user.ID)
		require.NoError(t, err)
	}
	_, err := svc.ReloadDemoBalance(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrReloadRateLimited)

	// 限流按用户独立计数
	_, err = svc.ReloadDemoBalance(context.Background(), other.ID)
	require.NoError(t, err)
}
