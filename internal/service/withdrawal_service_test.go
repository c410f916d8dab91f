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

func TestCreateWithdrawalChargesFee(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWithdrawalService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.NewFromInt(300))

	withdrawal, err := svc.CreateWithdrawal(context.Background(), &CreateWithdrawalRequest{
		UserID:   user.ID,
		KeyType:  "EMAIL",
		KeyValue: " ana@example.com ",
		Amount:   decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.Equal(t, model.WithdrawalStatusPending, withdrawal.Status)
	assert.Equal(t, model.KeyTypeEmail, withdrawal.KeyType)
	assert.Equal(t, "ana@example.com", withdrawal.KeyValue)
	assert.Contains(t, withdrawal.RequestNo, "SAQ")
	assert.Equal(t, "5.00", withdrawal.Fee.StringFixed(2))
	assert.Equal(t, "95.00", withdrawal.NetAmount().StringFixed(2))

	// 只登记申请，不扣余额
	assert.True(t, testutil.Balance(t, db, user.ID).RealAmount.Equal(decimal.NewFromInt(300)))
}

func TestCreateWithdrawalValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWithdrawalService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.NewFromInt(80))

	cases := []struct {
		name string
		req  CreateWithdrawalRequest
		want error
	}{
		{"unknown key type", CreateWithdrawalRequest{KeyType: "iban", KeyValue: "x", Amount: decimal.NewFromInt(60)}, ErrInvalidKeyType},
		{"empty key", CreateWithdrawalRequest{KeyType: "cpf", KeyValue: "  ", Amount: decimal.NewFromInt(60)}, ErrMissingKeyValue},
		{"zero amount", CreateWithdrawalRequest{KeyType: "cpf", KeyValue: "123", Amount: decimal.Zero}, ErrInvalidAmount},
		{"below minimum", CreateWithdrawalRequest{KeyType: "cpf", KeyValue: "123", Amount: decimal.NewFromInt(49)}, ErrBelowMinWithdrawal},
		{"above balance", CreateWithdrawalRequest{KeyType: "cpf", KeyValue: "123", Amount: decimal.NewFromInt(81)}, ErrInsufficientBalance},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := tc.req
			req.UserID = user.ID
			_, err := svc.CreateWithdrawal(context.Background(), &req)
			require.ErrorIs(t, err, tc.want)
		})
	}

	_, err := svc.CreateWithdrawal(context.Background(), &CreateWithdrawalRequest{
		UserID: 999, KeyType: "cpf", KeyValue: "123", Amount: decimal.NewFromInt(60),
	})
	require.ErrorIs(t, err, repository.ErrBalanceMissing)
	assert.Equal(t, int64(0), testutil.Count(t, db, &model.Withdrawal{}, "1 = 1"))
}

func TestListWithdrawals(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWithdrawalService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.Zero)
	other := testutil.SeedUser(t, db, "bia@example.com", decimal.Zero)

	empty, err := svc.ListWithdrawals(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	testutil.SeedWithdrawal(t, db, user.ID, "w-1", decimal.NewFromInt(100), decimal.NewFromInt(5))
	testutil.SeedWithdrawal(t, db, user.ID, "w-2", decimal.NewFromInt(200), decimal.NewFromInt(10))
	testutil.SeedWithdrawal(t, db, other.ID, "w-3", decimal.NewFromInt(50), decimal.NewFromInt(2))

	mine, err := svc.ListWithdrawals(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "w-2", mine[0].RequestNo)

	all, total, err := svc.ListAll(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	page, total, err := svc.ListAll(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 1)
	assert.Equal(t, "w-1", page[0].RequestNo)
}

func TestCreateWithdrawalForDeletedUser(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewWithdrawalService(db, testutil.Config())
	user := testutil.SeedUser(t, db, "ana@example.com", decimal.NewFromInt(300))
	require.NoError(t, NewAdminService(db, testutil.Config()).DeleteUser(context.Background(), user.ID))

	_, err := svc.CreateWithdrawal(context.Background(), &CreateWithdrawalRequest{
		UserID: user.ID, KeyType: "cpf", KeyValue: "123", Amount: decimal.NewFromInt(60),
	})
	require.ErrorIs(t, err, repository.ErrBalanceMissing)
	assert.Equal(t, int64(0), testutil.Count(t, db, &model.Withdrawal{}, "user_id = ?", user.ID))
}
