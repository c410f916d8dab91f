package service

import (
	"context"
	"testing"

	"tradedesk/internal/model"
	"tradedesk/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCreatesBalance(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Email:    " Ana@Example.com ",
		Password: testutil.Password,
		Name:     "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, testutil.Password, user.PasswordHash)

	balance := testutil.Balance(t, db, user.ID)
	assert.True(t, balance.DemoAmount.Equal(model.DemoBalanceReset))
	assert.True(t, balance.RealAmount.IsZero())

	_, err = svc.Register(context.Background(), &RegisterRequest{Email: "ana@example.com", Password: testutil.Password})
	require.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, int64(1), testutil.Count(t, db, &model.User{}, "email = ?", "ana@example.com"))
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(context.Background(), &RegisterRequest{Email: "not-an-email", Password: testutil.Password})
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(context.Background(), &RegisterRequest{Email: "ana@example.com", Password: "short"})
	require.ErrorIs(t, err, ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewAuthService(db)
	user, err := svc.Register(context.Background(), &RegisterRequest{Email: "ana@example.com", Password: testutil.Password})
	require.NoError(t, err)

	identity, err := svc.Login(context.Background(), "ANA@example.com", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.UserID)
	assert.Equal(t, "ana@example.com", identity.Email)

	_, err = svc.Login(context.Background(), "ana@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody@example.com", testutil.Password)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
