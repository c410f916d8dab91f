package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithdrawalNetAmount(t *testing.T) {
	w := Withdrawal{Amount: decimal.NewFromInt(100), Fee: decimal.NewFromInt(5)}
	assert.Equal(t, "95.00", w.NetAmount().StringFixed(2))

	w = Withdrawal{Amount: decimal.RequireFromString("0.30"), Fee: decimal.RequireFromString("0.10")}
	assert.True(t, w.NetAmount().Equal(decimal.RequireFromString("0.20")))
}

func TestWithdrawalJSONCarriesNetAmount(t *testing.T) {
	w := Withdrawal{
		ID:        1,
		RequestNo: "SAQ1",
		KeyType:   KeyTypeCPF,
		Amount:    decimal.NewFromInt(100),
		Fee:       decimal.NewFromInt(5),
		Status:    WithdrawalStatusPending,
	}
	raw, err := json.Marshal(w)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "95", body["valorLiquido"])
	assert.Equal(t, "100", body["valor"])
	assert.Equal(t, "pendente", body["status"])
}

func TestIsValidKeyType(t *testing.T) {
	for _, k := range []string{KeyTypeCPF, KeyTypeEmail, KeyTypePhone, KeyTypeRandom} {
		assert.True(t, IsValidKeyType(k), k)
	}
	assert.False(t, IsValidKeyType("iban"))
}
