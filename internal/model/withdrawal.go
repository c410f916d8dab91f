package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	WithdrawalStatusPending   = "pendente"
	WithdrawalStatusCompleted = "concluido"
	WithdrawalStatusCancelled = "cancelado"
)

// PIX 收款键类型
const (
	KeyTypeCPF    = "cpf"
	KeyTypeEmail  = "email"
	KeyTypePhone  = "telefone"
	KeyTypeRandom = "aleatoria"
)

func IsValidKeyType(keyType string) bool {
	switch keyType {
	case KeyTypeCPF, KeyTypeEmail, KeyTypePhone, KeyTypeRandom:
		return true
	}
	return false
}

// Withdrawal 提现申请
type Withdrawal struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestNo   string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"requestNo"`
	UserID      int64           `gorm:"index;not null" json:"userId"`
	KeyType     string          `gorm:"type:varchar(20);not null" json:"tipoChave"`
	KeyValue    string          `gorm:"type:varchar(128);not null" json:"chave"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"valor"`
	Fee         decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"taxa"`
	Status      string          `gorm:"type:varchar(20);index;not null;default:pendente" json:"status"`
	RequestedAt time.Time       `gorm:"autoCreateTime;index" json:"dataSolicitacao"`
	PaidAt      *time.Time      `json:"dataPagamento"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// NetAmount 实际到账金额，不落库
func (w *Withdrawal) NetAmount() decimal.Decimal {
	return w.Amount.Sub(w.Fee)
}

func (w Withdrawal) MarshalJSON() ([]byte, error) {
	type alias Withdrawal
	return json.Marshal(struct {
		alias
		NetAmount decimal.Decimal `json:"valorLiquido"`
	}{
		alias:     alias(w),
		NetAmount: w.NetAmount(),
	})
}
