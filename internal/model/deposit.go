package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DepositStatusPending   = "pendente"
	DepositStatusCompleted = "concluido"
)

// Deposit 充值记录，TransactionID 对应支付渠道回调中的 secureId
//
// 状态只能 pendente -> concluido，且必须和余额增加在同一事务中完成
type Deposit struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        int64           `gorm:"index;not null" json:"userId"`
	TransactionID string          `gorm:"type:varchar(128);uniqueIndex;not null" json:"transactionId"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"valor"`
	Status        string          `gorm:"type:varchar(20);index;not null;default:pendente" json:"status"`
	CreatedAt     time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
	PaidAt        *time.Time      `json:"paidAt"`
}

func (Deposit) TableName() string {
	return "deposits"
}

func (d *Deposit) IsCompleted() bool {
	return d.Status == DepositStatusCompleted
}
