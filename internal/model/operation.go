package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AccountTypeDemo = "demo"
	AccountTypeReal = "real"
)

// Operation 交易记录，由交易引擎写入，这里只读
type Operation struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64           `gorm:"index;not null" json:"userId"`
	Asset       string          `gorm:"type:varchar(32);not null" json:"ativo"`
	Direction   string          `gorm:"type:varchar(8);not null" json:"direcao"`
	AccountType string          `gorm:"type:varchar(8);not null" json:"tipoConta"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"valor"`
	Payout      decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"retorno"`
	Result      string          `gorm:"type:varchar(16)" json:"resultado"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (Operation) TableName() string {
	return "operations"
}
