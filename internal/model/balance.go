package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DemoBalanceReset 模拟账户重置后的固定余额
var DemoBalanceReset = decimal.NewFromInt(10000)

// Balance 用户余额表，与 User 一对一，必须和 User 在同一事务中创建
//
// RealAmount 只能由完成的充值增加
type Balance struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64           `gorm:"uniqueIndex;not null" json:"userId"`
	DemoAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"demoAmount"`
	RealAmount decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"realAmount"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Balance) TableName() string {
	return "balances"
}
