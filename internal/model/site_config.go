package model

import (
	"github.com/shopspring/decimal"
)

// SiteConfigID 站点配置是单行表
const SiteConfigID = 1

type SiteConfig struct {
	ID            int64           `gorm:"primaryKey" json:"-"`
	SiteName      string          `gorm:"type:varchar(128)" json:"nomeSite"`
	LogoURL       string          `gorm:"type:varchar(512)" json:"logoUrl"`
	MinDeposit    decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"valorMinimoDeposito"`
	MinWithdrawal decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"valorMinimoSaque"`
}

func (SiteConfig) TableName() string {
	return "config"
}
