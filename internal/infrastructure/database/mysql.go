package database

import (
	"errors"
	"fmt"
	"time"

	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitMySQL 初始化 MySQL 连接
func InitMySQL(cfg *config.MySQLConfig) *gorm.DB {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logger.GormLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		logrus.WithError(err).Fatal("连接 MySQL 失败")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Fatal("获取底层 DB 失败")
	}

	// 连接池配置
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		logrus.WithError(err).Fatal("自动迁移表结构失败")
	}

	DB = db
	logrus.Info("MySQL 连接成功")
	return db
}

// Migrate 自动迁移表结构
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels()...)
}

// SeedSiteConfig 站点配置行不存在时按配置文件写入，已存在则保持不变
func SeedSiteConfig(db *gorm.DB, cfg *config.BusinessConfig) error {
	var existing model.SiteConfig
	err := db.First(&existing, model.SiteConfigID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return db.Create(&model.SiteConfig{
		ID:            model.SiteConfigID,
		SiteName:      cfg.SiteName,
		LogoURL:       cfg.LogoURL,
		MinDeposit:    cfg.MinDeposit,
		MinWithdrawal: cfg.MinWithdrawal,
	}).Error
}
