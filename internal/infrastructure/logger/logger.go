package logger

import (
	"os"
	"strings"

	"tradedesk/internal/config"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// Init 初始化全局 logrus 配置
func Init(cfg *config.LogConfig) {
	logrus.SetOutput(os.Stdout)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.WithError(err).Warn("日志级别配置错误，使用 info")
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

// Component 返回带组件名的日志入口
func Component(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}

// GormLevel 将配置中的级别字符串转换为 gorm 日志级别
func GormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
