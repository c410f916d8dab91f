package config

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config 全局配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Business BusinessConfig `mapstructure:"business"`
	Session  SessionConfig  `mapstructure:"session"`
	Admin    AdminConfig    `mapstructure:"admin"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	Production bool   `mapstructure:"production"`
	WorkerID   int64  `mapstructure:"worker_id"`
	Name       string `mapstructure:"name"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	LogLevel     string `mapstructure:"log_level"`
}

// RedisConfig 为空 Host 时不启用分布式锁
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// KafkaConfig 为空 Brokers 时 outbox 消息只落库不投递
type KafkaConfig struct {
	Brokers []string         `mapstructure:"brokers"`
	Topic   KafkaTopicConfig `mapstructure:"topic"`
}

type KafkaTopicConfig struct {
	DepositCompleted string `mapstructure:"deposit_completed"`
	UserDeleted      string `mapstructure:"user_deleted"`
}

type BusinessConfig struct {
	MaxRetryCount        int             `mapstructure:"max_retry_count"`
	WithdrawalFeePercent decimal.Decimal `mapstructure:"-"`
	DemoReloadPerMinute  float64         `mapstructure:"demo_reload_per_minute"`
	DemoReloadBurst      int             `mapstructure:"demo_reload_burst"`

	// SiteConfig 首次启动时写入 id=1 的配置行
	SiteName      string          `mapstructure:"site_name"`
	LogoURL       string          `mapstructure:"logo_url"`
	MinDeposit    decimal.Decimal `mapstructure:"-"`
	MinWithdrawal decimal.Decimal `mapstructure:"-"`
}

type SessionConfig struct {
	// Secret 非空时对 cookie 做 HMAC 签名
	Secret     string `mapstructure:"secret"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type AdminConfig struct {
	Token string `mapstructure:"token"`
}

type WebhookConfig struct {
	Secret string `mapstructure:"secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var GlobalConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.production", false)
	v.SetDefault("server.worker_id", 1)
	v.SetDefault("server.name", "tradedesk")

	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.user", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "tradedesk")
	v.SetDefault("mysql.max_open_conns", 50)
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.log_level", "warn")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")

	v.SetDefault("kafka.topic.deposit_completed", "deposit.completed")
	v.SetDefault("kafka.topic.user_deleted", "user.deleted")

	v.SetDefault("business.max_retry_count", 5)
	v.SetDefault("business.withdrawal_fee_percent", "5")
	v.SetDefault("business.demo_reload_per_minute", 6)
	v.SetDefault("business.demo_reload_burst", 3)
	v.SetDefault("business.site_name", "TradeDesk")
	v.SetDefault("business.min_deposit", "20")
	v.SetDefault("business.min_withdrawal", "50")

	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_age_days", 7)
	v.SetDefault("admin.token", "")
	v.SetDefault("webhook.secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfig 加载配置文件，文件不存在时使用默认值和环境变量
func LoadConfig(configPath string) *Config {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRADEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.WithError(err).Warn("读取配置文件失败，使用默认配置")
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		logrus.WithError(err).Fatal("解析配置文件失败")
	}

	cfg.Business.WithdrawalFeePercent = mustDecimal(v, "business.withdrawal_fee_percent")
	cfg.Business.MinDeposit = mustDecimal(v, "business.min_deposit")
	cfg.Business.MinWithdrawal = mustDecimal(v, "business.min_withdrawal")

	GlobalConfig = cfg
	return cfg
}

func mustDecimal(v *viper.Viper, key string) decimal.Decimal {
	d, err := decimal.NewFromString(v.GetString(key))
	if err != nil {
		logrus.WithError(err).WithField("key", key).Fatal("金额配置格式错误")
	}
	return d
}
