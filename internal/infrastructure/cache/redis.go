package cache

import (
	"context"
	"fmt"
	"time"

	"tradedesk/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

var RedisClient *redis.Client

// InitRedis 未配置 Host 时返回 nil，调用方跳过分布式锁
func InitRedis(cfg *config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		logrus.Warn("未配置 Redis，分布式锁关闭")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).Fatal("连接 Redis 失败")
	}

	RedisClient = client
	logrus.Info("Redis 连接成功")
	return client
}
