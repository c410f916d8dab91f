package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tradedesk/internal/config"
	"tradedesk/internal/handler"
	"tradedesk/internal/infrastructure/cache"
	"tradedesk/internal/infrastructure/database"
	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/infrastructure/mq"
	"tradedesk/internal/job"
	"tradedesk/pkg/idgen"

	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg := config.LoadConfig(*configPath)
	logger.Init(&cfg.Log)

	idgen.Init(cfg.Server.WorkerID)

	db := database.InitMySQL(&cfg.MySQL)
	if err := database.SeedSiteConfig(db, &cfg.Business); err != nil {
		logrus.WithError(err).Fatal("初始化站点配置失败")
	}

	redisClient := cache.InitRedis(&cfg.Redis)

	publisher := mq.InitKafka(&cfg.Kafka)
	defer publisher.Close()

	// 创建上下文（用于优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if publisher != nil {
		outboxSender := job.NewOutboxSender(db, publisher, cfg)
		go outboxSender.Start(ctx)
	}

	router := handler.SetupRouter(db, redisClient, cfg)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("服务启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("服务启动失败")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("正在关闭服务...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("服务关闭异常")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logrus.Info("服务已关闭")
}
