package handler

import (
	"tradedesk/internal/config"
	"tradedesk/internal/infrastructure/metrics"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// SetupRouter 配置路由
func SetupRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	h := NewHandler(db, rdb, cfg)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.Logout)
		}

		api.GET("/config", h.GetSiteConfig)

		webhook := api.Group("/webhook")
		{
			webhook.POST("/deposit", h.DepositWebhook)
		}

		// 需要登录
		user := api.Group("", SessionMiddleware(h.codec))
		{
			user.GET("/account/balance", h.GetBalance)
			user.POST("/account/demo/reload", h.ReloadDemoBalance)

			user.GET("/deposits", h.ListDeposits)
			user.POST("/deposits", h.CreateDeposit)

			user.GET("/withdrawals", h.ListWithdrawals)
			user.POST("/withdrawals", h.CreateWithdrawal)

			user.GET("/operations", h.ListOperations)
		}

		admin := api.Group("/admin", AdminAuthMiddleware(cfg.Admin.Token))
		{
			admin.GET("/users", h.ListUsers)
			admin.DELETE("/users/:id", h.DeleteUser)
			admin.GET("/withdrawals", h.ListAllWithdrawals)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
