package handler

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradedesk/internal/infrastructure/metrics"
	"tradedesk/internal/session"
	"tradedesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDKey    = "request_id"
	identityKey     = "session_identity"
	requestIDHeader = "X-Request-ID"
)

// RequestIDMiddleware 透传或生成请求ID
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// LoggerMiddleware 日志与指标中间件
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), latency.Seconds())

		handlerLog.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"status":     status,
			"latency":    latency.String(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		}).Info("HTTP")
	}
}

// RecoveryMiddleware 恢复中间件，防止 panic 导致服务崩溃
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				handlerLog.WithFields(logrus.Fields{
					"request_id": c.GetString(requestIDKey),
					"panic":      err,
				}).Error("PANIC")
				response.ServerError(c)
			}
		}()
		c.Next()
	}
}

// CORSMiddleware 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID, X-Webhook-Token")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SessionMiddleware 解析 session cookie，把身份放进请求上下文
func SessionMiddleware(codec *session.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(session.CookieName)
		if err != nil {
			if errors.Is(err, http.ErrNoCookie) {
				renderError(c, session.ErrUnauthenticated)
			} else {
				renderError(c, session.ErrInvalidSession)
			}
			return
		}
		// cookie 存在但无法 URL 解码时 gin 返回空串
		if raw == "" {
			renderError(c, session.ErrInvalidSession)
			return
		}

		identity, err := codec.Decode(raw)
		if err != nil {
			renderError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func currentIdentity(c *gin.Context) session.Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(session.Identity)
	return identity
}

// AdminAuthMiddleware Bearer token 校验，未配置 token 时拒绝所有请求
func AdminAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			response.Unauthorized(c, response.MsgUnauthenticated)
			return
		}
		c.Next()
	}
}
