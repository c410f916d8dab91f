package handler

import (
	"errors"

	"tradedesk/internal/infrastructure/logger"
	"tradedesk/internal/repository"
	"tradedesk/internal/service"
	"tradedesk/internal/session"
	"tradedesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var handlerLog = logger.Component("handler")

// renderError 统一错误出口：对外只返回安全的提示信息，内部错误细节只写日志
func renderError(c *gin.Context, err error) {
	var validation *service.ValidationError

	switch {
	case errors.Is(err, session.ErrUnauthenticated):
		response.Unauthorized(c, response.MsgUnauthenticated)
	case errors.Is(err, session.ErrInvalidSession):
		response.Unauthorized(c, response.MsgInvalidSession)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, "email ou senha inválidos")
	case errors.As(err, &validation):
		response.ParamError(c, validation.Message)
	case errors.Is(err, repository.ErrUserNotFound):
		response.NotFound(c, "usuário não encontrado")
	case errors.Is(err, repository.ErrBalanceMissing):
		response.NotFound(c, "saldo não encontrado")
	case errors.Is(err, repository.ErrDepositNotFound):
		response.NotFound(c, "depósito não encontrado")
	case errors.Is(err, repository.ErrSiteConfigNotFound):
		response.NotFound(c, "configuração não encontrada")
	default:
		handlerLog.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.FullPath(),
		}).Error("请求处理失败")
		response.ServerError(c)
		return
	}

	handlerLog.WithFields(logrus.Fields{
		"request_id": c.GetString(requestIDKey),
		"status":     c.Writer.Status(),
		"reason":     err.Error(),
	}).Debug("请求被拒绝")
}
