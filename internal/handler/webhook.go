package handler

import (
	"crypto/subtle"
	"strconv"

	"tradedesk/internal/service"
	"tradedesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
)

const webhookTokenHeader = "X-Webhook-Token"

// DepositWebhook POST /api/webhook/deposit
//
// 请求体 {"data": {"status", "paymentMethod", "secureId", "amount"}}，amount 单位为分。
// 忽略、重复、成功都返回 200；充值单不存在返回 404，渠道会重试。
func (h *Handler) DepositWebhook(c *gin.Context) {
	if secret := h.cfg.Webhook.Secret; secret != "" {
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(webhookTokenHeader)), []byte(secret)) != 1 {
			response.Unauthorized(c, response.MsgUnauthenticated)
			return
		}
	}

	body, err := c.GetRawData()
	if err != nil || !gjson.ValidBytes(body) {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	data := gjson.GetBytes(body, "data")
	if !data.IsObject() {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	// amount 必须是 JSON 整数（分），小数、字符串等直接拒绝，不做截断
	var amount int64
	if raw := data.Get("amount"); raw.Exists() {
		if raw.Type != gjson.Number {
			response.ParamError(c, response.MsgBadRequest)
			return
		}
		amount, err = strconv.ParseInt(raw.Raw, 10, 64)
		if err != nil {
			response.ParamError(c, response.MsgBadRequest)
			return
		}
	}

	event := &service.WebhookEvent{
		Status:        data.Get("status").String(),
		PaymentMethod: data.Get("paymentMethod").String(),
		SecureID:      data.Get("secureId").String(),
		Amount:        amount,
	}

	result, err := h.depositService.ProcessWebhook(c.Request.Context(), event)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, result)
}
