package handler

import (
	"strconv"

	"tradedesk/pkg/response"

	"github.com/gin-gonic/gin"
)

// ListUsers GET /api/admin/users?page=1&page_size=20
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize, ok := parsePage(c)
	if !ok {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	users, total, err := h.adminService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.Success(c, users)
}

// DeleteUser DELETE /api/admin/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), userID); err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "usuário excluído"})
}

// ListAllWithdrawals GET /api/admin/withdrawals
//
// 不带 page_size 时返回全部记录；带分页参数时 X-Total-Count 为总数
func (h *Handler) ListAllWithdrawals(c *gin.Context) {
	page, pageSize, ok := parsePage(c)
	if !ok {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	withdrawals, total, err := h.withdrawalService.ListAll(c.Request.Context(), page, pageSize)
	if err != nil {
		renderError(c, err)
		return
	}

	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	response.Success(c, withdrawals)
}
