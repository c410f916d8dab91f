package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 对外错误统一为 {"error": "..."}，状态码限定在 400/401/404/500
const (
	MsgBadRequest      = "requisição inválida"
	MsgUnauthenticated = "não autenticado"
	MsgInvalidSession  = "sessão inválida"
	MsgNotFound        = "não encontrado"
	MsgInternal        = "erro interno"
)

type ErrorBody struct {
	Error string `json:"error"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

func ParamError(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func ServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, MsgInternal)
}
