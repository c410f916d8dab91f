package handler

import (
	"net/http"
	"strconv"
	"time"

	"tradedesk/internal/config"
	"tradedesk/internal/service"
	"tradedesk/internal/session"
	"tradedesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Handler 统一处理器，包含所有服务依赖
type Handler struct {
	cfg               *config.Config
	codec             *session.Codec
	authService       *service.AuthService
	accountService    *service.AccountService
	depositService    *service.DepositService
	withdrawalService *service.WithdrawalService
	operationService  *service.OperationService
	siteConfigService *service.SiteConfigService
	adminService      *service.AdminService
}

// NewHandler 创建处理器实例
func NewHandler(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Handler {
	return &Handler{
		cfg:               cfg,
		codec:             session.NewCodec(cfg.Session.Secret),
		authService:       service.NewAuthService(db),
		accountService:    service.NewAccountService(db, cfg),
		depositService:    service.NewDepositService(db, rdb, cfg),
		withdrawalService: service.NewWithdrawalService(db, cfg),
		operationService:  service.NewOperationService(db),
		siteConfigService: service.NewSiteConfigService(db),
		adminService:      service.NewAdminService(db, cfg),
	}
}

// ============================================================
// 登录注册
// ============================================================

type RegisterRequest struct {
	Email          string `json:"email" binding:"required"`
	Password       string `json:"password" binding:"required"`
	Name           string `json:"name" binding:"required"`
	CPF            string `json:"cpf"`
	Nationality    string `json:"nationality"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Phone          string `json:"phone"`
	Birthdate      string `json:"birthdate"`
}

// Register POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &service.RegisterRequest{
		Email:          req.Email,
		Password:       req.Password,
		Name:           req.Name,
		CPF:            req.CPF,
		Nationality:    req.Nationality,
		DocumentType:   req.DocumentType,
		DocumentNumber: req.DocumentNumber,
		Phone:          req.Phone,
		Birthdate:      req.Birthdate,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"userId": user.ID,
		"email":  user.Email,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	identity, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		renderError(c, err)
		return
	}

	value, err := h.codec.Encode(identity)
	if err != nil {
		renderError(c, err)
		return
	}

	h.setSessionCookie(c, value, h.sessionMaxAge())
	response.Success(c, identity)
}

// Logout POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.Success(c, gin.H{"message": "sessão encerrada"})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(session.CookieName, value, maxAge, "/", "", h.cfg.Server.Production, true)
}

func (h *Handler) sessionMaxAge() int {
	if h.cfg.Session.MaxAgeDays > 0 {
		return int((time.Duration(h.cfg.Session.MaxAgeDays) * 24 * time.Hour).Seconds())
	}
	return int(session.DefaultMaxAge.Seconds())
}

// ============================================================
// 账户
// ============================================================

// GetBalance GET /api/account/balance
func (h *Handler) GetBalance(c *gin.Context) {
	identity := currentIdentity(c)

	view, err := h.accountService.GetBalances(c.Request.Context(), identity.UserID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, view)
}

// ReloadDemoBalance POST /api/account/demo/reload
func (h *Handler) ReloadDemoBalance(c *gin.Context) {
	identity := currentIdentity(c)

	amount, err := h.accountService.ReloadDemoBalance(c.Request.Context(), identity.UserID)
	if err != nil {
		renderError(c, err)
		return
	}

	response.Success(c, gin.H{"demoBalance": amount})
}

// ============================================================
// 充值
// ============================================================

type CreateDepositRequest struct {
	Amount        decimal.Decimal `json:"valor"`
	TransactionID string          `json:"transactionId"`
}

// CreateDeposit POST /api/deposits
func (h *Handler) CreateDeposit(c *gin.Context) {
	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	deposit, err := h.depositService.CreateDeposit(c.Request.Context(), &service.CreateDepositRequest{
		UserID:        currentIdentity(c).UserID,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, deposit)
}

// ListDeposits GET /api/deposits
func (h *Handler) ListDeposits(c *gin.Context) {
	deposits, err := h.depositService.ListDeposits(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, deposits)
}

// ============================================================
// 提现
// ============================================================

type CreateWithdrawalRequest struct {
	KeyType  string          `json:"tipoChave" binding:"required"`
	KeyValue string          `json:"chave" binding:"required"`
	Amount   decimal.Decimal `json:"valor"`
}

// CreateWithdrawal POST /api/withdrawals
func (h *Handler) CreateWithdrawal(c *gin.Context) {
	var req CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, response.MsgBadRequest)
		return
	}

	withdrawal, err := h.withdrawalService.CreateWithdrawal(c.Request.Context(), &service.CreateWithdrawalRequest{
		UserID:   currentIdentity(c).UserID,
		KeyType:  req.KeyType,
		KeyValue: req.KeyValue,
		Amount:   req.Amount,
	})
	if err != nil {
		renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, withdrawal)
}

// ListWithdrawals GET /api/withdrawals
func (h *Handler) ListWithdrawals(c *gin.Context) {
	withdrawals, err := h.withdrawalService.ListWithdrawals(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, withdrawals)
}

// ============================================================
// 交易记录与站点配置
// ============================================================

// ListOperations GET /api/operations
func (h *Handler) ListOperations(c *gin.Context) {
	operations, err := h.operationService.ListOperations(c.Request.Context(), currentIdentity(c).UserID)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, operations)
}

// GetSiteConfig GET /api/config
func (h *Handler) GetSiteConfig(c *gin.Context) {
	cfg, err := h.siteConfigService.Get(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, cfg)
}

// parsePage 未传 page_size 时返回 0，表示不分页
func parsePage(c *gin.Context) (int, int, bool) {
	page := 1
	pageSize := 0

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return 0, 0, false
		}
		page = n
	}
	if v := c.Query("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			return 0, 0, false
		}
		pageSize = n
	}
	return page, pageSize, true
}
