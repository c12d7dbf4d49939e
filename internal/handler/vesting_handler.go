package handler

import (
	"strconv"

	"vesting-core/internal/handler/request"
	"vesting-core/internal/handler/response"
	"vesting-core/internal/service"
	"vesting-core/pkg/errno"
	"vesting-core/pkg/identity"

	"github.com/gin-gonic/gin"
)

type VestingHandler struct {
	svc *service.VestingService
}

func NewVestingHandler(svc *service.VestingService) *VestingHandler {
	return &VestingHandler{svc: svc}
}

// InitializePool 创建售卖池
// @Summary 创建售卖池
// @Description 创建池并把初始代币划入池托管
// @Tags Vesting
// @Accept json
// @Produce json
// @Param request body request.InitializePoolRequest true "Initialize Pool Request"
// @Success 200 {object} response.Response
// @Router /api/v1/pools [post]
func (h *VestingHandler) InitializePool(c *gin.Context) {
	// 1. 绑定参数
	var req request.InitializePoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := identity.Validate(req.Authority); err != nil {
		response.Error(c, err)
		return
	}

	// 2. 调用 Service
	pool, err := h.svc.InitializePool(c.Request.Context(), service.InitializePoolParams{
		Authority:    req.Authority,
		TokenMint:    req.TokenMint,
		Amount:       req.Amount,
		VestingStart: req.VestingStart,
		VestingEnd:   req.VestingEnd,
		VestingTicks: req.VestingTicks,
		PricePerSol:  req.PricePerSol,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, pool)
}

// Purchase 申购
// @Summary 申购
// @Description 买家支付 SOL 换取按计划释放的代币额度
// @Tags Vesting
// @Accept json
// @Produce json
// @Param id path int true "Pool ID"
// @Param request body request.PurchaseRequest true "Purchase Request"
// @Success 200 {object} response.Response
// @Router /api/v1/pools/{id}/purchase [post]
func (h *VestingHandler) Purchase(c *gin.Context) {
	poolID, err := parsePoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := identity.Validate(req.Buyer); err != nil {
		response.Error(c, err)
		return
	}

	amountPaid, err := request.LamportsFromSol(req.AmountSol)
	if err != nil {
		response.Error(c, err)
		return
	}

	acct, allocated, err := h.svc.Purchase(c.Request.Context(), poolID, req.Buyer, amountPaid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"allocated": allocated,
		"account":   acct,
	})
}

// ClaimProceeds 池管理员提取收益
// @Summary 提取收益
// @Description 提取池托管中超出保留储备的 lamports
// @Tags Vesting
// @Accept json
// @Produce json
// @Param id path int true "Pool ID"
// @Param request body request.ClaimProceedsRequest true "Claim Proceeds Request"
// @Success 200 {object} response.Response
// @Router /api/v1/pools/{id}/claim-proceeds [post]
func (h *VestingHandler) ClaimProceeds(c *gin.Context) {
	poolID, err := parsePoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ClaimProceedsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := identity.Validate(req.Caller); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := h.svc.ClaimProceeds(c.Request.Context(), poolID, req.Caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	// amount 为 0 也是成功 (无可提取)
	response.Success(c, gin.H{"claimed_lamports": amount})
}

// ClaimTokens 买家领取已释放的代币
// @Summary 领取代币
// @Description 按已流逝的完整周期数领取代币
// @Tags Vesting
// @Accept json
// @Produce json
// @Param id path int true "Pool ID"
// @Param request body request.ClaimTokensRequest true "Claim Tokens Request"
// @Success 200 {object} response.Response
// @Router /api/v1/pools/{id}/claim-tokens [post]
func (h *VestingHandler) ClaimTokens(c *gin.Context) {
	poolID, err := parsePoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req request.ClaimTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}
	if err := identity.Validate(req.Buyer); err != nil {
		response.Error(c, err)
		return
	}

	amount, err := h.svc.ClaimTokens(c.Request.Context(), poolID, req.Buyer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"claimed_tokens": amount})
}

// GetPool 查询池详情
// @Summary 查询池
// @Tags Vesting
// @Produce json
// @Param id path int true "Pool ID"
// @Success 200 {object} response.Response
// @Router /api/v1/pools/{id} [get]
func (h *VestingHandler) GetPool(c *gin.Context) {
	poolID, err := parsePoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	pool, err := h.svc.GetPool(c.Request.Context(), poolID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, pool)
}

// GetAccount 查询买家账户
// @Summary 查询买家账户
// @Tags Vesting
// @Produce json
// @Param id path int true "Pool ID"
// @Param buyer path string true "Buyer identity"
// @Success 200 {object} response.Response
// @Router /api/v1/pools/{id}/accounts/{buyer} [get]
func (h *VestingHandler) GetAccount(c *gin.Context) {
	poolID, err := parsePoolID(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	buyer := c.Param("buyer")
	if err := identity.Validate(buyer); err != nil {
		response.Error(c, err)
		return
	}

	acct, err := h.svc.GetAccount(c.Request.Context(), poolID, buyer)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, acct)
}

// Deposit 入金 (开发/演示用)
// @Summary 给身份入金
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body request.DepositRequest true "Deposit Request"
// @Success 200 {object} response.Response
// @Router /api/v1/holdings/deposit [post]
func (h *VestingHandler) Deposit(c *gin.Context) {
	var req request.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind)
		return
	}

	if err := h.svc.Deposit(c.Request.Context(), req.Owner, req.Asset, req.Amount); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

func parsePoolID(c *gin.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, errno.ErrBind
	}
	return id, nil
}
