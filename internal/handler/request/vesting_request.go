package request

import (
	"vesting-core/internal/vesting"
	"vesting-core/pkg/errno"

	"github.com/shopspring/decimal"
)

type InitializePoolRequest struct {
	Authority    string `json:"authority" binding:"required"`
	TokenMint    string `json:"token_mint" binding:"required"`
	Amount       uint64 `json:"amount" binding:"required"`       // token units
	VestingStart int64  `json:"vesting_start" binding:"required"` // unix 秒
	VestingEnd   int64  `json:"vesting_end" binding:"required"`
	VestingTicks uint64 `json:"vesting_ticks" binding:"required"`
	PricePerSol  uint64 `json:"price_per_sol" binding:"required"`
}

type PurchaseRequest struct {
	Buyer string `json:"buyer" binding:"required"`
	// AmountSol 以 SOL 计的支付金额, 入账前换算为 lamports
	AmountSol decimal.Decimal `json:"amount_sol" binding:"required"`
}

type ClaimProceedsRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type ClaimTokensRequest struct {
	Buyer string `json:"buyer" binding:"required"`
}

type DepositRequest struct {
	Owner  string `json:"owner" binding:"required"`
	Asset  string `json:"asset" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

// LamportsFromSol 把 SOL 十进制金额换算为 lamports
// 不足 1 lamport 的部分截断; 负数或超出 uint64 范围报错
func LamportsFromSol(sol decimal.Decimal) (uint64, error) {
	if sol.IsNegative() {
		return 0, errno.ErrInvalidAmount
	}
	lamports := sol.Mul(decimal.NewFromInt(vesting.LamportsPerSol)).Truncate(0)
	bi := lamports.BigInt()
	if !bi.IsUint64() {
		return 0, errno.ErrInvalidAmount
	}
	return bi.Uint64(), nil
}
