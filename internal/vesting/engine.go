package vesting

import (
	"math/bits"

	"vesting-core/internal/model"
	"vesting-core/pkg/errno"
)

// LamportsPerSol 支付币种的基础单位换算 (1 SOL = 10^9 lamports)
const LamportsPerSol = 1_000_000_000

// ValidateSchedule 校验释放计划: end 必须晚于 start, 周期数必须为正
func ValidateSchedule(start, end int64, ticks uint64) error {
	if end <= start || ticks == 0 {
		return errno.ErrInvalidSchedule
	}
	return nil
}

// Allocation 按池价格把支付金额换算成代币额度
// allocated = floor(amountPaid * pricePerSol / 10^9)
// 乘法在除法之前溢出 uint64 时返回 ErrArithmeticOverflow
func Allocation(amountPaid, pricePerSol uint64) (uint64, error) {
	hi, lo := bits.Mul64(amountPaid, pricePerSol)
	if hi != 0 {
		return 0, errno.ErrArithmeticOverflow
	}
	return lo / LamportsPerSol, nil
}

// NewAccountFromPool 从池的当前计划显式构造买家账户
// 只在账户不存在时调用, 绝不覆盖已有账户的进度
func NewAccountFromPool(pool *model.VestingPool, buyer string, now int64) *model.VestingAccount {
	return &model.VestingAccount{
		PoolID:       pool.ID,
		Authority:    buyer,
		TokenMint:    pool.TokenMint,
		VestingStart: pool.VestingStart,
		VestingEnd:   pool.VestingEnd,
		VestingTicks: pool.VestingTicks,
		LastClaim:    now,
	}
}

// ApplyPurchase 把一笔支付记到池和账户上
// 成功时同时扣减池余量并累加账户额度; 任何错误都不修改入参
func ApplyPurchase(pool *model.VestingPool, acct *model.VestingAccount, amountPaid uint64) (uint64, error) {
	allocated, err := Allocation(amountPaid, pool.PricePerSol)
	if err != nil {
		return 0, err
	}
	if allocated > pool.TotalAmount {
		return 0, errno.ErrInsufficientPoolSupply
	}
	if acct.TotalAmount+allocated < acct.TotalAmount {
		return 0, errno.ErrArithmeticOverflow
	}

	pool.TotalAmount -= allocated
	acct.TotalAmount += allocated
	return allocated, nil
}

// ApplyClaim 计算并记入一次代币领取
// escrowTokens 是池托管账户当前的代币余额, now 来自 Clock
// 前置检查按顺序执行, 第一个失败即返回; 失败时不修改账户
//
// 领取策略: LastClaim 直接置为 now, 不足一个周期的剩余时间作废
// (沿用原始合约行为; 频繁领取的买家会损失零头时间, 属既定策略而非缺陷)
func ApplyClaim(acct *model.VestingAccount, escrowTokens uint64, now int64) (amount uint64, ticks uint64, err error) {
	if escrowTokens < acct.TotalAmount {
		return 0, 0, errno.ErrInsufficientEscrowTokens
	}
	if acct.UsedTicks >= acct.VestingTicks {
		return 0, 0, errno.ErrVestingEnded
	}

	tickDuration := acct.TickDuration()
	if tickDuration <= 0 {
		return 0, 0, errno.ErrInvalidSchedule
	}
	elapsed := now - acct.LastClaim
	if now < acct.VestingStart || elapsed < tickDuration {
		return 0, 0, errno.ErrNotTimeToClaim
	}

	// 一次领取可以消耗多个周期; 不足一个周期的部分永远不计
	ticks = uint64(elapsed / tickDuration)
	if remaining := acct.RemainingTicks(); ticks > remaining {
		// UsedTicks 封顶在 VestingTicks, 超出计划的流逝时间不产生额外释放
		ticks = remaining
	}

	// amount = floor(TotalAmount * ticks / VestingTicks)
	// 唯一的取整点, 永远向下 (对买家不利), 保证释放总量不超过存入总量
	amount, err = mulDiv(acct.TotalAmount, ticks, acct.VestingTicks)
	if err != nil {
		return 0, 0, err
	}
	if acct.ClaimedAmount+amount < acct.ClaimedAmount {
		return 0, 0, errno.ErrArithmeticOverflow
	}

	acct.ClaimedAmount += amount
	acct.UsedTicks += ticks
	acct.LastClaim = now
	return amount, ticks, nil
}

// ClaimableProceeds 可提取的收益 = max(0, 托管余额 - 保留储备)
// 余额低于储备时饱和到 0, 不允许下溢
func ClaimableProceeds(balance, reserve uint64) uint64 {
	if balance <= reserve {
		return 0
	}
	return balance - reserve
}

// mulDiv 128 位中间积的 floor(a*b/d)
// ticks 被封顶后商必然落在 uint64 内, hi >= d 只可能由调用方破坏不变量导致
func mulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, errno.ErrInvalidSchedule
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, errno.ErrArithmeticOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}
