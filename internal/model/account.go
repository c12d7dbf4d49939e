package model

import "time"

// VestingAccount 买家侧记录: 一个买家对一个池的累计额度与领取进度
// 创建时从池冻结释放计划 (后续修改池不影响已有账户)
type VestingAccount struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PoolID        uint64 `gorm:"not null;uniqueIndex:idx_pool_buyer" json:"pool_id"`
	Authority     string `gorm:"type:varchar(64);not null;uniqueIndex:idx_pool_buyer" json:"authority"` // 买家 base58 公钥
	TokenMint     string `gorm:"type:varchar(64);not null" json:"token_mint"`
	TotalAmount   uint64 `gorm:"not null;default:0" json:"total_amount"`   // 累计分配的代币数
	ClaimedAmount uint64 `gorm:"not null;default:0" json:"claimed_amount"` // 已转给买家的代币数
	VestingStart  int64  `gorm:"not null" json:"vesting_start"`
	VestingEnd    int64  `gorm:"not null" json:"vesting_end"`
	VestingTicks  uint64 `gorm:"not null" json:"vesting_ticks"`
	UsedTicks     uint64 `gorm:"not null;default:0" json:"used_ticks"` // 已消耗的释放周期数
	LastClaim     int64  `gorm:"not null" json:"last_claim"`           // 最近一次成功领取时间 (创建时 = 创建时间)
	Version       uint64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VestingAccount) TableName() string {
	return "vesting_accounts"
}

// TickDuration 单个释放周期的长度 (秒), 以账户冻结的计划为准
func (a *VestingAccount) TickDuration() int64 {
	return a.VestingEnd - a.VestingStart
}

// RemainingTicks 尚未消耗的释放周期数
func (a *VestingAccount) RemainingTicks() uint64 {
	if a.UsedTicks >= a.VestingTicks {
		return 0
	}
	return a.VestingTicks - a.UsedTicks
}
