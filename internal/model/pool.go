package model

import (
	"fmt"
	"time"
)

// VestingPool 售卖池: 持有待售代币和已收款项
// 核心设计: Version 字段实现乐观锁, 并发申购串行化在池记录上
type VestingPool struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Authority     string `gorm:"type:varchar(64);not null;index" json:"authority"` // base58 公钥
	TokenMint     string `gorm:"type:varchar(64);not null" json:"token_mint"`
	PricePerSol   uint64 `gorm:"not null" json:"price_per_sol"`            // 每 10^9 lamports 兑换的代币数
	TotalAmount   uint64 `gorm:"not null;default:0" json:"total_amount"`   // 未售出代币数
	ClaimedAmount uint64 `gorm:"not null;default:0" json:"claimed_amount"` // 已释放给买家的累计代币数
	VestingStart  int64  `gorm:"not null" json:"vesting_start"`            // unix 秒
	VestingEnd    int64  `gorm:"not null" json:"vesting_end"`
	VestingTicks  uint64 `gorm:"not null" json:"vesting_ticks"` // 释放周期总数
	Version       uint64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VestingPool) TableName() string {
	return "vesting_pools"
}

// TickDuration 单个释放周期的长度 (秒)
func (p *VestingPool) TickDuration() int64 {
	return p.VestingEnd - p.VestingStart
}

// EscrowOwner 池托管账户在持仓表中的 owner 键
func (p *VestingPool) EscrowOwner() string {
	return PoolEscrowOwner(p.ID)
}

func PoolEscrowOwner(poolID uint64) string {
	return fmt.Sprintf("pool:%d", poolID)
}
