package model

import "time"

// Holding 持仓表: 价值转移服务的账本
// owner 是 base58 身份或池托管键 ("pool:<id>"), asset 是代币 mint 或 "SOL"
type Holding struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Owner   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_owner_asset" json:"owner"`
	Asset   string `gorm:"type:varchar(64);not null;uniqueIndex:idx_owner_asset" json:"asset"`
	Balance uint64 `gorm:"not null;default:0" json:"balance"`
	Version uint64 `gorm:"not null;default:0" json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Holding) TableName() string {
	return "holdings"
}
