package service

import (
	"errors"

	"vesting-core/internal/model"
	"vesting-core/pkg/errno"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransferService 价值转移服务: 在持仓表上原子地移动一种资产
// 在调用方的事务内执行, 失败时整个事务回滚, 不存在半完成的转账
type TransferService interface {
	// Transfer 从 from 转 amount 个 asset 给 to
	// 源余额不足返回 errno.ErrInsufficientFunds, 其余错误视为基础设施故障
	Transfer(tx *gorm.DB, asset, from, to string, amount uint64) error

	// Balance 查询持仓余额, 不存在的持仓视为 0
	Balance(tx *gorm.DB, owner, asset string) (uint64, error)

	// Deposit 给某个持仓直接入账 (运维入金用)
	Deposit(tx *gorm.DB, owner, asset string, amount uint64) error
}

// LedgerTransferService 基于 holdings 表的实现
type LedgerTransferService struct{}

func NewLedgerTransferService() *LedgerTransferService {
	return &LedgerTransferService{}
}

func (s *LedgerTransferService) Transfer(tx *gorm.DB, asset, from, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	// 1. 扣减源持仓
	// balance >= ? 写进 WHERE, 扣减和余额检查在数据库里一步完成
	res := tx.Model(&model.Holding{}).
		Where("owner = ? AND asset = ? AND balance >= ?", from, asset, amount).
		Updates(map[string]interface{}{
			"balance": gorm.Expr("balance - ?", amount),
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errno.ErrInsufficientFunds
	}

	// 2. 入账目标持仓 (不存在则创建)
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner"}, {Name: "asset"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance": gorm.Expr("holdings.balance + ?", amount),
			"version": gorm.Expr("holdings.version + 1"),
		}),
	}).Create(&model.Holding{Owner: to, Asset: asset, Balance: amount}).Error; err != nil {
		return err
	}

	return nil
}

func (s *LedgerTransferService) Balance(tx *gorm.DB, owner, asset string) (uint64, error) {
	var h model.Holding
	err := tx.Where("owner = ? AND asset = ?", owner, asset).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return h.Balance, nil
}

// Deposit 给某个持仓直接入账 (运维/测试入金用)
func (s *LedgerTransferService) Deposit(tx *gorm.DB, owner, asset string, amount uint64) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner"}, {Name: "asset"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"balance": gorm.Expr("holdings.balance + ?", amount),
			"version": gorm.Expr("holdings.version + 1"),
		}),
	}).Create(&model.Holding{Owner: owner, Asset: asset, Balance: amount}).Error
}
