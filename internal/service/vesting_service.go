package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vesting-core/internal/event"
	"vesting-core/internal/model"
	"vesting-core/internal/vesting"
	"vesting-core/pkg/cache"
	"vesting-core/pkg/errno"
	"vesting-core/pkg/logger"
	"vesting-core/pkg/monitor"
	"vesting-core/pkg/utils/lock"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 乐观锁冲突时的重试次数
	casMaxRetries = 3
	// 申购分布式锁 TTL
	purchaseLockTTL = 5 * time.Second
	// 池详情缓存 TTL
	poolCacheTTL = 30 * time.Second
)

// VestingService 核销引擎的事务外壳
// 每个操作是一个 gorm 事务: 记录变更与转账要么一起提交要么一起回滚
type VestingService struct {
	db       *gorm.DB
	transfer TransferService
	clock    vesting.Clock
	locker   lock.DistributedLock
	cache    cache.Cache

	payAsset string // 支付币种 (holdings.asset)
	reserve  uint64 // 收益托管保留的最低 lamports
}

func NewVestingService(db *gorm.DB, transfer TransferService, clock vesting.Clock,
	locker lock.DistributedLock, c cache.Cache, payAsset string, reserve uint64) *VestingService {
	return &VestingService{
		db:       db,
		transfer: transfer,
		clock:    clock,
		locker:   locker,
		cache:    c,
		payAsset: payAsset,
		reserve:  reserve,
	}
}

type InitializePoolParams struct {
	Authority    string
	TokenMint    string
	Amount       uint64
	VestingStart int64
	VestingEnd   int64
	VestingTicks uint64
	PricePerSol  uint64
}

// InitializePool 创建售卖池并把初始代币划入池托管
func (s *VestingService) InitializePool(ctx context.Context, p InitializePoolParams) (*model.VestingPool, error) {
	if err := vesting.ValidateSchedule(p.VestingStart, p.VestingEnd, p.VestingTicks); err != nil {
		return nil, err
	}

	pool := &model.VestingPool{
		Authority:    p.Authority,
		TokenMint:    p.TokenMint,
		PricePerSol:  p.PricePerSol,
		TotalAmount:  p.Amount,
		VestingStart: p.VestingStart,
		VestingEnd:   p.VestingEnd,
		VestingTicks: p.VestingTicks,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. 创建池记录 (先拿到 ID 才能定位托管键)
		if err := tx.Create(pool).Error; err != nil {
			return err
		}

		// 2. 初始代币从创建者划入池托管; 失败则整体回滚
		if err := s.transfer.Transfer(tx, p.TokenMint, p.Authority, pool.EscrowOwner(), p.Amount); err != nil {
			logger.Warn("pool setup transfer failed",
				zap.Uint64("pool", pool.ID), zap.Error(err))
			return errno.ErrSetupFailed
		}

		// 3. Outbox 事件
		return model.CreateOutboxMessage(tx, event.TopicPoolInitialized,
			strconv.FormatUint(pool.ID, 10), event.PoolInitializedEvent{
				PoolID:       pool.ID,
				Authority:    pool.Authority,
				TokenMint:    pool.TokenMint,
				TotalAmount:  pool.TotalAmount,
				PricePerSol:  pool.PricePerSol,
				VestingStart: pool.VestingStart,
				VestingEnd:   pool.VestingEnd,
				VestingTicks: pool.VestingTicks,
			})
	})
	if err != nil {
		return nil, err
	}

	monitor.Business.PoolInitializedTotal.Inc()
	monitor.Business.PoolSupplyRemaining.
		WithLabelValues(strconv.FormatUint(pool.ID, 10)).Set(float64(pool.TotalAmount))
	return pool, nil
}

// Purchase 申购: 懒创建账户, 换算额度, 扣池/记账/收款在同一事务内完成
// 并发申购靠池记录的乐观锁版本串行化, 外加一把池级分布式锁减少无谓冲突
func (s *VestingService) Purchase(ctx context.Context, poolID uint64, buyer string, amountPaid uint64) (*model.VestingAccount, uint64, error) {
	lockKey := fmt.Sprintf("vesting:purchase:%d", poolID)
	locked, err := s.locker.Acquire(ctx, lockKey, purchaseLockTTL)
	if err == nil && locked {
		defer s.locker.Release(ctx, lockKey)
	}
	// 锁拿不到也继续: 正确性由下面的版本 CAS 保证, 锁只是降低重试率

	var (
		acct      *model.VestingAccount
		allocated uint64
	)

	for attempt := 0; attempt < casMaxRetries; attempt++ {
		acct, allocated, err = s.purchaseOnce(ctx, poolID, buyer, amountPaid)
		if !errors.Is(err, errno.ErrConflict) {
			break
		}
		logger.Debug("purchase CAS conflict, retrying",
			zap.Uint64("pool", poolID), zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, 0, err
	}

	mint := acct.TokenMint
	monitor.Business.PurchaseTotal.WithLabelValues(mint).Inc()
	monitor.Business.PurchaseLamportsTotal.WithLabelValues(mint).Add(float64(amountPaid))
	s.invalidatePool(ctx, poolID)
	return acct, allocated, nil
}

func (s *VestingService) purchaseOnce(ctx context.Context, poolID uint64, buyer string, amountPaid uint64) (*model.VestingAccount, uint64, error) {
	var (
		acct      model.VestingAccount
		allocated uint64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := loadPool(tx, poolID)
		if err != nil {
			return err
		}
		poolVersion := pool.Version

		// 1. 账户不存在则从池的当前计划显式构造 (绝不覆盖已有进度)
		err = tx.Where("pool_id = ? AND authority = ?", poolID, buyer).First(&acct).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			acct = *vesting.NewAccountFromPool(pool, buyer, s.clock.Now())
			if err := tx.Create(&acct).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		acctVersion := acct.Version

		// 2. 纯算术: 换算额度, 扣池, 记账
		allocated, err = vesting.ApplyPurchase(pool, &acct, amountPaid)
		if err != nil {
			return err
		}

		// 3. CAS 写回池 (并发申购在这里串行化, 不可能合谋超卖)
		res := tx.Model(&model.VestingPool{}).
			Where("id = ? AND version = ?", pool.ID, poolVersion).
			Updates(map[string]interface{}{
				"total_amount": pool.TotalAmount,
				"version":      poolVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.ErrConflict
		}

		// 4. CAS 写回账户
		res = tx.Model(&model.VestingAccount{}).
			Where("id = ? AND version = ?", acct.ID, acctVersion).
			Updates(map[string]interface{}{
				"total_amount": acct.TotalAmount,
				"version":      acctVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.ErrConflict
		}

		// 5. 收款: 买家 -> 池托管; 失败则上面的记账一并回滚
		if err := s.transfer.Transfer(tx, s.payAsset, buyer, pool.EscrowOwner(), amountPaid); err != nil {
			return errno.ErrPaymentTransferFailed
		}

		return model.CreateOutboxMessage(tx, event.TopicPurchase,
			strconv.FormatUint(poolID, 10), event.PurchaseEvent{
				PoolID:     poolID,
				Buyer:      buyer,
				AmountPaid: amountPaid,
				Allocated:  allocated,
			})
	})
	if err != nil {
		return nil, 0, err
	}
	return &acct, allocated, nil
}

// ClaimProceeds 池管理员提取收益
// 可提取 = max(0, 托管 lamports - 保留储备); 为 0 时是成功的空操作
func (s *VestingService) ClaimProceeds(ctx context.Context, poolID uint64, caller string) (uint64, error) {
	var claimed uint64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := loadPool(tx, poolID)
		if err != nil {
			return err
		}

		// 权限检查先于一切状态读取
		if caller != pool.Authority {
			return errno.ErrUnauthorized
		}

		balance, err := s.transfer.Balance(tx, pool.EscrowOwner(), s.payAsset)
		if err != nil {
			return err
		}
		claimed = vesting.ClaimableProceeds(balance, s.reserve)
		if claimed == 0 {
			return nil
		}

		if err := s.transfer.Transfer(tx, s.payAsset, pool.EscrowOwner(), pool.Authority, claimed); err != nil {
			return errno.ErrPaymentTransferFailed
		}

		return model.CreateOutboxMessage(tx, event.TopicProceedsClaimed,
			strconv.FormatUint(poolID, 10), event.ProceedsClaimedEvent{
				PoolID:    poolID,
				Authority: pool.Authority,
				Amount:    claimed,
			})
	})
	if err != nil {
		return 0, err
	}

	if claimed > 0 {
		var mint string
		if p, err := s.GetPool(ctx, poolID); err == nil {
			mint = p.TokenMint
		}
		monitor.Business.ProceedsClaimedTotal.WithLabelValues(mint).Add(float64(claimed))
	}
	return claimed, nil
}

// ClaimTokens 买家按已流逝的周期数领取代币
func (s *VestingService) ClaimTokens(ctx context.Context, poolID uint64, buyer string) (uint64, error) {
	var (
		amount uint64
		mint   string
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pool, err := loadPool(tx, poolID)
		if err != nil {
			return err
		}
		mint = pool.TokenMint

		var acct model.VestingAccount
		if err := tx.Where("pool_id = ? AND authority = ?", poolID, buyer).First(&acct).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errno.ErrAccountNotFound
			}
			return err
		}
		acctVersion := acct.Version

		escrowTokens, err := s.transfer.Balance(tx, pool.EscrowOwner(), pool.TokenMint)
		if err != nil {
			return err
		}

		var ticks uint64
		amount, ticks, err = vesting.ApplyClaim(&acct, escrowTokens, s.clock.Now())
		if err != nil {
			countClaimRejection(err)
			return err
		}

		// CAS 写回账户进度
		res := tx.Model(&model.VestingAccount{}).
			Where("id = ? AND version = ?", acct.ID, acctVersion).
			Updates(map[string]interface{}{
				"claimed_amount": acct.ClaimedAmount,
				"used_ticks":     acct.UsedTicks,
				"last_claim":     acct.LastClaim,
				"version":        acctVersion + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errno.ErrConflict
		}

		// 池级累计释放量 (聚合口径, 不参与任何校验)
		if err := tx.Model(&model.VestingPool{}).
			Where("id = ?", pool.ID).
			Updates(map[string]interface{}{
				"claimed_amount": gorm.Expr("claimed_amount + ?", amount),
				"version":        gorm.Expr("version + 1"),
			}).Error; err != nil {
			return err
		}

		// 代币: 池托管 -> 买家; 失败则账本变更不提交
		if err := s.transfer.Transfer(tx, pool.TokenMint, pool.EscrowOwner(), buyer, amount); err != nil {
			return errno.ErrTokenTransferFailed
		}

		return model.CreateOutboxMessage(tx, event.TopicTokensClaimed,
			strconv.FormatUint(poolID, 10), event.TokensClaimedEvent{
				PoolID:    poolID,
				Buyer:     buyer,
				Amount:    amount,
				Ticks:     ticks,
				UsedTicks: acct.UsedTicks,
			})
	})
	if err != nil {
		return 0, err
	}

	monitor.Business.TokensClaimedTotal.WithLabelValues(mint).Add(float64(amount))
	s.invalidatePool(ctx, poolID)
	return amount, nil
}

// GetPool 读取池详情 (读多写少, 走多级缓存)
func (s *VestingService) GetPool(ctx context.Context, poolID uint64) (*model.VestingPool, error) {
	key := poolCacheKey(poolID)

	var cached model.VestingPool
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	pool, err := loadPool(s.db.WithContext(ctx), poolID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, pool, poolCacheTTL)
	return pool, nil
}

// GetAccount 读取买家账户
func (s *VestingService) GetAccount(ctx context.Context, poolID uint64, buyer string) (*model.VestingAccount, error) {
	var acct model.VestingAccount
	err := s.db.WithContext(ctx).
		Where("pool_id = ? AND authority = ?", poolID, buyer).First(&acct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// Deposit 给身份入金 (开发/演示入口, 生产环境由充值网关写入)
func (s *VestingService) Deposit(ctx context.Context, owner, asset string, amount uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.transfer.Deposit(tx, owner, asset, amount)
	})
}

func (s *VestingService) invalidatePool(ctx context.Context, poolID uint64) {
	_ = s.cache.Delete(ctx, poolCacheKey(poolID))
}

func poolCacheKey(poolID uint64) string {
	return fmt.Sprintf("vesting:pool:%d", poolID)
}

func loadPool(tx *gorm.DB, poolID uint64) (*model.VestingPool, error) {
	var pool model.VestingPool
	err := tx.Where("id = ?", poolID).First(&pool).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errno.ErrPoolNotFound
	}
	if err != nil {
		return nil, err
	}
	return &pool, nil
}

func countClaimRejection(err error) {
	var reason string
	switch {
	case errors.Is(err, errno.ErrInsufficientEscrowTokens):
		reason = "escrow"
	case errors.Is(err, errno.ErrVestingEnded):
		reason = "ended"
	case errors.Is(err, errno.ErrNotTimeToClaim):
		reason = "not_time"
	default:
		return
	}
	monitor.Business.ClaimRejectedTotal.WithLabelValues(reason).Inc()
}
