package service

import (
	"context"
	"strconv"
	"time"

	"vesting-core/internal/model"
	"vesting-core/pkg/logger"
	"vesting-core/pkg/monitor"
	"vesting-core/pkg/utils/lock"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CronService struct {
	cron  *cron.Cron
	db    *gorm.DB
	redis *redis.Client
}

func NewCronService(db *gorm.DB, rdb *redis.Client) *CronService {
	return &CronService{
		cron:  cron.New(),
		db:    db,
		redis: rdb,
	}
}

func (s *CronService) Start() {
	// 每分钟刷新各池剩余供应量指标
	_, _ = s.cron.AddFunc("@every 1m", s.RefreshPoolGauges)

	s.cron.Start()
	logger.Info("Cron Service started")
}

func (s *CronService) Stop() {
	s.cron.Stop()
	logger.Info("Cron Service stopped")
}

// RefreshPoolGauges 把每个池的未售余量同步到 Prometheus gauge
func (s *CronService) RefreshPoolGauges() {
	ctx := context.Background()
	lockKey := "cron:lock:pool_gauges"

	// 分布式锁: 多实例部署时只让一个节点刷新
	locker := lock.NewRedisLock(s.redis)
	locked, err := locker.Acquire(ctx, lockKey, 10*time.Second)
	if err != nil || !locked {
		logger.Debug("RefreshPoolGauges: lock held elsewhere, skipping")
		return
	}
	defer locker.Release(ctx, lockKey)

	var pools []model.VestingPool
	if err := s.db.Find(&pools).Error; err != nil {
		logger.Error("pool gauge refresh query failed", zap.Error(err))
		return
	}

	for _, p := range pools {
		monitor.Business.PoolSupplyRemaining.
			WithLabelValues(strconv.FormatUint(p.ID, 10)).Set(float64(p.TotalAmount))
	}
}
