package main

import (
	"context"
	"fmt"
	"time"

	"vesting-core/internal/handler"
	"vesting-core/internal/server"
	"vesting-core/internal/service"
	"vesting-core/internal/service/mq"
	"vesting-core/internal/vesting"

	"vesting-core/pkg/cache"
	"vesting-core/pkg/config"
	"vesting-core/pkg/database"
	"vesting-core/pkg/logger"
	"vesting-core/pkg/utils/lock"

	"go.uber.org/zap"
)

// @title Vesting Core API
// @version 1.0
// @description Token vesting ledger API

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. 构造 DSN 并连接数据库
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("postgres connect failed", zap.Error(err))
	}

	// 3. 连接 Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("redis connect failed", zap.Error(err))
	}

	// 4. 多级缓存 (L1: Memory, L2: Redis)
	localCache := cache.NewMemoryCache(1*time.Minute, 5*time.Minute)
	redisCache := cache.NewRedisCache(rdb)
	multiCache := cache.NewMultiLevelCache(localCache, redisCache)

	// 5. 核心服务装配
	transfer := service.NewLedgerTransferService()
	locker := lock.NewRedisLock(rdb)
	vestingService := service.NewVestingService(
		db, transfer, vesting.SystemClock(), locker, multiCache,
		config.Global.Vesting.PaymentAsset,
		config.Global.Vesting.EscrowReserve,
	)

	// 6. 消息队列 (outbox relay 的投递目标)
	var producer mq.Producer
	if config.Global.Redis.MQType == "kafka" {
		logger.Info("using kafka as message queue")
		producer = mq.NewKafkaProducer(config.Global.Kafka.Brokers)
	} else {
		logger.Info("using redis streams as message queue")
		producer = mq.NewRedisProducer(rdb)
	}

	// 7. 启动消息中继服务
	relayService := service.NewRelayService(db, producer)
	go relayService.Start(context.Background())

	// 8. 定时任务 (池供应量指标刷新)
	cronService := service.NewCronService(db, rdb)
	cronService.Start()
	defer cronService.Stop()

	// 9. HTTP Router + 启动
	vestingHandler := handler.NewVestingHandler(vestingService)
	r := server.NewHTTPRouter(vestingHandler)

	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	// 10. 退出后资源清理
	logger.Info("closing database connections...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("shutdown complete")
}
