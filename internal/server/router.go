package server

import (
	"vesting-core/internal/handler"
	"vesting-core/internal/handler/response"

	"vesting-core/pkg/monitor"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewHTTPRouter 初始化并返回一个 Gin Engine
func NewHTTPRouter(vestingHandler *handler.VestingHandler) *gin.Engine {
	// 0. 初始化监控指标
	monitor.Init()

	// 1. 创建 Engine (使用默认中间件: Logger, Recovery)
	r := gin.Default()

	// 2. 注册通用中间件
	r.Use(monitor.PrometheusMiddleware())

	// 3. 注册基础路由
	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 4. 注册 API 路由组
	api := r.Group("/api/v1")
	{
		api.GET("/ping", func(c *gin.Context) {
			response.Success(c, gin.H{"pong": true})
		})

		pools := api.Group("/pools")
		{
			pools.POST("", vestingHandler.InitializePool)
			pools.GET("/:id", vestingHandler.GetPool)
			pools.POST("/:id/purchase", vestingHandler.Purchase)
			pools.POST("/:id/claim-proceeds", vestingHandler.ClaimProceeds)
			pools.POST("/:id/claim-tokens", vestingHandler.ClaimTokens)
			pools.GET("/:id/accounts/:buyer", vestingHandler.GetAccount)
		}

		api.POST("/holdings/deposit", vestingHandler.Deposit)
	}

	return r
}
