package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics 定义业务监控指标
type BusinessMetrics struct {
	PoolInitializedTotal  prometheus.Counter
	PurchaseTotal         *prometheus.CounterVec
	PurchaseLamportsTotal *prometheus.CounterVec
	TokensClaimedTotal    *prometheus.CounterVec
	ProceedsClaimedTotal  *prometheus.CounterVec
	PoolSupplyRemaining   *prometheus.GaugeVec
	ClaimRejectedTotal    *prometheus.CounterVec
}

// Global Metrics Instance
var Business *BusinessMetrics

// InitBusinessMetrics 初始化业务指标
func InitBusinessMetrics() {
	Business = &BusinessMetrics{
		PoolInitializedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vesting_pool_initialized_total",
			Help: "The total number of vesting pools initialized",
		}),
		PurchaseTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesting_purchase_total",
			Help: "The total number of successful purchases",
		}, []string{"mint"}),
		PurchaseLamportsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesting_purchase_lamports_total",
			Help: "The total lamports paid into pool escrows",
		}, []string{"mint"}),
		TokensClaimedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesting_tokens_claimed_total",
			Help: "The total token units released to buyers",
		}, []string{"mint"}),
		ProceedsClaimedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesting_proceeds_claimed_total",
			Help: "The total lamports withdrawn by pool authorities",
		}, []string{"mint"}),
		PoolSupplyRemaining: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "vesting_pool_supply_remaining",
			Help: "Unsold token units remaining per pool",
		}, []string{"pool"}),
		ClaimRejectedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vesting_claim_rejected_total",
			Help: "Token claims rejected, by reason",
		}, []string{"reason"}),
	}
}
