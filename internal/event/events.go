package event

// Outbox topics
const (
	TopicPoolInitialized = "vesting_events_pool_initialized"
	TopicPurchase        = "vesting_events_purchase"
	TopicTokensClaimed   = "vesting_events_tokens_claimed"
	TopicProceedsClaimed = "vesting_events_proceeds_claimed"
)

// PoolInitializedEvent 池创建事件
type PoolInitializedEvent struct {
	PoolID       uint64 `json:"pool_id"`
	Authority    string `json:"authority"`
	TokenMint    string `json:"token_mint"`
	TotalAmount  uint64 `json:"total_amount"`
	PricePerSol  uint64 `json:"price_per_sol"`
	VestingStart int64  `json:"vesting_start"`
	VestingEnd   int64  `json:"vesting_end"`
	VestingTicks uint64 `json:"vesting_ticks"`
}

// PurchaseEvent 申购事件
type PurchaseEvent struct {
	PoolID     uint64 `json:"pool_id"`
	Buyer      string `json:"buyer"`
	AmountPaid uint64 `json:"amount_paid"` // lamports
	Allocated  uint64 `json:"allocated"`   // token units
}

// TokensClaimedEvent 代币领取事件
type TokensClaimedEvent struct {
	PoolID    uint64 `json:"pool_id"`
	Buyer     string `json:"buyer"`
	Amount    uint64 `json:"amount"`
	Ticks     uint64 `json:"ticks"`
	UsedTicks uint64 `json:"used_ticks"`
}

// ProceedsClaimedEvent 收益提取事件
type ProceedsClaimedEvent struct {
	PoolID    uint64 `json:"pool_id"`
	Authority string `json:"authority"`
	Amount    uint64 `json:"amount"` // lamports
}
