package vesting

import (
	"testing"

	"vesting-core/internal/model"
	"vesting-core/pkg/errno"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPool() *model.VestingPool {
	return &model.VestingPool{
		ID:           1,
		Authority:    "authority",
		TokenMint:    "MINT",
		PricePerSol:  1000, // 1 SOL = 1000 token units
		TotalAmount:  1_000_000,
		VestingStart: 1000,
		VestingEnd:   1100, // tick duration = 100s
		VestingTicks: 10,
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		end     int64
		ticks   uint64
		wantErr error
	}{
		{"valid", 1000, 1100, 10, nil},
		{"end equals start", 1000, 1000, 10, errno.ErrInvalidSchedule},
		{"end before start", 1100, 1000, 10, errno.ErrInvalidSchedule},
		{"zero ticks", 1000, 1100, 0, errno.ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchedule(tt.start, tt.end, tt.ticks)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestAllocation(t *testing.T) {
	tests := []struct {
		name    string
		paid    uint64
		price   uint64
		want    uint64
		wantErr error
	}{
		{"one sol", LamportsPerSol, 1000, 1000, nil},
		{"half sol truncates", LamportsPerSol / 2, 1001, 500, nil}, // floor(500500.5) -> 500
		{"tiny payment rounds to zero", 1, 1000, 0, nil},
		{"sub-lamport truncation", 999_999_999, 1, 0, nil},
		{"zero payment", 0, 1000, 0, nil},
		{"multiplication overflow", ^uint64(0), 2, 0, errno.ErrArithmeticOverflow},
		{"max without overflow", ^uint64(0), 1, ^uint64(0) / LamportsPerSol, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Allocation(tt.paid, tt.price)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAccountFromPool(t *testing.T) {
	pool := newTestPool()
	acct := NewAccountFromPool(pool, "buyer", 1234)

	assert.Equal(t, pool.ID, acct.PoolID)
	assert.Equal(t, "buyer", acct.Authority)
	assert.Equal(t, pool.TokenMint, acct.TokenMint)
	assert.Equal(t, pool.VestingStart, acct.VestingStart)
	assert.Equal(t, pool.VestingEnd, acct.VestingEnd)
	assert.Equal(t, pool.VestingTicks, acct.VestingTicks)
	assert.Equal(t, int64(1234), acct.LastClaim)
	assert.Zero(t, acct.TotalAmount)
	assert.Zero(t, acct.ClaimedAmount)
	assert.Zero(t, acct.UsedTicks)
}

func TestApplyPurchase(t *testing.T) {
	t.Run("debits pool and credits account together", func(t *testing.T) {
		pool := newTestPool()
		acct := NewAccountFromPool(pool, "buyer", 1000)

		allocated, err := ApplyPurchase(pool, acct, 2*LamportsPerSol)
		require.NoError(t, err)
		assert.Equal(t, uint64(2000), allocated)
		assert.Equal(t, uint64(1_000_000-2000), pool.TotalAmount)
		assert.Equal(t, uint64(2000), acct.TotalAmount)
	})

	t.Run("insufficient pool supply leaves both records unchanged", func(t *testing.T) {
		pool := newTestPool()
		pool.TotalAmount = 100
		acct := NewAccountFromPool(pool, "buyer", 1000)

		allocated, err := ApplyPurchase(pool, acct, LamportsPerSol) // wants 1000 > 100
		assert.Equal(t, errno.ErrInsufficientPoolSupply, err)
		assert.Zero(t, allocated)
		assert.Equal(t, uint64(100), pool.TotalAmount)
		assert.Zero(t, acct.TotalAmount)
	})

	t.Run("overflow leaves both records unchanged", func(t *testing.T) {
		pool := newTestPool()
		pool.PricePerSol = ^uint64(0)
		acct := NewAccountFromPool(pool, "buyer", 1000)

		_, err := ApplyPurchase(pool, acct, ^uint64(0))
		assert.Equal(t, errno.ErrArithmeticOverflow, err)
		assert.Equal(t, uint64(1_000_000), pool.TotalAmount)
		assert.Zero(t, acct.TotalAmount)
	})

	t.Run("allocations sum back to initial deposit", func(t *testing.T) {
		pool := newTestPool()
		initial := pool.TotalAmount
		acct := NewAccountFromPool(pool, "buyer", 1000)

		var sum uint64
		payments := []uint64{LamportsPerSol, LamportsPerSol / 3, 7 * LamportsPerSol, 123_456_789}
		for _, paid := range payments {
			allocated, err := ApplyPurchase(pool, acct, paid)
			require.NoError(t, err)
			sum += allocated
		}

		assert.Equal(t, initial, pool.TotalAmount+sum)
		assert.Equal(t, sum, acct.TotalAmount)
	})
}

func TestApplyClaim(t *testing.T) {
	// 账户基线: 1000 代币, 10 个周期, 周期长 100s, 上次领取于 t=1000
	newAcct := func() *model.VestingAccount {
		return &model.VestingAccount{
			PoolID:       1,
			Authority:    "buyer",
			TotalAmount:  1000,
			VestingStart: 1000,
			VestingEnd:   1100,
			VestingTicks: 10,
			LastClaim:    1000,
		}
	}

	t.Run("two elapsed ticks release a fifth of the allocation", func(t *testing.T) {
		acct := newAcct()

		// elapsed = 250 -> 2 full ticks, partial 50s discarded
		amount, ticks, err := ApplyClaim(acct, 1000, 1250)
		require.NoError(t, err)
		assert.Equal(t, uint64(200), amount) // floor(1000*2/10)
		assert.Equal(t, uint64(2), ticks)
		assert.Equal(t, uint64(200), acct.ClaimedAmount)
		assert.Equal(t, uint64(2), acct.UsedTicks)
		assert.Equal(t, int64(1250), acct.LastClaim) // policy: reset to now, remainder forfeited
	})

	t.Run("before vesting start", func(t *testing.T) {
		acct := newAcct()
		acct.VestingStart = 5000
		acct.VestingEnd = 5100

		_, _, err := ApplyClaim(acct, 1000, 1200)
		assert.Equal(t, errno.ErrNotTimeToClaim, err)
		assert.Zero(t, acct.ClaimedAmount)
		assert.Zero(t, acct.UsedTicks)
	})

	t.Run("before one full tick has elapsed", func(t *testing.T) {
		acct := newAcct()

		_, _, err := ApplyClaim(acct, 1000, 1099) // elapsed = 99 < 100
		assert.Equal(t, errno.ErrNotTimeToClaim, err)
		assert.Zero(t, acct.ClaimedAmount)
		assert.Zero(t, acct.UsedTicks)
		assert.Equal(t, int64(1000), acct.LastClaim)
	})

	t.Run("all ticks consumed", func(t *testing.T) {
		acct := newAcct()
		acct.UsedTicks = 10
		acct.ClaimedAmount = 1000

		// elapsed time is irrelevant once the schedule is exhausted
		_, _, err := ApplyClaim(acct, 1000, 99999)
		assert.Equal(t, errno.ErrVestingEnded, err)
		assert.Equal(t, uint64(1000), acct.ClaimedAmount)
		assert.Equal(t, uint64(10), acct.UsedTicks)
	})

	t.Run("escrow below allocation checked first", func(t *testing.T) {
		acct := newAcct()
		acct.UsedTicks = 10 // would also be VestingEnded, but escrow wins

		_, _, err := ApplyClaim(acct, 999, 1250)
		assert.Equal(t, errno.ErrInsufficientEscrowTokens, err)
	})

	t.Run("elapsed ticks clamp at remaining schedule", func(t *testing.T) {
		acct := newAcct()
		acct.UsedTicks = 8
		acct.ClaimedAmount = 800

		// elapsed = 5000 -> 50 ticks, only 2 remain
		amount, ticks, err := ApplyClaim(acct, 1000, 6000)
		require.NoError(t, err)
		assert.Equal(t, uint64(2), ticks)
		assert.Equal(t, uint64(200), amount)
		assert.Equal(t, uint64(10), acct.UsedTicks)
		assert.Equal(t, uint64(1000), acct.ClaimedAmount)
	})

	t.Run("rounding always favors the pool", func(t *testing.T) {
		acct := newAcct()
		acct.TotalAmount = 7 // 7 tokens over 10 ticks

		amount, ticks, err := ApplyClaim(acct, 7, 1100) // 1 tick
		require.NoError(t, err)
		assert.Equal(t, uint64(1), ticks)
		assert.Zero(t, amount) // floor(7*1/10) = 0, dust stays in escrow
	})

	t.Run("claimed never exceeds total over a full schedule", func(t *testing.T) {
		acct := newAcct()
		acct.TotalAmount = 997 // does not divide evenly by 10

		now := int64(1000)
		for acct.UsedTicks < acct.VestingTicks {
			now += 100
			_, _, err := ApplyClaim(acct, 997, now)
			require.NoError(t, err)
			assert.LessOrEqual(t, acct.ClaimedAmount, acct.TotalAmount)
		}

		// one tick's worth each time: floor(997/10)=99, ten times = 990, 7 dust units remain
		assert.Equal(t, uint64(990), acct.ClaimedAmount)
		assert.Equal(t, uint64(10), acct.UsedTicks)

		_, _, err := ApplyClaim(acct, 997, now+100)
		assert.Equal(t, errno.ErrVestingEnded, err)
	})

	t.Run("purchases between claims keep the invariant", func(t *testing.T) {
		pool := newTestPool()
		acct := NewAccountFromPool(pool, "buyer", 1000)

		_, err := ApplyPurchase(pool, acct, LamportsPerSol) // 1000 tokens
		require.NoError(t, err)

		_, _, err = ApplyClaim(acct, acct.TotalAmount, 1300) // 3 ticks -> 300
		require.NoError(t, err)

		_, err = ApplyPurchase(pool, acct, LamportsPerSol) // total now 2000
		require.NoError(t, err)

		_, _, err = ApplyClaim(acct, acct.TotalAmount, 2000) // clamped to 7 remaining ticks
		require.NoError(t, err)

		assert.Equal(t, uint64(10), acct.UsedTicks)
		assert.LessOrEqual(t, acct.ClaimedAmount, acct.TotalAmount)
	})
}

func TestClaimableProceeds(t *testing.T) {
	tests := []struct {
		name    string
		balance uint64
		reserve uint64
		want    uint64
	}{
		{"above reserve", 5_000_000, 2_000_000, 3_000_000},
		{"exactly reserve", 2_000_000, 2_000_000, 0},
		{"below reserve saturates to zero", 1_000_000, 2_000_000, 0},
		{"zero reserve", 42, 0, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClaimableProceeds(tt.balance, tt.reserve))
		})
	}
}
