package request

import (
	"testing"

	"vesting-core/pkg/errno"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsFromSol(t *testing.T) {
	tests := []struct {
		name    string
		sol     string
		want    uint64
		wantErr error
	}{
		{"one sol", "1", 1_000_000_000, nil},
		{"fractional", "0.5", 500_000_000, nil},
		{"sub-lamport truncates", "0.0000000019", 1, nil},
		{"zero", "0", 0, nil},
		{"negative", "-1", 0, errno.ErrInvalidAmount},
		{"exceeds uint64", "20000000000", 0, errno.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sol, err := decimal.NewFromString(tt.sol)
			require.NoError(t, err)

			got, err := LamportsFromSol(sol)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
