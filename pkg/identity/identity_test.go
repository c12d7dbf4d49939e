package identity

import (
	"testing"

	"vesting-core/pkg/errno"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := base58.Encode(make([]byte, 32))

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid 32-byte key", valid, nil},
		{"empty", "", errno.ErrInvalidIdentity},
		{"not base58", "0OIl+/", errno.ErrInvalidIdentity},
		{"wrong length", base58.Encode([]byte{1, 2, 3}), errno.ErrInvalidIdentity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, Validate(tt.input))
		})
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", Short("abc"))
	assert.Equal(t, "1111..1111", Short(base58.Encode(make([]byte, 32))))
}
