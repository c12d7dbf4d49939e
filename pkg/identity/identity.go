package identity

import (
	"vesting-core/pkg/errno"

	"github.com/mr-tron/base58"
)

// PublicKeyLength 身份标识固定为 32 字节公钥
const PublicKeyLength = 32

// Validate checks that s is a base58 encoded 32-byte public key.
func Validate(s string) error {
	raw, err := base58.Decode(s)
	if err != nil {
		return errno.ErrInvalidIdentity
	}
	if len(raw) != PublicKeyLength {
		return errno.ErrInvalidIdentity
	}
	return nil
}

// Short returns an abbreviated form for logs: first 4 + last 4 characters.
func Short(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}
