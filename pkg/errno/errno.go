package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
	ErrConflict         = Errno{Code: 10005, Message: "Concurrent modification, please retry"}
	ErrInvalidAmount    = Errno{Code: 10006, Message: "Amount must be non-negative and within uint64 range"}
)

// Identity Errors (20000+)
var (
	ErrInvalidIdentity = Errno{Code: 20101, Message: "Identity is not a valid base58 public key"}
	ErrUnauthorized    = Errno{Code: 20102, Message: "Caller is not the record authority"}
)

// Vesting Errors (30000+)
// 分类: 30100 配置/生命周期, 30200 额度/算术, 30300 领取
var (
	ErrPoolNotFound    = Errno{Code: 30101, Message: "Vesting pool not found"}
	ErrAccountNotFound = Errno{Code: 30102, Message: "Vesting account not found"}
	ErrInvalidSchedule = Errno{Code: 30103, Message: "Vesting schedule invalid: end must be after start and ticks > 0"}
	ErrSetupFailed     = Errno{Code: 30104, Message: "Pool setup failed: initial token deposit was not transferred"}

	ErrInsufficientPoolSupply = Errno{Code: 30201, Message: "Pool supply insufficient for requested allocation"}
	ErrArithmeticOverflow     = Errno{Code: 30202, Message: "Arithmetic overflow in allocation computation"}
	ErrPaymentTransferFailed  = Errno{Code: 30203, Message: "Payment transfer failed"}
	ErrInsufficientFunds      = Errno{Code: 30204, Message: "Source balance insufficient for transfer"}

	ErrInsufficientEscrowTokens = Errno{Code: 30301, Message: "Pool token escrow below account allocation"}
	ErrVestingEnded             = Errno{Code: 30302, Message: "All vesting ticks already consumed"}
	ErrNotTimeToClaim           = Errno{Code: 30303, Message: "A full vesting tick has not elapsed yet"}
	ErrTokenTransferFailed      = Errno{Code: 30304, Message: "Token transfer failed"}
)
