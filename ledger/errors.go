package ledger

import (
	"errors"
	"strings"
)

// Construction errors
var (
	ErrAlreadyConstructed = errors.New("C1|AlreadyConstructed: Construct may only run once for the ledger.")
	ErrZeroInitialSupply  = errors.New("C2|ZeroInitialSupply: Initial supply must be nonzero.")
	ErrSupplyTooLarge     = errors.New("C3|SupplyTooLarge: Initial supply must fit in 255 bits.")
	ErrStringTooLong      = errors.New("C4|StringTooLong: Name and symbol are limited to 31 bytes.")
)

// Transfer errors
var (
	ErrZeroRecipient       = errors.New("X1|ZeroRecipient: Transfers to the zero address are rejected.")
	ErrInsufficientBalance = errors.New("X2|InsufficientBalance: Amount exceeds the sender balance.")
)

// Approval errors
var (
	ErrApprovalTooLarge      = errors.New("A1|ApprovalTooLarge: Approval must fit in 255 bits unless it is the unlimited sentinel.")
	ErrInsufficientAllowance = errors.New("A2|InsufficientAllowance: Amount exceeds the spender allowance.")
)

// GetErrorName extracts the error name from the error message.
func GetErrorName(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.Index(msg, "|"); i >= 0 {
		msg = msg[i+1:]
	}
	if i := strings.Index(msg, ":"); i >= 0 {
		return msg[:i]
	}
	return msg
}
