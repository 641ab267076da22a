package donations

import "errors"

var (
	ErrNotFound       = errors.New("donation not found")
	ErrAmountMismatch = errors.New("verified amount does not match expected amount")
	ErrInvalidAmount  = errors.New("donation amount must be positive")
	ErrChipInClosed   = errors.New("event does not accept chip-ins")
)
