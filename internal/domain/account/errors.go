package account

import "errors"

// Error kinds surfaced by account operations. All of them are recoverable:
// callers receive them verbatim and decide what to do, no internal retry.
var (
	// ErrInvalidAmount reports a non-positive or otherwise disallowed numeric input.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAccountClosed reports a mutation on an inactive account, or an attempt
	// to reopen an account that is already active.
	ErrAccountClosed = errors.New("account is closed")

	// ErrInsufficientFunds reports a withdrawal, transfer, payment or closure
	// that exceeds the available balance or debt.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrTransactionLimit reports a daily, monthly or credit-limit rule breach.
	ErrTransactionLimit = errors.New("transaction limit exceeded")

	// ErrInvalidAccount reports a lookup miss or a missing account reference.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrEmptyHolderName reports an attempt to open an account without a
	// holder name.
	ErrEmptyHolderName = errors.New("account holder name cannot be empty")
)
