// Package service exposes the account operations the HTTP layer consumes. It
// sits between the handlers and the registry: translating requests into
// domain calls, checkpointing state on lifecycle changes, and emitting
// best-effort account events.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banking-account-core/internal/domain/account"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount opens a new account of the given type. For credit card
	// accounts initialDeposit is ignored and creditLimit is required.
	CreateAccount(ctx context.Context, typ account.Type, holderName string, initialDeposit, creditLimit decimal.Decimal) (account.Account, error)

	// GetAccount retrieves an account by its number
	GetAccount(number string) (account.Account, error)

	// ListAccounts returns accounts filtered by status ("active", "closed" or
	// "" for all) and optional type
	ListAccounts(status string, typ account.Type) ([]account.Account, error)

	// SearchAccounts returns the accounts whose holder name contains the
	// given substring, case-insensitively
	SearchAccounts(holderName string) []account.Account

	// Deposit credits the account. On credit card accounts it pays down debt.
	Deposit(ctx context.Context, number string, amount decimal.Decimal) (account.Account, error)

	// Withdraw debits the account, subject to per-type rules. On credit card
	// accounts it records a purchase.
	Withdraw(ctx context.Context, number string, amount decimal.Decimal) (account.Account, error)

	// Transfer atomically moves amount between two accounts
	Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal) error

	// MakePurchase charges a purchase against a credit card account
	MakePurchase(ctx context.Context, number string, amount decimal.Decimal, description string) (account.Account, error)

	// MakePayment pays down the debt on a credit card account
	MakePayment(ctx context.Context, number string, amount decimal.Decimal) (account.Account, error)

	// SetInterestRate changes the rate on an investment or credit card account
	SetInterestRate(ctx context.Context, number string, rate decimal.Decimal) (account.Account, error)

	// CloseAccount deactivates the account and checkpoints the store
	CloseAccount(ctx context.Context, number string) (account.Account, error)

	// ReopenAccount reactivates a closed account and checkpoints the store
	ReopenAccount(ctx context.Context, number string) (account.Account, error)

	// Transactions returns ledger entries, optionally filtered by label, time
	// range, or capped to the most recent n
	Transactions(number string, label string, from, to *time.Time, recent int) ([]account.Transaction, error)
}
