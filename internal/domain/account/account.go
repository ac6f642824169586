// Package account implements the polymorphic account domain model: the four
// account variants, the per-account transaction ledger, and the per-type
// business rules. Every mutating operation validates before it touches state,
// appends a ledger entry recording the post-mutation balance, and is
// serialized by a per-account mutex.
package account

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Type identifies one of the closed set of account variants. The values match
// the type strings of the persisted record format.
type Type string

const (
	TypeBank       Type = "Bank Account"
	TypeChecking   Type = "Checking Account"
	TypeInvestment Type = "Investment Account"
	TypeCreditCard Type = "Credit Card Account"
)

// ParseType maps a persisted type string to a Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeBank, TypeChecking, TypeInvestment, TypeCreditCard:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrInvalidAccount, s)
	}
}

// Account number ranges. Numbers are 9 digits: a type prefix plus a random
// six-digit suffix. Uniqueness across the process is the registry's job.
const (
	bankNumberPrefix       = 100000000
	investmentNumberPrefix = 200000000
	checkingNumberPrefix   = 300000000
	creditCardNumberPrefix = 400000000
)

func newAccountNumber(t Type) string {
	var prefix int
	switch t {
	case TypeBank:
		prefix = bankNumberPrefix
	case TypeInvestment:
		prefix = investmentNumberPrefix
	case TypeChecking:
		prefix = checkingNumberPrefix
	case TypeCreditCard:
		prefix = creditCardNumberPrefix
	}
	return fmt.Sprintf("%d", prefix+rand.IntN(1000000))
}

// Account is the behavior shared by all variants. Implementations live in
// this package only; the unexported transfer hooks keep the set closed.
type Account interface {
	Number() string
	HolderName() string
	Balance() decimal.Decimal
	Type() Type
	IsActive() bool
	OpeningDate() time.Time
	ClosingDate() (time.Time, bool)

	// Deposit adds amount to the balance. For credit card accounts a deposit
	// is a payment toward the debt.
	Deposit(amount decimal.Decimal) error
	// Withdraw removes amount from the balance, subject to per-type rules.
	// For credit card accounts a withdrawal is a purchase.
	Withdraw(amount decimal.Decimal) error
	// Close marks the account inactive. Requires an active account with a
	// non-negative balance.
	Close() error
	// Reopen reactivates a closed account and clears its closing date.
	Reopen() error
	// Verify reports whether the structurally required fields are populated.
	Verify() bool

	// Ledger queries. All return copies; the ledger itself is append-only.
	Transactions() []Transaction
	TransactionsInRange(start, end time.Time) []Transaction
	TransactionsByType(label string) []Transaction
	RecentTransactions(n int) []Transaction

	// Snapshot captures the persisted fields under the account lock.
	Snapshot() Snapshot

	// Transfer hooks. acquire/release expose the account lock to Transfer,
	// which holds both ends for the whole debit/credit. The *Locked methods
	// must only be called with the lock held.
	acquire()
	release()
	prepareTransferOutLocked(amount decimal.Decimal) error
	commitTransferOutLocked(amount decimal.Decimal, destNumber string)
	canReceiveTransferLocked() error
	commitReceiveTransferLocked(amount decimal.Decimal, srcNumber string)
}

// baseAccount carries the state and rules common to every variant. Variants
// embed it and override the operations they specialize.
type baseAccount struct {
	mu          sync.Mutex
	number      string
	holderName  string
	balance     decimal.Decimal
	typ         Type
	openingDate time.Time
	closingDate time.Time // zero unless the account is closed
	active      bool
	entries     []Transaction
}

// init validates the opening state and records the initial deposit entry.
// It initializes in place so the mutex is never copied.
func (b *baseAccount) init(typ Type, holderName string, initialDeposit decimal.Decimal) error {
	if holderName == "" {
		return ErrEmptyHolderName
	}
	if initialDeposit.IsNegative() {
		return fmt.Errorf("%w: initial deposit cannot be negative", ErrInvalidAmount)
	}

	b.number = newAccountNumber(typ)
	b.holderName = holderName
	b.balance = initialDeposit
	b.typ = typ
	b.openingDate = time.Now()
	b.active = true

	if initialDeposit.IsPositive() {
		b.log(TxInitialDeposit, initialDeposit, "Account opening deposit")
	}
	return nil
}

// log appends a ledger entry snapshotting the current balance.
func (b *baseAccount) log(label string, amount decimal.Decimal, description string) {
	b.entries = append(b.entries, newTransaction(label, amount, description, b.balance))
}

func (b *baseAccount) Number() string     { return b.number }
func (b *baseAccount) HolderName() string { return b.holderName }
func (b *baseAccount) Type() Type         { return b.typ }

func (b *baseAccount) OpeningDate() time.Time { return b.openingDate }

func (b *baseAccount) Balance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

func (b *baseAccount) IsActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active
}

func (b *baseAccount) ClosingDate() (time.Time, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closingDate, !b.closingDate.IsZero()
}

func (b *baseAccount) requireActiveLocked() error {
	if !b.active {
		return ErrAccountClosed
	}
	return nil
}

// canDepositLocked validates a deposit without mutating anything.
func (b *baseAccount) canDepositLocked(amount decimal.Decimal) error {
	if err := b.requireActiveLocked(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: deposit amount must be positive", ErrInvalidAmount)
	}
	return nil
}

// canWithdrawLocked validates a withdrawal without mutating anything.
func (b *baseAccount) canWithdrawLocked(amount decimal.Decimal) error {
	if err := b.requireActiveLocked(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(b.balance) {
		return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientFunds, amount.StringFixed(2), b.balance.StringFixed(2))
	}
	return nil
}

// creditLocked and debitLocked mutate the balance and append the ledger
// entry. Validation is the caller's responsibility.
func (b *baseAccount) creditLocked(amount decimal.Decimal, label, description string) {
	b.balance = b.balance.Add(amount)
	b.log(label, amount, description)
}

func (b *baseAccount) debitLocked(amount decimal.Decimal, label, description string) {
	b.balance = b.balance.Sub(amount)
	b.log(label, amount, description)
}

func (b *baseAccount) Deposit(amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.canDepositLocked(amount); err != nil {
		return err
	}
	b.creditLocked(amount, TxDeposit, "Cash deposit")
	return nil
}

func (b *baseAccount) Withdraw(amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.canWithdrawLocked(amount); err != nil {
		return err
	}
	b.debitLocked(amount, TxWithdrawal, "Cash withdrawal")
	return nil
}

func (b *baseAccount) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.active {
		return fmt.Errorf("%w: account is already closed", ErrAccountClosed)
	}
	if b.balance.IsNegative() {
		return fmt.Errorf("%w: cannot close account with negative balance", ErrInsufficientFunds)
	}
	b.active = false
	b.closingDate = time.Now()
	b.log(TxAccountClosed, decimal.Zero, "Account closed with final balance of "+b.balance.StringFixed(2))
	return nil
}

func (b *baseAccount) Reopen() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active {
		return fmt.Errorf("%w: account is already active", ErrAccountClosed)
	}
	b.active = true
	b.closingDate = time.Time{}
	b.log(TxAccountReopened, decimal.Zero, "Account reopened")
	return nil
}

func (b *baseAccount) Verify() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.verifyLocked()
}

func (b *baseAccount) verifyLocked() bool {
	return b.number != "" && b.holderName != "" && !b.openingDate.IsZero()
}

func (b *baseAccount) Transactions() []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Transaction, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *baseAccount) TransactionsInRange(start, end time.Time) []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return filterInRange(b.entries, start, end)
}

func (b *baseAccount) TransactionsByType(label string) []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return filterByType(b.entries, label)
}

func (b *baseAccount) RecentTransactions(n int) []Transaction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return lastN(b.entries, n)
}

func (b *baseAccount) acquire() { b.mu.Lock() }
func (b *baseAccount) release() { b.mu.Unlock() }

func (b *baseAccount) prepareTransferOutLocked(amount decimal.Decimal) error {
	if err := b.requireActiveLocked(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(b.balance) {
		return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientFunds, amount.StringFixed(2), b.balance.StringFixed(2))
	}
	return nil
}

func (b *baseAccount) commitTransferOutLocked(amount decimal.Decimal, destNumber string) {
	b.debitLocked(amount, TxTransferOut, "Transfer to account "+destNumber)
}

func (b *baseAccount) canReceiveTransferLocked() error {
	if !b.active {
		return fmt.Errorf("%w: destination account is closed", ErrAccountClosed)
	}
	return nil
}

func (b *baseAccount) commitReceiveTransferLocked(amount decimal.Decimal, srcNumber string) {
	b.creditLocked(amount, TxTransferIn, "Transfer from account "+srcNumber)
}
