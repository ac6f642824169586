package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	bankDailyWithdrawalLimit = decimal.NewFromFloat(1000.00)
	bankMinimumBalance       = decimal.NewFromFloat(100.00)
)

// BankAccount is the standard account variant. Withdrawals are bounded by a
// daily cumulative limit and may not drop the balance below the minimum.
type BankAccount struct {
	baseAccount
	withdrawnToday decimal.Decimal
}

// NewBankAccount opens a bank account with the given initial deposit.
func NewBankAccount(holderName string, initialDeposit decimal.Decimal) (*BankAccount, error) {
	a := &BankAccount{}
	if err := a.init(TypeBank, holderName, initialDeposit); err != nil {
		return nil, err
	}
	return a, nil
}

// DailyWithdrawalLimit returns the maximum cumulative withdrawal amount per day.
func (a *BankAccount) DailyWithdrawalLimit() decimal.Decimal { return bankDailyWithdrawalLimit }

// MinimumBalance returns the balance floor enforced on withdrawals.
func (a *BankAccount) MinimumBalance() decimal.Decimal { return bankMinimumBalance }

// WithdrawnToday returns the cumulative amount withdrawn since the last reset.
func (a *BankAccount) WithdrawnToday() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.withdrawnToday
}

// Withdraw enforces the daily limit and minimum balance before the base
// withdrawal rules.
func (a *BankAccount) Withdraw(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireActiveLocked(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(bankDailyWithdrawalLimit) {
		return fmt.Errorf("%w: amount %s exceeds daily withdrawal limit %s",
			ErrTransactionLimit, amount.StringFixed(2), bankDailyWithdrawalLimit.StringFixed(2))
	}
	if a.withdrawnToday.Add(amount).GreaterThan(bankDailyWithdrawalLimit) {
		remaining := bankDailyWithdrawalLimit.Sub(a.withdrawnToday)
		return fmt.Errorf("%w: daily withdrawal limit exceeded, remaining limit %s",
			ErrTransactionLimit, remaining.StringFixed(2))
	}
	if a.balance.Sub(amount).LessThan(bankMinimumBalance) {
		return fmt.Errorf("%w: withdrawal would drop balance below minimum %s",
			ErrTransactionLimit, bankMinimumBalance.StringFixed(2))
	}
	if amount.GreaterThan(a.balance) {
		return fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientFunds, amount.StringFixed(2), a.balance.StringFixed(2))
	}

	a.debitLocked(amount, TxWithdrawal, "Cash withdrawal")
	a.withdrawnToday = a.withdrawnToday.Add(amount)
	return nil
}

// ResetDailyWithdrawals clears the cumulative daily withdrawal amount.
// Triggered externally at the start of each day.
func (a *BankAccount) ResetDailyWithdrawals() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.withdrawnToday = decimal.Zero
}

// Verify additionally requires the balance to be at or above the minimum.
func (a *BankAccount) Verify() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verifyLocked() && a.balance.GreaterThanOrEqual(bankMinimumBalance)
}
