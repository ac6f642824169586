package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	creditCardDefaultInterestRate = decimal.NewFromFloat(18.99)
	creditCardMinPaymentRate      = decimal.NewFromFloat(0.02)
	creditCardMinPaymentFloor     = decimal.NewFromFloat(20.00)

	// Credit limit restored for accounts reloaded from persistence, which
	// does not carry the limit (see the persisted record format).
	creditCardRestoredLimit = decimal.NewFromFloat(1000.00)

	monthsPerYear = decimal.NewFromInt(12)
	percentBase   = decimal.NewFromInt(100)
)

// CreditCardAccount keeps its balance at or below zero; the negated balance
// is the owed debt. Withdrawals are purchases bounded by the available
// credit, deposits are payments bounded by the current debt.
type CreditCardAccount struct {
	baseAccount
	creditLimit  decimal.Decimal
	interestRate decimal.Decimal // annual percentage rate
}

// NewCreditCardAccount opens a credit card account with the given credit
// limit. Credit cards start with a zero balance.
func NewCreditCardAccount(holderName string, creditLimit decimal.Decimal) (*CreditCardAccount, error) {
	if !creditLimit.IsPositive() {
		return nil, fmt.Errorf("%w: credit limit must be positive", ErrInvalidAmount)
	}
	a := &CreditCardAccount{}
	if err := a.init(TypeCreditCard, holderName, decimal.Zero); err != nil {
		return nil, err
	}
	a.creditLimit = creditLimit
	a.interestRate = creditCardDefaultInterestRate
	return a, nil
}

// CreditLimit returns the account's credit limit.
func (a *CreditCardAccount) CreditLimit() decimal.Decimal { return a.creditLimit }

// InterestRate returns the annual interest rate.
func (a *CreditCardAccount) InterestRate() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interestRate
}

// SetInterestRate changes the annual interest rate and records the change in
// the ledger. The rate may not be negative.
func (a *CreditCardAccount) SetInterestRate(rate decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if rate.IsNegative() {
		return fmt.Errorf("%w: interest rate cannot be negative", ErrInvalidAmount)
	}
	a.interestRate = rate
	a.log(TxInterestRateChange, decimal.Zero,
		fmt.Sprintf("Interest rate changed to %s%%", rate.StringFixed(2)))
	return nil
}

// AvailableCredit returns creditLimit + balance (balance is <= 0 debt).
func (a *CreditCardAccount) AvailableCredit() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.availableCreditLocked()
}

func (a *CreditCardAccount) availableCreditLocked() decimal.Decimal {
	return a.creditLimit.Add(a.balance)
}

// CurrentDebt returns the negated balance, always >= 0.
func (a *CreditCardAccount) CurrentDebt() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance.Neg()
}

// MinimumPaymentDue returns the larger of 2% of the debt and the floor.
func (a *CreditCardAccount) MinimumPaymentDue() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	pct := a.balance.Neg().Mul(creditCardMinPaymentRate).Round(2)
	if pct.GreaterThan(creditCardMinPaymentFloor) {
		return pct
	}
	return creditCardMinPaymentFloor
}

// Deposit on a credit card is a payment toward the debt.
func (a *CreditCardAccount) Deposit(amount decimal.Decimal) error {
	return a.pay(amount, "Credit card payment received")
}

// Withdraw on a credit card is a purchase charging the card.
func (a *CreditCardAccount) Withdraw(amount decimal.Decimal) error {
	return a.purchase(amount, "Credit card purchase")
}

// MakePurchase charges the card with a caller-supplied description.
func (a *CreditCardAccount) MakePurchase(amount decimal.Decimal, description string) error {
	return a.purchase(amount, description)
}

// MakePayment pays down the debt.
func (a *CreditCardAccount) MakePayment(amount decimal.Decimal) error {
	return a.pay(amount, "Credit card payment")
}

func (a *CreditCardAccount) purchase(amount decimal.Decimal, description string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.requireActiveLocked(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: purchase amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(a.availableCreditLocked()) {
		return fmt.Errorf("%w: purchase of %s exceeds available credit %s",
			ErrTransactionLimit, amount.StringFixed(2), a.availableCreditLocked().StringFixed(2))
	}
	a.debitLocked(amount, TxPurchase, description)
	return nil
}

func (a *CreditCardAccount) pay(amount decimal.Decimal, description string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.requireActiveLocked(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive", ErrInvalidAmount)
	}
	if amount.GreaterThan(a.balance.Neg()) {
		return fmt.Errorf("%w: payment of %s exceeds current debt %s",
			ErrInsufficientFunds, amount.StringFixed(2), a.balance.Neg().StringFixed(2))
	}
	a.creditLocked(amount, TxPayment, description)
	return nil
}

// ApplyMonthlyInterest charges one month of interest on the outstanding debt
// and returns the charged amount. No debt, no charge.
func (a *CreditCardAccount) ApplyMonthlyInterest() (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.requireActiveLocked(); err != nil {
		return decimal.Zero, err
	}
	if !a.balance.IsNegative() {
		return decimal.Zero, nil
	}
	monthlyRate := a.interestRate.Div(percentBase).Div(monthsPerYear)
	interest := a.balance.Neg().Mul(monthlyRate).Round(2)
	a.debitLocked(interest, TxInterestCharge,
		fmt.Sprintf("Monthly interest at %s%%", a.interestRate.StringFixed(2)))
	return interest, nil
}

// Verify additionally requires a positive credit limit and non-negative rate.
func (a *CreditCardAccount) Verify() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verifyLocked() && a.creditLimit.IsPositive() && !a.interestRate.IsNegative()
}
