package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	investmentDefaultInterestRate = decimal.NewFromFloat(2.5)
	investmentMinBalanceForRate   = decimal.NewFromFloat(1000.00)
)

// InvestmentAccount accrues monthly interest once its balance reaches the
// minimum threshold.
type InvestmentAccount struct {
	baseAccount
	interestRate decimal.Decimal // annual percentage rate
}

// NewInvestmentAccount opens an investment account with the given initial deposit.
func NewInvestmentAccount(holderName string, initialDeposit decimal.Decimal) (*InvestmentAccount, error) {
	a := &InvestmentAccount{}
	if err := a.init(TypeInvestment, holderName, initialDeposit); err != nil {
		return nil, err
	}
	a.interestRate = investmentDefaultInterestRate
	return a, nil
}

// InterestRate returns the annual interest rate.
func (a *InvestmentAccount) InterestRate() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interestRate
}

// SetInterestRate changes the annual interest rate and records the change in
// the ledger. The rate may not be negative.
func (a *InvestmentAccount) SetInterestRate(rate decimal.Decimal) error {
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

// MinBalanceForInterest returns the balance threshold for interest accrual.
func (a *InvestmentAccount) MinBalanceForInterest() decimal.Decimal {
	return investmentMinBalanceForRate
}

// ApplyInterest credits one month of interest and returns the credited
// amount, zero when the balance is below the threshold.
func (a *InvestmentAccount) ApplyInterest() (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.requireActiveLocked(); err != nil {
		return decimal.Zero, err
	}
	if a.balance.LessThan(investmentMinBalanceForRate) {
		return decimal.Zero, nil
	}
	monthlyRate := a.interestRate.Div(percentBase).Div(monthsPerYear)
	interest := a.balance.Mul(monthlyRate).Round(2)
	a.creditLocked(interest, TxInterest,
		fmt.Sprintf("Monthly interest at %s%%", a.interestRate.StringFixed(2)))
	return interest, nil
}

// Verify additionally requires a non-negative interest rate.
func (a *InvestmentAccount) Verify() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.verifyLocked() && !a.interestRate.IsNegative()
}
