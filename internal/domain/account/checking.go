package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var checkingTransactionFee = decimal.NewFromFloat(1.50)

const checkingFreeTransactionsPerMonth = 5

// CheckingAccount counts its operations against a monthly free quota and
// charges a flat fee for every operation beyond it. Unlike the original
// behavior, fee coverage is validated before the operation mutates anything,
// so a failed fee leaves the account untouched.
type CheckingAccount struct {
	baseAccount
	monthTxCount int
}

// NewCheckingAccount opens a checking account with the given initial deposit.
func NewCheckingAccount(holderName string, initialDeposit decimal.Decimal) (*CheckingAccount, error) {
	a := &CheckingAccount{}
	if err := a.init(TypeChecking, holderName, initialDeposit); err != nil {
		return nil, err
	}
	return a, nil
}

// TransactionFee returns the flat fee charged beyond the free quota.
func (a *CheckingAccount) TransactionFee() decimal.Decimal { return checkingTransactionFee }

// FreeTransactionsPerMonth returns the number of fee-exempt operations per period.
func (a *CheckingAccount) FreeTransactionsPerMonth() int { return checkingFreeTransactionsPerMonth }

// TransactionsThisMonth returns the counted operations since the last reset.
func (a *CheckingAccount) TransactionsThisMonth() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.monthTxCount
}

// feeDueLocked reports whether the next counted operation incurs the fee.
func (a *CheckingAccount) feeDueLocked() bool {
	return a.monthTxCount+1 > checkingFreeTransactionsPerMonth
}

// checkFeeCoverageLocked validates that the balance projected after the
// operation covers the fee, when one is due.
func (a *CheckingAccount) checkFeeCoverageLocked(projectedBalance decimal.Decimal) error {
	if a.feeDueLocked() && projectedBalance.LessThan(checkingTransactionFee) {
		return fmt.Errorf("%w: balance cannot cover transaction fee of %s",
			ErrTransactionLimit, checkingTransactionFee.StringFixed(2))
	}
	return nil
}

// applyFeeLocked counts the operation and deducts the fee beyond the quota.
// Coverage must have been validated beforehand.
func (a *CheckingAccount) applyFeeLocked(operation string) {
	a.monthTxCount++
	if a.monthTxCount > checkingFreeTransactionsPerMonth {
		a.debitLocked(checkingTransactionFee, TxFee,
			fmt.Sprintf("Transaction fee for %s (transaction #%d)", operation, a.monthTxCount))
	}
}

func (a *CheckingAccount) Deposit(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.canDepositLocked(amount); err != nil {
		return err
	}
	if err := a.checkFeeCoverageLocked(a.balance.Add(amount)); err != nil {
		return err
	}
	a.creditLocked(amount, TxDeposit, "Cash deposit")
	a.applyFeeLocked("Deposit")
	return nil
}

func (a *CheckingAccount) Withdraw(amount decimal.Decimal) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.canWithdrawLocked(amount); err != nil {
		return err
	}
	if err := a.checkFeeCoverageLocked(a.balance.Sub(amount)); err != nil {
		return err
	}
	a.debitLocked(amount, TxWithdrawal, "Cash withdrawal")
	a.applyFeeLocked("Withdrawal")
	return nil
}

// ResetMonthlyTransactionCount clears the monthly operation counter.
// Triggered externally at the start of each period.
func (a *CheckingAccount) ResetMonthlyTransactionCount() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.monthTxCount = 0
}

func (a *CheckingAccount) prepareTransferOutLocked(amount decimal.Decimal) error {
	if err := a.baseAccount.prepareTransferOutLocked(amount); err != nil {
		return err
	}
	return a.checkFeeCoverageLocked(a.balance.Sub(amount))
}

func (a *CheckingAccount) commitTransferOutLocked(amount decimal.Decimal, destNumber string) {
	a.baseAccount.commitTransferOutLocked(amount, destNumber)
	a.applyFeeLocked("Transfer")
}
