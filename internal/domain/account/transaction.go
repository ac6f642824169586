package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger entry labels recorded by account operations.
const (
	TxInitialDeposit     = "Initial Deposit"
	TxDeposit            = "Deposit"
	TxWithdrawal         = "Withdrawal"
	TxTransferIn         = "Transfer In"
	TxTransferOut        = "Transfer Out"
	TxFee                = "Fee"
	TxInterest           = "Interest"
	TxInterestCharge     = "Interest Charge"
	TxPurchase           = "Purchase"
	TxPayment            = "Payment"
	TxAccountClosed      = "Account Closed"
	TxAccountReopened    = "Account Reopened"
	TxInterestRateChange = "Interest Rate Change"
)

// Transaction is an immutable ledger entry owned by exactly one account.
// BalanceAfter snapshots the owning account's balance immediately after the
// event. Entries are kept in insertion order and never edited or removed.
type Transaction struct {
	ID           uuid.UUID       `json:"id"`
	Timestamp    time.Time       `json:"timestamp"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

func newTransaction(label string, amount decimal.Decimal, description string, balanceAfter decimal.Decimal) Transaction {
	return Transaction{
		ID:           uuid.New(),
		Timestamp:    time.Now(),
		Type:         label,
		Amount:       amount,
		Description:  description,
		BalanceAfter: balanceAfter,
	}
}

// filterInRange returns the entries whose timestamp falls inside the inclusive
// day-granular range. The end day is extended to its last instant so that
// entries recorded any time on that day are included.
func filterInRange(entries []Transaction, start, end time.Time) []Transaction {
	startOfRange := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endOfRange := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).
		AddDate(0, 0, 1).Add(-time.Nanosecond)

	out := make([]Transaction, 0)
	for _, tx := range entries {
		if !tx.Timestamp.Before(startOfRange) && !tx.Timestamp.After(endOfRange) {
			out = append(out, tx)
		}
	}
	return out
}

// filterByType returns the entries whose label matches, case-insensitively.
func filterByType(entries []Transaction, label string) []Transaction {
	out := make([]Transaction, 0)
	for _, tx := range entries {
		if strings.EqualFold(tx.Type, label) {
			out = append(out, tx)
		}
	}
	return out
}

// lastN returns the tail of the entries, or all of them when n covers the list.
func lastN(entries []Transaction, n int) []Transaction {
	if n < 0 {
		n = 0
	}
	if n >= len(entries) {
		n = len(entries)
	}
	out := make([]Transaction, n)
	copy(out, entries[len(entries)-n:])
	return out
}
