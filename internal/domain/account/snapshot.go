package account

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot carries the persisted fields of one account. The record layout
// deliberately omits variant extras (credit limit, interest rates, period
// counters); those are restored to their type defaults on reload.
type Snapshot struct {
	Number      string
	HolderName  string
	Balance     decimal.Decimal
	Type        Type
	Active      bool
	OpeningDate time.Time
	ClosingDate *time.Time
}

// Store is the persistence collaborator the registry loads from and
// checkpoints through. Calls are synchronous and bounded by the context.
type Store interface {
	Load(ctx context.Context) ([]Snapshot, error)
	Save(ctx context.Context, snapshots []Snapshot) error
}

// Snapshot captures the persisted fields under the account lock.
func (b *baseAccount) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Snapshot{
		Number:      b.number,
		HolderName:  b.holderName,
		Balance:     b.balance,
		Type:        b.typ,
		Active:      b.active,
		OpeningDate: b.openingDate,
	}
	if !b.closingDate.IsZero() {
		closing := b.closingDate
		s.ClosingDate = &closing
	}
	return s
}

// Restore rebuilds an account from a snapshot, preserving the persisted
// fields verbatim. Variant extras that the record format does not carry come
// back as type defaults.
func Restore(s Snapshot) (Account, error) {
	switch s.Type {
	case TypeBank:
		a := &BankAccount{}
		a.restore(s)
		return a, nil
	case TypeChecking:
		a := &CheckingAccount{}
		a.restore(s)
		return a, nil
	case TypeInvestment:
		a := &InvestmentAccount{}
		a.restore(s)
		a.interestRate = investmentDefaultInterestRate
		return a, nil
	case TypeCreditCard:
		a := &CreditCardAccount{}
		a.restore(s)
		a.creditLimit = creditCardRestoredLimit
		a.interestRate = creditCardDefaultInterestRate
		return a, nil
	default:
		return nil, ErrInvalidAccount
	}
}

func (b *baseAccount) restore(s Snapshot) {
	b.number = s.Number
	b.holderName = s.HolderName
	b.balance = s.Balance
	b.typ = s.Type
	b.openingDate = s.OpeningDate
	b.active = s.Active
	if s.ClosingDate != nil {
		b.closingDate = *s.ClosingDate
	}
}
