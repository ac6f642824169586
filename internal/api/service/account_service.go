package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banking-account-core/internal/domain/account"
	"github.com/banking-account-core/internal/platform/messaging/producers"
	"github.com/banking-account-core/internal/registry"
)

// number generation collides only on a duplicate random suffix; a handful of
// retries is plenty
const maxCreateAttempts = 5

// accountEvent is the payload published for account lifecycle changes.
type accountEvent struct {
	Event         string `json:"event"`
	AccountNumber string `json:"account_number"`
	AccountType   string `json:"account_type"`
	Amount        string `json:"amount,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	registry  *registry.Registry
	publisher producers.MessagePublisher // nil when events are disabled
	logger    *slog.Logger
}

// NewAccountService creates a new account service. The publisher may be nil.
func NewAccountService(logger *slog.Logger, reg *registry.Registry, publisher producers.MessagePublisher) AccountService {
	return &AccountServiceImpl{
		registry:  reg,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateAccount opens a new account, registers it, and checkpoints the store.
// Registration retries on the rare account number collision.
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, typ account.Type, holderName string, initialDeposit, creditLimit decimal.Decimal) (account.Account, error) {
	var (
		acc account.Account
		err error
	)
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		switch typ {
		case account.TypeBank:
			acc, err = account.NewBankAccount(holderName, initialDeposit)
		case account.TypeChecking:
			acc, err = account.NewCheckingAccount(holderName, initialDeposit)
		case account.TypeInvestment:
			acc, err = account.NewInvestmentAccount(holderName, initialDeposit)
		case account.TypeCreditCard:
			acc, err = account.NewCreditCardAccount(holderName, creditLimit)
		default:
			return nil, fmt.Errorf("%w: unknown account type %q", account.ErrInvalidAccount, typ)
		}
		if err != nil {
			return nil, err
		}
		if s.registry.Add(acc) {
			s.registry.Save(ctx)
			s.publish(ctx, "account.opened", acc, decimal.Decimal{})
			return acc, nil
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a unique account number", account.ErrInvalidAccount)
}

func (s *AccountServiceImpl) GetAccount(number string) (account.Account, error) {
	return s.registry.ByNumber(number)
}

func (s *AccountServiceImpl) ListAccounts(status string, typ account.Type) ([]account.Account, error) {
	var accounts []account.Account
	switch status {
	case "":
		accounts = s.registry.All()
	case "active":
		accounts = s.registry.Active()
	case "closed":
		accounts = s.registry.Closed()
	default:
		return nil, fmt.Errorf("%w: unknown status filter %q", account.ErrInvalidAccount, status)
	}

	if typ == "" {
		return accounts, nil
	}
	filtered := make([]account.Account, 0, len(accounts))
	for _, acc := range accounts {
		if acc.Type() == typ {
			filtered = append(filtered, acc)
		}
	}
	return filtered, nil
}

func (s *AccountServiceImpl) SearchAccounts(holderName string) []account.Account {
	return s.registry.ByHolderNameContains(holderName)
}

func (s *AccountServiceImpl) Deposit(ctx context.Context, number string, amount decimal.Decimal) (account.Account, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	if err := acc.Deposit(amount); err != nil {
		return nil, err
	}
	s.publish(ctx, "account.deposited", acc, amount)
	return acc, nil
}

func (s *AccountServiceImpl) Withdraw(ctx context.Context, number string, amount decimal.Decimal) (account.Account, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	if err := acc.Withdraw(amount); err != nil {
		return nil, err
	}
	s.publish(ctx, "account.withdrawn", acc, amount)
	return acc, nil
}

func (s *AccountServiceImpl) Transfer(ctx context.Context, fromNumber, toNumber string, amount decimal.Decimal) error {
	if err := s.registry.Transfer(fromNumber, toNumber, amount); err != nil {
		return err
	}
	if acc, err := s.registry.ByNumber(fromNumber); err == nil {
		s.publish(ctx, "account.transferred", acc, amount)
	}
	return nil
}

func (s *AccountServiceImpl) MakePurchase(ctx context.Context, number string, amount decimal.Decimal, description string) (account.Account, error) {
	card, err := s.creditCard(number)
	if err != nil {
		return nil, err
	}
	if err := card.MakePurchase(amount, description); err != nil {
		return nil, err
	}
	s.publish(ctx, "account.purchased", card, amount)
	return card, nil
}

func (s *AccountServiceImpl) MakePayment(ctx context.Context, number string, amount decimal.Decimal) (account.Account, error) {
	card, err := s.creditCard(number)
	if err != nil {
		return nil, err
	}
	if err := card.MakePayment(amount); err != nil {
		return nil, err
	}
	s.publish(ctx, "account.paid", card, amount)
	return card, nil
}

// SetInterestRate applies to the two rate-bearing variants only.
func (s *AccountServiceImpl) SetInterestRate(ctx context.Context, number string, rate decimal.Decimal) (account.Account, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	switch a := acc.(type) {
	case *account.InvestmentAccount:
		if err := a.SetInterestRate(rate); err != nil {
			return nil, err
		}
	case *account.CreditCardAccount:
		if err := a.SetInterestRate(rate); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: account %s does not carry an interest rate", account.ErrInvalidAccount, number)
	}
	return acc, nil
}

func (s *AccountServiceImpl) CloseAccount(ctx context.Context, number string) (account.Account, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	if err := acc.Close(); err != nil {
		return nil, err
	}
	s.registry.Save(ctx)
	s.publish(ctx, "account.closed", acc, decimal.Decimal{})
	return acc, nil
}

func (s *AccountServiceImpl) ReopenAccount(ctx context.Context, number string) (account.Account, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	if err := acc.Reopen(); err != nil {
		return nil, err
	}
	s.registry.Save(ctx)
	s.publish(ctx, "account.reopened", acc, decimal.Decimal{})
	return acc, nil
}

// Transactions applies the filters in order of specificity: recent wins over
// a time range, which wins over a label filter.
func (s *AccountServiceImpl) Transactions(number string, label string, from, to *time.Time, recent int) ([]account.Transaction, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	switch {
	case recent > 0:
		return acc.RecentTransactions(recent), nil
	case from != nil && to != nil:
		return acc.TransactionsInRange(*from, *to), nil
	case label != "":
		return acc.TransactionsByType(label), nil
	default:
		return acc.Transactions(), nil
	}
}

func (s *AccountServiceImpl) creditCard(number string) (*account.CreditCardAccount, error) {
	acc, err := s.registry.ByNumber(number)
	if err != nil {
		return nil, err
	}
	card, ok := acc.(*account.CreditCardAccount)
	if !ok {
		return nil, fmt.Errorf("%w: account %s is not a credit card account", account.ErrInvalidAccount, number)
	}
	return card, nil
}

// publish emits an account event when a producer is configured. Failures are
// logged and never surfaced; events are an audit convenience, not state.
func (s *AccountServiceImpl) publish(ctx context.Context, event string, acc account.Account, amount decimal.Decimal) {
	if s.publisher == nil {
		return
	}
	payload := accountEvent{
		Event:         event,
		AccountNumber: acc.Number(),
		AccountType:   string(acc.Type()),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if amount.IsPositive() {
		payload.Amount = amount.StringFixed(2)
	}
	if err := s.publisher.Publish(ctx, acc.Number(), payload); err != nil {
		s.logger.Warn("Failed to publish account event", "event", event, "account_number", acc.Number(), "error", err)
	}
}
