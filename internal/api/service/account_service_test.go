package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banking-account-core/internal/domain/account"
	"github.com/banking-account-core/internal/registry"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

type memStore struct {
	snapshots []account.Snapshot
	saves     int
}

func (s *memStore) Load(ctx context.Context) ([]account.Snapshot, error) {
	return s.snapshots, nil
}

func (s *memStore) Save(ctx context.Context, snapshots []account.Snapshot) error {
	s.saves++
	s.snapshots = snapshots
	return nil
}

type capturingPublisher struct {
	keys   []string
	values []interface{}
	err    error
}

func (p *capturingPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	p.keys = append(p.keys, key)
	p.values = append(p.values, value)
	return p.err
}

func (p *capturingPublisher) Close() error { return nil }

func newTestService(t *testing.T) (AccountService, *memStore, *capturingPublisher) {
	t.Helper()
	store := &memStore{}
	pub := &capturingPublisher{}
	reg := registry.New(context.Background(), testLogger(), store)
	return NewAccountService(testLogger(), reg, pub), store, pub
}

func TestAccountService_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("BankAccount", func(t *testing.T) {
		svc, store, pub := newTestService(t)

		acc, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
		require.NoError(t, err)
		assert.Equal(t, account.TypeBank, acc.Type())
		assert.Equal(t, "500.00", acc.Balance().StringFixed(2))

		// Creation checkpoints the store and emits an event
		assert.Equal(t, 1, store.saves)
		require.Len(t, pub.keys, 1)
		assert.Equal(t, acc.Number(), pub.keys[0])
	})

	t.Run("CreditCardUsesCreditLimit", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		acc, err := svc.CreateAccount(ctx, account.TypeCreditCard, "Jane Doe", decimal.Zero, d("750.00"))
		require.NoError(t, err)

		card, ok := acc.(*account.CreditCardAccount)
		require.True(t, ok)
		assert.Equal(t, "750.00", card.CreditLimit().StringFixed(2))
		assert.True(t, card.Balance().IsZero())
	})

	t.Run("UnknownType", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.CreateAccount(ctx, account.Type("Savings Account"), "John Doe", decimal.Zero, decimal.Zero)
		assert.ErrorIs(t, err, account.ErrInvalidAccount)
	})

	t.Run("InvalidHolderName", func(t *testing.T) {
		svc, store, _ := newTestService(t)
		_, err := svc.CreateAccount(ctx, account.TypeBank, "", d("10.00"), decimal.Zero)
		assert.ErrorIs(t, err, account.ErrEmptyHolderName)
		assert.Zero(t, store.saves)
	})
}

func TestAccountService_MoneyMovement(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	acc, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)
	other, err := svc.CreateAccount(ctx, account.TypeBank, "Jane Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)

	t.Run("Deposit", func(t *testing.T) {
		got, err := svc.Deposit(ctx, acc.Number(), d("100.00"))
		require.NoError(t, err)
		assert.Equal(t, "600.00", got.Balance().StringFixed(2))
	})

	t.Run("Withdraw", func(t *testing.T) {
		got, err := svc.Withdraw(ctx, acc.Number(), d("50.00"))
		require.NoError(t, err)
		assert.Equal(t, "550.00", got.Balance().StringFixed(2))
	})

	t.Run("Transfer", func(t *testing.T) {
		require.NoError(t, svc.Transfer(ctx, acc.Number(), other.Number(), d("150.00")))
		assert.Equal(t, "400.00", acc.Balance().StringFixed(2))
		assert.Equal(t, "650.00", other.Balance().StringFixed(2))
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		_, err := svc.Deposit(ctx, "999999999", d("1.00"))
		assert.ErrorIs(t, err, account.ErrInvalidAccount)
	})
}

func TestAccountService_CreditCardOperations(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	card, err := svc.CreateAccount(ctx, account.TypeCreditCard, "Jane Doe", decimal.Zero, d("500.00"))
	require.NoError(t, err)
	bank, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)

	t.Run("Purchase", func(t *testing.T) {
		got, err := svc.MakePurchase(ctx, card.Number(), d("200.00"), "groceries")
		require.NoError(t, err)
		assert.Equal(t, "-200.00", got.Balance().StringFixed(2))
	})

	t.Run("Payment", func(t *testing.T) {
		got, err := svc.MakePayment(ctx, card.Number(), d("50.00"))
		require.NoError(t, err)
		assert.Equal(t, "-150.00", got.Balance().StringFixed(2))
	})

	t.Run("PurchaseOnNonCardAccount", func(t *testing.T) {
		_, err := svc.MakePurchase(ctx, bank.Number(), d("10.00"), "groceries")
		assert.ErrorIs(t, err, account.ErrInvalidAccount)
	})
}

func TestAccountService_SetInterestRate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	inv, err := svc.CreateAccount(ctx, account.TypeInvestment, "Jane Doe", d("2000.00"), decimal.Zero)
	require.NoError(t, err)
	bank, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)

	got, err := svc.SetInterestRate(ctx, inv.Number(), d("4.00"))
	require.NoError(t, err)
	assert.Equal(t, "4.00", got.(*account.InvestmentAccount).InterestRate().StringFixed(2))

	_, err = svc.SetInterestRate(ctx, bank.Number(), d("4.00"))
	assert.ErrorIs(t, err, account.ErrInvalidAccount)
}

func TestAccountService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t)

	acc, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)
	savesAfterCreate := store.saves

	closed, err := svc.CloseAccount(ctx, acc.Number())
	require.NoError(t, err)
	assert.False(t, closed.IsActive())
	assert.Equal(t, savesAfterCreate+1, store.saves)

	reopened, err := svc.ReopenAccount(ctx, acc.Number())
	require.NoError(t, err)
	assert.True(t, reopened.IsActive())
	assert.Equal(t, savesAfterCreate+2, store.saves)
}

func TestAccountService_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.CreateAccount(ctx, account.TypeBank, "Alice Smith", d("100.00"), decimal.Zero)
	require.NoError(t, err)
	closedAcc, err := svc.CreateAccount(ctx, account.TypeChecking, "Bob Smith", d("100.00"), decimal.Zero)
	require.NoError(t, err)
	_, err = svc.CloseAccount(ctx, closedAcc.Number())
	require.NoError(t, err)

	all, err := svc.ListAccounts("", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.ListAccounts("active", "")
	require.NoError(t, err)
	assert.Len(t, active, 1)

	closed, err := svc.ListAccounts("closed", account.TypeChecking)
	require.NoError(t, err)
	assert.Len(t, closed, 1)

	_, err = svc.ListAccounts("weird", "")
	assert.ErrorIs(t, err, account.ErrInvalidAccount)

	assert.Len(t, svc.SearchAccounts("smith"), 2)
	assert.Empty(t, svc.SearchAccounts("nobody"))
}

func TestAccountService_Transactions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	acc, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, acc.Number(), d("10.00"))
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, acc.Number(), d("20.00"))
	require.NoError(t, err)

	all, err := svc.Transactions(acc.Number(), "", nil, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	deposits, err := svc.Transactions(acc.Number(), account.TxDeposit, nil, nil, 0)
	require.NoError(t, err)
	assert.Len(t, deposits, 1)

	recent, err := svc.Transactions(acc.Number(), "", nil, nil, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	now := time.Now()
	ranged, err := svc.Transactions(acc.Number(), "", &now, &now, 0)
	require.NoError(t, err)
	assert.Len(t, ranged, 3)
}

func TestAccountService_PublishFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	pub := &capturingPublisher{err: assert.AnError}
	reg := registry.New(ctx, testLogger(), store)
	svc := NewAccountService(testLogger(), reg, pub)

	acc, err := svc.CreateAccount(ctx, account.TypeBank, "John Doe", d("500.00"), decimal.Zero)
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, acc.Number(), d("10.00"))
	assert.NoError(t, err)
}
