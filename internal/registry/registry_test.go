package registry

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banking-account-core/internal/domain/account"
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

// memStore is an in-memory account.Store for registry tests.
type memStore struct {
	snapshots []account.Snapshot
	loadErr   error
	saveErr   error
	saves     int
}

func (s *memStore) Load(ctx context.Context) ([]account.Snapshot, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.snapshots, nil
}

func (s *memStore) Save(ctx context.Context, snapshots []account.Snapshot) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.snapshots = snapshots
	return nil
}

func mustBank(t *testing.T, name, balance string) *account.BankAccount {
	t.Helper()
	acc, err := account.NewBankAccount(name, d(balance))
	require.NoError(t, err)
	return acc
}

func TestRegistry_AddAndLookup(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})

	acc := mustBank(t, "John Doe", "500.00")
	assert.True(t, r.Add(acc))
	assert.True(t, r.Exists(acc.Number()))

	got, err := r.ByNumber(acc.Number())
	require.NoError(t, err)
	assert.Same(t, account.Account(acc), got)
}

func TestRegistry_AddDuplicateIsRejectedSilently(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})

	acc := mustBank(t, "John Doe", "500.00")
	require.True(t, r.Add(acc))
	assert.False(t, r.Add(acc))
	assert.Len(t, r.All(), 1)
}

func TestRegistry_ByNumber(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})

	t.Run("EmptyNumber", func(t *testing.T) {
		_, err := r.ByNumber("  ")
		assert.ErrorIs(t, err, account.ErrInvalidAccount)
	})

	t.Run("Miss", func(t *testing.T) {
		_, err := r.ByNumber("999999999")
		assert.ErrorIs(t, err, account.ErrInvalidAccount)
	})
}

func TestRegistry_ByHolderNameContains(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})
	r.Add(mustBank(t, "Alice Smith", "100.00"))
	r.Add(mustBank(t, "Bob Smith", "100.00"))
	r.Add(mustBank(t, "Carol Jones", "100.00"))

	assert.Len(t, r.ByHolderNameContains("smith"), 2)
	assert.Len(t, r.ByHolderNameContains("CAROL"), 1)
	assert.Empty(t, r.ByHolderNameContains("dave"))
	assert.Empty(t, r.ByHolderNameContains("   "))
}

func TestRegistry_StatusAndTypeFilters(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})

	open := mustBank(t, "John Doe", "500.00")
	closed := mustBank(t, "Jane Doe", "100.00")
	require.NoError(t, closed.Close())
	card, err := account.NewCreditCardAccount("Jim Doe", d("500.00"))
	require.NoError(t, err)

	r.Add(open)
	r.Add(closed)
	r.Add(card)

	assert.Len(t, r.All(), 3)
	assert.Len(t, r.Active(), 2)
	assert.Len(t, r.Closed(), 1)
	assert.Len(t, r.ByType(account.TypeBank), 2)
	assert.Len(t, r.ByType(account.TypeCreditCard), 1)
	assert.Empty(t, r.ByType(account.TypeInvestment))
}

func TestRegistry_LoadsFromStoreOnConstruction(t *testing.T) {
	seed := mustBank(t, "John Doe", "750.00")
	store := &memStore{snapshots: []account.Snapshot{seed.Snapshot()}}

	r := New(context.Background(), testLogger(), store)

	got, err := r.ByNumber(seed.Number())
	require.NoError(t, err)
	assert.Equal(t, "750.00", got.Balance().StringFixed(2))
}

func TestRegistry_LoadFailureStartsEmpty(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk on fire")}
	r := New(context.Background(), testLogger(), store)
	assert.Empty(t, r.All())
}

func TestRegistry_LoadDropsDuplicateNumbers(t *testing.T) {
	seed := mustBank(t, "John Doe", "750.00")
	store := &memStore{snapshots: []account.Snapshot{seed.Snapshot(), seed.Snapshot()}}

	r := New(context.Background(), testLogger(), store)
	assert.Len(t, r.All(), 1)
}

func TestRegistry_SaveFailureIsSwallowed(t *testing.T) {
	store := &memStore{saveErr: errors.New("disk full")}
	r := New(context.Background(), testLogger(), store)
	r.Add(mustBank(t, "John Doe", "500.00"))

	r.Save(context.Background())
	assert.Equal(t, 1, store.saves)
	assert.Len(t, r.All(), 1)
}

func TestRegistry_SaveAndReloadRoundTrip(t *testing.T) {
	store := &memStore{}
	r := New(context.Background(), testLogger(), store)

	acc := mustBank(t, "John Doe", "500.00")
	r.Add(acc)
	require.NoError(t, acc.Deposit(d("50.00")))
	r.Save(context.Background())

	r.Reload(context.Background())
	got, err := r.ByNumber(acc.Number())
	require.NoError(t, err)
	assert.Equal(t, "550.00", got.Balance().StringFixed(2))
	assert.NotSame(t, account.Account(acc), got)
}

type memArchive struct {
	archived int
	err      error
}

func (a *memArchive) ArchiveLedgers(ctx context.Context, accounts []account.Account) error {
	a.archived += len(accounts)
	return a.err
}

func TestRegistry_SaveArchivesLedgers(t *testing.T) {
	archive := &memArchive{}
	r := New(context.Background(), testLogger(), &memStore{}, WithArchiver(archive))
	r.Add(mustBank(t, "John Doe", "500.00"))
	r.Add(mustBank(t, "Jane Doe", "200.00"))

	r.Save(context.Background())
	assert.Equal(t, 2, archive.archived)
}

func TestRegistry_ArchiveFailureIsSwallowed(t *testing.T) {
	archive := &memArchive{err: errors.New("mongo down")}
	store := &memStore{}
	r := New(context.Background(), testLogger(), store, WithArchiver(archive))
	r.Add(mustBank(t, "John Doe", "500.00"))

	r.Save(context.Background())
	assert.Equal(t, 1, store.saves)
	assert.Len(t, store.snapshots, 1)
}

func TestRegistry_Transfer(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})
	src := mustBank(t, "John Doe", "500.00")
	dst := mustBank(t, "Jane Doe", "200.00")
	r.Add(src)
	r.Add(dst)

	require.NoError(t, r.Transfer(src.Number(), dst.Number(), d("100.00")))
	assert.Equal(t, "400.00", src.Balance().StringFixed(2))
	assert.Equal(t, "300.00", dst.Balance().StringFixed(2))

	err := r.Transfer(src.Number(), "999999999", d("10.00"))
	assert.ErrorIs(t, err, account.ErrInvalidAccount)
}

func TestRegistry_ApplyMonthlyInterest(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})

	inv, err := account.NewInvestmentAccount("Jane Doe", d("1200.00"))
	require.NoError(t, err)
	card, err := account.NewCreditCardAccount("John Doe", d("5000.00"))
	require.NoError(t, err)
	require.NoError(t, card.MakePurchase(d("1200.00"), "travel"))
	bank := mustBank(t, "Jim Doe", "5000.00")

	r.Add(inv)
	r.Add(card)
	r.Add(bank)

	r.ApplyMonthlyInterest()

	// 1200 * 2.5% / 12 = 2.50 credited, 1200 * 18.99% / 12 = 18.99 charged
	assert.Equal(t, "1202.50", inv.Balance().StringFixed(2))
	assert.Equal(t, "1218.99", card.CurrentDebt().StringFixed(2))
	assert.Equal(t, "5000.00", bank.Balance().StringFixed(2))
}

func TestRegistry_CounterResets(t *testing.T) {
	r := New(context.Background(), testLogger(), &memStore{})

	bank := mustBank(t, "John Doe", "5000.00")
	checking, err := account.NewCheckingAccount("Jane Doe", d("100.00"))
	require.NoError(t, err)
	r.Add(bank)
	r.Add(checking)

	require.NoError(t, bank.Withdraw(d("1000.00")))
	require.NoError(t, checking.Deposit(d("10.00")))

	r.ResetDailyCounters()
	r.ResetMonthlyCounters()

	assert.True(t, bank.WithdrawnToday().IsZero())
	assert.Equal(t, 0, checking.TransactionsThisMonth())
}
