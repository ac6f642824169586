// Package registry provides the process-wide account catalog. It is the sole
// authority for account membership: it enforces account-number uniqueness,
// answers lookups, and mediates persistence load/save. A single Registry is
// constructed at startup and passed explicitly to every consumer.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/banking-account-core/internal/domain/account"
)

const defaultSaveTimeout = 10 * time.Second

// Archiver receives the full per-account ledgers on save checkpoints.
// Archival failures follow the persistence policy: logged, never raised.
type Archiver interface {
	ArchiveLedgers(ctx context.Context, accounts []account.Account) error
}

// Registry is the in-memory account catalog. The RWMutex serializes
// structural changes (add, reload) against concurrent reads; mutations of an
// individual account are serialized by that account's own lock.
type Registry struct {
	mu       sync.RWMutex
	accounts []account.Account // insertion order, mirrored by index
	index    map[string]account.Account

	store       account.Store
	archive     Archiver
	logger      *slog.Logger
	saveTimeout time.Duration
}

// Option configures optional registry collaborators.
type Option func(*Registry)

// WithArchiver attaches a ledger archive written on save checkpoints.
func WithArchiver(a Archiver) Option {
	return func(r *Registry) { r.archive = a }
}

// WithSaveTimeout bounds a single persistence load/save call.
func WithSaveTimeout(d time.Duration) Option {
	return func(r *Registry) { r.saveTimeout = d }
}

// New constructs the registry and loads its initial account set from the
// store. A failing load is logged and the registry starts empty; in-memory
// state is authoritative for the running process.
func New(ctx context.Context, logger *slog.Logger, store account.Store, opts ...Option) *Registry {
	r := &Registry{
		index:       make(map[string]account.Account),
		store:       store,
		logger:      logger,
		saveTimeout: defaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.loadFromStore(ctx)
	return r
}

func (r *Registry) loadFromStore(ctx context.Context) {
	loadCtx, cancel := context.WithTimeout(ctx, r.saveTimeout)
	defer cancel()

	snapshots, err := r.store.Load(loadCtx)
	if err != nil {
		r.logger.Error("Failed to load accounts from store", "error", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts = nil
	r.index = make(map[string]account.Account, len(snapshots))
	for _, s := range snapshots {
		acc, err := account.Restore(s)
		if err != nil {
			r.logger.Warn("Dropping unrecognized account record", "account_number", s.Number, "type", s.Type, "error", err)
			continue
		}
		if _, exists := r.index[acc.Number()]; exists {
			r.logger.Warn("Dropping duplicate account record", "account_number", acc.Number())
			continue
		}
		r.accounts = append(r.accounts, acc)
		r.index[acc.Number()] = acc
	}
	r.logger.Info("Loaded accounts from store", "count", len(r.accounts))
}

// Add appends an account to the catalog. A duplicate account number is
// rejected silently: logged, reported through the return value, never an
// error to the caller.
func (r *Registry) Add(acc account.Account) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.index[acc.Number()]; exists {
		r.logger.Warn("Account number already exists", "account_number", acc.Number())
		return false
	}
	r.accounts = append(r.accounts, acc)
	r.index[acc.Number()] = acc
	return true
}

// Exists reports whether an account number is present.
func (r *Registry) Exists(number string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[number]
	return ok
}

// ByNumber returns the unique account with the given number.
func (r *Registry) ByNumber(number string) (account.Account, error) {
	if strings.TrimSpace(number) == "" {
		return nil, fmt.Errorf("%w: account number cannot be empty", account.ErrInvalidAccount)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.index[number]
	if !ok {
		return nil, fmt.Errorf("%w: account %s not found", account.ErrInvalidAccount, number)
	}
	return acc, nil
}

// ByHolderNameContains returns the accounts whose holder name contains the
// given substring, case-insensitively. Blank input yields an empty result,
// not an error.
func (r *Registry) ByHolderNameContains(name string) []account.Account {
	out := make([]account.Account, 0)
	if strings.TrimSpace(name) == "" {
		return out
	}
	needle := strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, acc := range r.accounts {
		if strings.Contains(strings.ToLower(acc.HolderName()), needle) {
			out = append(out, acc)
		}
	}
	return out
}

// All returns every account in insertion order.
func (r *Registry) All() []account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]account.Account, len(r.accounts))
	copy(out, r.accounts)
	return out
}

// Active returns the accounts that are currently open.
func (r *Registry) Active() []account.Account {
	return r.filter(func(acc account.Account) bool { return acc.IsActive() })
}

// Closed returns the accounts that are currently closed.
func (r *Registry) Closed() []account.Account {
	return r.filter(func(acc account.Account) bool { return !acc.IsActive() })
}

// ByType returns the accounts of one variant.
func (r *Registry) ByType(t account.Type) []account.Account {
	return r.filter(func(acc account.Account) bool { return acc.Type() == t })
}

func (r *Registry) filter(keep func(account.Account) bool) []account.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]account.Account, 0)
	for _, acc := range r.accounts {
		if keep(acc) {
			out = append(out, acc)
		}
	}
	return out
}

// Transfer atomically moves amount between the two numbered accounts.
func (r *Registry) Transfer(fromNumber, toNumber string, amount decimal.Decimal) error {
	src, err := r.ByNumber(fromNumber)
	if err != nil {
		return err
	}
	dst, err := r.ByNumber(toNumber)
	if err != nil {
		return err
	}
	return account.Transfer(src, dst, amount)
}

// Save checkpoints every account to the store and, when configured, appends
// the ledgers to the archive. Failures are logged, never raised: in-memory
// state stays authoritative for the running process.
func (r *Registry) Save(ctx context.Context) {
	accounts := r.All()
	snapshots := make([]account.Snapshot, 0, len(accounts))
	for _, acc := range accounts {
		snapshots = append(snapshots, acc.Snapshot())
	}

	saveCtx, cancel := context.WithTimeout(ctx, r.saveTimeout)
	defer cancel()

	if err := r.store.Save(saveCtx, snapshots); err != nil {
		r.logger.Error("Failed to save accounts to store", "count", len(snapshots), "error", err)
	} else {
		r.logger.Info("Saved accounts to store", "count", len(snapshots))
	}

	if r.archive != nil {
		if err := r.archive.ArchiveLedgers(saveCtx, accounts); err != nil {
			r.logger.Error("Failed to archive ledgers", "error", err)
		}
	}
}

// Reload clears the in-memory catalog and loads it from the store again.
// The loaded set fully replaces the prior state, it is not merged.
func (r *Registry) Reload(ctx context.Context) {
	r.loadFromStore(ctx)
}

// ApplyMonthlyInterest applies interest to every active investment account
// and charges monthly interest on every active credit card account. A
// failure on one account is logged and the sweep continues.
func (r *Registry) ApplyMonthlyInterest() {
	for _, acc := range r.Active() {
		switch a := acc.(type) {
		case *account.InvestmentAccount:
			interest, err := a.ApplyInterest()
			if err != nil {
				r.logger.Error("Failed to apply interest", "account_number", a.Number(), "error", err)
				continue
			}
			if interest.IsPositive() {
				r.logger.Info("Applied monthly interest", "account_number", a.Number(), "interest", interest.StringFixed(2))
			}
		case *account.CreditCardAccount:
			charged, err := a.ApplyMonthlyInterest()
			if err != nil {
				r.logger.Error("Failed to charge interest", "account_number", a.Number(), "error", err)
				continue
			}
			if charged.IsPositive() {
				r.logger.Info("Charged monthly interest", "account_number", a.Number(), "interest", charged.StringFixed(2))
			}
		}
	}
}

// ResetDailyCounters clears the daily withdrawal amount on every active bank
// account. Triggered externally at the start of each day.
func (r *Registry) ResetDailyCounters() {
	for _, acc := range r.Active() {
		if a, ok := acc.(*account.BankAccount); ok {
			a.ResetDailyWithdrawals()
		}
	}
}

// ResetMonthlyCounters clears the monthly transaction count on every active
// checking account. Triggered externally at the start of each period.
func (r *Registry) ResetMonthlyCounters() {
	for _, acc := range r.Active() {
		if a, ok := acc.(*account.CheckingAccount); ok {
			a.ResetMonthlyTransactionCount()
		}
	}
}
