// Package engine runs the recurring interest/fee job. The first run fires on
// the first day of the next calendar month, subsequent runs every configured
// period (approximately 30 days - a documented imprecision, not true
// calendar-month alignment). Runs never overlap: a tick that arrives while a
// sweep is in flight is skipped.
package engine

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/banking-account-core/internal/config"
	"github.com/banking-account-core/internal/domain/account"
	"github.com/banking-account-core/internal/registry"
)

// Engine walks the registry on a schedule, applying investment interest and
// credit card interest charges to active accounts. Per-account failures are
// logged and the sweep continues.
type Engine struct {
	registry *registry.Registry
	logger   *slog.Logger
	clock    Clock
	period   time.Duration
	pool     *ants.Pool

	running  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// Option configures optional engine collaborators.
type Option func(*Engine)

// WithClock substitutes the clock, letting tests simulate months passing.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// New creates the engine with a worker pool for per-account fan-out.
func New(logger *slog.Logger, reg *registry.Registry, cfg *config.EngineConfig, opts ...Option) (*Engine, error) {
	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		registry: reg,
		logger:   logger,
		clock:    SystemClock(),
		period:   cfg.Period,
		pool:     pool,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Start launches the scheduler goroutine. The first run is delayed until the
// first day of the next calendar month.
func (e *Engine) Start() {
	now := e.clock.Now()
	firstRun := nextMonthFirstDay(now)
	e.logger.Info("Starting interest/fee engine",
		"first_run", firstRun.Format("2006-01-02"),
		"period", e.period.String(),
	)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		tick := e.clock.After(firstRun.Sub(now))
		for {
			select {
			case <-e.stopCh:
				e.logger.Info("Interest/fee engine stopped")
				return
			case <-tick:
				e.Run()
				tick = e.clock.After(e.period)
			}
		}
	}()
}

// Stop prevents future runs. An in-progress sweep is not interrupted; Stop
// returns once the scheduler goroutine has exited.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
	e.pool.Release()
}

// Run performs one sweep over all active accounts. If a prior run has not
// finished the call is skipped; runs never execute concurrently.
func (e *Engine) Run() {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Warn("Interest run already in progress, skipping")
		return
	}
	defer e.running.Store(false)

	start := e.clock.Now()
	var wg sync.WaitGroup
	var applied atomic.Int64

	for _, acc := range e.registry.Active() {
		switch a := acc.(type) {
		case *account.InvestmentAccount:
			e.submit(&wg, func() {
				interest, err := a.ApplyInterest()
				if err != nil {
					e.logger.Error("Failed to apply interest", "account_number", a.Number(), "error", err)
					return
				}
				if interest.IsPositive() {
					applied.Add(1)
					e.logger.Info("Applied monthly interest", "account_number", a.Number(), "interest", interest.StringFixed(2))
				}
			})
		case *account.CreditCardAccount:
			e.submit(&wg, func() {
				charged, err := a.ApplyMonthlyInterest()
				if err != nil {
					e.logger.Error("Failed to charge interest", "account_number", a.Number(), "error", err)
					return
				}
				if charged.IsPositive() {
					applied.Add(1)
					e.logger.Info("Charged monthly interest", "account_number", a.Number(), "interest", charged.StringFixed(2))
				}
			})
		}
	}
	wg.Wait()

	e.logger.Info("Interest run complete",
		"run_date", start.Format("2006-01-02"),
		"accounts_credited", applied.Load(),
	)
}

// submit hands the task to the worker pool, falling back to inline execution
// if the pool rejects it. The sweep must visit every account either way.
func (e *Engine) submit(wg *sync.WaitGroup, task func()) {
	wg.Add(1)
	wrapped := func() {
		defer wg.Done()
		task()
	}
	if err := e.pool.Submit(wrapped); err != nil {
		e.logger.Warn("Worker pool rejected task, running inline", "error", err)
		wrapped()
	}
}
