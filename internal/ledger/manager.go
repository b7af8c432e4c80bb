package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"PiggyVault/internal/goal"
	"PiggyVault/internal/model"
	"PiggyVault/internal/schedule"
	"PiggyVault/internal/store"
)

var (
	// ErrInvalidInput marks a request rejected before any state mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIndexOutOfRange marks a deletion index outside the manual list.
	ErrIndexOutOfRange = errors.New("transaction index out of range")
)

// Manager serializes every account operation: load the full record, mutate
// a clone, save, and only then adopt the result. A failed save leaves the
// stored state untouched.
type Manager struct {
	mu       sync.Mutex
	store    store.Store
	now      func() time.Time
	cooldown *Cooldown
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock injects the time source used to derive "today".
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithCooldown gates read-path schedule extension to at most once per
// window.
func WithCooldown(window time.Duration) Option {
	return func(m *Manager) {
		m.cooldown = NewCooldown(window, func() time.Time { return m.now() })
	}
}

// NewManager wires a Manager over the given store.
func NewManager(s store.Store, opts ...Option) *Manager {
	m := &Manager{store: s, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.cooldown == nil {
		m.cooldown = NewCooldown(0, func() time.Time { return m.now() })
	}
	return m
}

func (m *Manager) today() model.Date { return model.DateOf(m.now()) }

// Snapshot returns the displayable account view, first materializing any
// outstanding scheduled deposits (gated by the cooldown window).
func (m *Manager) Snapshot(ctx context.Context) (*model.AccountSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if m.cooldown.Allow() {
		next := st.Clone()
		if ExtendSchedule(next, m.today()) {
			if err := m.store.Save(ctx, next); err != nil {
				return nil, fmt.Errorf("save state: %w", err)
			}
			st = next
		}
	}
	return m.snapshot(st), nil
}

func (m *Manager) snapshot(st *model.AccountState) *model.AccountSnapshot {
	today := m.today()
	nextSat := schedule.Next(today, time.Saturday)
	nextSun := schedule.Next(today, time.Sunday)
	return &model.AccountSnapshot{
		AccountHolder:      st.AccountHolder,
		InitialBalance:     st.InitialBalance,
		StartDate:          st.StartDate,
		InitialAllowance:   st.InitialAllowance,
		InitialInterest:    st.InitialInterest,
		CurrentAllowance:   st.CurrentAllowance,
		CurrentInterest:    st.CurrentInterest,
		SettingsChangeDate: st.SettingsChangeDate,
		CurrentBalance:     Balance(st),
		Transactions:       BuildLedger(st),
		NextSaturday:       nextSat,
		NextSunday:         nextSun,
		DaysUntilSaturday:  today.DaysUntil(nextSat),
		DaysUntilSunday:    today.DaysUntil(nextSun),
		IsSaturday:         today.Weekday() == time.Saturday,
		IsSunday:           today.Weekday() == time.Sunday,
	}
}

// Extend forces schedule extension regardless of the cooldown window; the
// daily cron task uses it. Reports whether anything new was materialized.
func (m *Manager) Extend(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load state: %w", err)
	}
	next := st.Clone()
	if !ExtendSchedule(next, m.today()) {
		return false, nil
	}
	if err := m.store.Save(ctx, next); err != nil {
		return false, fmt.Errorf("save state: %w", err)
	}
	return true, nil
}

// InitialSettings carries the initial account parameters; nil fields are
// left unchanged.
type InitialSettings struct {
	AccountHolder  *string
	InitialBalance *decimal.Decimal
	StartDate      *model.Date
	Allowance      *decimal.Decimal
	InterestRate   *decimal.Decimal
}

// UpdateInitialSettings applies the initial parameters and rebuilds the
// entire auto-deposit history, since they affect every past computation.
func (m *Manager) UpdateInitialSettings(ctx context.Context, in InitialSettings) error {
	if in.InitialBalance != nil && in.InitialBalance.IsNegative() {
		return fmt.Errorf("%w: initial balance must not be negative", ErrInvalidInput)
	}
	if in.Allowance != nil && in.Allowance.IsNegative() {
		return fmt.Errorf("%w: allowance must not be negative", ErrInvalidInput)
	}
	if in.InterestRate != nil && in.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	next := st.Clone()
	if in.AccountHolder != nil && strings.TrimSpace(*in.AccountHolder) != "" {
		next.AccountHolder = *in.AccountHolder
	}
	if in.InitialBalance != nil {
		next.InitialBalance = *in.InitialBalance
	}
	if in.StartDate != nil && !in.StartDate.IsZero() {
		next.StartDate = *in.StartDate
	}
	if in.Allowance != nil {
		next.InitialAllowance = *in.Allowance
	}
	if in.InterestRate != nil {
		next.InitialInterest = *in.InterestRate
	}
	// Until current rates are customized they shadow the initial ones.
	if next.SettingsChangeDate.IsZero() {
		next.CurrentAllowance = next.InitialAllowance
		next.CurrentInterest = next.InitialInterest
	}
	RecalculateAll(next, m.today())
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	m.cooldown.Reset()
	log.Printf("[INFO] initial settings updated, ledger rebuilt (%d auto deposits)", len(next.AutoDeposits))
	return nil
}

// CurrentSettings carries the forward-looking rate parameters; nil fields
// are left unchanged.
type CurrentSettings struct {
	Allowance    *decimal.Decimal
	InterestRate *decimal.Decimal
}

// UpdateCurrentSettings applies the current rates. No recalculation is
// needed: only future scheduling is affected. The first edit pins the
// settings change date to today; later edits never move it.
func (m *Manager) UpdateCurrentSettings(ctx context.Context, in CurrentSettings) error {
	if in.Allowance != nil && in.Allowance.IsNegative() {
		return fmt.Errorf("%w: allowance must not be negative", ErrInvalidInput)
	}
	if in.InterestRate != nil && in.InterestRate.IsNegative() {
		return fmt.Errorf("%w: interest rate must not be negative", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	next := st.Clone()
	if in.Allowance != nil {
		next.CurrentAllowance = *in.Allowance
	}
	if in.InterestRate != nil {
		next.CurrentInterest = *in.InterestRate
	}
	if next.SettingsChangeDate.IsZero() {
		next.SettingsChangeDate = m.today()
	}
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	log.Printf("[INFO] current settings updated (allowance %s, interest %s%%)",
		next.CurrentAllowance.String(), next.CurrentInterest.String())
	return nil
}

// AddTransaction describes a manual deposit or withdrawal. Amount must be
// strictly positive; the sign derives from Kind. A zero Date means today.
type AddTransaction struct {
	Kind   model.Kind
	Label  string
	Amount decimal.Decimal
	Date   model.Date
}

// AddManualTransaction appends a manual transaction and rebuilds the
// interest history around it.
func (m *Manager) AddManualTransaction(ctx context.Context, in AddTransaction) error {
	if strings.TrimSpace(in.Label) == "" {
		return fmt.Errorf("%w: transaction label is required", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if in.Kind != model.KindDeposit && in.Kind != model.KindWithdrawal {
		return fmt.Errorf("%w: kind must be deposit or withdrawal", ErrInvalidInput)
	}
	amount := in.Amount
	if in.Kind == model.KindWithdrawal {
		amount = amount.Neg()
	}
	date := in.Date
	if date.IsZero() {
		date = m.today()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	next := st.Clone()
	next.ManualTxns = append(next.ManualTxns, model.ManualTransaction{
		Date:   date,
		Kind:   in.Kind,
		Label:  in.Label,
		Amount: amount,
	})
	RecalculateFromPivot(next, m.today())
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	m.cooldown.Reset()
	log.Printf("[INFO] manual %s added on %s: %s", in.Kind, date, amount.StringFixed(2))
	return nil
}

// DeleteManualTransaction removes the manual transaction at the given
// positional index and rebuilds the interest history.
func (m *Manager) DeleteManualTransaction(ctx context.Context, index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if index < 0 || index >= len(st.ManualTxns) {
		return fmt.Errorf("%w: index %d with %d transactions", ErrIndexOutOfRange, index, len(st.ManualTxns))
	}
	next := st.Clone()
	removed := next.ManualTxns[index]
	next.ManualTxns = append(next.ManualTxns[:index], next.ManualTxns[index+1:]...)
	RecalculateFromPivot(next, m.today())
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	m.cooldown.Reset()
	log.Printf("[INFO] manual transaction %d (%s on %s) deleted", index, removed.Label, removed.Date)
	return nil
}

// Recalculate unconditionally rebuilds every auto deposit. Maintenance
// operation.
func (m *Manager) Recalculate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	next := st.Clone()
	RecalculateAll(next, m.today())
	if err := m.store.Save(ctx, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	m.cooldown.Reset()
	log.Printf("[INFO] full recalculation complete (%d auto deposits)", len(next.AutoDeposits))
	return nil
}

// ProjectGoal runs the savings-goal projection against the stored state.
// Read-only: never mutates or saves.
func (m *Manager) ProjectGoal(ctx context.Context, amount decimal.Decimal, date model.Date) (*goal.Result, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: goal amount must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: goal date is required", ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return goal.Project(st, amount, date, m.today()), nil
}
