package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"PiggyVault/internal/model"
	"PiggyVault/internal/store"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestManager(opts ...Option) (*Manager, *store.MemoryStore, *fakeClock) {
	mem := store.NewMemoryStore()
	clock := &fakeClock{t: time.Date(2024, time.January, 15, 12, 0, 0, 0, time.Local)}
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	return NewManager(mem, opts...), mem, clock
}

func TestSnapshotMaterializesSchedule(t *testing.T) {
	mgr, _, _ := newTestManager()

	snap, err := mgr.Snapshot(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Transactions, 4)
	requireAmount(t, "15.1505", snap.CurrentBalance)
	require.Equal(t, "2024-01-20", snap.NextSaturday.String())
	require.Equal(t, "2024-01-21", snap.NextSunday.String())
	require.Equal(t, 5, snap.DaysUntilSaturday)
	require.Equal(t, 6, snap.DaysUntilSunday)
	require.False(t, snap.IsSaturday)
	require.False(t, snap.IsSunday)
}

func TestSnapshotCooldownGatesExtension(t *testing.T) {
	mgr, _, clock := newTestManager(WithCooldown(30 * 24 * time.Hour))
	ctx := context.Background()

	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 4)

	// A week passes, but the cooldown window has not elapsed: the read
	// path serves the stored schedule as-is.
	clock.Advance(7 * 24 * time.Hour)
	snap, err = mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 4)

	// The cron path bypasses the cooldown.
	changed, err := mgr.Extend(ctx)
	require.NoError(t, err)
	require.True(t, changed)

	snap, err = mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 6)
}

func TestAddAndDeleteManualTransaction(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	err := mgr.AddManualTransaction(ctx, AddTransaction{
		Kind:   model.KindDeposit,
		Label:  "Birthday money",
		Amount: decimal.NewFromInt(100),
		Date:   model.NewDate(2024, time.January, 3),
	})
	require.NoError(t, err)

	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 5)
	requireAmount(t, "112.1605", snap.CurrentBalance)

	require.NoError(t, mgr.DeleteManualTransaction(ctx, 0))

	snap, err = mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 4)
	requireAmount(t, "15.1505", snap.CurrentBalance)
}

func TestAddManualTransactionWithdrawalSignAndDefaultDate(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	err := mgr.AddManualTransaction(ctx, AddTransaction{
		Kind:   model.KindWithdrawal,
		Label:  "Toy store",
		Amount: decimal.NewFromInt(3),
	})
	require.NoError(t, err)

	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)

	last := snap.Transactions[len(snap.Transactions)-1]
	require.True(t, last.Manual)
	require.Equal(t, "2024-01-15", last.Date.String())
	requireAmount(t, "-3", last.Amount)
	requireAmount(t, "12.1505", snap.CurrentBalance)
}

func TestAddManualTransactionValidation(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	cases := []struct {
		name string
		in   AddTransaction
	}{
		{"empty label", AddTransaction{Kind: model.KindDeposit, Amount: decimal.NewFromInt(1)}},
		{"zero amount", AddTransaction{Kind: model.KindDeposit, Label: "x", Amount: decimal.Zero}},
		{"negative amount", AddTransaction{Kind: model.KindDeposit, Label: "x", Amount: decimal.NewFromInt(-1)}},
		{"auto kind", AddTransaction{Kind: model.KindAllowance, Label: "x", Amount: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mgr.AddManualTransaction(ctx, tc.in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeleteManualTransactionOutOfRange(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	require.ErrorIs(t, mgr.DeleteManualTransaction(ctx, 0), ErrIndexOutOfRange)
	require.ErrorIs(t, mgr.DeleteManualTransaction(ctx, -1), ErrIndexOutOfRange)
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	mgr, mem, _ := newTestManager()
	ctx := context.Background()

	_, err := mgr.Snapshot(ctx)
	require.NoError(t, err)

	mem.SaveErr = errors.New("disk full")
	err = mgr.AddManualTransaction(ctx, AddTransaction{
		Kind:   model.KindDeposit,
		Label:  "Birthday money",
		Amount: decimal.NewFromInt(100),
	})
	require.Error(t, err)

	mem.SaveErr = nil
	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Transactions, 4)
	requireAmount(t, "15.1505", snap.CurrentBalance)
}

func TestUpdateInitialSettingsRebuildsHistory(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	_, err := mgr.Snapshot(ctx)
	require.NoError(t, err)

	bal := decimal.NewFromInt(100)
	require.NoError(t, mgr.UpdateInitialSettings(ctx, InitialSettings{InitialBalance: &bal}))

	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)
	requireAmount(t, "100", snap.InitialBalance)
	requireAmount(t, "112.1605", snap.CurrentBalance)

	neg := decimal.NewFromInt(-1)
	require.ErrorIs(t, mgr.UpdateInitialSettings(ctx, InitialSettings{InitialBalance: &neg}), ErrInvalidInput)
}

func TestUpdateInitialSettingsMirrorsCurrentRates(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	allowance := decimal.NewFromInt(7)
	require.NoError(t, mgr.UpdateInitialSettings(ctx, InitialSettings{Allowance: &allowance}))

	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)
	requireAmount(t, "7", snap.InitialAllowance)
	requireAmount(t, "7", snap.CurrentAllowance)
	require.True(t, snap.SettingsChangeDate.IsZero())
}

func TestUpdateCurrentSettingsPinsChangeDate(t *testing.T) {
	mgr, _, clock := newTestManager()
	ctx := context.Background()

	allowance := decimal.NewFromInt(10)
	require.NoError(t, mgr.UpdateCurrentSettings(ctx, CurrentSettings{Allowance: &allowance}))

	snap, err := mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", snap.SettingsChangeDate.String())
	requireAmount(t, "10", snap.CurrentAllowance)
	// The initial rates are untouched.
	requireAmount(t, "5", snap.InitialAllowance)

	// A later edit never moves the pinned date.
	clock.Advance(48 * time.Hour)
	rate := decimal.NewFromInt(3)
	require.NoError(t, mgr.UpdateCurrentSettings(ctx, CurrentSettings{InterestRate: &rate}))

	snap, err = mgr.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, "2024-01-15", snap.SettingsChangeDate.String())
}

func TestProjectGoalValidation(t *testing.T) {
	mgr, _, _ := newTestManager()
	ctx := context.Background()

	_, err := mgr.ProjectGoal(ctx, decimal.Zero, model.NewDate(2024, time.February, 1))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = mgr.ProjectGoal(ctx, decimal.NewFromInt(100), model.Date{})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestCooldown(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	cd := NewCooldown(time.Minute, clock.Now)

	require.True(t, cd.Allow())
	require.False(t, cd.Allow())

	clock.Advance(59 * time.Second)
	require.False(t, cd.Allow())

	clock.Advance(2 * time.Second)
	require.True(t, cd.Allow())

	require.False(t, cd.Allow())
	cd.Reset()
	require.True(t, cd.Allow())

	// A zero window disables gating entirely.
	open := NewCooldown(0, clock.Now)
	require.True(t, open.Allow())
	require.True(t, open.Allow())
}
