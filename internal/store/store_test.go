package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"PiggyVault/internal/model"
)

func sampleState() *model.AccountState {
	st := model.DefaultAccountState()
	st.AccountHolder = "Maya"
	st.InitialBalance = decimal.RequireFromString("12.50")
	st.AutoDeposits = append(st.AutoDeposits, model.AutoDeposit{
		Date:   model.NewDate(2024, time.January, 6),
		Kind:   model.KindAllowance,
		Amount: decimal.NewFromInt(5),
	})
	st.ManualTxns = append(st.ManualTxns, model.ManualTransaction{
		Date:   model.NewDate(2024, time.January, 8),
		Kind:   model.KindDeposit,
		Label:  "Birthday money",
		Amount: decimal.NewFromInt(20),
	})
	st.LastProcessedSaturday = model.NewDate(2024, time.January, 6)
	return st
}

func requireSameState(t *testing.T, want, got *model.AccountState) {
	t.Helper()
	require.Equal(t, want.AccountHolder, got.AccountHolder)
	require.True(t, want.InitialBalance.Equal(got.InitialBalance))
	require.True(t, want.StartDate.Equal(got.StartDate))
	require.True(t, want.LastProcessedSaturday.Equal(got.LastProcessedSaturday))
	require.True(t, want.LastProcessedSunday.Equal(got.LastProcessedSunday))
	require.Equal(t, len(want.AutoDeposits), len(got.AutoDeposits))
	for i := range want.AutoDeposits {
		require.True(t, want.AutoDeposits[i].Date.Equal(got.AutoDeposits[i].Date))
		require.Equal(t, want.AutoDeposits[i].Kind, got.AutoDeposits[i].Kind)
		require.True(t, want.AutoDeposits[i].Amount.Equal(got.AutoDeposits[i].Amount))
	}
	require.Equal(t, len(want.ManualTxns), len(got.ManualTxns))
	for i := range want.ManualTxns {
		require.True(t, want.ManualTxns[i].Date.Equal(got.ManualTxns[i].Date))
		require.Equal(t, want.ManualTxns[i].Label, got.ManualTxns[i].Label)
		require.True(t, want.ManualTxns[i].Amount.Equal(got.ManualTxns[i].Amount))
	}
}

func TestFileStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	fs := NewFileStore(path)
	ctx := context.Background()

	// A missing file yields the default account, not an error.
	st, err := fs.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "My", st.AccountHolder)

	want := sampleState()
	require.NoError(t, fs.Save(ctx, want))
	require.False(t, want.UpdatedAt.IsZero())

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	requireSameState(t, want, got)
	require.NoError(t, fs.Close())
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
}

func TestSQLiteStoreRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	st, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "My", st.AccountHolder)

	want := sampleState()
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	requireSameState(t, want, got)
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	first := sampleState()
	require.NoError(t, s.Save(ctx, first))

	second := sampleState()
	second.AccountHolder = "Noah"
	second.ManualTxns = nil
	require.NoError(t, s.Save(ctx, second))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Noah", got.AccountHolder)
	require.Empty(t, got.ManualTxns)
}

func TestSQLiteStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	want := sampleState()
	require.NoError(t, s.Save(ctx, want))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Load(ctx)
	require.NoError(t, err)
	requireSameState(t, want, got)
}

func TestMemoryStoreIsolation(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	want := sampleState()
	require.NoError(t, m.Save(ctx, want))

	// Mutating the saved value must not leak into the store.
	want.AccountHolder = "changed"
	want.ManualTxns[0].Label = "changed"

	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Maya", got.AccountHolder)
	require.Equal(t, "Birthday money", got.ManualTxns[0].Label)

	// Nor must mutating a loaded value.
	got.AccountHolder = "changed again"
	again, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "Maya", again.AccountHolder)
}

func TestMemoryStoreSaveErr(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	boom := errors.New("disk full")
	m.SaveErr = boom
	require.ErrorIs(t, m.Save(ctx, sampleState()), boom)

	st, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "My", st.AccountHolder)
}
