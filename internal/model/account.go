package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags a ledger entry with its semantic type. Scheduled entries are
// allowance or interest; user-entered entries are deposit or withdrawal.
type Kind string

const (
	KindAllowance  Kind = "allowance"
	KindInterest   Kind = "interest"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// IsManual reports whether the kind is user-entered.
func (k Kind) IsManual() bool { return k == KindDeposit || k == KindWithdrawal }

// AutoDeposit is a schedule-generated ledger entry. Rate is the interest
// rate in percent and is zero for allowance entries.
type AutoDeposit struct {
	Date   Date            `json:"date"`
	Kind   Kind            `json:"kind"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
}

// Label renders the display label for an auto deposit.
func (a AutoDeposit) Label() string {
	if a.Kind == KindInterest {
		return fmt.Sprintf("Interest @ %s%%", a.Rate.String())
	}
	return "Weekly Allowance"
}

// ManualTransaction is a user-entered deposit or withdrawal. Amount is
// signed: positive for deposits, negative for withdrawals.
type ManualTransaction struct {
	Date   Date            `json:"date"`
	Kind   Kind            `json:"kind"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// AccountState is the single persisted account record. ManualTxns keeps
// insertion order; the positional index is the deletion key. AutoDeposits
// is a regenerable cache fully derived from the remaining fields.
type AccountState struct {
	AccountHolder         string              `json:"account_holder"`
	InitialBalance        decimal.Decimal     `json:"initial_balance"`
	StartDate             Date                `json:"start_date"`
	InitialAllowance      decimal.Decimal     `json:"initial_allowance"`
	InitialInterest       decimal.Decimal     `json:"initial_interest"`
	CurrentAllowance      decimal.Decimal     `json:"current_allowance"`
	CurrentInterest       decimal.Decimal     `json:"current_interest"`
	SettingsChangeDate    Date                `json:"settings_change_date"`
	ManualTxns            []ManualTransaction `json:"manual_txns"`
	LastProcessedSaturday Date                `json:"last_processed_saturday"`
	LastProcessedSunday   Date                `json:"last_processed_sunday"`
	AutoDeposits          []AutoDeposit       `json:"auto_deposits"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// DefaultAccountState returns a fresh account with the stock defaults.
func DefaultAccountState() *AccountState {
	return &AccountState{
		AccountHolder:    "My",
		InitialBalance:   decimal.Zero,
		StartDate:        NewDate(2024, time.January, 1),
		InitialAllowance: decimal.NewFromInt(5),
		InitialInterest:  decimal.NewFromInt(1),
		CurrentAllowance: decimal.NewFromInt(5),
		CurrentInterest:  decimal.NewFromInt(1),
	}
}

// Clone returns a deep copy. Recalculation passes mutate the copy and the
// caller adopts it only after a successful save.
func (s *AccountState) Clone() *AccountState {
	c := *s
	c.ManualTxns = append([]ManualTransaction(nil), s.ManualTxns...)
	c.AutoDeposits = append([]AutoDeposit(nil), s.AutoDeposits...)
	return &c
}

// EffectiveRates returns the allowance amount and interest rate in effect
// on a date: the current pair from the settings change date onward, the
// initial pair before it or when no change was ever made.
func (s *AccountState) EffectiveRates(on Date) (allowance, interest decimal.Decimal) {
	if !s.SettingsChangeDate.IsZero() && !on.Before(s.SettingsChangeDate) {
		return s.CurrentAllowance, s.CurrentInterest
	}
	return s.InitialAllowance, s.InitialInterest
}
