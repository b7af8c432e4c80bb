package model

import "github.com/shopspring/decimal"

// LedgerEntry is one row of the merged, balance-annotated ledger view.
// ManualIndex addresses the originating manual transaction for deletion
// and is -1 for auto deposits.
type LedgerEntry struct {
	Date        Date            `json:"date"`
	Label       string          `json:"label"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	Manual      bool            `json:"is_manual"`
	ManualIndex int             `json:"manual_index"`
}

// AccountSnapshot is the full read model served to clients.
type AccountSnapshot struct {
	AccountHolder      string          `json:"account_holder"`
	InitialBalance     decimal.Decimal `json:"initial_balance"`
	StartDate          Date            `json:"start_date"`
	InitialAllowance   decimal.Decimal `json:"initial_allowance"`
	InitialInterest    decimal.Decimal `json:"initial_interest"`
	CurrentAllowance   decimal.Decimal `json:"current_allowance"`
	CurrentInterest    decimal.Decimal `json:"current_interest"`
	SettingsChangeDate Date            `json:"settings_change_date"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	Transactions       []LedgerEntry   `json:"transactions"`
	NextSaturday       Date            `json:"next_saturday"`
	NextSunday         Date            `json:"next_sunday"`
	DaysUntilSaturday  int             `json:"days_until_saturday"`
	DaysUntilSunday    int             `json:"days_until_sunday"`
	IsSaturday         bool            `json:"is_saturday"`
	IsSunday           bool            `json:"is_sunday"`
}
