// Package ledger keeps the account's auto-generated deposits consistent
// with elapsed time and with the set of manual transactions, and derives
// the balance-annotated ledger view.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"PiggyVault/internal/model"
	"PiggyVault/internal/schedule"
)

var hundred = decimal.NewFromInt(100)

// occurrence pairs a schedule date with the stream it came from.
type occurrence struct {
	date model.Date
	kind model.Kind
}

// ExtendSchedule materializes every outstanding allowance Saturday and
// interest Sunday through today, advancing the watermarks. Interest for a
// Sunday is computed on the balance of everything dated strictly before
// it, including entries appended earlier in the same pass. Reports whether
// any occurrence was processed.
func ExtendSchedule(st *model.AccountState, today model.Date) bool {
	satAfter := st.StartDate
	if !st.LastProcessedSaturday.IsZero() {
		satAfter = st.LastProcessedSaturday.AddDays(1)
	}
	sunAfter := st.StartDate
	if !st.LastProcessedSunday.IsZero() {
		sunAfter = st.LastProcessedSunday.AddDays(1)
	}

	var occs []occurrence
	for _, d := range schedule.WeeklyOccurrences(time.Saturday, satAfter, today) {
		occs = append(occs, occurrence{d, model.KindAllowance})
	}
	for _, d := range schedule.WeeklyOccurrences(time.Sunday, sunAfter, today) {
		occs = append(occs, occurrence{d, model.KindInterest})
	}
	sort.SliceStable(occs, func(i, j int) bool { return occs[i].date.Before(occs[j].date) })

	for _, oc := range occs {
		allowance, rate := st.EffectiveRates(oc.date)
		switch oc.kind {
		case model.KindAllowance:
			st.AutoDeposits = append(st.AutoDeposits, model.AutoDeposit{
				Date:   oc.date,
				Kind:   model.KindAllowance,
				Amount: allowance,
			})
			st.LastProcessedSaturday = oc.date
		case model.KindInterest:
			interest := balanceBefore(st, oc.date).Mul(rate).Div(hundred)
			if interest.IsPositive() {
				st.AutoDeposits = append(st.AutoDeposits, model.AutoDeposit{
					Date:   oc.date,
					Kind:   model.KindInterest,
					Rate:   rate,
					Amount: interest,
				})
			}
			// A zero or negative week still counts as processed.
			st.LastProcessedSunday = oc.date
		}
	}
	return len(occs) > 0
}

// balanceBefore sums the initial balance plus every transaction dated
// strictly before cutoff.
func balanceBefore(st *model.AccountState, cutoff model.Date) decimal.Decimal {
	bal := st.InitialBalance
	for _, a := range st.AutoDeposits {
		if a.Date.Before(cutoff) {
			bal = bal.Add(a.Amount)
		}
	}
	for _, m := range st.ManualTxns {
		if m.Date.Before(cutoff) {
			bal = bal.Add(m.Amount)
		}
	}
	return bal
}

// RecalculateFromPivot rebuilds auto deposits after a manual transaction
// was inserted or removed. Allowances are fixed amounts and stay valid, but
// every interest entry depends on the balance, so all of them are discarded
// and regenerated from the start date. The discard is deliberately
// conservative (all interest, not just entries after the pivot): manual
// transactions may be inserted at arbitrary past dates.
func RecalculateFromPivot(st *model.AccountState, today model.Date) bool {
	allowances := make([]model.AutoDeposit, 0, len(st.AutoDeposits))
	var lastSaturday model.Date
	for _, a := range st.AutoDeposits {
		if a.Kind != model.KindAllowance {
			continue
		}
		allowances = append(allowances, a)
		if lastSaturday.IsZero() || a.Date.After(lastSaturday) {
			lastSaturday = a.Date
		}
	}
	st.AutoDeposits = allowances
	st.LastProcessedSaturday = lastSaturday
	st.LastProcessedSunday = model.Date{}
	ExtendSchedule(st, today)
	return true
}

// RecalculateAll discards every auto deposit and both watermarks, then
// extends from the start date. Required whenever the initial parameters
// change, since those affect every historical computation.
func RecalculateAll(st *model.AccountState, today model.Date) {
	st.AutoDeposits = nil
	st.LastProcessedSaturday = model.Date{}
	st.LastProcessedSunday = model.Date{}
	ExtendSchedule(st, today)
}

// BuildLedger merges auto deposits and manual transactions into a
// chronological, balance-annotated view. Date ties keep auto entries ahead
// of manual ones, each stream in its original order.
func BuildLedger(st *model.AccountState) []model.LedgerEntry {
	entries := make([]model.LedgerEntry, 0, len(st.AutoDeposits)+len(st.ManualTxns))
	for _, a := range st.AutoDeposits {
		entries = append(entries, model.LedgerEntry{
			Date:        a.Date,
			Label:       a.Label(),
			Kind:        a.Kind,
			Amount:      a.Amount,
			ManualIndex: -1,
		})
	}
	for i, m := range st.ManualTxns {
		entries = append(entries, model.LedgerEntry{
			Date:        m.Date,
			Label:       m.Label,
			Kind:        m.Kind,
			Amount:      m.Amount,
			Manual:      true,
			ManualIndex: i,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Date.Before(entries[j].Date) })

	bal := st.InitialBalance
	for i := range entries {
		bal = bal.Add(entries[i].Amount)
		entries[i].Balance = bal
	}
	return entries
}

// Balance returns the current balance: initial plus every transaction.
func Balance(st *model.AccountState) decimal.Decimal {
	bal := st.InitialBalance
	for _, a := range st.AutoDeposits {
		bal = bal.Add(a.Amount)
	}
	for _, m := range st.ManualTxns {
		bal = bal.Add(m.Amount)
	}
	return bal
}
