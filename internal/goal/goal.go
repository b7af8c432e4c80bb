// Package goal projects the account balance forward under the weekly
// schedule and solves for the extra weekly contribution a savings goal
// would need.
package goal

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"PiggyVault/internal/model"
	"PiggyVault/internal/schedule"
)

var (
	one       = decimal.NewFromInt(1)
	two       = decimal.NewFromInt(2)
	hundred   = decimal.NewFromInt(100)
	tolerance = decimal.New(1, -2) // one cent
)

// Result reports a goal projection. Exactly one of AlreadyReached, TooSoon,
// WillReach, or a positive WeeklyExtraNeeded describes the outcome.
type Result struct {
	AlreadyReached         bool            `json:"already_reached"`
	TooSoon                bool            `json:"too_soon"`
	WillReach              bool            `json:"will_reach"`
	CurrentBalance         decimal.Decimal `json:"current_balance"`
	GoalAmount             decimal.Decimal `json:"goal_amount"`
	FutureBalance          decimal.Decimal `json:"future_balance"`
	FutureBalanceWithExtra decimal.Decimal `json:"future_balance_with_extra"`
	Shortfall              decimal.Decimal `json:"shortfall"`
	WeeklyExtraNeeded      decimal.Decimal `json:"weekly_extra_needed"`
	DaysUntilGoal          int             `json:"days_until_goal"`
	AllowancePayments      int             `json:"allowance_payments"`
	InterestPayments       int             `json:"interest_payments"`
	TotalAllowance         decimal.Decimal `json:"total_allowance"`
	Message                string          `json:"message"`
	Message2               string          `json:"message2,omitempty"`
}

// event is one scheduled occurrence in the simulated range.
type event struct {
	date model.Date
	kind model.Kind
}

// Project simulates the current schedule through goalDate and, when the
// goal cannot be met, bisects for the smallest weekly extra contribution
// that meets it. Pure: never mutates st.
func Project(st *model.AccountState, goalAmount decimal.Decimal, goalDate, today model.Date) *Result {
	current := st.InitialBalance
	for _, a := range st.AutoDeposits {
		current = current.Add(a.Amount)
	}
	for _, m := range st.ManualTxns {
		current = current.Add(m.Amount)
	}

	res := &Result{CurrentBalance: current, GoalAmount: goalAmount}

	if goalAmount.LessThanOrEqual(current) {
		res.AlreadyReached = true
		res.Message = fmt.Sprintf("Great news! You already have %s!", currency(current))
		res.Message2 = fmt.Sprintf("That's more than your goal of %s!", currency(goalAmount))
		return res
	}

	events := upcoming(today, goalDate)
	saturdays, sundays := 0, 0
	for _, e := range events {
		if e.kind == model.KindAllowance {
			saturdays++
		} else {
			sundays++
		}
	}
	res.AllowancePayments = saturdays
	res.InterestPayments = sundays
	res.DaysUntilGoal = today.DaysUntil(goalDate)
	res.TotalAllowance = st.CurrentAllowance.Mul(decimal.NewFromInt(int64(saturdays)))

	if len(events) == 0 {
		res.TooSoon = true
		res.Shortfall = goalAmount.Sub(current)
		res.Message = fmt.Sprintf(
			"Your goal date is before the next deposit. You currently have %s and need %s more to reach your goal.",
			currency(current), currency(res.Shortfall))
		return res
	}

	future := simulate(current, st.CurrentAllowance, st.CurrentInterest, decimal.Zero, events)
	res.FutureBalance = future

	if future.GreaterThanOrEqual(goalAmount) {
		res.WillReach = true
		res.Message = fmt.Sprintf("Great! Right now you have %s.", currency(current))
		res.Message2 = fmt.Sprintf("You'll reach your goal of %s without adding anything extra!", currency(goalAmount))
		return res
	}

	res.Shortfall = goalAmount.Sub(future)

	var extra decimal.Decimal
	if saturdays > 0 {
		extra = solveWeeklyExtra(current, st.CurrentAllowance, st.CurrentInterest, goalAmount, res.Shortfall, events)
	}
	res.WeeklyExtraNeeded = extra
	res.FutureBalanceWithExtra = simulate(current, st.CurrentAllowance, st.CurrentInterest, extra, events)
	res.Message = fmt.Sprintf(
		"Right now you have %s. If you don't add any extra, you'll have %s by your target date.",
		currency(current), currency(future))
	res.Message2 = fmt.Sprintf(
		"To reach your goal of %s, you'll need to save an additional %s each week.",
		currency(goalAmount), currency(extra))
	return res
}

// upcoming enumerates allowance Saturdays and interest Sundays strictly
// between the next occurrence after today and the goal date, ascending.
func upcoming(today, goalDate model.Date) []event {
	nextSat := schedule.Next(today, time.Saturday)
	nextSun := schedule.Next(today, time.Sunday)

	var events []event
	for _, d := range schedule.WeeklyOccurrences(time.Saturday, nextSat, goalDate) {
		events = append(events, event{d, model.KindAllowance})
	}
	for _, d := range schedule.WeeklyOccurrences(time.Sunday, nextSun, goalDate) {
		events = append(events, event{d, model.KindInterest})
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].date.Before(events[j].date) })
	return events
}

// simulate walks the events in order: Saturdays add the allowance plus the
// extra contribution, Sundays compound the running balance.
func simulate(balance, allowance, rate, extra decimal.Decimal, events []event) decimal.Decimal {
	growth := one.Add(rate.Div(hundred))
	for _, e := range events {
		if e.kind == model.KindAllowance {
			balance = balance.Add(allowance).Add(extra)
		} else {
			balance = balance.Mul(growth)
		}
	}
	return balance
}

// solveWeeklyExtra bisects on the per-Saturday extra contribution. The
// no-interest shortfall bounds it above; the bracket closes to within one
// cent and the answer rounds up so the goal is met rather than narrowly
// missed.
func solveWeeklyExtra(balance, allowance, rate, goalAmount, shortfall decimal.Decimal, events []event) decimal.Decimal {
	low, high := decimal.Zero, shortfall
	for high.Sub(low).GreaterThan(tolerance) {
		mid := low.Add(high).Div(two)
		if simulate(balance, allowance, rate, mid, events).GreaterThanOrEqual(goalAmount) {
			high = mid
		} else {
			low = mid
		}
	}
	return high.Mul(hundred).Ceil().Div(hundred)
}

func currency(d decimal.Decimal) string {
	return "$" + humanize.CommafWithDigits(d.InexactFloat64(), 2)
}
