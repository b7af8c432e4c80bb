// Package schedule computes weekly anchor-day occurrences on the local
// calendar: allowance Saturdays and interest Sundays.
package schedule

import (
	"time"

	"PiggyVault/internal/model"
)

// Next returns the first occurrence of weekday strictly after d. When d
// itself falls on weekday the result is seven days later.
func Next(d model.Date, weekday time.Weekday) model.Date {
	delta := (int(weekday) - int(d.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return d.AddDays(delta)
}

// WeeklyOccurrences lists every occurrence of weekday strictly after
// `after`, up to and including `through`, ascending and seven days apart.
// Empty when the range contains none.
func WeeklyOccurrences(weekday time.Weekday, after, through model.Date) []model.Date {
	var out []model.Date
	for d := Next(after, weekday); !d.After(through); d = d.AddDays(7) {
		out = append(out, d)
	}
	return out
}
