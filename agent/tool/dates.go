package tool

import (
	"fmt"
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

// DaysUntilEvent counts calendar days from today to a month/day event.
// Recurring events always resolve to the next future occurrence, rolling
// into the following year when the date has already passed. Non-recurring
// events use the given year (or the current one when unspecified) and go
// negative once past. Granularity is whole calendar days, not wall clock.
func DaysUntilEvent(today time.Time, month, day, year int, recurring bool) (int, error) {
	if !statex.ValidMonthDay(month, day) {
		return 0, fmt.Errorf("invalid calendar date: month=%d day=%d", month, day)
	}

	base := dateOnly(today)

	if recurring {
		next := time.Date(base.Year(), time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if next.Before(base) {
			next = time.Date(base.Year()+1, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		}
		return daysBetween(base, next), nil
	}

	y := year
	if y == 0 {
		y = base.Year()
	}
	target := time.Date(y, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return daysBetween(base, target), nil
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

func executeDaysUntil(tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	month, _, err := intArg(args, "month")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	day, _, err := intArg(args, "day")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	year, _, err := intArg(args, "year")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	recurring, err := boolArg(args, "recurring", true)
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}

	days, err := DaysUntilEvent(now, month, day, year, recurring)
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}

	return toolSuccess(tool, DaysUntilOutput{
		Month:     month,
		Day:       day,
		Year:      year,
		Recurring: recurring,
		DaysUntil: days,
	}), nil
}

type DaysUntilOutput struct {
	Month     int  `json:"month"`
	Day       int  `json:"day"`
	Year      int  `json:"year,omitempty"`
	Recurring bool `json:"recurring"`
	DaysUntil int  `json:"days_until"`
}
