package tool

import (
	"fmt"
	"sort"
	"strings"
	"time"

	contractx "github.com/tanakrit-w/giftwise/agent/contract"
	statex "github.com/tanakrit-w/giftwise/agent/state"
)

const (
	defaultReminderDays = 14
	defaultHorizonDays  = 30
)

type OccasionOutput struct {
	OccasionID         string `json:"occasion_id"`
	Status             string `json:"status"`
	RecipientName      string `json:"recipient_name"`
	Type               string `json:"type"`
	Month              int    `json:"month"`
	Day                int    `json:"day"`
	Year               int    `json:"year,omitempty"`
	Recurring          bool   `json:"recurring"`
	ReminderDaysBefore int    `json:"reminder_days_before"`
	DaysUntil          int    `json:"days_until"`
	ReminderDate       string `json:"reminder_date,omitempty"`
}

type ListUpcomingOutput struct {
	DaysAhead int              `json:"days_ahead"`
	Count     int              `json:"count"`
	Occasions []OccasionOutput `json:"occasions"`
}

// Unknown recipient references are stored with a warning rather than
// rejected: the dispatcher may add the occasion before the profile, and the
// reference is non-owning by design.
func executeAddOccasion(st *statex.SessionState, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	recipientName, err := stringArg(args, "recipient_name")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if recipientName == "" {
		return toolFailure(tool, "recipient_name is required"), nil
	}

	occasionType, err := stringArg(args, "occasion_type")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if occasionType == "" {
		return toolFailure(tool, "occasion_type is required"), nil
	}

	month, _, err := intArg(args, "month")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	day, _, err := intArg(args, "day")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if !statex.ValidMonthDay(month, day) {
		return toolFailure(tool, fmt.Sprintf("invalid calendar date: month=%d day=%d", month, day)), nil
	}

	year, _, err := intArg(args, "year")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	recurring, err := boolArg(args, "recurring", true)
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	reminderDays, hasReminder, err := intArg(args, "reminder_days_before")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if !hasReminder || reminderDays < 0 {
		reminderDays = defaultReminderDays
	}

	occ := st.AddOccasion(statex.Occasion{
		RecipientName:      recipientName,
		Type:               parseOccasionType(occasionType),
		Month:              month,
		Day:                day,
		Year:               year,
		Recurring:          recurring,
		ReminderDaysBefore: reminderDays,
	}, now)

	days, _ := DaysUntilEvent(now, month, day, year, recurring)

	result := toolSuccess(tool, toOccasionOutput(occ, days, now))
	if _, known := st.FindRecipient(recipientName); !known {
		result.Warning = fmt.Sprintf("no stored profile for recipient %q; occasion saved anyway", recipientName)
	}
	return result, nil
}

func executeListUpcoming(st *statex.SessionState, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	horizon, hasHorizon, err := intArg(args, "days_ahead")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if !hasHorizon || horizon <= 0 {
		horizon = defaultHorizonDays
	}

	out := ListUpcomingOutput{DaysAhead: horizon, Occasions: []OccasionOutput{}}
	for _, o := range st.Occasions {
		if o.Status == statex.OccasionComplete {
			continue
		}
		days, err := DaysUntilEvent(now, o.Month, o.Day, o.Year, o.Recurring)
		if err != nil {
			continue
		}
		if days < 0 || days > horizon {
			continue
		}
		out.Occasions = append(out.Occasions, toOccasionOutput(o, days, now))
	}

	// Stable sort keeps insertion order for same-day occasions.
	sort.SliceStable(out.Occasions, func(i, j int) bool {
		return out.Occasions[i].DaysUntil < out.Occasions[j].DaysUntil
	})
	out.Count = len(out.Occasions)

	return toolSuccess(tool, out), nil
}

func parseOccasionType(raw string) statex.OccasionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "birthday":
		return statex.OccasionBirthday
	case "anniversary":
		return statex.OccasionAnniversary
	case "holiday":
		return statex.OccasionHoliday
	default:
		return statex.OccasionCustom
	}
}

// executeCompleteOccasion marks an occasion done so it stops appearing in
// upcoming views before its date passes.
func executeCompleteOccasion(st *statex.SessionState, tool string, args map[string]any, now time.Time) (contractx.ToolResult, error) {
	id, err := stringArg(args, "occasion_id")
	if err != nil {
		return toolFailure(tool, err.Error()), nil
	}
	if id == "" {
		return toolFailure(tool, "occasion_id is required"), nil
	}

	occ, ok := st.CompleteOccasion(id, now)
	if !ok {
		return toolFailure(tool, fmt.Sprintf("no occasion with id %q", id)), nil
	}

	days, _ := DaysUntilEvent(now, occ.Month, occ.Day, occ.Year, occ.Recurring)
	return toolSuccess(tool, toOccasionOutput(occ, days, now)), nil
}

func toOccasionOutput(o *statex.Occasion, daysUntil int, now time.Time) OccasionOutput {
	out := OccasionOutput{
		OccasionID:         o.ID,
		Status:             string(o.Status),
		RecipientName:      o.RecipientName,
		Type:               string(o.Type),
		Month:              o.Month,
		Day:                o.Day,
		Year:               o.Year,
		Recurring:          o.Recurring,
		ReminderDaysBefore: o.ReminderDaysBefore,
		DaysUntil:          daysUntil,
	}
	// The event date is today plus the day count; the reminder leads it by
	// the configured number of days.
	event := dateOnly(now).AddDate(0, 0, daysUntil)
	out.ReminderDate = event.AddDate(0, 0, -o.ReminderDaysBefore).Format("2006-01-02")
	return out
}
