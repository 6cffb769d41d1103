package tool

import (
	"context"
	"testing"

	statex "github.com/tanakrit-w/giftwise/agent/state"
)

func TestAddOccasionWarnsOnUnknownRecipient(t *testing.T) {
	t.Parallel()

	exec, st := newTestExecutor(t)
	res, err := exec(context.Background(), ToolAddOccasion, map[string]any{
		"recipient_name": "Nobody",
		"occasion_type":  "birthday",
		"month":          float64(6),
		"day":            float64(10),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("warn-and-store must not fail: %s", res.Error)
	}
	if res.Warning == "" {
		t.Fatal("expected a warning for the unknown recipient")
	}
	if len(st.Occasions) != 1 {
		t.Fatalf("occasion not stored: %d", len(st.Occasions))
	}
}

func TestAddOccasionKnownRecipientNoWarning(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	if _, err := exec(ctx, ToolAddRecipient, map[string]any{"name": "Mia"}); err != nil {
		t.Fatalf("add recipient: %v", err)
	}
	res, err := exec(ctx, ToolAddOccasion, map[string]any{
		"recipient_name": "mia",
		"occasion_type":  "birthday",
		"month":          float64(3),
		"day":            float64(15),
	})
	if err != nil {
		t.Fatalf("add occasion: %v", err)
	}
	if res.Warning != "" {
		t.Fatalf("unexpected warning: %s", res.Warning)
	}

	out := res.Result.(OccasionOutput)
	if out.DaysUntil != 14 {
		t.Fatalf("days until = %d, want 14", out.DaysUntil)
	}
	if out.ReminderDaysBefore != defaultReminderDays {
		t.Fatalf("reminder default = %d, want %d", out.ReminderDaysBefore, defaultReminderDays)
	}
	if out.Type != "birthday" {
		t.Fatalf("type = %s", out.Type)
	}
}

func TestAddOccasionValidation(t *testing.T) {
	t.Parallel()

	exec, st := newTestExecutor(t)
	ctx := context.Background()

	cases := []struct {
		name string
		args map[string]any
	}{
		{"missing recipient", map[string]any{"occasion_type": "birthday", "month": float64(6), "day": float64(1)}},
		{"missing type", map[string]any{"recipient_name": "Mia", "month": float64(6), "day": float64(1)}},
		{"feb 30", map[string]any{"recipient_name": "Mia", "occasion_type": "birthday", "month": float64(2), "day": float64(30)}},
		{"month 13", map[string]any{"recipient_name": "Mia", "occasion_type": "birthday", "month": float64(13), "day": float64(1)}},
	}
	for _, tc := range cases {
		res, err := exec(ctx, ToolAddOccasion, tc.args)
		if err != nil {
			t.Fatalf("%s: unexpected Go error: %v", tc.name, err)
		}
		if res.Error == "" {
			t.Fatalf("%s: expected conversational failure", tc.name)
		}
	}
	if len(st.Occasions) != 0 {
		t.Fatalf("invalid occasions must not be stored: %d", len(st.Occasions))
	}
}

func TestAddOccasionUnknownTypeBecomesCustom(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	res, err := exec(context.Background(), ToolAddOccasion, map[string]any{
		"recipient_name": "Mia",
		"occasion_type":  "graduation",
		"month":          float64(5),
		"day":            float64(20),
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := res.Result.(OccasionOutput).Type; got != "custom" {
		t.Fatalf("type = %s, want custom", got)
	}
}

func TestListUpcomingSortsAndBounds(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	add := func(name string, month, day int) {
		t.Helper()
		if _, err := exec(ctx, ToolAddOccasion, map[string]any{
			"recipient_name": name,
			"occasion_type":  "birthday",
			"month":          float64(month),
			"day":            float64(day),
		}); err != nil {
			t.Fatalf("add occasion: %v", err)
		}
	}
	// Today is March 1. The recurring February date rolls to next year and
	// falls outside the horizon.
	add("Late", 3, 28)
	add("Soon", 3, 15)
	add("NextYear", 2, 1)

	res, err := exec(ctx, ToolListUpcoming, map[string]any{})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	out := res.Result.(ListUpcomingOutput)
	if out.DaysAhead != defaultHorizonDays {
		t.Fatalf("default horizon = %d, want %d", out.DaysAhead, defaultHorizonDays)
	}
	if out.Count != 2 {
		t.Fatalf("count = %d, want 2", out.Count)
	}
	if out.Occasions[0].RecipientName != "Soon" || out.Occasions[1].RecipientName != "Late" {
		t.Fatalf("not sorted soonest first: %+v", out.Occasions)
	}

	res, err = exec(ctx, ToolListUpcoming, map[string]any{"days_ahead": float64(400)})
	if err != nil {
		t.Fatalf("list upcoming wide: %v", err)
	}
	if got := res.Result.(ListUpcomingOutput).Count; got != 3 {
		t.Fatalf("wide horizon count = %d, want 3", got)
	}
}

func TestMarkOccasionComplete(t *testing.T) {
	t.Parallel()

	exec, st := newTestExecutor(t)
	ctx := context.Background()

	res, err := exec(ctx, ToolAddOccasion, map[string]any{
		"recipient_name": "Mia",
		"occasion_type":  "birthday",
		"month":          float64(3),
		"day":            float64(15),
	})
	if err != nil {
		t.Fatalf("add occasion: %v", err)
	}
	added := res.Result.(OccasionOutput)
	if added.OccasionID == "" {
		t.Fatal("occasion id not assigned")
	}
	if added.Status != string(statex.OccasionUpcoming) {
		t.Fatalf("new occasion status = %q", added.Status)
	}

	res, err = exec(ctx, ToolCompleteOccasion, map[string]any{
		"occasion_id": added.OccasionID,
	})
	if err != nil {
		t.Fatalf("complete occasion: %v", err)
	}
	if res.Error != "" {
		t.Fatalf("unexpected tool error: %s", res.Error)
	}
	if got := res.Result.(OccasionOutput).Status; got != string(statex.OccasionComplete) {
		t.Fatalf("status = %q, want complete", got)
	}

	// Completed occasions stay recorded but stop surfacing as upcoming,
	// even though their date has not passed.
	if len(st.Occasions) != 1 {
		t.Fatalf("occasion removed instead of completed: %d", len(st.Occasions))
	}
	res, err = exec(ctx, ToolListUpcoming, map[string]any{})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if got := res.Result.(ListUpcomingOutput).Count; got != 0 {
		t.Fatalf("completed occasion still listed: count = %d", got)
	}

	res, err = exec(ctx, ToolPlanningStatistics, map[string]any{})
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if got := res.Result.(statex.Stats).UpcomingOccasions; got != 0 {
		t.Fatalf("completed occasion counted as upcoming: %d", got)
	}
}

func TestMarkOccasionCompleteValidation(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	for name, args := range map[string]map[string]any{
		"missing id": {},
		"unknown id": {"occasion_id": "no-such-occasion"},
	} {
		res, err := exec(ctx, ToolCompleteOccasion, args)
		if err != nil {
			t.Fatalf("%s: unexpected Go error: %v", name, err)
		}
		if res.Error == "" {
			t.Fatalf("%s: expected conversational failure", name)
		}
	}
}

func TestOccasionOutputCarriesReminderDate(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	// Today is March 1; the event is March 20 with a 5-day lead.
	res, err := exec(context.Background(), ToolAddOccasion, map[string]any{
		"recipient_name":       "Mia",
		"occasion_type":        "birthday",
		"month":                float64(3),
		"day":                  float64(20),
		"reminder_days_before": float64(5),
	})
	if err != nil {
		t.Fatalf("add occasion: %v", err)
	}
	out := res.Result.(OccasionOutput)
	if out.ReminderDate != "2025-03-15" {
		t.Fatalf("reminder date = %q, want 2025-03-15", out.ReminderDate)
	}
}

func TestListUpcomingExcludesPastOneTime(t *testing.T) {
	t.Parallel()

	exec, _ := newTestExecutor(t)
	ctx := context.Background()

	if _, err := exec(ctx, ToolAddOccasion, map[string]any{
		"recipient_name": "Mia",
		"occasion_type":  "custom",
		"month":          float64(1),
		"day":            float64(1),
		"year":           float64(2025),
		"recurring":      false,
	}); err != nil {
		t.Fatalf("add occasion: %v", err)
	}

	res, err := exec(ctx, ToolListUpcoming, map[string]any{"days_ahead": float64(365)})
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if got := res.Result.(ListUpcomingOutput).Count; got != 0 {
		t.Fatalf("past one-time occasion listed: count = %d", got)
	}
}
