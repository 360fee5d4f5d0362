package report

import (
	"context"
	"errors"
	"testing"

	"meallog/internal/core"
)

type fakeLister struct {
	byDate map[string][]core.Meal
	errs   map[string]error
}

func (f *fakeLister) MealsOn(_ context.Context, date string) ([]core.Meal, error) {
	if err := f.errs[date]; err != nil {
		return nil, err
	}
	return f.byDate[date], nil
}

func kcal(v int) *int { return &v }

func TestRangeOrdersDaysByDate(t *testing.T) {
	lister := &fakeLister{byDate: map[string][]core.Meal{
		"2025-08-28": {{ID: 1, Kind: core.Lunch, CaloriesKcal: kcal(500)}},
		"2025-08-29": {},
		"2025-08-30": {{ID: 2, Kind: core.Dinner, CaloriesKcal: kcal(300)}},
	}}

	days, err := Range(context.Background(), lister, "2025-08-28", "2025-08-30")
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	for i, want := range []string{"2025-08-28", "2025-08-29", "2025-08-30"} {
		if days[i].Date != want {
			t.Errorf("days[%d].Date = %s, want %s", i, days[i].Date, want)
		}
	}
	if days[0].Summary.TotalKcal != 500 || days[1].Summary.TotalKcal != 0 || days[2].Summary.TotalKcal != 300 {
		t.Fatalf("totals = %d %d %d", days[0].Summary.TotalKcal, days[1].Summary.TotalKcal, days[2].Summary.TotalKcal)
	}
	if got := Total(days); got != 800 {
		t.Fatalf("Total = %d, want 800", got)
	}
}

func TestRangeSingleDay(t *testing.T) {
	lister := &fakeLister{byDate: map[string][]core.Meal{}}
	days, err := Range(context.Background(), lister, "2025-08-30", "2025-08-30")
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if len(days) != 1 || days[0].Date != "2025-08-30" {
		t.Fatalf("days = %+v", days)
	}
}

func TestRangeFetchErrorFailsReport(t *testing.T) {
	lister := &fakeLister{
		byDate: map[string][]core.Meal{},
		errs:   map[string]error{"2025-08-29": errors.New("boom")},
	}
	if _, err := Range(context.Background(), lister, "2025-08-28", "2025-08-30"); err == nil {
		t.Fatal("expected error")
	}
}

func TestRangeRejectsInvertedRange(t *testing.T) {
	if _, err := Range(context.Background(), &fakeLister{}, "2025-08-30", "2025-08-28"); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestRangeRejectsBadDates(t *testing.T) {
	if _, err := Range(context.Background(), &fakeLister{}, "30/08/2025", "2025-08-30"); err == nil {
		t.Fatal("expected error for malformed from date")
	}
}
