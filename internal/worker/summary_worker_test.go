package worker

import (
	"context"
	"errors"
	"testing"

	"meallog/internal/amqp"
	"meallog/internal/core"
	"meallog/internal/sheets/memory"
)

type fakeLister struct {
	byDate map[string][]core.Meal
	err    error
	calls  []string
}

func (f *fakeLister) MealsOn(_ context.Context, date string) ([]core.Meal, error) {
	f.calls = append(f.calls, date)
	if f.err != nil {
		return nil, f.err
	}
	return f.byDate[date], nil
}

func kcal(v int) *int { return &v }

func TestHandleMealEventExportsDay(t *testing.T) {
	lister := &fakeLister{byDate: map[string][]core.Meal{
		"2025-08-30": {
			{ID: 1, Kind: core.Breakfast, CaloriesKcal: kcal(300)},
			{ID: 2, Kind: core.Lunch, CaloriesKcal: kcal(500)},
		},
	}}
	writer := memory.New()
	w := NewSummaryWorker(lister, writer)

	msg := amqp.NewMealEventMessage(2, "2025-08-30", amqp.ActionUpdated)
	if err := w.HandleMealEvent(context.Background(), msg); err != nil {
		t.Fatalf("HandleMealEvent: %v", err)
	}

	rows := writer.Rows()
	if len(rows) != 1 || rows[0].Date != "2025-08-30" || rows[0].Summary.TotalKcal != 800 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestDuplicateEventsConverge(t *testing.T) {
	lister := &fakeLister{byDate: map[string][]core.Meal{
		"2025-08-30": {{ID: 1, Kind: core.Dinner, CaloriesKcal: kcal(700)}},
	}}
	writer := memory.New()
	w := NewSummaryWorker(lister, writer)

	for i := 0; i < 3; i++ {
		msg := amqp.NewMealEventMessage(1, "2025-08-30", amqp.ActionCreated)
		if err := w.HandleMealEvent(context.Background(), msg); err != nil {
			t.Fatalf("HandleMealEvent: %v", err)
		}
	}

	rows := writer.Rows()
	if len(rows) != 1 || rows[0].Summary.TotalKcal != 700 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestInvalidDateDroppedWithoutFetch(t *testing.T) {
	lister := &fakeLister{}
	w := NewSummaryWorker(lister, memory.New())

	msg := amqp.NewMealEventMessage(1, "not-a-date", amqp.ActionDeleted)
	if err := w.HandleMealEvent(context.Background(), msg); err != nil {
		t.Fatalf("invalid date must not requeue: %v", err)
	}
	if len(lister.calls) != 0 {
		t.Fatalf("no fetch expected, got %v", lister.calls)
	}
}

func TestFetchFailurePropagates(t *testing.T) {
	lister := &fakeLister{err: errors.New("api down")}
	w := NewSummaryWorker(lister, memory.New())

	msg := amqp.NewMealEventMessage(1, "2025-08-30", amqp.ActionCreated)
	if err := w.HandleMealEvent(context.Background(), msg); err == nil {
		t.Fatal("expected error so the delivery is requeued")
	}
}

func TestNilWriterComputesOnly(t *testing.T) {
	lister := &fakeLister{byDate: map[string][]core.Meal{"2025-08-30": {}}}
	w := NewSummaryWorker(lister, nil)

	if err := w.ExportDay(context.Background(), "2025-08-30"); err != nil {
		t.Fatalf("ExportDay: %v", err)
	}
}
