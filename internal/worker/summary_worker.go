// Package worker turns meal-change events into exported day summaries.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"meallog/internal/amqp"
	"meallog/internal/core"
	"meallog/internal/sheets"
)

// MealLister is the read side of the remote accessor.
type MealLister interface {
	MealsOn(ctx context.Context, date string) ([]core.Meal, error)
}

// SummaryWorker re-fetches the affected day on every change event,
// aggregates it, and exports the summary. The event only names the day;
// the API stays the source of truth for its contents, so stale or
// duplicated events converge to the same exported row.
type SummaryWorker struct {
	lister MealLister
	writer sheets.SummaryWriter
}

func NewSummaryWorker(lister MealLister, writer sheets.SummaryWriter) *SummaryWorker {
	return &SummaryWorker{lister: lister, writer: writer}
}

// HandleMealEvent processes a single change event from AMQP.
func (w *SummaryWorker) HandleMealEvent(ctx context.Context, msg *amqp.MealEventMessage) error {
	slog.InfoContext(ctx, "Processing meal event",
		"id", msg.ID,
		"eaten_on", msg.EatenOn,
		"action", msg.Action)

	if !core.ValidDate(msg.EatenOn) {
		// Undecodable days can never succeed; drop instead of requeue.
		slog.WarnContext(ctx, "Dropping event with invalid date", "eaten_on", msg.EatenOn)
		return nil
	}

	return w.ExportDay(ctx, msg.EatenOn)
}

// ExportDay fetches one day, aggregates it, and writes the summary row.
func (w *SummaryWorker) ExportDay(ctx context.Context, date string) error {
	meals, err := w.lister.MealsOn(ctx, date)
	if err != nil {
		return fmt.Errorf("fetch day %s: %w", date, err)
	}

	summary := core.Aggregate(meals)

	if w.writer == nil {
		slog.InfoContext(ctx, "Sheets export disabled, summary computed only",
			"eaten_on", date, "total_kcal", summary.TotalKcal)
		return nil
	}

	ref, err := w.writer.AppendDaySummary(ctx, date, summary)
	if err != nil {
		return fmt.Errorf("export day %s: %w", date, err)
	}

	slog.InfoContext(ctx, "Exported day summary",
		"eaten_on", date,
		"total_kcal", summary.TotalKcal,
		"meals", len(meals),
		"sheets_ref", ref)

	return nil
}
