// Package report builds multi-day calorie summaries by fanning out day
// fetches against the remote API.
package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"meallog/internal/core"
)

// MealLister is the read side of the remote accessor.
type MealLister interface {
	MealsOn(ctx context.Context, date string) ([]core.Meal, error)
}

// Day is one day's aggregated view within a range.
type Day struct {
	Date    string
	Summary core.DaySummary
}

// fetchConcurrency bounds parallel day fetches so a long range does not
// hammer the API.
const fetchConcurrency = 4

// Range fetches every day in [from, to] concurrently and aggregates
// each one. Results are ordered by date regardless of completion order;
// any fetch failure cancels the remaining fetches and fails the report.
func Range(ctx context.Context, lister MealLister, from, to string) ([]Day, error) {
	start, err := time.Parse(core.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("parse from date: %w", err)
	}
	end, err := time.Parse(core.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("parse to date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("range end %s before start %s", to, from)
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(core.DateLayout))
	}

	days := make([]Day, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	for i, date := range dates {
		g.Go(func() error {
			meals, err := lister.MealsOn(gctx, date)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", date, err)
			}
			days[i] = Day{Date: date, Summary: core.Aggregate(meals)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return days, nil
}

// Total sums the grand totals of all days in the report.
func Total(days []Day) int {
	var total int
	for _, d := range days {
		total += d.Summary.TotalKcal
	}
	return total
}
