// Package viewstate holds the client-side state machines that sit
// between user actions and the remote accessor: the selected day's meal
// list and the generic edit/save/delete controller. The fetched list is
// the single source of truth; mutations are applied only from confirmed
// server responses.
package viewstate

import (
	"context"
	"errors"
	"sync"

	"meallog/internal/api"
	"meallog/internal/cache"
	"meallog/internal/core"
)

// MealLister is the read side of the remote accessor.
type MealLister interface {
	MealsOn(ctx context.Context, date string) ([]core.Meal, error)
}

// DayView owns the meal list for the currently selected date.
// Fetches are generation-numbered: changing the date cancels the
// in-flight fetch, and a stale resolution never overwrites newer state
// (last-requested-date wins).
type DayView struct {
	mu     sync.Mutex
	lister MealLister
	cache  *cache.LRU[[]core.Meal]

	date    string
	meals   []core.Meal
	loading bool
	errMsg  string

	gen    uint64
	cancel context.CancelFunc
}

// NewDayView creates a view over the given lister. The cache is
// optional; when present, a previously fetched date renders from cache
// immediately while the refresh runs.
func NewDayView(lister MealLister, c *cache.LRU[[]core.Meal]) *DayView {
	return &DayView{lister: lister, cache: c}
}

// SetDate selects a date and fetches its meal list. Safe to call while
// a previous fetch is still in flight; the older fetch is aborted and
// its outcome ignored. Cancellation is not an error and sets no error
// state.
func (v *DayView) SetDate(ctx context.Context, date string) error {
	fetchCtx, gen := v.begin(ctx, date)

	meals, err := v.lister.MealsOn(fetchCtx, date)
	return v.finish(gen, date, meals, err)
}

func (v *DayView) begin(ctx context.Context, date string) (context.Context, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.cancel != nil {
		v.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.gen++
	v.date = date
	v.loading = true
	v.errMsg = ""
	if v.cache != nil {
		if cached, ok := v.cache.Get(date); ok {
			v.meals = cached
		}
	}
	return fetchCtx, v.gen
}

func (v *DayView) finish(gen uint64, date string, meals []core.Meal, err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		// Superseded by a newer fetch; discard this outcome entirely.
		return nil
	}
	v.loading = false

	switch {
	case err == nil:
		v.meals = meals
		if v.cache != nil {
			v.cache.Put(date, meals)
		}
		return nil
	case errors.Is(err, api.ErrNotModified):
		// No change; keep the current view.
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		v.errMsg = err.Error()
		v.meals = []core.Meal{}
		return err
	}
}

// Date returns the currently selected date.
func (v *DayView) Date() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.date
}

// Meals returns the current list in fetch order.
func (v *DayView) Meals() []core.Meal {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]core.Meal, len(v.meals))
	copy(out, v.meals)
	return out
}

// Err returns the inline error message for the last fetch, if any.
func (v *DayView) Err() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.errMsg
}

// Loading reports whether a fetch is in flight.
func (v *DayView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Summary recomputes the grouped view from the full current list.
func (v *DayView) Summary() core.DaySummary {
	return core.Aggregate(v.Meals())
}

// Insert appends a server-confirmed meal to the list.
func (v *DayView) Insert(m core.Meal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.meals = append(v.meals, m)
	v.refreshCache()
}

// ReplaceByID swaps the meal with the same id for its confirmed
// replacement. Unknown ids are ignored.
func (v *DayView) ReplaceByID(m core.Meal) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.meals {
		if v.meals[i].ID == m.ID {
			v.meals[i] = m
			break
		}
	}
	v.refreshCache()
}

// RemoveByID drops the meal with the given id after a confirmed delete.
func (v *DayView) RemoveByID(id int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	kept := v.meals[:0]
	for _, m := range v.meals {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	v.meals = kept
	v.refreshCache()
}

func (v *DayView) refreshCache() {
	if v.cache == nil || v.date == "" {
		return
	}
	snapshot := make([]core.Meal, len(v.meals))
	copy(snapshot, v.meals)
	v.cache.Put(v.date, snapshot)
}
