// Package memory provides an in-memory SummaryWriter for tests and for
// running the worker without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"meallog/internal/core"
	ports "meallog/internal/sheets"
)

type Row struct {
	Date    string
	Summary core.DaySummary
}

type Writer struct {
	mu   sync.Mutex
	rows []Row
}

var _ ports.SummaryWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

// AppendDaySummary overwrites an existing row for the date, matching
// the Google adapter's behavior.
func (w *Writer) AppendDaySummary(_ context.Context, date string, s core.DaySummary) (string, error) {
	if !core.ValidDate(date) {
		return "", fmt.Errorf("invalid date: %q", date)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for i, row := range w.rows {
		if row.Date == date {
			w.rows[i].Summary = s
			return fmt.Sprintf("memory:%d", i+1), nil
		}
	}
	w.rows = append(w.rows, Row{Date: date, Summary: s})
	return fmt.Sprintf("memory:%d", len(w.rows)), nil
}

// Rows returns a copy of everything written so far.
func (w *Writer) Rows() []Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Row, len(w.rows))
	copy(out, w.rows)
	return out
}
