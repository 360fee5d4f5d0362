package memory

import (
	"context"
	"testing"

	"meallog/internal/core"
)

func TestAppendDaySummary(t *testing.T) {
	w := New()

	ref, err := w.AppendDaySummary(context.Background(), "2025-08-30", core.DaySummary{TotalKcal: 900})
	if err != nil {
		t.Fatalf("AppendDaySummary: %v", err)
	}
	if ref != "memory:1" {
		t.Fatalf("ref = %q", ref)
	}

	// Same date overwrites instead of duplicating.
	if _, err := w.AppendDaySummary(context.Background(), "2025-08-30", core.DaySummary{TotalKcal: 1200}); err != nil {
		t.Fatalf("AppendDaySummary: %v", err)
	}
	rows := w.Rows()
	if len(rows) != 1 || rows[0].Summary.TotalKcal != 1200 {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestAppendRejectsBadDate(t *testing.T) {
	w := New()
	if _, err := w.AppendDaySummary(context.Background(), "30/08/2025", core.DaySummary{}); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
