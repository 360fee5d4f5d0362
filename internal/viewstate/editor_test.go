package viewstate

import (
	"context"
	"errors"
	"testing"

	"meallog/internal/core"
)

func mealID(m core.Meal) int64 { return m.ID }

func okOps(t *testing.T) Ops[core.Meal] {
	t.Helper()
	return Ops[core.Meal]{
		Create: func(_ context.Context, d core.Meal) (core.Meal, error) {
			d.ID = 100
			return d, nil
		},
		Update: func(_ context.Context, d core.Meal) (core.Meal, error) {
			return d, nil
		},
		Delete: func(_ context.Context, id int64) error {
			return nil
		},
	}
}

func TestBeginSnapshotsAndCancelRestores(t *testing.T) {
	e := NewEditor(namedMeal(1, "rice", 250), okOps(t), mealID)

	if e.State() != Viewing {
		t.Fatalf("initial state = %v", e.State())
	}
	e.Begin()
	if e.State() != Editing {
		t.Fatalf("state after Begin = %v", e.State())
	}

	draft := e.Draft()
	draft.Name = "fried rice"
	e.SetDraft(draft)
	if e.Draft().Name != "fried rice" {
		t.Fatal("draft edit lost")
	}

	e.Cancel()
	if e.State() != Viewing {
		t.Fatalf("state after Cancel = %v", e.State())
	}
	if e.Current().Name != "rice" {
		t.Fatalf("cancel must restore the snapshot, got %q", e.Current().Name)
	}
}

func TestSaveSuccessConfirmsEntity(t *testing.T) {
	e := NewEditor(namedMeal(1, "rice", 250), okOps(t), mealID)
	e.Begin()
	draft := e.Draft()
	draft.Name = "brown rice"
	e.SetDraft(draft)

	confirmed, err := e.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if confirmed.Name != "brown rice" {
		t.Fatalf("confirmed = %+v", confirmed)
	}
	if e.State() != Viewing || e.Current().Name != "brown rice" {
		t.Fatalf("state=%v current=%+v", e.State(), e.Current())
	}
}

func TestSaveFailureKeepsDraftAndMessage(t *testing.T) {
	ops := okOps(t)
	ops.Update = func(_ context.Context, d core.Meal) (core.Meal, error) {
		return core.Meal{}, errors.New("name required, kcal invalid")
	}
	e := NewEditor(namedMeal(1, "rice", 250), ops, mealID)
	e.Begin()
	draft := e.Draft()
	draft.Name = "half-typed edi"
	e.SetDraft(draft)

	if _, err := e.Save(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if e.State() != Editing {
		t.Fatalf("failed save must return to Editing, got %v", e.State())
	}
	if e.Draft().Name != "half-typed edi" {
		t.Fatalf("draft lost on failure: %q", e.Draft().Name)
	}
	if e.Err() != "name required, kcal invalid" {
		t.Fatalf("err = %q", e.Err())
	}
	if e.Current().Name != "rice" {
		t.Fatal("underlying entity must be unchanged on failure")
	}
}

func TestFormCreateResetsToBlank(t *testing.T) {
	blank := core.Meal{EatenOn: "2025-08-30", Kind: core.Breakfast}
	e := NewFormEditor(blank, okOps(t), mealID)

	e.Begin()
	draft := e.Draft()
	draft.Name = "toast"
	e.SetDraft(draft)

	confirmed, err := e.Save(context.Background())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if confirmed.ID != 100 || confirmed.Name != "toast" {
		t.Fatalf("confirmed = %+v", confirmed)
	}
	if e.State() != Viewing {
		t.Fatalf("state = %v", e.State())
	}
	if e.Draft().Name != "" {
		t.Fatalf("form must reset after create, draft = %+v", e.Draft())
	}
}

func TestSaveRequiresEditing(t *testing.T) {
	e := NewEditor(namedMeal(1, "rice", 250), okOps(t), mealID)
	if _, err := e.Save(context.Background()); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("expected ErrNotEditing, got %v", err)
	}
}

func TestDeleteDeclinedLeavesStateUnchanged(t *testing.T) {
	called := false
	ops := okOps(t)
	ops.Delete = func(_ context.Context, id int64) error {
		called = true
		return nil
	}
	e := NewEditor(namedMeal(7, "rice", 250), ops, mealID)

	removed, err := e.Delete(context.Background(), func() bool { return false })
	if err != nil || removed {
		t.Fatalf("declined delete: removed=%v err=%v", removed, err)
	}
	if called {
		t.Fatal("remote delete must not be issued when declined")
	}
	if e.State() != Viewing {
		t.Fatalf("state = %v", e.State())
	}
}

func TestDeleteConfirmed(t *testing.T) {
	var gotID int64
	ops := okOps(t)
	ops.Delete = func(_ context.Context, id int64) error {
		gotID = id
		return nil
	}
	e := NewEditor(namedMeal(7, "rice", 250), ops, mealID)

	removed, err := e.Delete(context.Background(), func() bool { return true })
	if err != nil || !removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if gotID != 7 {
		t.Fatalf("deleted id = %d, want 7", gotID)
	}
}

func TestDeleteFailureSurfacesMessage(t *testing.T) {
	ops := okOps(t)
	ops.Delete = func(_ context.Context, id int64) error {
		return errors.New("Forbidden")
	}
	e := NewEditor(namedMeal(7, "rice", 250), ops, mealID)

	removed, err := e.Delete(context.Background(), nil)
	if err == nil || removed {
		t.Fatalf("removed=%v err=%v", removed, err)
	}
	if e.Err() != "Forbidden" {
		t.Fatalf("err = %q", e.Err())
	}
	if e.State() != Viewing {
		t.Fatalf("state = %v", e.State())
	}
}
