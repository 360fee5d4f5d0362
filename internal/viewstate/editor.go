package viewstate

import (
	"context"
	"errors"
	"sync"
)

// State is the lifecycle of an editable entity.
type State int

const (
	Viewing State = iota // Idle, for a creation form
	Editing
	Saving
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	default:
		return "viewing"
	}
}

// Ops are the three remote operations an editor can perform. Any of
// them may be nil when the corresponding action is not available.
type Ops[T any] struct {
	Create func(ctx context.Context, draft T) (T, error)
	Update func(ctx context.Context, draft T) (T, error)
	Delete func(ctx context.Context, id int64) error
}

// Editor is the one edit/save/delete state machine, shared by existing
// records and creation forms instead of being re-implemented per row.
// Entering Editing snapshots the entity into a draft; a failed save
// returns to Editing with the draft intact and the accessor's message
// surfaced.
type Editor[T any] struct {
	mu      sync.Mutex
	ops     Ops[T]
	idOf    func(T) int64
	current T
	draft   T
	isNew   bool
	state   State
	errMsg  string
}

var (
	ErrNotEditing = errors.New("no edit in progress")
	ErrBusy       = errors.New("save already in progress")
)

// NewEditor wraps an existing entity.
func NewEditor[T any](current T, ops Ops[T], idOf func(T) int64) *Editor[T] {
	return &Editor[T]{current: current, ops: ops, idOf: idOf}
}

// NewFormEditor wraps a creation form; blank is the template restored
// after a successful create or a cancel.
func NewFormEditor[T any](blank T, ops Ops[T], idOf func(T) int64) *Editor[T] {
	return &Editor[T]{current: blank, ops: ops, idOf: idOf, isNew: true}
}

// Begin moves Viewing -> Editing, snapshotting the entity as the draft.
func (e *Editor[T]) Begin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Viewing {
		return
	}
	e.draft = e.current
	e.state = Editing
	e.errMsg = ""
}

// Draft returns the current draft.
func (e *Editor[T]) Draft() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetDraft replaces the draft. Ignored outside Editing.
func (e *Editor[T]) SetDraft(d T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Editing {
		e.draft = d
	}
}

// Cancel discards the draft and restores the snapshot.
func (e *Editor[T]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Editing {
		return
	}
	e.draft = e.current
	e.state = Viewing
	e.errMsg = ""
}

// Save moves Editing -> Saving and issues the create (for forms) or
// update call. On success the confirmed entity becomes current and the
// editor returns to Viewing; a form resets to its blank template. On
// failure the editor returns to Editing with the draft and an inline
// message, so edits are never lost.
func (e *Editor[T]) Save(ctx context.Context) (T, error) {
	e.mu.Lock()
	var zero T
	switch e.state {
	case Editing:
	case Saving:
		e.mu.Unlock()
		return zero, ErrBusy
	default:
		e.mu.Unlock()
		return zero, ErrNotEditing
	}
	e.state = Saving
	draft := e.draft
	isNew := e.isNew
	e.mu.Unlock()

	var (
		confirmed T
		err       error
	)
	if isNew {
		confirmed, err = e.ops.Create(ctx, draft)
	} else {
		confirmed, err = e.ops.Update(ctx, draft)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = Editing
		e.errMsg = err.Error()
		return zero, err
	}
	if isNew {
		e.draft = e.current // reset the form to its blank template
	} else {
		e.current = confirmed
		e.draft = confirmed
	}
	e.state = Viewing
	e.errMsg = ""
	return confirmed, nil
}

// Delete asks confirm before issuing the remote delete; declining
// leaves all state unchanged. Returns true only when the server
// confirmed the removal.
func (e *Editor[T]) Delete(ctx context.Context, confirm func() bool) (bool, error) {
	e.mu.Lock()
	if e.state == Saving {
		e.mu.Unlock()
		return false, ErrBusy
	}
	prev := e.state
	id := e.idOf(e.current)
	e.mu.Unlock()

	if confirm != nil && !confirm() {
		return false, nil
	}

	e.mu.Lock()
	e.state = Saving
	e.mu.Unlock()

	err := e.ops.Delete(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = prev
		e.errMsg = err.Error()
		return false, err
	}
	e.state = Viewing
	e.errMsg = ""
	return true, nil
}

// Current returns the last server-confirmed entity.
func (e *Editor[T]) Current() T {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// State returns the editor's lifecycle state.
func (e *Editor[T]) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the inline message from the last failed operation.
func (e *Editor[T]) Err() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}
