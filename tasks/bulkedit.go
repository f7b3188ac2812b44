package tasks

import (
	"context"
	"errors"

	"github.com/kendall-kelly/garment-crm/models"
)

// Editing mode violations
var (
	ErrEditingConflict = errors.New("another editing mode is active")
	ErrNotEditing      = errors.New("bulk edit is not active")
)

// BulkEditor is the TNA bulk-edit state machine:
//
//	Viewing --Enter--> Editing --Save ok--> Viewing
//	                   Editing --Cancel---> Viewing
//
// While Editing every change goes to a private working copy. A failed Save
// keeps the editor in Editing with the working copy intact.
type BulkEditor struct {
	engine  *Engine
	editing bool
	working []models.Task
}

// NewBulkEditor creates an editor in the Viewing state
func NewBulkEditor(e *Engine) *BulkEditor {
	return &BulkEditor{engine: e}
}

// Editing reports whether a working copy is open
func (b *BulkEditor) Editing() bool {
	return b.editing
}

// Enter snapshots tasks into a working copy
func (b *BulkEditor) Enter(tasks []models.Task) error {
	if b.editing {
		return ErrEditingConflict
	}
	b.working = models.CloneTasks(tasks)
	if b.working == nil {
		b.working = []models.Task{}
	}
	b.editing = true
	return nil
}

// Working returns a copy of the working tasks
func (b *BulkEditor) Working() []models.Task {
	return models.CloneTasks(b.working)
}

// Add creates a task in the working copy
func (b *BulkEditor) Add(d Draft) (models.Task, error) {
	if !b.editing {
		return models.Task{}, ErrNotEditing
	}
	if err := d.Validate(); err != nil {
		return models.Task{}, err
	}
	var t models.Task
	b.working, t = b.engine.Create(b.working, d)
	return t, nil
}

// Update edits a task in the working copy
func (b *BulkEditor) Update(id int64, p Patch) error {
	if !b.editing {
		return ErrNotEditing
	}
	next, err := b.engine.Update(b.working, id, p)
	if err != nil {
		return err
	}
	b.working = next
	return nil
}

// Delete removes a task from the working copy
func (b *BulkEditor) Delete(id int64) error {
	if !b.editing {
		return ErrNotEditing
	}
	next, err := Delete(b.working, id)
	if err != nil {
		return err
	}
	b.working = next
	return nil
}

// Reorder moves a task within the working copy
func (b *BulkEditor) Reorder(id int64, dir Direction) error {
	if !b.editing {
		return ErrNotEditing
	}
	next, err := Reorder(b.working, id, dir)
	if err != nil {
		return err
	}
	b.working = next
	return nil
}

// Save hands the whole working copy to commit. On success the editor returns
// to Viewing; on failure it stays in Editing and the error is returned.
func (b *BulkEditor) Save(ctx context.Context, commit func(context.Context, []models.Task) error) error {
	if !b.editing {
		return ErrNotEditing
	}
	if err := commit(ctx, models.CloneTasks(b.working)); err != nil {
		return err
	}
	b.editing = false
	b.working = nil
	return nil
}

// Cancel discards the working copy
func (b *BulkEditor) Cancel() {
	b.editing = false
	b.working = nil
}
