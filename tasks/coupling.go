package tasks

import (
	"errors"
	"fmt"

	"github.com/kendall-kelly/garment-crm/models"
)

const (
	// MinInProgress is the progress a task gets when it starts from zero
	MinInProgress = 10
	// ReopenedProgress is the progress a completed task falls back to when reopened
	ReopenedProgress = 50
)

// Task field values outside the known enums
var (
	ErrInvalidStatus   = errors.New("unknown task status")
	ErrInvalidPriority = errors.New("unknown task priority")
)

// Patch is a partial task edit. nil fields are left unchanged.
type Patch struct {
	Name             *string            `json:"name,omitempty"`
	Status           *models.TaskStatus `json:"status,omitempty"`
	Priority         *models.Priority   `json:"priority,omitempty"`
	Responsible      *string            `json:"responsible,omitempty"`
	PlannedStartDate *models.Date       `json:"plannedStartDate,omitempty"`
	PlannedEndDate   *models.Date       `json:"plannedEndDate,omitempty"`
	ActualStartDate  *models.Date       `json:"actualStartDate,omitempty"`
	ActualEndDate    *models.Date       `json:"actualEndDate,omitempty"`
	Progress         *int               `json:"progress,omitempty"`
	Notes            *string            `json:"notes,omitempty"`
	ProductID        *string            `json:"productId,omitempty"`
	Quantity         *int               `json:"quantity,omitempty"`
}

// Validate rejects a patch that names an unknown status or priority
func (p Patch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, *p.Priority)
	}
	return nil
}

// StatusPatch is shorthand for a patch that only moves a task to a status
func StatusPatch(s models.TaskStatus) Patch {
	return Patch{Status: &s}
}

// ProgressPatch is shorthand for a patch that only sets progress
func ProgressPatch(p int) Patch {
	return Patch{Progress: &p}
}

// ApplyPatch merges p into t and keeps status, progress and actual dates consistent.
// Unknown status and priority values are skipped; callers run Validate first.
//
// When both status and progress are present the progress is taken first and
// then bounded by the status. Actual dates are only stamped when unset, and
// explicit actual dates in the patch are applied last.
func ApplyPatch(t models.Task, p Patch, today models.Date) models.Task {
	if p.Name != nil {
		t.Name = *p.Name
		if t.Responsible == "" && p.Responsible == nil {
			if tpl, ok := LookupTemplate(*p.Name); ok {
				t.Responsible = tpl.Responsible
			}
		}
	}
	if p.Priority != nil && p.Priority.Valid() {
		t.Priority = *p.Priority
	}
	if p.Responsible != nil {
		t.Responsible = *p.Responsible
	}
	if p.PlannedStartDate != nil {
		t.PlannedStartDate = p.PlannedStartDate.Normalized()
	}
	if p.PlannedEndDate != nil {
		t.PlannedEndDate = p.PlannedEndDate.Normalized()
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	if p.ProductID != nil {
		t.ProductID = *p.ProductID
	}
	if p.Quantity != nil {
		t.Quantity = *p.Quantity
	}

	switch {
	case p.Status != nil && p.Status.Valid():
		if p.Progress != nil {
			t.Progress = clamp(*p.Progress)
		}
		applyStatus(&t, *p.Status, today)
	case p.Progress != nil:
		applyProgress(&t, *p.Progress, today)
	}

	if p.ActualStartDate != nil {
		t.ActualStartDate = p.ActualStartDate.Normalized()
	}
	if p.ActualEndDate != nil {
		t.ActualEndDate = p.ActualEndDate.Normalized()
	}
	return t
}

// applyStatus moves t into next and bounds its progress accordingly
func applyStatus(t *models.Task, next models.TaskStatus, today models.Date) {
	prev := t.Status
	switch next {
	case models.TaskComplete:
		t.Progress = 100
		stampStart(t, today)
		if t.ActualEndDate.IsZero() {
			t.ActualEndDate = today
		}
	case models.TaskInProgress:
		if t.Progress >= 100 {
			t.Progress = ReopenedProgress
		} else if t.Progress < MinInProgress {
			t.Progress = MinInProgress
		}
		stampStart(t, today)
		if prev == models.TaskComplete {
			t.ActualEndDate = ""
		}
	case models.TaskToDo:
		t.Progress = 0
		t.ActualEndDate = ""
	}
	t.Status = next
}

// applyProgress sets progress and derives the status from it
func applyProgress(t *models.Task, progress int, today models.Date) {
	t.Progress = clamp(progress)
	switch {
	case t.Progress == 100:
		t.Status = models.TaskComplete
		stampStart(t, today)
		if t.ActualEndDate.IsZero() {
			t.ActualEndDate = today
		}
	case t.Progress == 0:
		t.Status = models.TaskToDo
		t.ActualEndDate = ""
	default:
		if t.Status == models.TaskComplete {
			t.ActualEndDate = ""
		}
		if t.Status != models.TaskInProgress {
			t.Status = models.TaskInProgress
		}
		stampStart(t, today)
	}
}

func stampStart(t *models.Task, today models.Date) {
	if t.ActualStartDate.IsZero() {
		t.ActualStartDate = today
	}
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Consistent reports whether a task satisfies the status/progress coupling
func Consistent(t models.Task) bool {
	switch t.Status {
	case models.TaskComplete:
		return t.Progress == 100
	case models.TaskToDo:
		return t.Progress == 0
	case models.TaskInProgress:
		return t.Progress > 0 && t.Progress < 100
	}
	return false
}
