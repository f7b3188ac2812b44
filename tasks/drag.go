package tasks

import (
	"errors"
	"fmt"
	"math"

	"github.com/kendall-kelly/garment-crm/models"
)

// PixelsPerDay is the Gantt scale
const PixelsPerDay = 40

// Drag failures
var (
	ErrNoSchedule      = errors.New("task has no planned dates")
	ErrDragNotActive   = errors.New("drag session is not active")
	ErrUnknownDragMode = errors.New("unknown drag mode")
)

// DragMode says which part of a Gantt bar is being dragged
type DragMode string

const (
	DragMove        DragMode = "move"
	DragResizeStart DragMode = "resize-start"
	DragResizeEnd   DragMode = "resize-end"
)

// Valid reports whether m is a known drag mode
func (m DragMode) Valid() bool {
	return m == DragMove || m == DragResizeStart || m == DragResizeEnd
}

// DaysFromPixels converts a pixel offset to whole days on the Gantt scale.
// Halves round towards positive infinity, the way browsers round pointer
// deltas, so -20px is 0 days and +20px is 1 day.
func DaysFromPixels(px float64) int {
	return int(math.Floor(px/PixelsPerDay + 0.5))
}

// DragResult is the outcome of a released drag
type DragResult struct {
	TaskID int64
	Mode   DragMode
	Days   int
	Start  models.Date
	End    models.Date
}

// Patch returns the planned-date patch for the result
func (r DragResult) Patch() Patch {
	start, end := r.Start, r.End
	return Patch{PlannedStartDate: &start, PlannedEndDate: &end}
}

// DragSession is a pointer interaction over one Gantt bar:
// Begin -> Move* -> End | Cancel. Moves only track a visual offset; nothing
// is mutated until End.
type DragSession struct {
	taskID    int64
	mode      DragMode
	originX   float64
	origStart models.Date
	origEnd   models.Date
	offset    float64
	active    bool
}

// BeginDrag starts a drag on a task at pointer position originX
func BeginDrag(t models.Task, mode DragMode, originX float64) (*DragSession, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDragMode, mode)
	}
	if !t.HasSchedule() {
		return nil, ErrNoSchedule
	}
	return &DragSession{
		taskID:    t.ID,
		mode:      mode,
		originX:   originX,
		origStart: t.PlannedStartDate.Normalized(),
		origEnd:   t.PlannedEndDate.Normalized(),
		active:    true,
	}, nil
}

// Active reports whether the session is still dragging
func (s *DragSession) Active() bool {
	return s.active
}

// TaskID is the dragged task
func (s *DragSession) TaskID() int64 {
	return s.taskID
}

// Move records the pointer at x and returns the visual pixel offset
func (s *DragSession) Move(x float64) float64 {
	if s.active {
		s.offset = x - s.originX
	}
	return s.offset
}

// Offset is the current visual pixel offset
func (s *DragSession) Offset() float64 {
	return s.offset
}

// End releases the pointer at x. changed is false when the offset rounds to
// zero days, in which case no mutation should be issued.
func (s *DragSession) End(x float64) (result DragResult, changed bool, err error) {
	if !s.active {
		return DragResult{}, false, ErrDragNotActive
	}
	s.Move(x)
	s.active = false
	return Resolve(s.taskID, s.mode, s.origStart, s.origEnd, s.offset)
}

// Cancel abandons the drag without any mutation
func (s *DragSession) Cancel() {
	s.active = false
	s.offset = 0
}

// Resolve computes the new planned dates for a drag of offsetPx pixels.
// Start never ends up after end: an inverted resize clamps the moved endpoint
// onto the fixed one. changed is false when the dates come out unchanged,
// including a resize that is clamped all the way back.
func Resolve(taskID int64, mode DragMode, start, end models.Date, offsetPx float64) (DragResult, bool, error) {
	if !mode.Valid() {
		return DragResult{}, false, fmt.Errorf("%w: %q", ErrUnknownDragMode, mode)
	}
	if !start.Valid() || !end.Valid() {
		return DragResult{}, false, ErrNoSchedule
	}
	days := DaysFromPixels(offsetPx)
	start, end = start.Normalized(), end.Normalized()
	res := DragResult{TaskID: taskID, Mode: mode, Days: days, Start: start, End: end}
	if days == 0 {
		return res, false, nil
	}

	switch mode {
	case DragMove:
		res.Start = res.Start.AddDays(days)
		res.End = res.End.AddDays(days)
	case DragResizeStart:
		res.Start = res.Start.AddDays(days)
		if res.Start.After(res.End) {
			res.Start = res.End
		}
	case DragResizeEnd:
		res.End = res.End.AddDays(days)
		if res.End.Before(res.Start) {
			res.End = res.Start
		}
	}
	return res, res.Start != start || res.End != end, nil
}

// ApplyDrag writes a drag result into the task list
func (e *Engine) ApplyDrag(list []models.Task, r DragResult) ([]models.Task, error) {
	return e.Update(list, r.TaskID, r.Patch())
}
