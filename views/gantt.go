package views

import (
	"context"
	"errors"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/tasks"
)

const (
	// AxisPaddingDays pads the axis on both sides of the scheduled range
	AxisPaddingDays = 2
	// EmptyWindowDays is the axis length when no visible task is scheduled
	EmptyWindowDays = 30
)

// ErrReadOnly is returned when a drag starts on a gantt without an update callback
var ErrReadOnly = errors.New("gantt is read-only")

// GanttRow positions one task bar on the axis
type GanttRow struct {
	TaskID    int64             `json:"taskId"`
	Name      string            `json:"name"`
	Status    models.TaskStatus `json:"status"`
	Progress  int               `json:"progress"`
	Start     models.Date       `json:"start,omitempty"`
	End       models.Date       `json:"end,omitempty"`
	Scheduled bool              `json:"scheduled"`
	Overdue   bool              `json:"overdue"`
	Offset    int               `json:"offsetDays"`
	Duration  int               `json:"durationDays"`
	Left      float64           `json:"left"`
	Width     float64           `json:"width"`
}

// Gantt is the timeline projection
type Gantt struct {
	Start       models.Date `json:"start"`
	End         models.Date `json:"end"`
	Days        int         `json:"days"`
	Width       float64     `json:"width"`
	TodayOffset int         `json:"todayOffset"`
	Editable    bool        `json:"editable"`
	Rows        []GanttRow  `json:"rows"`
}

// BuildGantt computes the shared axis and one row per visible task.
// Unscheduled tasks get a row with Scheduled=false and no geometry.
func BuildGantt(list []models.Task, products []models.Product, filter string, today models.Date, editable bool) Gantt {
	visible := FilterTasks(list, products, filter)
	start, end := axis(visible, today)
	days, _ := models.DaysBetween(start, end)
	days++

	g := Gantt{
		Start:    start,
		End:      end,
		Days:     days,
		Width:    float64(days * tasks.PixelsPerDay),
		Editable: editable,
		Rows:     make([]GanttRow, 0, len(visible)),
	}
	g.TodayOffset, _ = models.DaysBetween(start, today)

	for _, t := range visible {
		row := GanttRow{
			TaskID:   t.ID,
			Name:     t.Name,
			Status:   t.Status,
			Progress: t.Progress,
			Overdue:  t.IsOverdue(today),
		}
		if t.HasSchedule() {
			row.Start = t.PlannedStartDate.Normalized()
			row.End = t.PlannedEndDate.Normalized()
			row.Scheduled = true
			row.Offset, _ = models.DaysBetween(start, row.Start)
			span, _ := models.DaysBetween(row.Start, row.End)
			if span < 0 {
				span = 0
			}
			row.Duration = span + 1
			row.Left = float64(row.Offset * tasks.PixelsPerDay)
			row.Width = float64(row.Duration * tasks.PixelsPerDay)
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

func axis(visible []models.Task, today models.Date) (models.Date, models.Date) {
	var starts, ends []models.Date
	for _, t := range visible {
		if t.HasSchedule() {
			starts = append(starts, t.PlannedStartDate)
			ends = append(ends, t.PlannedEndDate)
		}
	}
	lo, okLo := models.MinDate(starts...)
	hi, okHi := models.MaxDate(ends...)
	if !okLo || !okHi {
		return today, today.AddDays(EmptyWindowDays)
	}
	return lo.AddDays(-AxisPaddingDays), hi.AddDays(AxisPaddingDays)
}

// UpdateFunc persists a task patch produced by a view
type UpdateFunc func(ctx context.Context, taskID int64, p tasks.Patch) error

// GanttInteraction drives bar drags. Without an update callback the gantt
// is read-only and drags are refused.
type GanttInteraction struct {
	update UpdateFunc
	drag   *tasks.DragSession
}

// NewGanttInteraction creates an interaction. update may be nil.
func NewGanttInteraction(update UpdateFunc) *GanttInteraction {
	return &GanttInteraction{update: update}
}

// Editable reports whether drags are allowed
func (g *GanttInteraction) Editable() bool {
	return g.update != nil
}

// PointerDown starts dragging t's bar
func (g *GanttInteraction) PointerDown(t models.Task, mode tasks.DragMode, x float64) error {
	if g.update == nil {
		return ErrReadOnly
	}
	s, err := tasks.BeginDrag(t, mode, x)
	if err != nil {
		return err
	}
	g.drag = s
	return nil
}

// PointerMove returns the visual offset of the dragged bar
func (g *GanttInteraction) PointerMove(x float64) float64 {
	if g.drag == nil {
		return 0
	}
	return g.drag.Move(x)
}

// PointerUp releases the drag and issues one update when the dates changed
func (g *GanttInteraction) PointerUp(ctx context.Context, x float64) (tasks.DragResult, bool, error) {
	if g.drag == nil {
		return tasks.DragResult{}, false, tasks.ErrDragNotActive
	}
	s := g.drag
	g.drag = nil
	res, changed, err := s.End(x)
	if err != nil || !changed {
		return res, false, err
	}
	if err := g.update(ctx, res.TaskID, res.Patch()); err != nil {
		return res, false, err
	}
	return res, true, nil
}

// Cancel abandons the current drag
func (g *GanttInteraction) Cancel() {
	if g.drag != nil {
		g.drag.Cancel()
		g.drag = nil
	}
}
