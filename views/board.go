package views

import (
	"github.com/kendall-kelly/garment-crm/models"
)

// Column is one kanban column
type Column struct {
	Status      models.TaskStatus `json:"status"`
	Tasks       []TaskRow         `json:"tasks"`
	Highlighted bool              `json:"highlighted"`
}

// Board is the kanban projection
type Board struct {
	Columns []Column `json:"columns"`
}

// BuildBoard lays tasks out in the three status columns. drag may be nil.
func BuildBoard(list []models.Task, products []models.Product, filter string, today models.Date, drag *BoardDrag) Board {
	visible := FilterTasks(list, products, filter)
	b := Board{}
	for _, status := range models.TaskStatuses {
		c := Column{Status: status, Tasks: []TaskRow{}}
		for _, t := range visible {
			if t.Status == status {
				c.Tasks = append(c.Tasks, NewTaskRow(t, products, today))
			}
		}
		if drag != nil {
			c.Highlighted = drag.Highlighted(status)
		}
		b.Columns = append(b.Columns, c)
	}
	return b
}

// BoardDrag tracks a card being dragged across columns. The drop-target
// highlight is cleared on leave, drop and end, whatever the drop's outcome.
type BoardDrag struct {
	taskID int64
	over   models.TaskStatus
	active bool
}

// Start begins dragging a card
func (d *BoardDrag) Start(taskID int64) {
	d.taskID = taskID
	d.over = ""
	d.active = true
}

// Over marks column as the current drop target
func (d *BoardDrag) Over(column models.TaskStatus) {
	if d.active {
		d.over = column
	}
}

// Leave clears the highlight when the pointer leaves column
func (d *BoardDrag) Leave(column models.TaskStatus) {
	if d.over == column {
		d.over = ""
	}
}

// Drop ends the drag on column and returns the card to move
func (d *BoardDrag) Drop(column models.TaskStatus) (taskID int64, ok bool) {
	taskID, ok = d.taskID, d.active && column.Valid()
	d.End()
	return taskID, ok
}

// End clears all drag state
func (d *BoardDrag) End() {
	d.taskID = 0
	d.over = ""
	d.active = false
}

// Dragging reports whether a card is in flight
func (d *BoardDrag) Dragging() bool {
	return d.active
}

// Highlighted reports whether column is the current drop target
func (d *BoardDrag) Highlighted(column models.TaskStatus) bool {
	return d.active && d.over == column
}
