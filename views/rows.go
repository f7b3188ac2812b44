// Package views projects one order's task list into the List, Board, Gantt,
// TNA and Dashboard views. Projections are pure functions of the tasks, the
// products, an optional product filter and today's date.
package views

import (
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/tasks"
)

// TaskRow is a task plus the derived flags every view shows
type TaskRow struct {
	models.Task
	ProductName string `json:"productName,omitempty"`
	Overdue     bool   `json:"overdue"`
	DueSoon     bool   `json:"dueSoon"`
	DelayDays   *int   `json:"delayDays,omitempty"`
}

// NewTaskRow derives the row flags for t
func NewTaskRow(t models.Task, products []models.Product, today models.Date) TaskRow {
	row := TaskRow{
		Task:    t,
		Overdue: t.IsOverdue(today),
		DueSoon: t.IsDueSoon(today),
	}
	if id := models.OwningProductID(t, products); id != "" {
		for _, p := range products {
			if p.ID == id {
				row.ProductName = p.Name
				break
			}
		}
	}
	if d, ok := t.DelayDays(today); ok {
		row.DelayDays = &d
	}
	return row
}

// FilterTasks keeps the tasks selected by a product filter:
// "" keeps all, tasks.UnassignedFilter keeps tasks owned by no existing
// product, anything else keeps that product's tasks. Order is preserved.
func FilterTasks(list []models.Task, products []models.Product, filter string) []models.Task {
	if filter == "" {
		return models.CloneTasks(list)
	}
	out := make([]models.Task, 0, len(list))
	for _, t := range list {
		owner := models.OwningProductID(t, products)
		switch {
		case filter == tasks.UnassignedFilter && owner == "":
			out = append(out, t)
		case filter != tasks.UnassignedFilter && owner == filter:
			out = append(out, t)
		}
	}
	return out
}

func rows(list []models.Task, products []models.Product, today models.Date) []TaskRow {
	out := make([]TaskRow, 0, len(list))
	for _, t := range list {
		out = append(out, NewTaskRow(t, products, today))
	}
	return out
}
