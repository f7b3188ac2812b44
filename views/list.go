package views

import (
	"github.com/kendall-kelly/garment-crm/models"
)

// ListOrder is the display order of list groups
var ListOrder = []models.TaskStatus{models.TaskInProgress, models.TaskToDo, models.TaskComplete}

// ListGroup is one status table of the list view, in task-array order
type ListGroup struct {
	Status models.TaskStatus `json:"status"`
	Tasks  []TaskRow         `json:"tasks"`
}

// ListView is the list projection
type ListView struct {
	Groups []ListGroup `json:"groups"`
	Total  int         `json:"total"`
	// CompletedQuantity sums task quantities over the COMPLETE group only
	CompletedQuantity int `json:"completedQuantity"`
}

// BuildList partitions tasks into the fixed IN PROGRESS, TO DO, COMPLETE groups
func BuildList(list []models.Task, products []models.Product, filter string, today models.Date) ListView {
	visible := FilterTasks(list, products, filter)
	v := ListView{Total: len(visible)}
	for _, status := range ListOrder {
		g := ListGroup{Status: status, Tasks: []TaskRow{}}
		for _, t := range visible {
			if t.Status != status {
				continue
			}
			g.Tasks = append(g.Tasks, NewTaskRow(t, products, today))
			if status == models.TaskComplete {
				v.CompletedQuantity += t.Quantity
			}
		}
		v.Groups = append(v.Groups, g)
	}
	return v
}
