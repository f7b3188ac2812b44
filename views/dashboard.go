package views

import (
	"sort"

	"github.com/kendall-kelly/garment-crm/models"
)

// UpcomingLimit caps the upcoming-deadlines list
const UpcomingLimit = 5

// ChartPoint is one bar or slice of a chart
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}

// ProductProgress is the per-product completion breakdown
type ProductProgress struct {
	ProductID  string `json:"productId"`
	Name       string `json:"name"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Completion int    `json:"completion"`
}

// Deadline is an incomplete task due within the due-soon window, ordered by planned end
type Deadline struct {
	TaskID         int64       `json:"taskId"`
	Name           string      `json:"name"`
	Responsible    string      `json:"responsible,omitempty"`
	PlannedEndDate models.Date `json:"plannedEndDate"`
	DaysLeft       int         `json:"daysLeft"`
}

// Dashboard holds derived statistics only
type Dashboard struct {
	Total         int               `json:"total"`
	ToDo          int               `json:"toDo"`
	InProgress    int               `json:"inProgress"`
	Complete      int               `json:"complete"`
	Completion    int               `json:"completion"`
	Overdue       int               `json:"overdue"`
	DueSoon       int               `json:"dueSoon"`
	Products      []ProductProgress `json:"products"`
	Unassigned    int               `json:"unassigned"`
	StatusChart   []ChartPoint      `json:"statusChart"`
	PriorityChart []ChartPoint      `json:"priorityChart"`
	Upcoming      []Deadline        `json:"upcoming"`
}

// BuildDashboard aggregates the visible tasks
func BuildDashboard(list []models.Task, products []models.Product, filter string, today models.Date) Dashboard {
	visible := FilterTasks(list, products, filter)
	counts := models.CountByStatus(visible)
	d := Dashboard{
		Total:      len(visible),
		ToDo:       counts[models.TaskToDo],
		InProgress: counts[models.TaskInProgress],
		Complete:   counts[models.TaskComplete],
		Completion: models.CompletionPercent(visible),
		Products:   []ProductProgress{},
		Upcoming:   []Deadline{},
	}

	for _, status := range models.TaskStatuses {
		d.StatusChart = append(d.StatusChart, ChartPoint{Label: string(status), Value: counts[status]})
	}
	priorities := map[models.Priority]int{}
	for _, t := range visible {
		priorities[t.Priority]++
		if t.IsOverdue(today) {
			d.Overdue++
		}
		if t.IsDueSoon(today) {
			d.DueSoon++
		}
		if models.OwningProductID(t, products) == "" {
			d.Unassigned++
		}
	}
	for _, p := range models.Priorities {
		d.PriorityChart = append(d.PriorityChart, ChartPoint{Label: string(p), Value: priorities[p]})
	}

	for _, p := range products {
		var owned []models.Task
		for _, t := range visible {
			if t.ProductID == p.ID {
				owned = append(owned, t)
			}
		}
		if filter != "" && len(owned) == 0 {
			continue
		}
		pp := ProductProgress{ProductID: p.ID, Name: p.Name, Total: len(owned), Completion: models.CompletionPercent(owned)}
		pp.Completed = models.CountByStatus(owned)[models.TaskComplete]
		d.Products = append(d.Products, pp)
	}

	for _, t := range visible {
		if !t.IsDueSoon(today) {
			continue
		}
		left, _ := models.DaysBetween(today, t.PlannedEndDate)
		d.Upcoming = append(d.Upcoming, Deadline{
			TaskID:         t.ID,
			Name:           t.Name,
			Responsible:    t.Responsible,
			PlannedEndDate: t.PlannedEndDate.Normalized(),
			DaysLeft:       left,
		})
	}
	sort.SliceStable(d.Upcoming, func(i, j int) bool {
		return d.Upcoming[i].PlannedEndDate.Before(d.Upcoming[j].PlannedEndDate)
	})
	if len(d.Upcoming) > UpcomingLimit {
		d.Upcoming = d.Upcoming[:UpcomingLimit]
	}
	return d
}
