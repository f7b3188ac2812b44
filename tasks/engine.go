// Package tasks holds every state transition a task can undergo. All
// operations are pure transforms over a task slice: inputs are never
// modified and a fresh slice is returned.
package tasks

import (
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/garment-crm/models"
)

// DefaultDurationDays is the planned length of a task created without dates
const DefaultDurationDays = 7

// UnassignedFilter selects tasks that belong to no existing product
const UnassignedFilter = "unassigned"

// Lookup and reorder failures
var (
	ErrTaskNotFound = errors.New("task not found")
	ErrInvalidMove  = errors.New("invalid move direction")
)

// Direction of a reorder
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Draft describes a task to create. Zero fields take defaults.
type Draft struct {
	Name             string            `json:"name"`
	Status           models.TaskStatus `json:"status,omitempty"`
	Priority         models.Priority   `json:"priority,omitempty"`
	Responsible      string            `json:"responsible,omitempty"`
	PlannedStartDate models.Date       `json:"plannedStartDate,omitempty"`
	PlannedEndDate   models.Date       `json:"plannedEndDate,omitempty"`
	Notes            string            `json:"notes,omitempty"`
	ProductID        string            `json:"productId,omitempty"`
	Quantity         int               `json:"quantity,omitempty"`
}

// Validate rejects a draft that names an unknown status or priority.
// Empty values take the defaults.
func (d Draft) Validate() error {
	if d.Status != "" && !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	if d.Priority != "" && !d.Priority.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	return nil
}

// Engine applies task mutations using an injected id generator and clock
type Engine struct {
	ids IDGenerator
	now func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithIDs injects the task id generator
func WithIDs(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithClock injects the clock used for "today" and default ids
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine. Defaults: time.Now and a MonotonicIDs generator on that clock.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	if e.ids == nil {
		e.ids = NewMonotonicIDs(e.now)
	}
	return e
}

// IDs is the engine's task id generator
func (e *Engine) IDs() IDGenerator {
	return e.ids
}

// Today is the engine's current calendar day
func (e *Engine) Today() models.Date {
	return models.Today(e.now())
}

// New builds a task from a draft without adding it to any list
func (e *Engine) New(d Draft) models.Task {
	today := e.Today()
	t := models.Task{
		ID:          e.ids.NextID(),
		Name:        d.Name,
		Status:      models.TaskToDo,
		Priority:    models.PriorityMedium,
		Responsible: d.Responsible,
		Notes:       d.Notes,
		ProductID:   d.ProductID,
		Quantity:    d.Quantity,
	}
	if d.Priority.Valid() {
		t.Priority = d.Priority
	}
	if t.Responsible == "" {
		if tpl, ok := LookupTemplate(d.Name); ok {
			t.Responsible = tpl.Responsible
		}
	}

	t.PlannedStartDate = d.PlannedStartDate.Normalized()
	if t.PlannedStartDate.IsZero() {
		t.PlannedStartDate = today
	}
	t.PlannedEndDate = d.PlannedEndDate.Normalized()
	if t.PlannedEndDate.IsZero() {
		t.PlannedEndDate = t.PlannedStartDate.AddDays(DefaultDurationDays)
	}
	if t.PlannedEndDate.Before(t.PlannedStartDate) {
		t.PlannedEndDate = t.PlannedStartDate
	}

	if d.Status.Valid() && d.Status != models.TaskToDo {
		applyStatus(&t, d.Status, today)
	}
	return t
}

// Create appends a new task built from d
func (e *Engine) Create(list []models.Task, d Draft) ([]models.Task, models.Task) {
	t := e.New(d)
	out := make([]models.Task, 0, len(list)+1)
	out = append(out, list...)
	return append(out, t), t
}

// Update applies a patch to the task with the given id
func (e *Engine) Update(list []models.Task, id int64, p Patch) ([]models.Task, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	i := indexOf(list, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	out := models.CloneTasks(list)
	out[i] = ApplyPatch(out[i], p, e.Today())
	return out, nil
}

// DropInColumn moves a task into a board column. It is a status edit with
// the board's progress rules (see ApplyPatch).
func (e *Engine) DropInColumn(list []models.Task, id int64, column models.TaskStatus) ([]models.Task, error) {
	if !column.Valid() {
		return nil, fmt.Errorf("%w: column %q", ErrInvalidStatus, column)
	}
	return e.Update(list, id, StatusPatch(column))
}

// Delete removes the task with the given id
func Delete(list []models.Task, id int64) ([]models.Task, error) {
	i := indexOf(list, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	out := make([]models.Task, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// Reorder swaps a task with its neighbour. Moving past either end is a no-op.
func Reorder(list []models.Task, id int64, dir Direction) ([]models.Task, error) {
	i := indexOf(list, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	j := i
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMove, dir)
	}
	out := models.CloneTasks(list)
	if j < 0 || j >= len(out) {
		return out, nil
	}
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// DefaultProductID picks the product a new task belongs to: the active
// product filter when it names a product, otherwise the first product.
func DefaultProductID(filter string, products []models.Product) string {
	if filter != "" && filter != UnassignedFilter && models.HasProduct(products, filter) {
		return filter
	}
	if len(products) > 0 {
		return products[0].ID
	}
	return ""
}

// SeedTasks returns the starting schedule of a new order, chained back to back from today
func (e *Engine) SeedTasks(productID string) []models.Task {
	start := e.Today()
	out := make([]models.Task, 0, len(SeedTaskNames))
	for _, name := range SeedTaskNames {
		d := Draft{Name: name, ProductID: productID, PlannedStartDate: start}
		if tpl, ok := LookupTemplate(name); ok && tpl.Days > 0 {
			d.PlannedEndDate = start.AddDays(tpl.Days)
		}
		t := e.New(d)
		out = append(out, t)
		start = t.PlannedEndDate
	}
	return out
}

func indexOf(list []models.Task, id int64) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
