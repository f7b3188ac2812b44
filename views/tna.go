package views

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/tasks"
)

// TNAProduct is one product's schedule inside a section
type TNAProduct struct {
	Product    models.Product `json:"product"`
	Tasks      []TaskRow      `json:"tasks"`
	Completion int            `json:"completion"`
	AtRisk     int            `json:"atRisk"`
}

// TNASection groups the products that share a category
type TNASection struct {
	Category   string       `json:"category"`
	Products   []TNAProduct `json:"products"`
	Total      int          `json:"total"`
	Completion int          `json:"completion"`
	AtRisk     int          `json:"atRisk"`
}

// MultiProduct reports whether the section sub-groups several products
func (s TNASection) MultiProduct() bool {
	return len(s.Products) > 1
}

// TNA is the time-and-action projection
type TNA struct {
	Sections   []TNASection `json:"sections"`
	Unassigned []TaskRow    `json:"unassigned"`
	Completion int          `json:"completion"`
	AtRisk     int          `json:"atRisk"`
}

// BuildTNA groups tasks by product category, in order of first appearance
// in products. Tasks owned by no existing product go to Unassigned.
// A product filter keeps only that product's section, and
// tasks.UnassignedFilter keeps no sections at all.
func BuildTNA(list []models.Task, products []models.Product, filter string, today models.Date) TNA {
	list = FilterTasks(list, products, filter)
	v := TNA{
		Sections:   []TNASection{},
		Unassigned: []TaskRow{},
		Completion: models.CompletionPercent(list),
	}
	index := map[string]int{}
	for _, p := range products {
		if filter != "" && p.ID != filter {
			continue
		}
		key := p.CategoryKey()
		i, ok := index[key]
		if !ok {
			i = len(v.Sections)
			index[key] = i
			v.Sections = append(v.Sections, TNASection{Category: key})
		}

		var owned []models.Task
		for _, t := range list {
			if t.ProductID == p.ID {
				owned = append(owned, t)
			}
		}
		v.Sections[i].Products = append(v.Sections[i].Products, TNAProduct{
			Product:    p.Clone(),
			Tasks:      rows(owned, products, today),
			Completion: models.CompletionPercent(owned),
			AtRisk:     countAtRisk(owned, today),
		})
	}

	for i := range v.Sections {
		var all []models.Task
		for _, p := range v.Sections[i].Products {
			for _, r := range p.Tasks {
				all = append(all, r.Task)
			}
		}
		v.Sections[i].Total = len(all)
		v.Sections[i].Completion = models.CompletionPercent(all)
		v.Sections[i].AtRisk = countAtRisk(all, today)
	}

	for _, t := range list {
		if models.OwningProductID(t, products) == "" {
			v.Unassigned = append(v.Unassigned, NewTaskRow(t, products, today))
		}
	}
	v.AtRisk = countAtRisk(list, today)
	return v
}

func countAtRisk(list []models.Task, today models.Date) int {
	n := 0
	for _, t := range list {
		if t.IsAtRisk(today) {
			n++
		}
	}
	return n
}

// TNAMode is the editing state of the TNA view
type TNAMode string

const (
	TNAViewing TNAMode = "viewing"
	TNASingle  TNAMode = "single"
	TNABulk    TNAMode = "bulk"
)

// TNAEditor keeps single-task editing and bulk editing mutually exclusive
type TNAEditor struct {
	bulk   *tasks.BulkEditor
	openID int64
	open   bool
}

// NewTNAEditor creates an editor in viewing mode
func NewTNAEditor(e *tasks.Engine) *TNAEditor {
	return &TNAEditor{bulk: tasks.NewBulkEditor(e)}
}

// Mode is the current editing mode
func (ed *TNAEditor) Mode() TNAMode {
	switch {
	case ed.bulk.Editing():
		return TNABulk
	case ed.open:
		return TNASingle
	}
	return TNAViewing
}

// OpenTask opens the single-task editor on id
func (ed *TNAEditor) OpenTask(id int64) error {
	if ed.bulk.Editing() {
		return fmt.Errorf("%w: bulk edit in progress", tasks.ErrEditingConflict)
	}
	if ed.open && ed.openID != id {
		return fmt.Errorf("%w: task %d is open", tasks.ErrEditingConflict, ed.openID)
	}
	ed.openID, ed.open = id, true
	return nil
}

// OpenTaskID returns the task in the single-task editor
func (ed *TNAEditor) OpenTaskID() (int64, bool) {
	return ed.openID, ed.open
}

// CloseTask discards the single-task editor
func (ed *TNAEditor) CloseTask() {
	ed.openID, ed.open = 0, false
}

// SaveTask commits a patch to the open task. The editor stays open when commit fails.
func (ed *TNAEditor) SaveTask(ctx context.Context, p tasks.Patch, commit UpdateFunc) error {
	if !ed.open {
		return tasks.ErrNotEditing
	}
	if err := commit(ctx, ed.openID, p); err != nil {
		return err
	}
	ed.CloseTask()
	return nil
}

// EnterBulk snapshots list into the bulk working copy
func (ed *TNAEditor) EnterBulk(list []models.Task) error {
	if ed.open {
		return fmt.Errorf("%w: task %d is open", tasks.ErrEditingConflict, ed.openID)
	}
	return ed.bulk.Enter(list)
}

// Bulk exposes the bulk working copy
func (ed *TNAEditor) Bulk() *tasks.BulkEditor {
	return ed.bulk
}

// SaveBulk commits the working copy as the order's whole task list
func (ed *TNAEditor) SaveBulk(ctx context.Context, commit func(context.Context, []models.Task) error) error {
	return ed.bulk.Save(ctx, commit)
}

// CancelBulk discards the working copy
func (ed *TNAEditor) CancelBulk() {
	ed.bulk.Cancel()
}
