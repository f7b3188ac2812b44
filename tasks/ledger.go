package tasks

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/kendall-kelly/garment-crm/models"
)

var ErrUnknownPending = errors.New("unknown pending mutation")

// Ledger tracks optimistic task mutations: a change is applied locally first
// and later confirmed, or rolled back to the snapshot taken before it.
type Ledger struct {
	mu      sync.Mutex
	pending map[string][]models.Task
	order   []string
}

// NewLedger creates an empty ledger
func NewLedger() *Ledger {
	return &Ledger{pending: map[string][]models.Task{}}
}

// ApplyLocally runs mutate against current and records current as the
// rollback snapshot. The returned id names the pending mutation.
func (l *Ledger) ApplyLocally(current []models.Task, mutate func([]models.Task) ([]models.Task, error)) ([]models.Task, string, error) {
	next, err := mutate(models.CloneTasks(current))
	if err != nil {
		return nil, "", err
	}

	id := uuid.NewString()
	l.mu.Lock()
	l.pending[id] = models.CloneTasks(current)
	l.order = append(l.order, id)
	l.mu.Unlock()
	return next, id, nil
}

// Confirm drops the snapshot of a persisted mutation
func (l *Ledger) Confirm(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.pending[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPending, id)
	}
	l.forget(id)
	return nil
}

// Rollback returns the snapshot taken before the mutation and forgets it.
// Mutations applied after it are forgotten too, since the snapshot predates them.
func (l *Ledger) Rollback(id string, reason error) ([]models.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	snapshot, ok := l.pending[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPending, id)
	}
	for i, pid := range l.order {
		if pid == id {
			for _, later := range l.order[i:] {
				delete(l.pending, later)
			}
			l.order = l.order[:i]
			break
		}
	}
	log.Printf("[TASKS] rolled back pending mutation %s: %v", id, reason)
	return snapshot, nil
}

// Pending is the number of unconfirmed mutations
func (l *Ledger) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

func (l *Ledger) forget(id string) {
	delete(l.pending, id)
	for i, pid := range l.order {
		if pid == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}
