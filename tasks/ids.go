package tasks

import (
	"sync"
	"time"
)

// IDGenerator hands out task ids
type IDGenerator interface {
	NextID() int64
}

// MonotonicIDs issues millisecond-timestamp ids that never repeat, even when
// many tasks are created within the same millisecond.
type MonotonicIDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewMonotonicIDs creates a generator driven by the given clock (time.Now when nil)
func NewMonotonicIDs(now func() time.Time) *MonotonicIDs {
	if now == nil {
		now = time.Now
	}
	return &MonotonicIDs{now: now}
}

// NextID returns max(now in ms, last id + 1)
func (g *MonotonicIDs) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe makes sure future ids are greater than every id already in use
func (g *MonotonicIDs) Observe(ids []int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, id := range ids {
		if id > g.last {
			g.last = id
		}
	}
}
