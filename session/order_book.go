package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/normalize"
	"github.com/kendall-kelly/garment-crm/services"
)

// OrderBook is the in-memory list of one client's orders (or all orders when
// no client is given). It is the shared copy every edit session merges into.
type OrderBook struct {
	orders  services.OrderService
	cache   KeyValueCache
	sink    NotificationSink
	fetcher *Fetcher[[]models.Order]

	mu       sync.RWMutex
	clientID string
	list     []models.Order
	painted  bool
}

// NewOrderBook creates an empty book
func NewOrderBook(orders services.OrderService, cache KeyValueCache, sink NotificationSink, opts FetchOptions) *OrderBook {
	return &OrderBook{
		orders:  orders,
		cache:   cache,
		sink:    sink,
		fetcher: NewFetcher[[]models.Order]("orders", cache, sink, opts),
	}
}

// Load fetches the orders of clientID, "" for all orders. Cached orders are
// available through Orders as soon as Load starts.
func (b *OrderBook) Load(ctx context.Context, clientID string) ([]models.Order, error) {
	b.mu.Lock()
	if b.clientID != clientID {
		b.list = nil
		b.painted = false
	}
	b.clientID = clientID
	b.mu.Unlock()

	load := func(ctx context.Context) ([]models.Order, error) {
		var raws []models.RawOrder
		var err error
		if clientID == "" {
			raws, err = b.orders.GetAll(ctx)
		} else {
			raws, err = b.orders.GetOrdersByClient(ctx, clientID)
		}
		if err != nil {
			return nil, err
		}
		return normalize.All(raws), nil
	}
	paint := func(list []models.Order) {
		b.mu.Lock()
		b.list = cloneOrders(list)
		b.painted = true
		b.mu.Unlock()
	}

	list, err := b.fetcher.Fetch(ctx, b.key(clientID), load, paint)
	if err != nil {
		return nil, err
	}
	return cloneOrders(list), nil
}

// Loading reports whether a load is in flight
func (b *OrderBook) Loading() bool {
	return b.fetcher.Loading()
}

// Painted reports whether the book holds orders from the cache or the service
func (b *OrderBook) Painted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.painted
}

// Orders returns a copy of the current list
func (b *OrderBook) Orders() []models.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneOrders(b.list)
}

// Find returns a copy of the order with id
func (b *OrderBook) Find(id string) (models.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, o := range b.list {
		if o.ID == id {
			return o.Clone(), true
		}
	}
	return models.Order{}, false
}

// Put inserts or replaces an order and writes the cache through
func (b *OrderBook) Put(o models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.list {
		if b.list[i].ID == o.ID {
			b.list[i] = o.Clone()
			b.storeLocked()
			return
		}
	}
	b.list = append([]models.Order{o.Clone()}, b.list...)
	b.storeLocked()
}

// Merge applies a saved patch to the matching order. Unknown ids are ignored.
func (b *OrderBook) Merge(id string, patch models.OrderPatch) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.list {
		if b.list[i].ID == id {
			patch.ApplyTo(&b.list[i])
			b.storeLocked()
			return true
		}
	}
	return false
}

// Remove drops an order from the list
func (b *OrderBook) Remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.list {
		if b.list[i].ID == id {
			b.list = append(b.list[:i:i], b.list[i+1:]...)
			b.storeLocked()
			return true
		}
	}
	return false
}

// Delete deletes an order through the service and removes it from the list
func (b *OrderBook) Delete(ctx context.Context, id string) error {
	if err := b.orders.Delete(ctx, id); err != nil {
		if !errors.Is(err, services.ErrOrderNotFound) {
			notify(b.sink, LevelError, "Failed to delete order.")
		}
		return fmt.Errorf("failed to delete order %s: %w", id, err)
	}
	b.Remove(id)
	log.Printf("[ORDERS] deleted order %s", id)
	notify(b.sink, LevelSuccess, "Order deleted.")
	return nil
}

// Close aborts any in-flight load
func (b *OrderBook) Close() {
	b.fetcher.Abort()
}

func (b *OrderBook) key(clientID string) string {
	return CacheKey("orders", clientID)
}

func (b *OrderBook) storeLocked() {
	storeCached(b.cache, b.key(b.clientID), b.list)
}

func cloneOrders(list []models.Order) []models.Order {
	out := make([]models.Order, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// Restore paints the book for clientID from the cache without fetching.
// Edits merged afterwards are written through to the same cache entry.
func (b *OrderBook) Restore(clientID string) bool {
	list, ok := loadCached[[]models.Order](b.cache, b.key(clientID))

	b.mu.Lock()
	defer b.mu.Unlock()
	b.clientID = clientID
	b.list = nil
	b.painted = ok
	if ok {
		b.list = list
	}
	return ok
}
