package controllers

import (
	"sync"
	"time"

	"github.com/kendall-kelly/garment-crm/config"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/session"
	"github.com/kendall-kelly/garment-crm/tasks"
)

// Handlers share one cache, one task engine and one clock across requests
var (
	runtimeMu sync.RWMutex
	cache     session.KeyValueCache = session.NewMemoryCache()
	clock                           = time.Now
	engine                          = tasks.NewEngine()
)

// SetCache replaces the list cache (primarily for testing)
func SetCache(c session.KeyValueCache) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	cache = c
}

// SetClock replaces the clock and rebuilds the task engine on it (primarily for testing)
func SetClock(now func() time.Time) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	clock = now
	engine = tasks.NewEngine(tasks.WithClock(now))
}

func runtimeState() (session.KeyValueCache, func() time.Time, *tasks.Engine) {
	runtimeMu.RLock()
	defer runtimeMu.RUnlock()
	return cache, clock, engine
}

func today() models.Date {
	_, now, _ := runtimeState()
	return models.Today(now())
}

func fetchOptions() session.FetchOptions {
	return session.FetchOptionsFromConfig(config.GetConfig())
}

func newBook(sink session.NotificationSink) *session.OrderBook {
	c, _, _ := runtimeState()
	return session.NewOrderBook(services.GetOrderService(), c, sink, fetchOptions())
}

func newDirectory(sink session.NotificationSink) *session.Directory {
	c, _, _ := runtimeState()
	return session.NewDirectory(services.GetClientService(), services.GetFactoryService(), c, sink, fetchOptions())
}

// newDeps wires a session to the configured services. The book is restored
// from the cache of clientID so saved edits reach the cached order list.
func newDeps(clientID string, sink session.NotificationSink) session.Deps {
	_, now, e := runtimeState()
	book := newBook(sink)
	book.Restore(clientID)
	return session.Deps{
		Engine:    e,
		Orders:    services.GetOrderService(),
		Documents: services.GetDocumentService(),
		Book:      book,
		Sink:      sink,
		Now:       now,
	}
}
