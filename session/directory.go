package session

import (
	"context"
	"sync"

	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
)

// Directory holds the clients and factories pickers
type Directory struct {
	clientSvc  services.ClientService
	factorySvc services.FactoryService
	clients    *Fetcher[[]models.Client]
	factories  *Fetcher[[]models.Factory]

	mu          sync.RWMutex
	clientList  []models.Client
	factoryList []models.Factory
}

// NewDirectory creates an empty directory
func NewDirectory(clients services.ClientService, factories services.FactoryService, cache KeyValueCache, sink NotificationSink, opts FetchOptions) *Directory {
	return &Directory{
		clientSvc:  clients,
		factorySvc: factories,
		clients:    NewFetcher[[]models.Client]("clients", cache, sink, opts),
		factories:  NewFetcher[[]models.Factory]("factories", cache, sink, opts),
	}
}

// Load fetches clients and factories in parallel and returns the first error
func (d *Directory) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	var clientErr, factoryErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, clientErr = d.clients.Fetch(ctx, CacheKey("clients", ""), d.clientSvc.GetAll, func(list []models.Client) {
			d.mu.Lock()
			d.clientList = append([]models.Client(nil), list...)
			d.mu.Unlock()
		})
	}()
	go func() {
		defer wg.Done()
		_, factoryErr = d.factories.Fetch(ctx, CacheKey("factories", ""), d.factorySvc.GetAll, func(list []models.Factory) {
			d.mu.Lock()
			d.factoryList = append([]models.Factory(nil), list...)
			d.mu.Unlock()
		})
	}()
	wg.Wait()

	if clientErr != nil {
		return clientErr
	}
	return factoryErr
}

// Loading reports whether either list is still loading
func (d *Directory) Loading() bool {
	return d.clients.Loading() || d.factories.Loading()
}

// Clients returns the loaded clients
func (d *Directory) Clients() []models.Client {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Client{}, d.clientList...)
}

// Factories returns the loaded factories
func (d *Directory) Factories() []models.Factory {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Factory{}, d.factoryList...)
}

// FactoryName resolves the display name of an order's factory
func (d *Directory) FactoryName(o models.Order) string {
	if o.CustomFactory != nil {
		return o.CustomFactory.Name
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, f := range d.factoryList {
		if f.ID == o.FactoryID {
			return f.Name
		}
	}
	return ""
}

// Close aborts both loads
func (d *Directory) Close() {
	d.clients.Abort()
	d.factories.Abort()
}
