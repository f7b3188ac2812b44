package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kendall-kelly/garment-crm/config"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/tasks"
	"github.com/stretchr/testify/require"
)

var errNetwork = errors.New("network down")

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
}

func newTestEngine() *tasks.Engine {
	return tasks.NewEngine(tasks.WithClock(fixedNow))
}

// flakyOrders wraps a real order service and fails writes on demand
type flakyOrders struct {
	services.OrderService
	mu         sync.Mutex
	failWrites bool
	failReads  bool
	updates    int
}

func (f *flakyOrders) setFailWrites(v bool) {
	f.mu.Lock()
	f.failWrites = v
	f.mu.Unlock()
}

func (f *flakyOrders) Update(ctx context.Context, id string, p models.OrderPatch) error {
	f.mu.Lock()
	f.updates++
	fail := f.failWrites
	f.mu.Unlock()
	if fail {
		return errNetwork
	}
	return f.OrderService.Update(ctx, id, p)
}

func (f *flakyOrders) Create(ctx context.Context, o models.Order) error {
	f.mu.Lock()
	fail := f.failWrites
	f.mu.Unlock()
	if fail {
		return errNetwork
	}
	return f.OrderService.Create(ctx, o)
}

func (f *flakyOrders) GetOrdersByClient(ctx context.Context, clientID string) ([]models.RawOrder, error) {
	f.mu.Lock()
	fail := f.failReads
	f.mu.Unlock()
	if fail {
		return nil, errNetwork
	}
	return f.OrderService.GetOrdersByClient(ctx, clientID)
}

func newOrderStore(t *testing.T) (*flakyOrders, *services.GormClientService, *services.GormFactoryService) {
	t.Helper()
	db, err := config.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return &flakyOrders{OrderService: services.NewGormOrderService(db)},
		services.NewGormClientService(db),
		services.NewGormFactoryService(db)
}

func seedOrder(t *testing.T, orders services.OrderService, id, clientID string) models.Order {
	t.Helper()
	qty := 1200
	o := models.Order{
		ID:        id,
		ClientID:  clientID,
		Customer:  "Acme Apparel",
		Product:   "Polo Shirts",
		Status:    models.OrderPending,
		FactoryID: "fac-1",
		Products:  []models.Product{{ID: "p1", Name: "Polo Shirts", Quantity: &qty}},
		Tasks: []models.Task{
			{ID: 1, Name: "Order Confirmation", Status: models.TaskComplete, Progress: 100, Priority: models.PriorityMedium, ProductID: "p1",
				PlannedStartDate: "2024-06-01", PlannedEndDate: "2024-06-03", ActualStartDate: "2024-06-01", ActualEndDate: "2024-06-03"},
			{ID: 2, Name: "Fabric Sourcing", Status: models.TaskInProgress, Progress: 40, Priority: models.PriorityHigh, ProductID: "p1",
				PlannedStartDate: "2024-06-03", PlannedEndDate: "2024-06-10", ActualStartDate: "2024-06-04"},
			{ID: 3, Name: "Cutting", Status: models.TaskToDo, Priority: models.PriorityMedium, ProductID: "p1",
				PlannedStartDate: "2024-06-10", PlannedEndDate: "2024-06-20"},
		},
		Documents: []models.Document{},
	}
	require.NoError(t, orders.Create(context.Background(), o))
	return o
}
