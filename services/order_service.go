package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kendall-kelly/garment-crm/models"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned when no order matches the requested id
var ErrOrderNotFound = errors.New("order not found")

// OrderService is the order CRUD data service. Reads return raw records;
// callers normalize them.
type OrderService interface {
	GetOrdersByClient(ctx context.Context, clientID string) ([]models.RawOrder, error)
	GetAll(ctx context.Context) ([]models.RawOrder, error)
	Get(ctx context.Context, id string) (models.RawOrder, error)
	Create(ctx context.Context, order models.Order) error
	Update(ctx context.Context, id string, patch models.OrderPatch) error
	Delete(ctx context.Context, id string) error
}

// GormOrderService implements OrderService on the orders table
type GormOrderService struct {
	db *gorm.DB
}

var (
	orderServiceInstance OrderService

	_ OrderService = (*GormOrderService)(nil)
)

// NewGormOrderService creates an order service backed by db
func NewGormOrderService(db *gorm.DB) *GormOrderService {
	return &GormOrderService{db: db}
}

// GetOrderService returns the initialized order service instance
func GetOrderService() OrderService {
	return orderServiceInstance
}

// SetOrderService sets the order service instance (primarily for testing)
func SetOrderService(service OrderService) {
	orderServiceInstance = service
}

// GetOrdersByClient returns a client's orders, newest first
func (s *GormOrderService) GetOrdersByClient(ctx context.Context, clientID string) ([]models.RawOrder, error) {
	var records []models.OrderRecord
	if err := s.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders for client %s: %w", clientID, err)
	}
	return raws(records), nil
}

// GetAll returns every order, newest first
func (s *GormOrderService) GetAll(ctx context.Context) ([]models.RawOrder, error) {
	var records []models.OrderRecord
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return raws(records), nil
}

// Get returns one order
func (s *GormOrderService) Get(ctx context.Context, id string) (models.RawOrder, error) {
	var record models.OrderRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %s: %w", id, err)
	}
	return record.Raw(), nil
}

// Create inserts a new order
func (s *GormOrderService) Create(ctx context.Context, order models.Order) error {
	record, err := models.NewOrderRecord(order)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// Update writes the fields present in patch
func (s *GormOrderService) Update(ctx context.Context, id string, patch models.OrderPatch) error {
	cols, err := patch.Columns()
	if err != nil {
		return err
	}
	if raw, ok := cols["updated_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			cols["updated_at"] = ts
		} else {
			delete(cols, "updated_at")
		}
	}
	if len(cols) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&models.OrderRecord{}).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return fmt.Errorf("failed to update order %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Delete removes an order
func (s *GormOrderService) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.OrderRecord{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete order %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func raws(records []models.OrderRecord) []models.RawOrder {
	out := make([]models.RawOrder, 0, len(records))
	for _, r := range records {
		out = append(out, r.Raw())
	}
	return out
}
