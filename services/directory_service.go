package services

import (
	"context"
	"fmt"

	"github.com/kendall-kelly/garment-crm/models"
	"gorm.io/gorm"
)

// ClientService lists the clients orders are placed for
type ClientService interface {
	GetAll(ctx context.Context) ([]models.Client, error)
	Create(ctx context.Context, client *models.Client) error
}

// FactoryService lists the registered factories
type FactoryService interface {
	GetAll(ctx context.Context) ([]models.Factory, error)
	Create(ctx context.Context, factory *models.Factory) error
}

// GormClientService implements ClientService on the clients table
type GormClientService struct {
	db *gorm.DB
}

// GormFactoryService implements FactoryService on the factories table
type GormFactoryService struct {
	db *gorm.DB
}

var (
	clientServiceInstance  ClientService
	factoryServiceInstance FactoryService
)

// NewGormClientService creates a client service backed by db
func NewGormClientService(db *gorm.DB) *GormClientService {
	return &GormClientService{db: db}
}

// NewGormFactoryService creates a factory service backed by db
func NewGormFactoryService(db *gorm.DB) *GormFactoryService {
	return &GormFactoryService{db: db}
}

// GetClientService returns the initialized client service instance
func GetClientService() ClientService {
	return clientServiceInstance
}

// SetClientService sets the client service instance (primarily for testing)
func SetClientService(service ClientService) {
	clientServiceInstance = service
}

// GetFactoryService returns the initialized factory service instance
func GetFactoryService() FactoryService {
	return factoryServiceInstance
}

// SetFactoryService sets the factory service instance (primarily for testing)
func SetFactoryService(service FactoryService) {
	factoryServiceInstance = service
}

// GetAll returns clients ordered by name
func (s *GormClientService) GetAll(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch clients: %w", err)
	}
	return clients, nil
}

// Create inserts a client
func (s *GormClientService) Create(ctx context.Context, client *models.Client) error {
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// GetAll returns factories ordered by name
func (s *GormFactoryService) GetAll(ctx context.Context) ([]models.Factory, error) {
	var factories []models.Factory
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&factories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch factories: %w", err)
	}
	return factories, nil
}

// Create inserts a factory
func (s *GormFactoryService) Create(ctx context.Context, factory *models.Factory) error {
	if err := s.db.WithContext(ctx).Create(factory).Error; err != nil {
		return fmt.Errorf("failed to create factory: %w", err)
	}
	return nil
}
