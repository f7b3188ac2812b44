package session

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/tasks"
)

// ValidationError is an input problem caught before any request is sent
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProductInput is one line item of a new order
type ProductInput struct {
	Name     string `json:"name"`
	Quantity *int   `json:"quantity,omitempty"`
	Category string `json:"category,omitempty"`
}

// NewOrderInput is the create-order form
type NewOrderInput struct {
	ClientID           string                `json:"clientId"`
	Customer           string                `json:"customer"`
	Products           []ProductInput        `json:"products"`
	FactoryID          string                `json:"factoryId,omitempty"`
	CustomFactory      *models.CustomFactory `json:"customFactory,omitempty"`
	DestinationCountry string                `json:"destinationCountry,omitempty"`
	ShippingPort       string                `json:"shippingPort,omitempty"`
	PortOfDischarge    string                `json:"portOfDischarge,omitempty"`
}

// Validate checks the form without touching any service
func (in NewOrderInput) Validate() error {
	if strings.TrimSpace(in.ClientID) == "" {
		return &ValidationError{Code: "MISSING_CLIENT", Message: "Please select a client"}
	}
	named := 0
	for _, p := range in.Products {
		if strings.TrimSpace(p.Name) != "" {
			named++
		}
		if p.Quantity != nil && *p.Quantity < 0 {
			return &ValidationError{Code: "INVALID_QUANTITY", Message: "Product quantity cannot be negative"}
		}
	}
	if named == 0 {
		return &ValidationError{Code: "MISSING_PRODUCTS", Message: "Please add at least one product"}
	}
	if strings.TrimSpace(in.FactoryID) == "" && (in.CustomFactory == nil || strings.TrimSpace(in.CustomFactory.Name) == "") {
		return &ValidationError{Code: "MISSING_FACTORY", Message: "Please select a factory or enter a custom factory"}
	}
	return nil
}

// BuildOrder turns a valid form into a Pending order with seeded tasks
func BuildOrder(engine *tasks.Engine, in NewOrderInput, now time.Time) (models.Order, error) {
	if err := in.Validate(); err != nil {
		return models.Order{}, err
	}

	o := models.Order{
		ID:                 uuid.NewString(),
		ClientID:           in.ClientID,
		Customer:           in.Customer,
		Status:             models.OrderPending,
		CreatedAt:          now.UTC().Format(time.RFC3339),
		DestinationCountry: in.DestinationCountry,
		ShippingPort:       in.ShippingPort,
		PortOfDischarge:    in.PortOfDischarge,
		Documents:          []models.Document{},
		Products:           []models.Product{},
	}
	for _, p := range in.Products {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		product := models.Product{ID: uuid.NewString(), Name: name, Status: models.OrderPending, Category: p.Category}
		if p.Quantity != nil {
			q := *p.Quantity
			product.Quantity = &q
		}
		o.Products = append(o.Products, product)
	}
	o.Product = models.ComputeProductName(o.Products)

	if in.FactoryID != "" {
		o.AssignFactory(in.FactoryID)
	} else {
		o.AssignCustomFactory(strings.TrimSpace(in.CustomFactory.Name), strings.TrimSpace(in.CustomFactory.Location))
	}

	o.Tasks = engine.SeedTasks(o.Products[0].ID)
	return o, nil
}

// OrderCreator validates, builds and persists new orders
type OrderCreator struct {
	deps Deps
}

// NewOrderCreator creates a creator
func NewOrderCreator(deps Deps) *OrderCreator {
	if deps.Engine == nil {
		deps.Engine = tasks.NewEngine()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &OrderCreator{deps: deps}
}

// Create persists a new order and adds it to the book. Validation errors
// are notified and no request is sent.
func (c *OrderCreator) Create(ctx context.Context, in NewOrderInput) (models.Order, error) {
	o, err := BuildOrder(c.deps.Engine, in, c.deps.Now())
	if err != nil {
		notify(c.deps.Sink, LevelError, err.Error())
		return models.Order{}, err
	}
	if err := c.deps.Orders.Create(ctx, o); err != nil {
		notify(c.deps.Sink, LevelError, "Failed to create order.")
		return models.Order{}, fmt.Errorf("failed to create order: %w", err)
	}
	if c.deps.Book != nil {
		c.deps.Book.Put(o)
	}
	log.Printf("[ORDERS] created order %s for client %s", o.ID, o.ClientID)
	notify(c.deps.Sink, LevelSuccess, "Order created.")
	return o, nil
}
