package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawOrder is an order record as it crosses the data-service boundary.
// Field names and shapes vary; only normalize.Normalize should read it.
type RawOrder map[string]any

// OrderRecord is the persisted row of an order. Documents, products and tasks are JSON columns.
type OrderRecord struct {
	ID                    string    `gorm:"primaryKey;size:64" json:"id"`
	ClientID              string    `gorm:"index;size:64" json:"client_id"`
	CustomerName          string    `json:"customer_name"`
	ProductName           string    `json:"product_name"`
	FactoryID             *string   `gorm:"size:64" json:"factory_id"`
	CustomFactoryName     *string   `json:"custom_factory_name"`
	CustomFactoryLocation *string   `json:"custom_factory_location"`
	Status                string    `gorm:"not null;default:'Pending'" json:"status"`
	DestinationCountry    string    `json:"destination_country"`
	ShippingPort          string    `json:"shipping_port"`
	PortOfDischarge       string    `json:"port_of_discharge"`
	Documents             string    `gorm:"type:text" json:"documents"`
	Products              string    `gorm:"type:text" json:"products"`
	Tasks                 string    `gorm:"type:text" json:"tasks"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// TableName specifies the table name for the OrderRecord model
func (OrderRecord) TableName() string {
	return "orders"
}

// NewOrderRecord converts a canonical order into its persisted row
func NewOrderRecord(o Order) (OrderRecord, error) {
	docs, err := encodeJSON(nonNilDocuments(o.Documents))
	if err != nil {
		return OrderRecord{}, fmt.Errorf("failed to encode documents: %w", err)
	}
	products, err := encodeJSON(nonNilProducts(o.Products))
	if err != nil {
		return OrderRecord{}, fmt.Errorf("failed to encode products: %w", err)
	}
	tasks, err := encodeJSON(nonNilTasks(o.Tasks))
	if err != nil {
		return OrderRecord{}, fmt.Errorf("failed to encode tasks: %w", err)
	}

	rec := OrderRecord{
		ID:                 o.ID,
		ClientID:           o.ClientID,
		CustomerName:       o.Customer,
		ProductName:        o.Product,
		Status:             string(o.Status),
		DestinationCountry: o.DestinationCountry,
		ShippingPort:       o.ShippingPort,
		PortOfDischarge:    o.PortOfDischarge,
		Documents:          docs,
		Products:           products,
		Tasks:              tasks,
	}
	if o.FactoryID != "" {
		id := o.FactoryID
		rec.FactoryID = &id
	} else if o.CustomFactory != nil {
		name, loc := o.CustomFactory.Name, o.CustomFactory.Location
		rec.CustomFactoryName = &name
		rec.CustomFactoryLocation = &loc
	}
	if t, err := time.Parse(time.RFC3339, o.CreatedAt); err == nil {
		rec.CreatedAt = t
	}
	return rec, nil
}

// Raw exposes the row the way the data service returns it: snake_case keys, decoded JSON columns
func (r OrderRecord) Raw() RawOrder {
	raw := RawOrder{
		"id":                  r.ID,
		"client_id":           r.ClientID,
		"customer_name":       r.CustomerName,
		"product_name":        r.ProductName,
		"status":              r.Status,
		"destination_country": r.DestinationCountry,
		"shipping_port":       r.ShippingPort,
		"port_of_discharge":   r.PortOfDischarge,
		"documents":           decodeJSON(r.Documents),
		"products":            decodeJSON(r.Products),
		"tasks":               decodeJSON(r.Tasks),
	}
	if r.FactoryID != nil {
		raw["factory_id"] = *r.FactoryID
	}
	if r.CustomFactoryName != nil {
		raw["custom_factory_name"] = *r.CustomFactoryName
	}
	if r.CustomFactoryLocation != nil {
		raw["custom_factory_location"] = *r.CustomFactoryLocation
	}
	if !r.CreatedAt.IsZero() {
		raw["created_at"] = r.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !r.UpdatedAt.IsZero() {
		raw["updated_at"] = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return raw
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeJSON is lenient: an unreadable column comes back as nil
func decodeJSON(s string) any {
	if s == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil
	}
	return v
}

func nonNilDocuments(v []Document) []Document {
	if v == nil {
		return []Document{}
	}
	return v
}

func nonNilProducts(v []Product) []Product {
	if v == nil {
		return []Product{}
	}
	return v
}

func nonNilTasks(v []Task) []Task {
	if v == nil {
		return []Task{}
	}
	return v
}
