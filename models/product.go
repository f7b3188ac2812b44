package models

import "fmt"

// DefaultProductID is the id of the placeholder product synthesized for orders without products
const DefaultProductID = "default"

// Product is one line item of an order
type Product struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Status   OrderStatus `json:"status,omitempty"`
	Quantity *int        `json:"quantity,omitempty"`
	Category string      `json:"category,omitempty"`
}

// CategoryKey is the TNA grouping key: the category, or the name when no category is set
func (p Product) CategoryKey() string {
	if p.Category != "" {
		return p.Category
	}
	return p.Name
}

// Clone copies the product including its quantity pointer
func (p Product) Clone() Product {
	c := p
	if p.Quantity != nil {
		q := *p.Quantity
		c.Quantity = &q
	}
	return c
}

// ComputeProductName derives the display name persisted into the order's product_name
func ComputeProductName(products []Product) string {
	switch len(products) {
	case 0:
		return "Custom Order"
	case 1:
		return products[0].Name
	default:
		return fmt.Sprintf("%d Items Order", len(products))
	}
}

// HasProduct reports whether id names one of the products
func HasProduct(products []Product, id string) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}
