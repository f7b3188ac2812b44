package models

import (
	"fmt"
)

// FactoryAssignment carries the authoritative factory form of a patch.
// Exactly one of FactoryID and Custom is used; the other is cleared.
type FactoryAssignment struct {
	FactoryID string
	Custom    *CustomFactory
}

// OrderPatch is a partial update of an order's mutable fields.
// nil fields are left untouched by the data service.
type OrderPatch struct {
	Status      *OrderStatus
	Tasks       []Task
	Documents   []Document
	Products    []Product
	ProductName *string
	Factory     *FactoryAssignment
	UpdatedAt   string
}

// PatchFromOrder builds the full mutable-field subset of an edited order.
// The display product name is recomputed so product_name never diverges from products.
func PatchFromOrder(o Order, updatedAt string) OrderPatch {
	status := o.Status
	name := ComputeProductName(o.Products)
	p := OrderPatch{
		Status:      &status,
		Tasks:       nonNilTasks(CloneTasks(o.Tasks)),
		Documents:   nonNilDocuments(append([]Document(nil), o.Documents...)),
		Products:    nonNilProducts(o.Clone().Products),
		ProductName: &name,
		Factory:     &FactoryAssignment{FactoryID: o.FactoryID},
		UpdatedAt:   updatedAt,
	}
	if o.FactoryID == "" && o.CustomFactory != nil {
		cf := *o.CustomFactory
		p.Factory.Custom = &cf
	}
	return p
}

// Columns renders the patch as a column map for the data service
func (p OrderPatch) Columns() (map[string]any, error) {
	cols := map[string]any{}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.Tasks != nil {
		s, err := encodeJSON(p.Tasks)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tasks: %w", err)
		}
		cols["tasks"] = s
	}
	if p.Documents != nil {
		s, err := encodeJSON(p.Documents)
		if err != nil {
			return nil, fmt.Errorf("failed to encode documents: %w", err)
		}
		cols["documents"] = s
	}
	if p.Products != nil {
		s, err := encodeJSON(p.Products)
		if err != nil {
			return nil, fmt.Errorf("failed to encode products: %w", err)
		}
		cols["products"] = s
	}
	if p.ProductName != nil {
		cols["product_name"] = *p.ProductName
	}
	if p.Factory != nil {
		if p.Factory.FactoryID != "" {
			cols["factory_id"] = p.Factory.FactoryID
			cols["custom_factory_name"] = nil
			cols["custom_factory_location"] = nil
		} else {
			cols["factory_id"] = nil
			if p.Factory.Custom != nil {
				cols["custom_factory_name"] = p.Factory.Custom.Name
				cols["custom_factory_location"] = p.Factory.Custom.Location
			} else {
				cols["custom_factory_name"] = nil
				cols["custom_factory_location"] = nil
			}
		}
	}
	if p.UpdatedAt != "" {
		cols["updated_at"] = p.UpdatedAt
	}
	return cols, nil
}

// ApplyTo merges the patch into an in-memory order
func (p OrderPatch) ApplyTo(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Tasks != nil {
		o.Tasks = CloneTasks(p.Tasks)
	}
	if p.Documents != nil {
		o.Documents = append([]Document{}, p.Documents...)
	}
	if p.Products != nil {
		o.Products = Order{Products: p.Products}.Clone().Products
	}
	if p.ProductName != nil {
		o.Product = *p.ProductName
	}
	if p.Factory != nil {
		if p.Factory.FactoryID != "" {
			o.AssignFactory(p.Factory.FactoryID)
		} else if p.Factory.Custom != nil {
			o.AssignCustomFactory(p.Factory.Custom.Name, p.Factory.Custom.Location)
		} else {
			o.FactoryID = ""
			o.CustomFactory = nil
		}
	}
	if p.UpdatedAt != "" {
		o.UpdatedAt = p.UpdatedAt
	}
}
