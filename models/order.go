package models

// OrderStatus is the lifecycle state of an order or of a single product
type OrderStatus string

const (
	OrderPending      OrderStatus = "Pending"
	OrderInProduction OrderStatus = "In Production"
	OrderQualityCheck OrderStatus = "Quality Check"
	OrderShipped      OrderStatus = "Shipped"
	OrderCompleted    OrderStatus = "Completed"
)

// OrderStatuses lists the order lifecycle in display order
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderInProduction,
	OrderQualityCheck,
	OrderShipped,
	OrderCompleted,
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CustomFactory is a free-text factory used when the order is not assigned to a known factory
type CustomFactory struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Order is the aggregate root for one production order
type Order struct {
	ID                 string         `json:"id"`
	ClientID           string         `json:"clientId,omitempty"`
	Customer           string         `json:"customer"`
	Product            string         `json:"product"`
	FactoryID          string         `json:"factoryId,omitempty"`
	CustomFactory      *CustomFactory `json:"customFactory,omitempty"`
	Status             OrderStatus    `json:"status"`
	CreatedAt          string         `json:"createdAt,omitempty"`
	UpdatedAt          string         `json:"updatedAt,omitempty"`
	DestinationCountry string         `json:"destinationCountry,omitempty"`
	ShippingPort       string         `json:"shippingPort,omitempty"`
	PortOfDischarge    string         `json:"portOfDischarge,omitempty"`
	Documents          []Document     `json:"documents"`
	Products           []Product      `json:"products"`
	Tasks              []Task         `json:"tasks"`
}

// AssignFactory makes a known factory authoritative and drops any custom factory
func (o *Order) AssignFactory(factoryID string) {
	o.FactoryID = factoryID
	o.CustomFactory = nil
}

// AssignCustomFactory makes a free-text factory authoritative and drops the factory reference
func (o *Order) AssignCustomFactory(name, location string) {
	o.FactoryID = ""
	o.CustomFactory = &CustomFactory{Name: name, Location: location}
}

// HasFactory reports whether either factory form is set
func (o *Order) HasFactory() bool {
	return o.FactoryID != "" || (o.CustomFactory != nil && o.CustomFactory.Name != "")
}

// FindTask returns the index of the task with the given id, or -1
func (o *Order) FindTask(id int64) int {
	for i := range o.Tasks {
		if o.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindProduct returns the index of the product with the given id, or -1
func (o *Order) FindProduct(id string) int {
	for i := range o.Products {
		if o.Products[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a structural deep copy that shares no slices or pointers with o
func (o Order) Clone() Order {
	c := o
	if o.CustomFactory != nil {
		cf := *o.CustomFactory
		c.CustomFactory = &cf
	}
	if o.Documents != nil {
		c.Documents = make([]Document, len(o.Documents))
		copy(c.Documents, o.Documents)
	}
	if o.Products != nil {
		c.Products = make([]Product, len(o.Products))
		for i, p := range o.Products {
			c.Products[i] = p.Clone()
		}
	}
	c.Tasks = CloneTasks(o.Tasks)
	return c
}
