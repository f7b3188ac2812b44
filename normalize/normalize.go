// Package normalize converts the loosely shaped order records returned by the
// data service into the canonical models.Order. Nothing past this boundary
// reads raw records.
package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/kendall-kelly/garment-crm/models"
)

// Normalize converts one raw order record into the canonical shape.
// It is total: missing or malformed fields degrade to zero values, and the
// result always carries at least one product.
func Normalize(raw models.RawOrder) models.Order {
	o := models.Order{
		ID:                 str(raw, "id"),
		ClientID:           str(raw, "client_id", "clientId"),
		Customer:           str(raw, "customer", "customer_name", "customerName", "client_name"),
		Product:            str(raw, "product", "product_name", "productName"),
		Status:             orderStatus(str(raw, "status")),
		CreatedAt:          str(raw, "createdAt", "created_at"),
		UpdatedAt:          str(raw, "updatedAt", "updated_at"),
		DestinationCountry: str(raw, "destinationCountry", "destination_country"),
		ShippingPort:       str(raw, "shippingPort", "shipping_port"),
		PortOfDischarge:    str(raw, "portOfDischarge", "port_of_discharge"),
	}

	if factoryID := str(raw, "factoryId", "factory_id"); factoryID != "" {
		o.AssignFactory(factoryID)
	} else if cf := customFactory(raw); cf != nil {
		o.AssignCustomFactory(cf.Name, cf.Location)
	}

	o.Documents = documents(list(raw, "documents"))
	o.Products = products(list(raw, "products"))
	if len(o.Products) == 0 {
		o.Products = []models.Product{{
			ID:     models.DefaultProductID,
			Name:   o.Product,
			Status: o.Status,
		}}
	}
	if o.Product == "" {
		o.Product = models.ComputeProductName(o.Products)
	}
	o.Tasks = tasks(list(raw, "tasks"))
	return o
}

// All normalizes a batch of raw records, keeping their order
func All(raws []models.RawOrder) []models.Order {
	out := make([]models.Order, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

// FromOrder renders a canonical order back into a raw record, so that
// Normalize(FromOrder(o)) == o for any normalized o.
func FromOrder(o models.Order) models.RawOrder {
	b, err := json.Marshal(o)
	if err != nil {
		return models.RawOrder{}
	}
	var raw models.RawOrder
	if err := json.Unmarshal(b, &raw); err != nil {
		return models.RawOrder{}
	}
	return raw
}

// Task normalizes one raw task. Missing product ids default to the placeholder product.
func Task(m map[string]any) models.Task {
	t := models.Task{
		ID:               int64Field(m, "id"),
		Name:             str(m, "name", "title"),
		Status:           taskStatus(str(m, "status")),
		Priority:         priority(str(m, "priority")),
		Responsible:      str(m, "responsible", "assignee"),
		PlannedStartDate: date(m, "plannedStartDate", "planned_start_date", "startDate", "start_date"),
		PlannedEndDate:   date(m, "plannedEndDate", "planned_end_date", "endDate", "end_date", "dueDate", "due_date"),
		ActualStartDate:  date(m, "actualStartDate", "actual_start_date"),
		ActualEndDate:    date(m, "actualEndDate", "actual_end_date"),
		Notes:            str(m, "notes"),
		ProductID:        str(m, "productId", "product_id"),
		Quantity:         intField(m, "quantity"),
	}
	if t.ProductID == "" {
		t.ProductID = models.DefaultProductID
	}

	progress, hasProgress := number(m, "progress")
	t.Progress = clampProgress(int(math.Round(progress)))
	if t.Status == "" {
		switch {
		case hasProgress && t.Progress >= 100:
			t.Status = models.TaskComplete
		case hasProgress && t.Progress > 0:
			t.Status = models.TaskInProgress
		default:
			t.Status = models.TaskToDo
		}
	}
	reconcile(&t)
	return t
}

// reconcile enforces the status/progress coupling on stored data, status being authoritative
func reconcile(t *models.Task) {
	switch t.Status {
	case models.TaskComplete:
		t.Progress = 100
	case models.TaskToDo:
		t.Progress = 0
	case models.TaskInProgress:
		if t.Progress <= 0 {
			t.Progress = 10
		} else if t.Progress >= 100 {
			t.Progress = 50
		}
	}
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func products(items []any) []models.Product {
	out := make([]models.Product, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		p := models.Product{
			ID:       str(m, "id"),
			Name:     str(m, "name", "product_name"),
			Status:   orderStatus(str(m, "status")),
			Category: str(m, "category"),
		}
		if p.ID == "" {
			p.ID = "product-" + strconv.Itoa(i+1)
		}
		if q, ok := number(m, "quantity"); ok {
			n := int(math.Round(q))
			p.Quantity = &n
		}
		if str(m, "status") == "" {
			p.Status = ""
		}
		out = append(out, p)
	}
	return out
}

func tasks(items []any) []models.Task {
	out := make([]models.Task, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Task(m))
	}
	return out
}

func documents(items []any) []models.Document {
	out := make([]models.Document, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		d := models.Document{
			Name:        str(m, "name"),
			Type:        str(m, "type"),
			LastUpdated: str(m, "lastUpdated", "last_updated"),
			Path:        str(m, "path"),
			Source:      models.SourceCompany,
		}
		if str(m, "source") == string(models.SourceClient) {
			d.Source = models.SourceClient
		}
		out = append(out, d)
	}
	return out
}

func customFactory(raw models.RawOrder) *models.CustomFactory {
	if nested, ok := raw["customFactory"].(map[string]any); ok {
		if name := str(nested, "name"); name != "" {
			return &models.CustomFactory{Name: name, Location: str(nested, "location")}
		}
	}
	name := str(raw, "custom_factory_name", "customFactoryName")
	if name == "" {
		return nil
	}
	return &models.CustomFactory{
		Name:     name,
		Location: str(raw, "custom_factory_location", "customFactoryLocation"),
	}
}

func orderStatus(s string) models.OrderStatus {
	for _, known := range models.OrderStatuses {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return models.OrderPending
}

func taskStatus(s string) models.TaskStatus {
	switch strings.ToUpper(strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(s))) {
	case "TO DO", "TODO":
		return models.TaskToDo
	case "IN PROGRESS", "INPROGRESS":
		return models.TaskInProgress
	case "COMPLETE", "COMPLETED", "DONE":
		return models.TaskComplete
	}
	return ""
}

func priority(s string) models.Priority {
	for _, known := range models.Priorities {
		if strings.EqualFold(s, string(known)) {
			return known
		}
	}
	return models.PriorityMedium
}

// str returns the first non-empty string value among keys
func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func number(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func int64Field(m map[string]any, key string) int64 {
	f, _ := number(m, key)
	return int64(f)
}

func intField(m map[string]any, key string) int {
	f, _ := number(m, key)
	return int(math.Round(f))
}

func date(m map[string]any, keys ...string) models.Date {
	return models.Date(str(m, keys...)).Normalized()
}

func list(m map[string]any, key string) []any {
	switch v := m[key].(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	case string:
		var decoded []any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			return decoded
		}
	}
	return nil
}
