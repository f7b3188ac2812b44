package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/session"
)

// UpdateOrderRequest represents the editable order fields. Absent fields are left unchanged.
// Products, when present, is the complete product list: unknown ids are added
// and missing products are removed with their tasks left unassigned.
type UpdateOrderRequest struct {
	Status        *models.OrderStatus   `json:"status"`
	FactoryID     *string               `json:"factoryId"`
	CustomFactory *models.CustomFactory `json:"customFactory"`
	Products      []models.Product      `json:"products"`
}

// ListOrders handles GET /api/v1/orders - every order, newest first
func ListOrders(c *gin.Context) {
	listOrders(c, "")
}

// ListClientOrders handles GET /api/v1/clients/:clientId/orders
func ListClientOrders(c *gin.Context) {
	clientID := c.Param("clientId")
	if clientID == "" {
		respondError(c, http.StatusBadRequest, "INVALID_CLIENT_ID", "Client ID is required")
		return
	}
	listOrders(c, clientID)
}

// listOrders serves fresh orders, or the cached list flagged stale when the
// data service cannot be reached
func listOrders(c *gin.Context, clientID string) {
	sink := &requestSink{}
	book := newBook(sink)
	defer book.Close()

	list, err := book.Load(c.Request.Context(), clientID)
	if err != nil {
		if !book.Painted() {
			respondError(c, http.StatusServiceUnavailable, "FETCH_FAILED", "Failed to load orders")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":       true,
			"data":          book.Orders(),
			"stale":         true,
			"notifications": sink.notifications(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    list,
		"stale":   false,
	})
}

// CreateOrder handles POST /api/v1/orders
func CreateOrder(c *gin.Context) {
	var req session.NewOrderInput
	if !bindJSON(c, &req) {
		return
	}

	sink := &requestSink{}
	creator := session.NewOrderCreator(newDeps(req.ClientID, sink))
	order, err := creator.Create(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, order, sink)
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, order, nil)
}

// UpdateOrder handles PATCH /api/v1/orders/:id
func UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}

	if err := applyOrderEdits(s, req); err != nil {
		respondServiceError(c, err)
		return
	}
	if s.HasChanges() {
		if err := s.Save(c.Request.Context()); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	respondData(c, http.StatusOK, selected(s), sink)
}

// applyOrderEdits stages the request into the session buffer.
// A present but empty product list is rejected, as it is on create.
func applyOrderEdits(s *session.OrderSession, req UpdateOrderRequest) error {
	if req.Products != nil && len(req.Products) == 0 {
		return &session.ValidationError{Code: "MISSING_PRODUCTS", Message: "Please add at least one product"}
	}
	if req.Status != nil {
		if err := s.SetStatus(*req.Status); err != nil {
			return err
		}
	}
	switch {
	case req.FactoryID != nil && *req.FactoryID != "":
		if err := s.AssignFactory(*req.FactoryID); err != nil {
			return err
		}
	case req.CustomFactory != nil:
		if err := s.AssignCustomFactory(req.CustomFactory.Name, req.CustomFactory.Location); err != nil {
			return err
		}
	}
	if req.Products == nil {
		return nil
	}

	current := selected(s).Products
	keep := make(map[string]bool, len(req.Products))
	for _, p := range req.Products {
		if p.ID != "" && models.HasProduct(current, p.ID) {
			keep[p.ID] = true
			if err := s.UpdateProduct(p); err != nil {
				return err
			}
			continue
		}
		added, err := s.AddProduct(p)
		if err != nil {
			return err
		}
		keep[added.ID] = true
	}
	for _, p := range current {
		if !keep[p.ID] {
			if err := s.RemoveProduct(p.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func DeleteOrder(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}

	sink := &requestSink{}
	book := newBook(sink)
	book.Restore(order.ClientID)
	if err := book.Delete(c.Request.Context(), order.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"id": order.ID}, sink)
}
