package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/garment-crm/models"
	"github.com/kendall-kelly/garment-crm/services"
)

// CreateClientRequest represents the request body for registering a client
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// CreateFactoryRequest represents the request body for registering a factory
type CreateFactoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

// ListClients handles GET /api/v1/clients
func ListClients(c *gin.Context) {
	sink := &requestSink{}
	dir := newDirectory(sink)
	if err := dir.Load(c.Request.Context()); err != nil && len(dir.Clients()) == 0 {
		respondError(c, http.StatusServiceUnavailable, "FETCH_FAILED", "Failed to load clients")
		return
	}
	respondData(c, http.StatusOK, dir.Clients(), sink)
}

// ListFactories handles GET /api/v1/factories
func ListFactories(c *gin.Context) {
	sink := &requestSink{}
	dir := newDirectory(sink)
	if err := dir.Load(c.Request.Context()); err != nil && len(dir.Factories()) == 0 {
		respondError(c, http.StatusServiceUnavailable, "FETCH_FAILED", "Failed to load factories")
		return
	}
	respondData(c, http.StatusOK, dir.Factories(), sink)
}

// CreateClient handles POST /api/v1/clients
func CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client := models.Client{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(req.Name),
		Company: req.Company,
		Email:   req.Email,
	}
	if err := services.GetClientService().Create(c.Request.Context(), &client); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, client, nil)
}

// CreateFactory handles POST /api/v1/factories
func CreateFactory(c *gin.Context) {
	var req CreateFactoryRequest
	if !bindJSON(c, &req) {
		return
	}
	factory := models.Factory{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Location: req.Location,
	}
	if err := services.GetFactoryService().Create(c.Request.Context(), &factory); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, factory, nil)
}
