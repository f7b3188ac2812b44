package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/middleware"
	"github.com/kendall-kelly/garment-crm/views"
)

// GetListView handles GET /api/v1/orders/:id/views/list?product=
func GetListView(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, views.BuildList(order.Tasks, order.Products, c.Query("product"), today()), nil)
}

// GetBoardView handles GET /api/v1/orders/:id/views/board?product=
func GetBoardView(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, views.BuildBoard(order.Tasks, order.Products, c.Query("product"), today(), nil), nil)
}

// GetGanttView handles GET /api/v1/orders/:id/views/gantt?product=
// The chart is editable only for tokens allowed to write orders.
func GetGanttView(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	editable := middleware.HasScope(c, middleware.ScopeWriteOrders)
	respondData(c, http.StatusOK, views.BuildGantt(order.Tasks, order.Products, c.Query("product"), today(), editable), nil)
}

// GetTNAView handles GET /api/v1/orders/:id/views/tna?product=
func GetTNAView(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, views.BuildTNA(order.Tasks, order.Products, c.Query("product"), today()), nil)
}

// GetDashboard handles GET /api/v1/orders/:id/views/dashboard?product=
func GetDashboard(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}
	respondData(c, http.StatusOK, views.BuildDashboard(order.Tasks, order.Products, c.Query("product"), today()), nil)
}
