package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/middleware"
)

// RegisterRoutes mounts the CRM endpoints on an authenticated group.
// Reads need read:orders and every mutation needs write:orders.
func RegisterRoutes(rg *gin.RouterGroup) {
	read := middleware.RequireScope(middleware.ScopeReadOrders)
	write := middleware.RequireScope(middleware.ScopeWriteOrders)

	rg.GET("/clients", read, ListClients)
	rg.POST("/clients", write, CreateClient)
	rg.GET("/clients/:clientId/orders", read, ListClientOrders)
	rg.GET("/factories", read, ListFactories)
	rg.POST("/factories", write, CreateFactory)

	orders := rg.Group("/orders")
	{
		orders.GET("", read, ListOrders)
		orders.POST("", write, CreateOrder)
		orders.GET("/:id", read, GetOrder)
		orders.PATCH("/:id", write, UpdateOrder)
		orders.DELETE("/:id", write, DeleteOrder)

		orders.GET("/:id/views/list", read, GetListView)
		orders.GET("/:id/views/board", read, GetBoardView)
		orders.GET("/:id/views/gantt", read, GetGanttView)
		orders.GET("/:id/views/tna", read, GetTNAView)
		orders.GET("/:id/views/dashboard", read, GetDashboard)

		orders.POST("/:id/tasks", write, CreateTask)
		orders.PUT("/:id/tasks", write, BulkEditTasks)
		orders.PATCH("/:id/tasks/:taskId", write, UpdateTask)
		orders.DELETE("/:id/tasks/:taskId", write, DeleteTask)
		orders.POST("/:id/tasks/:taskId/move", write, MoveTask)
		orders.POST("/:id/tasks/:taskId/column", write, DropTask)
		orders.POST("/:id/tasks/:taskId/drag", write, DragTask)

		orders.POST("/:id/documents", write, UploadDocument)
		orders.GET("/:id/documents/url", read, GetDocumentURL)
		orders.DELETE("/:id/documents", write, DeleteDocument)

		orders.POST("/:id/summary", read, SummarizeOrder)
	}
}
