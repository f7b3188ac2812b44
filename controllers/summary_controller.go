package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/services"
	"github.com/kendall-kelly/garment-crm/session"
)

// SummarizeOrder handles POST /api/v1/orders/:id/summary.
// Summary failures are reported inline and never fail the request.
func SummarizeOrder(c *gin.Context) {
	order, ok := loadOrder(c)
	if !ok {
		return
	}

	sink := &requestSink{}
	dir := newDirectory(sink)
	if err := dir.Load(c.Request.Context()); err != nil {
		log.Printf("[SUMMARY] factory names unavailable: %v", err)
	}

	result := session.Summarize(c.Request.Context(), services.GetSummaryService(), sink, order, dir.FactoryName(order), today())
	respondData(c, http.StatusOK, result, sink)
}
