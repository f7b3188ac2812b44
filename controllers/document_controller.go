package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/garment-crm/models"
)

// UploadDocument handles POST /api/v1/orders/:id/documents (multipart: file, source)
func UploadDocument(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "NO_FILE", "No file was provided")
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}

	source := models.DocumentSource(c.PostForm("source"))
	doc, err := s.UploadDocument(c.Request.Context(), fileHeader, source)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, doc, sink)
}

// GetDocumentURL handles GET /api/v1/orders/:id/documents/url?path= - a signed download link
func GetDocumentURL(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Document path is required")
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	url, err := s.DocumentURL(c.Request.Context(), path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"url": url}, nil)
}

// DeleteDocument handles DELETE /api/v1/orders/:id/documents?path=
func DeleteDocument(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Document path is required")
		return
	}

	sink := &requestSink{}
	s, ok := openSession(c, sink)
	if !ok {
		return
	}
	if err := s.DeleteDocument(c.Request.Context(), path); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, selected(s).Documents, sink)
}
