package handler

import (
	"net/http"

	"rentassist/internal/service"

	"github.com/gin-gonic/gin"
)

// ListingHandler serves catalog lookups
type ListingHandler struct {
	assistant *service.Assistant
}

// NewListingHandler creates a new listing handler
func NewListingHandler(assistant *service.Assistant) *ListingHandler {
	return &ListingHandler{
		assistant: assistant,
	}
}

// GetListing handles GET /api/v1/listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	listing, ok := h.assistant.Listing(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	c.JSON(http.StatusOK, listing)
}
