package handler

import (
	"net/http"
	"strconv"

	"rentassist/internal/model"
	"rentassist/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	defaultSimilarLimit = 5
	maxSimilarLimit     = 50
)

// EmbeddingHandler handles embedding-related HTTP requests
type EmbeddingHandler struct {
	embeddings *service.EmbeddingService
}

// NewEmbeddingHandler creates a new embedding handler. embeddings may be nil
// when no vector store is configured.
func NewEmbeddingHandler(embeddings *service.EmbeddingService) *EmbeddingHandler {
	return &EmbeddingHandler{
		embeddings: embeddings,
	}
}

func (h *EmbeddingHandler) available(c *gin.Context) bool {
	if h.embeddings == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Embeddings require STORAGE_BACKEND=postgres"})
		return false
	}
	return true
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	if !h.available(c) {
		return
	}
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if len(req.Embeddings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No embeddings provided"})
		return
	}

	success, errors := h.embeddings.UpdateEmbeddings(c.Request.Context(), req.Embeddings)

	response := model.EmbeddingBatchResponse{
		Success: success,
		Failed:  len(req.Embeddings) - success,
		Errors:  errors,
	}

	if len(errors) > 0 {
		c.JSON(http.StatusPartialContent, response)
	} else {
		c.JSON(http.StatusOK, response)
	}
}

// Similar handles GET /api/v1/listings/:id/similar
func (h *EmbeddingHandler) Similar(c *gin.Context) {
	if !h.available(c) {
		return
	}
	limit := defaultSimilarLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxSimilarLimit)
	}

	listings, err := h.embeddings.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find similar listings: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing_id": c.Param("id"), "similar": listings})
}
