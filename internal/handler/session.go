package handler

import (
	"net/http"

	"rentassist/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler exposes a user's conversational state
type SessionHandler struct {
	assistant *service.Assistant
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(assistant *service.Assistant) *SessionHandler {
	return &SessionHandler{
		assistant: assistant,
	}
}

// Get handles GET /api/v1/sessions/:user
func (h *SessionHandler) Get(c *gin.Context) {
	summary, err := h.assistant.Session(c.Request.Context(), c.Param("user"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get session: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ResetFilters handles DELETE /api/v1/sessions/:user/filters
func (h *SessionHandler) ResetFilters(c *gin.Context) {
	if err := h.assistant.ResetFilters(c.Request.Context(), c.Param("user")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset filters: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Filters cleared"})
}
