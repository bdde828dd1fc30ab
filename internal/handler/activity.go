package handler

import (
	"net/http"
	"strconv"

	"rentassist/internal/model"
	"rentassist/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// ActivityHandler serves the recent activity feed
type ActivityHandler struct {
	log repository.ActivityLog
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(log repository.ActivityLog) *ActivityHandler {
	return &ActivityHandler{
		log: log,
	}
}

// Recent handles GET /api/v1/activities. With ?listing=<key> it returns
// only the entries about that listing, including its message log.
func (h *ActivityHandler) Recent(c *gin.Context) {
	limit := defaultActivityLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = min(n, maxActivityLimit)
	}

	var (
		entries []model.Activity
		err     error
	)
	if key := c.Query("listing"); key != "" {
		entries, err = h.log.ForListing(c.Request.Context(), key, limit)
	} else {
		entries, err = h.log.Recent(c.Request.Context(), limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load activity: " + err.Error()})
		return
	}
	if entries == nil {
		entries = []model.Activity{}
	}
	c.JSON(http.StatusOK, gin.H{"activities": entries, "count": len(entries)})
}
