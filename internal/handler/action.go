package handler

import (
	"net/http"
	"sort"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/service"

	"github.com/gin-gonic/gin"
)

// Actions accepted without free text.
var validActions = map[model.IntentKind]bool{
	model.IntentShowRentals:    true,
	model.IntentReset:          true,
	model.IntentGetContact:     true,
	model.IntentSort:           true,
	model.IntentCompare:        true,
	model.IntentDetails:        true,
	model.IntentAddFavorite:    true,
	model.IntentRemoveFavorite: true,
	model.IntentListFavorites:  true,
	model.IntentSendMessage:    true,
}

// ActionHandler runs page actions for a user
type ActionHandler struct {
	assistant *service.Assistant
}

// NewActionHandler creates a new action handler
func NewActionHandler(assistant *service.Assistant) *ActionHandler {
	return &ActionHandler{
		assistant: assistant,
	}
}

// Execute handles POST /api/v1/sessions/:user/actions
func (h *ActionHandler) Execute(c *gin.Context) {
	var req model.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	kind := model.IntentKind(strings.ToLower(strings.TrimSpace(req.Action)))
	if !validActions[kind] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be one of: " + actionNames()})
		return
	}
	if req.Position < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Position must be 1 or greater"})
		return
	}

	intent := model.Intent{
		Kind:      kind,
		Position:  req.Position,
		ListingID: req.ListingID,
		Field:     req.Field,
		Order:     model.OrderAsc,
		Subject:   req.Subject,
		Body:      req.Body,
	}
	if strings.EqualFold(req.Order, model.OrderDesc) {
		intent.Order = model.OrderDesc
	}

	user := c.Param("user")
	res, err := h.assistant.Execute(c.Request.Context(), user, intent)
	if err != nil {
		c.JSON(turnStatus(err), gin.H{"error": "Action failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponse(user, res))
}

func actionNames() string {
	names := make([]string, 0, len(validActions))
	for k := range validActions {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
