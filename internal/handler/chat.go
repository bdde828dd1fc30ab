package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rentassist/internal/model"
	"rentassist/internal/service"
	"rentassist/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChatHandler handles conversational turns
type ChatHandler struct {
	assistant *service.Assistant
	logger    *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(assistant *service.Assistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		logger:    logger,
	}
}

// turnFromRequest validates req and builds the turn. A missing conversation
// id is generated; a missing user id falls back to the conversation id.
func (h *ChatHandler) turnFromRequest(req *model.ChatRequest) (service.Turn, error) {
	if strings.TrimSpace(req.Message) == "" && len(req.Criteria) == 0 && strings.TrimSpace(req.CriteriaRaw) == "" {
		return service.Turn{}, errors.New("message or criteria is required")
	}
	if req.ConversationID == "" {
		req.ConversationID = uuid.NewString()
	}
	userID := req.UserID
	if strings.TrimSpace(userID) == "" {
		userID = req.ConversationID
	}

	criteria := req.Criteria
	if criteria == nil && req.CriteriaRaw != "" {
		parsed, err := utils.ParseCriteriaJSON(req.CriteriaRaw)
		if err != nil {
			h.logger.Warn("ignoring unparsable criteria",
				zap.String("conversation_id", req.ConversationID),
				zap.Error(err))
		} else {
			criteria = parsed
		}
	}
	return service.Turn{UserID: userID, Text: req.Message, Criteria: criteria}, nil
}

func toResponse(conversationID string, res *service.TurnResult) model.ChatResponse {
	props := res.Properties
	if props == nil {
		props = []model.ListingResult{}
	}
	return model.ChatResponse{
		ConversationID: conversationID,
		Intent:         res.Intent,
		Reply:          res.Reply,
		Properties:     props,
		Filters:        res.Filters,
		Took:           res.Took.Milliseconds(),
	}
}

func turnStatus(err error) int {
	if errors.Is(err, service.ErrMissingUser) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	turn, err := h.turnFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	res, err := h.assistant.HandleTurn(c.Request.Context(), turn)
	if err != nil {
		c.JSON(turnStatus(err), gin.H{"error": "Chat failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, toResponse(req.ConversationID, res))
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	turn, err := h.turnFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	sendSSE(c, "start", map[string]any{"conversation_id": req.ConversationID})
	flusher.Flush()

	res, err := h.assistant.HandleTurn(c.Request.Context(), turn)
	if err != nil {
		sendSSE(c, "error", map[string]any{"error": err.Error()})
		flusher.Flush()
		return
	}

	sendSSE(c, "intent", res.Intent)
	for _, p := range res.Properties {
		sendSSE(c, "property", p)
	}
	sendSSE(c, "reply", toResponse(req.ConversationID, res))
	flusher.Flush()

	sendSSE(c, "done", nil)
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data == nil {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
		return
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
