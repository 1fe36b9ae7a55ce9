package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"batepapo-service/internal/models"
	"batepapo-service/internal/repositories"
	"batepapo-service/internal/services"
	"batepapo-service/internal/ws"
)

// MessageHandler manages the room log endpoints.
type MessageHandler struct {
	messages *services.MessageService
	hub      *ws.Hub
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages *services.MessageService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messages: messages, hub: hub}
}

type messageRequest struct {
	To   string `json:"to" binding:"required"`
	Text string `json:"text" binding:"required"`
	Type string `json:"type" binding:"required"`
}

func (r *messageRequest) normalize() bool {
	r.To = strings.TrimSpace(r.To)
	r.Text = strings.TrimSpace(r.Text)
	return r.To != "" && r.Text != "" && models.ValidKind(r.Type)
}

// Post appends a message authored by the caller.
func (h *MessageHandler) Post(c *gin.Context) {
	user := userFromContext(c)
	if user == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing sender identity"})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.normalize() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid message fields"})
		return
	}

	msg, err := h.messages.Post(c.Request.Context(), user, req.To, req.Text, req.Type)
	if err != nil {
		if errors.Is(err, services.ErrSenderNotPresent) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "sender is not logged in"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastMessage(msg)
	}
	c.JSON(http.StatusCreated, msg)
}

// List returns the messages visible to the caller. Without a limit the full
// visible log comes back oldest first; with limit=N only the N most recent,
// newest first.
func (h *MessageHandler) List(c *gin.Context) {
	user := userFromContext(c)

	var limit *int
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = &parsed
	}

	msgs, err := h.messages.ListVisible(c.Request.Context(), user, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

// Edit replaces the mutable fields of a message owned by the caller.
func (h *MessageHandler) Edit(c *gin.Context) {
	user := userFromContext(c)
	if user == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing sender identity"})
		return
	}

	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.normalize() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid message fields"})
		return
	}

	msg, err := h.messages.Edit(c.Request.Context(), c.Param("id"), user, req.To, req.Text, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the sender can edit a message"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to edit message"})
		}
		return
	}

	if h.hub != nil {
		h.hub.BroadcastEdit(msg)
	}
	c.JSON(http.StatusOK, msg)
}

// Delete removes a message owned by the caller.
func (h *MessageHandler) Delete(c *gin.Context) {
	user := userFromContext(c)
	id := c.Param("id")

	if err := h.messages.Delete(c.Request.Context(), id, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		case errors.Is(err, services.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the sender can delete a message"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete message"})
		}
		return
	}

	if h.hub != nil {
		h.hub.BroadcastDeletion(id)
	}
	c.Status(http.StatusOK)
}
