package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"batepapo-service/internal/models"
	"batepapo-service/internal/repositories"
	"batepapo-service/internal/services"
	"batepapo-service/internal/ws"
)

// ParticipantHandler manages presence endpoints: join, listing and the
// heartbeat.
type ParticipantHandler struct {
	presence *services.PresenceService
	hub      *ws.Hub
}

// NewParticipantHandler builds a ParticipantHandler.
func NewParticipantHandler(presence *services.PresenceService, hub *ws.Hub) *ParticipantHandler {
	return &ParticipantHandler{presence: presence, hub: hub}
}

// Join registers a participant and announces it to the room.
func (h *ParticipantHandler) Join(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name is required"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "name is required"})
		return
	}

	participant, notice, err := h.presence.Join(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, repositories.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "name already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register participant"})
		return
	}

	if h.hub != nil {
		h.hub.BroadcastMessage(notice)
	}
	c.JSON(http.StatusCreated, participant)
}

// List returns everyone currently present.
func (h *ParticipantHandler) List(c *gin.Context) {
	participants, err := h.presence.ListParticipants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participants"})
		return
	}
	if participants == nil {
		participants = []models.Participant{}
	}
	c.JSON(http.StatusOK, participants)
}

// Status refreshes the caller's presence record.
func (h *ParticipantHandler) Status(c *gin.Context) {
	user := userFromContext(c)
	if user == "" {
		c.Status(http.StatusNotFound)
		return
	}

	if err := h.presence.Heartbeat(c.Request.Context(), user); err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh status"})
		return
	}
	c.Status(http.StatusOK)
}
