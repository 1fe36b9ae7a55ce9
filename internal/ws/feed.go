package ws

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"batepapo-service/internal/observability"
)

// PresenceChecker is the slice of the presence registry the feed needs.
type PresenceChecker interface {
	IsPresent(ctx context.Context, name string) (bool, error)
}

// FeedHandler handles the live message feed websocket.
type FeedHandler struct {
	hub      *Hub
	presence PresenceChecker
}

// NewFeedHandler constructs a FeedHandler.
func NewFeedHandler(hub *Hub, presence PresenceChecker) *FeedHandler {
	return &FeedHandler{hub: hub, presence: presence}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the viewer on the hub. The
// viewer must be a present participant at handshake time; later eviction
// does not tear the feed down.
func (h *FeedHandler) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("batepapo-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	viewer := strings.TrimSpace(c.GetHeader("User"))
	if viewer == "" {
		viewer = strings.TrimSpace(c.Query("user"))
	}
	if viewer == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "missing viewer identity"})
		return
	}

	present, err := h.presence.IsPresent(c.Request.Context(), viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify presence"})
		return
	}
	if !present {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "viewer is not logged in"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info := ConnInfo{
		ConnID:      newConnID(),
		Viewer:      viewer,
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   observability.RequestIDFromRequest(c.Request),
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(conn, info)
	observability.IncWSActive()
	observability.IncWSEvent("connected")

	go h.readLoop(conn)
}

// readLoop drains the connection until the peer goes away. The feed is
// write-only; inbound frames are discarded.
func (h *FeedHandler) readLoop(conn *websocket.Conn) {
	defer func() {
		h.hub.RemoveClient(conn)
		conn.Close()
		observability.DecWSActive()
		observability.IncWSEvent("disconnected")
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
