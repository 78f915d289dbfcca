package handlers

import (
	"context"
	"log"
	"net/http"
	"slices"
	"time"

	"go-jobboard/internal/pubsub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// SessionWatcher streams session events for one user.
type SessionWatcher interface {
	OnSessionChanged(ctx context.Context, userID string) (*pubsub.Subscription, error)
}

// LiveHandler upgrades requests to websockets and forwards published events.
type LiveHandler struct {
	sessions SessionWatcher
	broker   pubsub.Broker
	upgrader websocket.Upgrader
}

// NewLiveHandler creates a LiveHandler. An empty or "*" origin list accepts any origin.
func NewLiveHandler(sessions SessionWatcher, broker pubsub.Broker, allowedOrigins []string) *LiveHandler {
	anyOrigin := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &LiveHandler{
		sessions: sessions,
		broker:   broker,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// SessionEvents godoc
// @Summary      Live session events
// @Description  Websocket stream of the caller's session events, such as a forced sign-out after a ban.
// @Tags         live
// @Param        access_token query string false "Bearer token for clients that cannot set headers"
// @Success      101
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /ws/session [get]
// @Security     BearerAuth
func (h *LiveHandler) SessionEvents(c *gin.Context) {
	actor := session(c)
	sub, err := h.sessions.OnSessionChanged(c.Request.Context(), actor.UserID)
	if err != nil {
		respondError(c, err, "subscribe to session events")
		return
	}
	h.stream(c, sub)
}

// JobEvents godoc
// @Summary      Live job catalog changes
// @Description  Websocket stream of job created, updated, engagement and freeze events.
// @Tags         live
// @Success      101
// @Router       /ws/jobs [get]
func (h *LiveHandler) JobEvents(c *gin.Context) {
	sub, err := h.broker.Subscribe(c.Request.Context(), pubsub.TopicJobs)
	if err != nil {
		log.Printf("Live handler: subscribe to jobs failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Live updates are unavailable"})
		return
	}
	h.stream(c, sub)
}

// stream owns sub and closes it when the client goes away.
func (h *LiveHandler) stream(c *gin.Context, sub *pubsub.Subscription) {
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Live handler: upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The read loop only handles control frames and notices the client closing.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-closed:
			return
		case msg, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg.Payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
