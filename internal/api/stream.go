package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mr1hm/go-ambulance-dashboard/internal/fleet"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// streamFleet pushes every applied fleet snapshot as a Server-Sent Event,
// starting with the current one.
func (h *Handler) streamFleet(c *gin.Context) {
	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("fleet", h.svc.Fleet())
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case u, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("fleet", u)
			return true
		}
	})
}

func (h *Handler) fleetWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("ws upgrade error", "error", err)
		return
	}
	defer conn.Close()

	id, ch := h.broadcaster.Subscribe()
	defer h.broadcaster.Unsubscribe(id)

	slog.Debug("fleet websocket connected", "subscriber_id", id)

	// Clients never send anything; reading only detects disconnects.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeUpdate(conn, h.svc.Fleet()); err != nil {
		return
	}

	for {
		select {
		case <-gone:
			slog.Debug("fleet websocket disconnected", "subscriber_id", id)
			return
		case u, ok := <-ch:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := writeUpdate(conn, u); err != nil {
				slog.Debug("fleet websocket write failed", "subscriber_id", id, "error", err)
				return
			}
		}
	}
}

func writeUpdate(conn *websocket.Conn, u fleet.Update) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(u)
}
