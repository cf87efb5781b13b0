package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mr1hm/go-ambulance-dashboard/internal/dashboard"
)

const (
	sessionName  = "ambulance_dashboard"
	viewerKey    = "viewer_id"
	viewerHeader = "X-Viewer-ID"
)

// SessionMiddleware stores the viewer id in a signed cookie. The view state
// itself lives server-side in the dashboard registry.
func SessionMiddleware(secret string) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(sessionName, store)
}

// viewerID identifies the viewer by the X-Viewer-ID header when it carries a
// uuid, else by the session cookie, minting a new id for unknown viewers. The
// id is echoed in X-Viewer-ID so clients that cannot keep cookies can send it
// back.
func viewerID(c *gin.Context) string {
	if id := c.GetHeader(viewerHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			c.Header(viewerHeader, id)
			return id
		}
	}

	session := sessions.Default(c)
	if id, ok := session.Get(viewerKey).(string); ok && id != "" {
		c.Header(viewerHeader, id)
		return id
	}

	id := dashboard.NewSessionID()
	session.Set(viewerKey, id)
	if err := session.Save(); err != nil {
		slog.Warn("failed to save viewer session", "error", err)
	}
	c.Header(viewerHeader, id)
	return id
}
