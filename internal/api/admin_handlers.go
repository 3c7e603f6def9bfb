package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type adminLoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// adminLogin checks the supplied password against the single shared admin
// secret and, on success, echoes it back as a cookie the browser will carry
// on subsequent admin requests. Grounded on original_source/src/api/admin.rs's
// login handler.
func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) != 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing password field"})
		return
	}

	c.SetCookie("admin-pass", req.Password, 0, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// getClock returns C's snapshot, per spec.md §4.4's snapshot() operation.
func (h *Handler) getClock(c *gin.Context) {
	c.JSON(http.StatusOK, h.clock.Snapshot())
}

// pauseClock, unpauseClock, and resetClock each mutate C and then emit a
// "clock" event on H, per spec.md §4.4: "Clock mutations are followed by a
// clock event on H."
func (h *Handler) pauseClock(c *gin.Context) {
	h.clock.Pause()
	h.hub.Broadcast("clock")
	c.String(http.StatusOK, "paused")
}

func (h *Handler) unpauseClock(c *gin.Context) {
	h.clock.Resume()
	h.hub.Broadcast("clock")
	c.String(http.StatusOK, "unpaused")
}

func (h *Handler) resetClock(c *gin.Context) {
	h.clock.Reset()
	h.hub.Broadcast("clock")
	c.String(http.StatusOK, "reset")
}

// adminSync serves GET /api/admin/sync as a server-sent event stream of
// `data: stats` and `data: clock` lines, per spec.md §6. Grounded on the
// teacher's websocket.Subscribe (join hub, stream until the client goes
// away, leave hub on exit) but over SSE rather than a full-duplex socket,
// since H only ever pushes — admin clients never talk back over this
// connection.
func (h *Handler) adminSync(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	sink := h.hub.Join()
	defer h.hub.Leave(sink)

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-sink.Events():
			fmt.Fprintf(c.Writer, "data: %s\n\n", event)
			flusher.Flush()
		case <-keepalive.C:
			fmt.Fprint(c.Writer, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

// listJudges and listProjects back the admin console's raw data tables.
func (h *Handler) listJudges(c *gin.Context) {
	judges, err := h.store.FindAllJudges(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list judges"})
		return
	}
	c.JSON(http.StatusOK, judges)
}

func (h *Handler) listProjects(c *gin.Context) {
	projects, err := h.store.FindAllProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list projects"})
		return
	}
	c.JSON(http.StatusOK, projects)
}
