package api

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hackjury/jury-engine/internal/clock"
	"github.com/hackjury/jury-engine/internal/config"
	"github.com/hackjury/jury-engine/internal/hub"
	"github.com/hackjury/jury-engine/internal/selector"
	"github.com/hackjury/jury-engine/internal/store"
	"github.com/hackjury/jury-engine/internal/vote"
)

// Handler bundles the core components (V, S, C, H, P) behind the HTTP
// surface spec.md §6 lists. Grounded on the teacher's APIHandler: one
// struct holding every collaborator the router's closures need, built once
// in SetupRouter.
type Handler struct {
	store       *store.Store
	sel         *selector.Selector
	coordinator *vote.Coordinator
	clock       *clock.Clock
	hub         *hub.Hub
	cfg         config.Config
}

// SetupRouter wires the judge, admin, and project route groups, following
// the teacher's SetupRouter: a CORS middleware first, then grouped routes,
// auth applied per-group rather than globally.
func SetupRouter(s *store.Store, sel *selector.Selector, coordinator *vote.Coordinator, c *clock.Clock, h *hub.Hub, cfg config.Config) *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	handler := &Handler{store: s, sel: sel, coordinator: coordinator, clock: c, hub: h, cfg: cfg}

	rl := NewRateLimiter(120, 20)

	judgeGroup := r.Group("/api/judge")
	judgeGroup.Use(rl.Middleware())
	{
		judgeGroup.POST("/login", handler.judgeLogin)

		authed := judgeGroup.Group("")
		authed.Use(JudgeAuth(s))
		{
			authed.GET("", handler.getJudge)
			authed.POST("/auth", handler.authJudge)
			authed.POST("/vote", handler.judgeVote)
			authed.GET("/welcome", handler.checkReadWelcome)
			authed.POST("/welcome", handler.readWelcome)
		}
	}

	adminGroup := r.Group("/api/admin")
	adminGroup.Use(rl.Middleware())
	{
		adminGroup.POST("/login", handler.adminLogin)

		authed := adminGroup.Group("")
		authed.Use(AdminAuth(cfg.AdminPassword))
		{
			authed.GET("/sync", handler.adminSync)
			authed.GET("/clock", handler.getClock)
			authed.POST("/clock/pause", handler.pauseClock)
			authed.POST("/clock/unpause", handler.unpauseClock)
			authed.POST("/clock/reset", handler.resetClock)
			authed.GET("/stats", handler.adminStats)
			authed.GET("/judges", handler.listJudges)
			authed.POST("/judges", handler.createJudge)
			authed.DELETE("/judges/:id", handler.deleteJudge)
			authed.GET("/projects", handler.listProjects)
			authed.POST("/projects", handler.createProject)
			authed.DELETE("/projects/:id", handler.deleteProject)
		}
	}

	// judge_stats sits outside both the /api/judge and /api/admin groups in
	// the original handler layout (spec.md §6 lists it alongside the admin
	// and project aggregates) but is admin-password-guarded, not
	// judge-token-guarded, since it exposes aggregate figures across every
	// judge rather than one judge's own state.
	r.GET("/api/judge/stats", rl.Middleware(), AdminAuth(cfg.AdminPassword), handler.judgeStats)

	projectGroup := r.Group("/api/project")
	projectGroup.Use(rl.Middleware())
	{
		projectGroup.GET("/stats", handler.projectStats)
	}

	return r
}

// corsMiddleware mirrors the teacher's ALLOWED_ORIGINS handling, generalized
// to this engine's deployment.
func corsMiddleware() gin.HandlerFunc {
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		switch {
		case allowedOrigins == "" || allowedOrigins == "*":
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		default:
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
