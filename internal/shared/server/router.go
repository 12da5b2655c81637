package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authhandler "docvault-backend/internal/auth"
	"docvault-backend/internal/documents"
	"docvault-backend/internal/eventlog"
	"docvault-backend/internal/realtime"
	"docvault-backend/internal/shared/config"
	"docvault-backend/internal/shared/metrics"
	"docvault-backend/internal/shared/server/middleware"
	"docvault-backend/internal/shared/server/respond"
	"docvault-backend/internal/users"
)

// RouterDeps carries the handlers the router wires in.
type RouterDeps struct {
	Config          config.Config
	AuthHandler     *authhandler.Handler
	UsersHandler    *users.Handler
	DocumentHandler *documents.Handler
	EventLogHandler *eventlog.Handler
	WSHandler       *realtime.WSHandler
	SSEHandler      *realtime.SSEHandler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	deps.AuthHandler.RegisterRoutes(api)
	deps.UsersHandler.RegisterRoutes(api)
	deps.DocumentHandler.RegisterRoutes(api)
	deps.EventLogHandler.RegisterRoutes(api)

	api.GET("/events/ws", deps.WSHandler.Serve)
	api.GET("/events/stream", deps.SSEHandler.Serve)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
