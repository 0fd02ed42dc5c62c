package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"intellidocs-backend/internal/documents"
	"intellidocs-backend/internal/services/health"
	"intellidocs-backend/internal/shared/auth"
	"intellidocs-backend/internal/shared/config"
	"intellidocs-backend/internal/shared/metrics"
	"intellidocs-backend/internal/shared/server/middleware"
	"intellidocs-backend/internal/shared/server/respond"
	"intellidocs-backend/internal/users"
)

// RouterDeps carries the constructed handlers and the services the router
// needs to guard routes.
type RouterDeps struct {
	Config           config.Config
	Tokens           *auth.Tokens
	Health           *health.Service
	UsersHandler     *users.Handler
	UsersService     *users.Service
	DocumentsHandler *documents.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Auth routes are open; document routes sit behind bearer authentication.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, deps.Health.Status())
	})
	api.GET("/metrics", metrics.Handler())

	deps.UsersHandler.RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.Auth(deps.Tokens, deps.UsersService))
	deps.DocumentsHandler.RegisterRoutes(authed)

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
