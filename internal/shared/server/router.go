package server

import (
	"github.com/gin-gonic/gin"

	"pdfchat-backend/internal/shared/config"
	"pdfchat-backend/internal/shared/metrics"
	"pdfchat-backend/internal/shared/server/middleware"
)

// RouteRegistrar is implemented by feature handlers that mount their own routes.
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// RouterDeps bundles the handlers mounted on the engine.
type RouterDeps struct {
	Config   config.Config
	Handlers []RouteRegistrar
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Identity(deps.Config.DefaultUserID),
	)

	for _, h := range deps.Handlers {
		if h != nil {
			h.RegisterRoutes(r)
		}
	}
	r.GET("/metrics", metrics.Handler())

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
