package server

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"fms-backend/internal/assessment"
	"fms-backend/internal/services/health"
	"fms-backend/internal/shared/config"
	"fms-backend/internal/shared/metrics"
	"fms-backend/internal/shared/server/middleware"
	"fms-backend/internal/shared/server/respond"
	"fms-backend/internal/workout"
)

// RouterDeps carries the wired handlers the router mounts.
type RouterDeps struct {
	Config          config.Config
	DB              *sql.DB
	DraftHandler    *assessment.Handler
	WorkflowHandler *workout.Handler
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
		middleware.Auth(deps.Config.Env),
	)

	healthSvc := health.NewService(deps.DB)
	throttle := middleware.RateLimit(middleware.RateLimitConfig{
		Rules:        middleware.DefaultSagaRules(),
		DefaultGroup: middleware.GroupSaga,
	})

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := healthSvc.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	api.GET("/metrics", metrics.Handler())
	registerMeRoutes(api)
	if deps.DraftHandler != nil {
		deps.DraftHandler.RegisterRoutes(api)
	}
	if deps.WorkflowHandler != nil {
		deps.WorkflowHandler.RegisterRoutes(api, throttle)
	}

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
