package core

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps are the collaborators wired into the HTTP surface.
type RouterDeps struct {
	Sessions  sessions.Store
	Nas       *NasHandler
	Dashboard *DashboardHandler
	Gatherer  prometheus.Gatherer // nil disables /metrics
	Health    map[string]HealthCheck
	StartedAt time.Time
}

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, deps RouterDeps) *gin.Engine {
	r := gin.Default()
	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		st := CollectSystemStatus(c.Request.Context(), deps.Health, deps.StartedAt)
		if !st.Healthy() {
			c.JSON(http.StatusServiceUnavailable, st)
			return
		}
		c.JSON(http.StatusOK, st)
	})
	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// nas.nintendowifi.net
	r.POST("/ac", deps.Nas.Handle)

	dashboard := r.Group("/dashboard")
	dashboard.Use(SessionMiddleware(cfg, deps.Sessions))
	dashboard.Use(CSRFMiddleware(cfg))
	deps.Dashboard.Register(dashboard)

	return r
}
