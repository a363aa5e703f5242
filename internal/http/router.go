package http

import (
	"log/slog"

	"github.com/geocoder89/classroom/internal/config"
	"github.com/geocoder89/classroom/internal/http/handlers"
	"github.com/geocoder89/classroom/internal/http/middlewares"
	"github.com/geocoder89/classroom/internal/http/views"
	"github.com/geocoder89/classroom/internal/observability"
	"github.com/geocoder89/classroom/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps carries everything the router wires into handlers. Prom and Gatherer
// may be nil; the router then serves no /metrics.
type Deps struct {
	Credentials *service.CredentialStore
	Assignments *service.AssignmentStore
	Sessions    *service.SessionManager
	Prom        *observability.Prom
	Gatherer    prometheus.Gatherer
	Checks      map[string]handlers.Check
}

func NewRouter(log *slog.Logger, cfg config.Config, deps Deps) *gin.Engine {
	if cfg.Env != "dev" && cfg.Env != "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("classroom"))
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	sessionMW := middlewares.NewSessionMiddleware(deps.Sessions, deps.Credentials, log)
	r.Use(sessionMW.LoadUser())

	// health
	h := handlers.NewHealthHandler(deps.Checks)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Wire up handlers
	pages := handlers.NewPages(deps.Assignments, log)
	homeHandler := handlers.NewHomeHandler(pages)
	authHandler := handlers.NewAuthHandler(deps.Credentials, deps.Sessions, pages, deps.Prom, log, cfg)
	assignmentsHandler := handlers.NewAssignmentsHandler(deps.Assignments, pages, deps.Prom, log)

	r.GET("/", homeHandler.Home)

	userGroup := r.Group("/user")
	{
		// login and register share one budget per client address
		limit := func(c *gin.Context) { c.Next() }
		if cfg.LoginRateLimit > 0 {
			limiter := middlewares.NewRateLimiter(cfg.LoginRateLimit, cfg.LoginRateWindow)
			limit = limiter.RateLimiterMiddleware(middlewares.KeyByIP)
		}

		userGroup.POST("/login", limit, authHandler.Login)
		userGroup.POST("/register", limit, authHandler.Register)
		userGroup.GET("/logout", authHandler.Logout)
	}

	// assignment routes require a session
	assignmentGroup := r.Group("/assignment")
	assignmentGroup.Use(middlewares.RequireAuth())
	{
		assignmentGroup.POST("/submit", assignmentsHandler.Submit)
		assignmentGroup.POST("/:id/delete", assignmentsHandler.Delete)
		assignmentGroup.GET("/:id/detail", assignmentsHandler.Detail)
		assignmentGroup.POST("/:id/grade", assignmentsHandler.Grade)
	}

	return r
}
