package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/handler"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/middleware"
)

// Handler is anything that can attach its routes to a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Config struct {
	RateLimit rate.Limit
	RateBurst int
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	passwordH Handler
	sanitizeH Handler
	sessionH  Handler
	teamH     Handler
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	passwordH Handler,
	sanitizeH Handler,
	sessionH Handler,
	teamH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		passwordH: passwordH,
		sanitizeH: sanitizeH,
		sessionH:  sessionH,
		teamH:     teamH,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/health", handler.HealthCheck)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")

	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	// Public routes: callers check candidate passwords and sanitize
	// drafts before they ever hold a session.
	r.passwordH.RegisterRoutes(api)
	r.sanitizeH.RegisterRoutes(api)

	// Session routes need an authenticated principal but not a live
	// session, since they are how sessions come to exist.
	authed := api.Group("")
	authed.Use(r.auth.Authenticate())
	r.sessionH.RegisterRoutes(authed)

	// Team management requires the full chain: identity, a session
	// bound to the caller's device, and an admin verdict.
	protected := authed.Group("")
	protected.Use(
		r.auth.RequireSession(),
		r.auth.RequireAdmin(),
	)
	r.teamH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
