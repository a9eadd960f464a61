package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/Sliceofbanana/job-tracker-sub001/internal/access"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/config"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/email"
	passwordHandler "github.com/Sliceofbanana/job-tracker-sub001/internal/handler/password"
	sanitizeHandler "github.com/Sliceofbanana/job-tracker-sub001/internal/handler/sanitize"
	sessionHandler "github.com/Sliceofbanana/job-tracker-sub001/internal/handler/session"
	teamHandler "github.com/Sliceofbanana/job-tracker-sub001/internal/handler/team"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/identity"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/middleware"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/password"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/ratelimit"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/repository/postgres"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/router"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/session"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/store"
	"github.com/Sliceofbanana/job-tracker-sub001/internal/verify"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/logger"
	"github.com/Sliceofbanana/job-tracker-sub001/pkg/metrics"
)

func main() {
	log := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	m := metrics.NewMetrics("jobtracker", "security")

	// Attempt and session state live in Redis when configured, otherwise
	// in process memory.
	var st store.Store
	if cfg.Redis.Enabled {
		redisStore, err := store.NewRedisStore(store.RedisConfig{
			URL:          cfg.Redis.URL,
			KeyPrefix:    cfg.Redis.KeyPrefix,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		st = redisStore
	} else {
		st = store.NewMemoryStore()
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	directory := postgres.NewTeamDirectory(db)
	legacy := postgres.NewLegacyAdminStore(db)

	alerts := email.NewAlertSender(cfg.Email, log)

	passwordLimiter := ratelimit.NewLimiter(st, ratelimit.PasswordProfile(), log).
		WithMetrics(m).
		WithLockoutHook(func(ctx context.Context, identifier string) {
			// Identifiers for anonymous checks are client IPs; only
			// account holders get a notice.
			if !strings.Contains(identifier, "@") {
				return
			}
			if err := alerts.SendSecurityAlert(ctx, identifier,
				"Too many password attempts",
				"Password checking for your account is paused for 15 minutes after repeated failed attempts."); err != nil {
				log.Error(err, "failed to send lockout alert", "identifier", identifier)
			}
		})
	adminLimiter := ratelimit.NewLimiter(st, ratelimit.AdminActionProfile(), log).WithMetrics(m)
	remote := ratelimit.NewRemoteClient(cfg.Endpoints.RateLimit, log, m)

	guard := session.NewGuard(st, session.Config{
		Timeout:          cfg.Session.Timeout(),
		RefreshThreshold: cfg.Session.RefreshThreshold(),
	}, log, m, alerts)

	verifier := verify.NewHTTPVerifier(cfg.Endpoints.AdminVerification, log)
	resolver := access.NewResolver(directory, legacy, verifier, log, m)
	accessSvc := access.NewService(directory, resolver, adminLimiter, log)

	provider := identity.NewJWTProvider(cfg.Identity.JWTSecret)
	authMiddleware := middleware.NewAuthMiddleware(provider, guard, resolver)

	policy := password.NewPolicy()

	passwordH := passwordHandler.NewHandler(policy, cfg.Password, passwordLimiter, m)
	sanitizeH := sanitizeHandler.NewHandler(remote)
	sessionH := sessionHandler.NewHandler(guard)
	teamH := teamHandler.NewHandler(accessSvc)

	r := router.NewRouter(
		authMiddleware,
		passwordH,
		sanitizeH,
		sessionH,
		teamH,
		router.Config{
			RateLimit: rate.Limit(cfg.Server.RequestsPerSec),
			RateBurst: cfg.Server.Burst,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info(fmt.Sprintf("listening on :%d", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
