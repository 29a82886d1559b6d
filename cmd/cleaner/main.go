// Cleaner removes expired sessions on a schedule. Set DATABASE_URL and
// JWT_ACCESS_SECRET; CLEANUP_INTERVAL controls the sweep cadence and
// METRICS_ADDR optionally exposes Prometheus metrics.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	auditpkg "trainerhub/backend/internal/audit"
	auditrepo "trainerhub/backend/internal/audit/repository"
	"trainerhub/backend/internal/blacklist"
	"trainerhub/backend/internal/config"
	"trainerhub/backend/internal/db"
	"trainerhub/backend/internal/security"
	sessionrepo "trainerhub/backend/internal/session/repository"
	"trainerhub/backend/internal/token/service"
	userrepo "trainerhub/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("cleaner: DATABASE_URL is required")
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("cleaner: database connect")
	}
	defer database.Close()

	var blacklistStore blacklist.Store
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		blacklistStore = blacklist.NewRedisStore(client)
	} else {
		blacklistStore = blacklist.NewMemoryStore()
	}

	auditLogger := auditpkg.NewLogger(auditrepo.NewPostgresRepository(database), nil)
	tokens := security.NewTokenProvider([]byte(cfg.JWTAccessSecret), cfg.AccessTTL())
	tokenService := service.NewTokenService(
		userrepo.NewPostgresRepository(database),
		sessionrepo.NewPostgresRepository(database),
		blacklistStore,
		auditLogger,
		tokens,
		cfg.RefreshTTL(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("cleaner: shutting down...")
		cancel()
	}()

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("cleaner: metrics listener")
			}
		}()
	}

	log.Info().Dur("interval", cfg.SweepInterval()).Msg("cleaner: starting expired-session sweep")
	service.NewCleaner(tokenService, cfg.SweepInterval()).Run(ctx)
	log.Info().Msg("cleaner: stopped")
}
