package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dentalcare-backend/internal/cache"
	"dentalcare-backend/internal/config"
	"dentalcare-backend/internal/handlers"
	"dentalcare-backend/internal/middleware"
	"dentalcare-backend/internal/routes"
	"dentalcare-backend/internal/storage"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// loadConfig reads and validates configuration, then sets up logging.
func loadConfig() (*config.Config, func() time.Time, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	utils.InitLogger(cfg.Env)

	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}
	now := func() time.Time { return time.Now().In(loc) }
	return cfg, now, nil
}

// openStore returns the configured Store and a function releasing it.
func openStore(cfg *config.Config, now func() time.Time) (storage.Store, func(), error) {
	if !cfg.UsesDatabase() {
		return storage.NewMemoryStore(now), func() {}, nil
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("close database")
		}
	}
	if err := storage.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return storage.NewGormStore(db, now), closeDB, nil
}

func openCache(ctx context.Context, cfg *config.Config, now func() time.Time) (cache.Store, error) {
	switch cfg.CacheDriver {
	case config.CacheMemory:
		return cache.NewMemory(cfg.CacheTTL, now), nil
	case config.CacheRedis:
		return cache.NewRedis(ctx, cfg.RedisURL, cfg.CacheTTL)
	default:
		return cache.Noop{}, nil
	}
}

func openNotifier(ctx context.Context, cfg *config.Config) utils.Notifier {
	if cfg.FCMCredentialsFile == "" {
		return utils.NoopNotifier{}
	}
	n, err := utils.NewFCMNotifier(ctx, cfg.FCMCredentialsFile)
	if err != nil {
		log.Warn().Err(err).Msg("firebase messaging unavailable, push notifications disabled")
		return utils.NoopNotifier{}
	}
	log.Info().Msg("firebase messaging initialized")
	return n
}

func openGateway(cfg *config.Config) utils.Gateway {
	if cfg.MidtransServerKey == "" {
		return utils.DisabledGateway{}
	}
	return utils.NewSnapGateway(cfg.MidtransServerKey, cfg.MidtransEnv)
}

func runServer() error {
	cfg, now, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	store, closeStore, err := openStore(cfg, now)
	if err != nil {
		return err
	}
	defer closeStore()

	doctor, created, err := storage.SeedDefaults(ctx, store)
	if err != nil {
		return fmt.Errorf("seed default doctor: %w", err)
	}
	if created {
		log.Info().Str("username", storage.DefaultDoctorUsername).Msg("default doctor account created")
	}
	if cfg.SeedDemo && !cfg.UsesDatabase() {
		if err := storage.SeedDemo(ctx, store, doctor.ID, now()); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	// 2. Response cache
	respCache, err := openCache(ctx, cfg, now)
	if err != nil {
		return err
	}
	defer respCache.Close()

	// 3. Handlers and routes
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	h := handlers.New(handlers.Options{
		Store:    store,
		Cache:    respCache,
		Notifier: openNotifier(ctx, cfg),
		Gateway:  openGateway(cfg),
		Tokens:   tokens,
		Now:      now,
		Logger:   log.Logger,
	})

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = middleware.NewIPRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	r := routes.NewRouter(h, routes.Options{
		AuthRequired: cfg.AuthRequired,
		Tokens:       tokens,
		RateLimiter:  limiter,
		CORSOrigins:  cfg.Origins(),
		Logger:       log.Logger,
	})

	// 4. Serve until signalled
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("db_driver", cfg.DBDriver).
			Str("cache_driver", cfg.CacheDriver).
			Bool("auth_required", cfg.AuthRequired).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

func runMigrate() error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.UsesDatabase() {
		return fmt.Errorf("migrate needs DB_DRIVER mysql or postgres, got %q", cfg.DBDriver)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := storage.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("schema up to date")
	return nil
}

func runSeed(demo bool) error {
	cfg, now, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()

	store, closeStore, err := openStore(cfg, now)
	if err != nil {
		return err
	}
	defer closeStore()

	doctor, created, err := storage.SeedDefaults(ctx, store)
	if err != nil {
		return err
	}
	log.Info().Bool("created", created).Uint64("doctor_id", doctor.ID).Msg("default doctor account ready")

	if demo {
		if err := storage.SeedDemo(ctx, store, doctor.ID, now()); err != nil {
			return err
		}
		log.Info().Msg("demo data loaded")
	}
	return nil
}
