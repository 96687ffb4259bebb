package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus"

	"dreamlink/core"
)

func main() {
	cfg, err := core.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	ctx := context.Background()

	logger, logCloser, err := core.SetupLogging(cfg, "api.log")
	if err != nil {
		log.Fatalf("failed to setup logging: %v", err)
	}
	defer logCloser.Close()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg core.Config, logger *slog.Logger) error {
	startedAt := time.Now()
	health := make(map[string]core.HealthCheck)

	users, closeUsers, err := openUserRepository(ctx, cfg, logger, health)
	if err != nil {
		return err
	}
	defer closeUsers()

	players, closePlayers, err := openPlayerStore(cfg, logger, health)
	if err != nil {
		return err
	}
	defer closePlayers()

	if err := core.SeedPlayers(ctx, players, cfg.PlayerSeedPath, logger); err != nil {
		return fmt.Errorf("seed players: %w", err)
	}

	dlc, err := core.LoadDlcCatalog(cfg.DlcCatalogPath)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	var gatherer prometheus.Gatherer
	if cfg.MetricsEnabled {
		registry = core.NewMetricsRegistry()
		gatherer = registry
	}
	metrics := core.NewMetrics(registry)

	// Gorilla cookie store for dashboard sessions.
	store := sessions.NewCookieStore([]byte(cfg.SessionKey))

	nas := core.NewNasHandler(cfg, core.NewRegistry(users, cfg.BcryptCost),
		core.NewCredentialIssuer(core.GameSpyService), metrics, logger)
	dashboard := core.NewDashboardHandler(core.NewPlayerGate(players), dlc,
		core.NewSpriteResolver(cfg.SpriteDir), metrics, logger)

	router := core.NewRouter(cfg, core.RouterDeps{
		Sessions:  store,
		Nas:       nas,
		Dashboard: dashboard,
		Gatherer:  gatherer,
		Health:    health,
		StartedAt: startedAt,
	})

	addr := fmt.Sprintf(":%s", cfg.Port)
	logger.Info("starting server", "addr", addr,
		"registration_through_login", cfg.AllowRegistrationThroughLogin)
	return router.Run(addr)
}

func openUserRepository(ctx context.Context, cfg core.Config, logger *slog.Logger, health map[string]core.HealthCheck) (core.UserRepository, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("DATABASE_URL not set; users are kept in memory")
		return core.NewMemoryUserRepository(), func() {}, nil
	}
	db, err := core.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	repo := core.NewPgUserRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	health["postgres"] = db.Ping
	return repo, db.Close, nil
}

func openPlayerStore(cfg core.Config, logger *slog.Logger, health map[string]core.HealthCheck) (core.PlayerStore, func(), error) {
	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set; players are kept in memory")
		return core.NewMemoryPlayerStore(), func() {}, nil
	}
	client, err := core.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	health["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	return core.NewRedisPlayerStore(client), func() { _ = client.Close() }, nil
}
