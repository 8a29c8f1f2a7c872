package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nidhogg/agent-advisor/internal/api"
	"github.com/nidhogg/agent-advisor/internal/cache"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/command"
	"github.com/nidhogg/agent-advisor/internal/config"
	"github.com/nidhogg/agent-advisor/internal/gateway"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	msgrouter "github.com/nidhogg/agent-advisor/internal/router"
	"github.com/nidhogg/agent-advisor/internal/scoring"
	pgstore "github.com/nidhogg/agent-advisor/internal/store"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/advisor.json"
	}
	cfg, cfgErr := config.Load(cfgPath)
	if errors.Is(cfgErr, os.ErrNotExist) {
		cfg, cfgErr = config.Default(), nil
	}

	logger, err := newLogger(levelOf(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfgErr != nil {
		logger.Fatal("failed to load config", zap.String("path", cfgPath), zap.Error(cfgErr))
	}
	logger.Info("Starting agent advisor", zap.String("version", version), zap.String("config", cfgPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	advisor, pgStore := newAdvisor(ctx, cfg, logger)

	// Result cache
	var resultCache api.ResultCache
	var redisCache *cache.RedisCache
	if cfg.Database.Redis.URL != "" {
		rc, rcErr := cache.NewRedisCache(cfg.Database.Redis.URL, cfg.Cache.TTL(), logger)
		if rcErr != nil {
			logger.Warn("Redis unavailable, running without result cache", zap.Error(rcErr))
		} else {
			redisCache = rc
			resultCache = rc
		}
	}

	// Chat gateway, only with a working engine
	gw := gateway.NewGateway(logger)
	if advisor != nil {
		registry := command.NewRegistry()
		command.RegisterBuiltins(registry, advisor, gw)
		gw.SetHandler(msgrouter.New(gw, registry, logger).Handle)

		if cfg.Gateway.Slack.Usable() {
			gw.Register(gateway.NewSlackAdapter(cfg.Gateway.Slack.BotToken, cfg.Gateway.Slack.AppToken, logger))
		}
		if cfg.Gateway.Discord.Usable() {
			gw.Register(gateway.NewDiscordAdapter(cfg.Gateway.Discord.BotToken, logger))
		}
	}
	if len(gw.Adapters()) > 0 {
		if err := gw.ConnectAll(ctx); err != nil {
			logger.Warn("some gateway adapters failed to connect", zap.Error(err))
		}
	}

	handler := api.NewHandler(recommenderOf(advisor), resultCache, version, logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Agent advisor listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down agent advisor...")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	gw.Close()
	if redisCache != nil {
		redisCache.Close()
	}
	if pgStore != nil {
		pgStore.Close()
	}
}

// newAdvisor builds the recommendation service. A catalog failure is logged
// and yields a nil service so the server stays up and engine routes answer
// 500 until it is restarted with a usable catalog.
func newAdvisor(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*recommend.Service, *pgstore.Store) {
	cat, st, err := openCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog, recommendation engine not initialized", zap.Error(err))
		return nil, nil
	}
	logger.Info("Catalog loaded",
		zap.String("source", cfg.Catalog.Source), zap.Int("agents", cat.Len()))
	engine := scoring.NewEngine(scoring.WithCloudAgentID(cfg.Catalog.CloudAgentID))
	return recommend.NewService(cat, engine, logger), st
}

// recommenderOf converts a missing service into a nil interface rather
// than a typed nil.
func recommenderOf(s *recommend.Service) api.Recommender {
	if s == nil {
		return nil
	}
	return s
}

// openCatalog loads the catalog from a file or, for the postgres source,
// from the agents table after applying migrations and optional seeding.
// The returned store is nil unless postgres is in use.
func openCatalog(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*catalog.Catalog, *pgstore.Store, error) {
	if cfg.Catalog.Source != config.SourcePostgres {
		cat, err := catalog.Open(cfg.Catalog.Path)
		return cat, nil, err
	}

	st, err := pgstore.New(ctx, cfg.Database.Postgres.DSN, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx, cfg.Database.Postgres.MigrationsDir); err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.Catalog.SeedFromFile {
		seed, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("read seed catalog: %w", err)
		}
		if err := st.SaveAgents(ctx, seed.All()); err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("seed catalog: %w", err)
		}
		logger.Info("Seeded agents table", zap.Int("agents", seed.Len()))
	}
	cat, err := st.LoadCatalog(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return cat, st, nil
}

func levelOf(cfg *config.Config) string {
	if cfg == nil {
		return "info"
	}
	return cfg.Server.LogLevel
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	zc := zap.NewDevelopmentConfig()
	if lvl.Level() > zap.DebugLevel {
		zc = zap.NewProductionConfig()
	}
	zc.Level = lvl
	return zc.Build()
}
