package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gorm.io/gorm"

	"artmatch/internal/ai"
	"artmatch/internal/config"
	"artmatch/internal/db"
	"artmatch/internal/db/mock"
	applog "artmatch/internal/log"
	"artmatch/internal/recommend"
	"artmatch/internal/server"
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}

	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	engine, err := buildEngine(cfg.Recommend)
	if err != nil {
		applog.Error(ctx, "invalid recommendation rules", "error", err)
		return 1
	}

	profiler, err := buildProfiler(cfg.AI)
	if err != nil {
		applog.Error(ctx, "failed to configure emotion profiling", "error", err)
		return 1
	}

	srv, err := newServerFunc(server.Config{
		Addr: cfg.Server.Addr,
		Session: server.SessionConfig{
			Lifetime:     cfg.Auth.Session.Lifetime,
			CookieName:   cfg.Auth.Session.CookieName,
			CookieDomain: cfg.Auth.Session.CookieDomain,
			CookieSecure: cfg.Auth.Session.CookieSecure,
		},
		Database: database,
		Engine:   engine,
		AI:       profiler,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	errCh := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr)
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "shutting down http server", "reason", ctx.Err())
	}

	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server encountered an error", "error", err)
		return 1
	}
	return 0
}

func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.UseMock {
		applog.Info(ctx, "using seeded in-memory database")
		return newMockDatabaseFunc(ctx)
	}
	return configureDatabase(cfg)
}

// buildEngine layers environment overrides on top of the optional rules file.
func buildEngine(cfg config.RecommendConfig) (*recommend.Engine, error) {
	rules, err := recommend.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	if cfg.TagWeight > 0 {
		rules.TagWeight = cfg.TagWeight
	}
	if cfg.ContextWeight > 0 {
		rules.ContextWeight = cfg.ContextWeight
	}
	if cfg.ContextThreshold > 0 {
		rules.ContextThreshold = cfg.ContextThreshold
	}
	if cfg.Limit > 0 {
		rules.Limit = cfg.Limit
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return recommend.NewEngine(rules), nil
}

func buildProfiler(cfg config.AIConfig) (*ai.Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := ai.NewClient(ai.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create ai client: %w", err)
	}
	return client, nil
}
