package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"artmatch/internal/ai"
	"artmatch/internal/handlers"
	applog "artmatch/internal/log"
	"artmatch/internal/recommend"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr     string
	Session  SessionConfig
	Database *gorm.DB
	// Engine scores recommendations. Nil uses the default rules.
	Engine *recommend.Engine
	// AI profiles artworks listed without emotions. Nil disables profiling.
	AI *ai.Client
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server and exposes helpers for bootstrapping the web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

const (
	defaultSessionLifetime = 12 * time.Hour
	defaultSessionCookie   = "artmatch_session"
)

// New wires the handlers to their dependencies and wraps the router in the
// request id, access log and session middleware.
func New(cfg Config) (*Server, error) {
	ctx := context.Background()
	applog.Debug(ctx, "initializing server", "addr", cfg.Addr)

	sessions := newSessionManager(cfg.Session)
	handlers.Configure(sessions, cfg.Database)
	handlers.ConfigureRecommendations(cfg.Engine)
	handlers.ConfigureAI(cfg.AI)

	applog.Debug(ctx, "handler dependencies configured",
		"database", cfg.Database != nil,
		"customRules", cfg.Engine != nil,
		"emotionProfiling", cfg.AI != nil,
	)

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           requestID(accessLog(sessions.LoadAndSave(newRouter()))),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// newSessionManager builds the cookie session store, filling in defaults.
func newSessionManager(cfg SessionConfig) *scs.SessionManager {
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = defaultSessionLifetime
	}
	if strings.TrimSpace(cfg.CookieName) == "" {
		cfg.CookieName = defaultSessionCookie
	}

	sm := scs.New()
	sm.Lifetime = cfg.Lifetime
	sm.Cookie.Name = cfg.CookieName
	sm.Cookie.Domain = cfg.CookieDomain
	sm.Cookie.HttpOnly = true
	sm.Cookie.Persist = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = cfg.CookieSecure

	applog.Debug(context.Background(), "session manager configured",
		"lifetime", cfg.Lifetime.String(),
		"cookieName", cfg.CookieName,
		"cookieSecure", cfg.CookieSecure,
	)
	return sm
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
