package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ghostpath/sessionrt/internal/auth"
	"github.com/ghostpath/sessionrt/internal/config"
	"github.com/ghostpath/sessionrt/internal/httpapi"
	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/observability"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/internal/store"
)

// runServe implements the serve command logic: load config, wire
// collaborators, and run the HTTP server until a shutdown signal arrives.
func runServe(ctx context.Context, configPath string, debug bool) error {
	if debug {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	slog.Info("starting ghostpathd", "version", version, "commit", commit, "config", configPath, "debug", debug)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logLevel := cfg.Logging.Level
	if debug {
		logLevel = "debug"
	}
	logger := observability.NewLogger(observability.LogConfig{Level: logLevel, Format: cfg.Logging.Format})
	metrics := observability.NewMetrics()
	tracer, shutdownTracer := observability.NewTracer(cfg.Tracing.TraceConfig())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracer(shutdownCtx)
	}()

	db, err := store.Open(cfg.DB.URL, cfg.DB.PoolConfig())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	llmClient := llmclient.New(cfg.LLM.ClientConfig(), logger, metrics)

	oauthService := buildOAuthService(cfg)

	srv := httpapi.New(httpapi.Config{
		Store:         db,
		Manager:       sessionstate.NewManager(),
		LLM:           llmClient,
		Logger:        logger,
		Tracer:        tracer,
		Metrics:       metrics,
		SpecDir:       cfg.SpecDir,
		JWTSecret:     []byte(cfg.Auth.JWTSecret),
		OAuth:         oauthService,
		Model:         cfg.Session.Model,
		MaxTokens:     cfg.Session.MaxTokens,
		SystemPrompt:  cfg.Session.SystemPrompt,
		MaxIterations: cfg.Session.MaxIterations,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler: srv.Handler(),
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher, err := config.NewWatcher(ctx, configPath, func(reloaded *config.Config) {
		srv.SetCORSOrigins(reloaded.CORS.AllowedOrigins)
	}, slog.Default())
	if err != nil {
		slog.Warn("config hot-reload disabled", "error", err)
	} else {
		defer watcher.Close()
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("ghostpathd listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	slog.Info("shutdown signal received, initiating graceful shutdown")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	slog.Info("ghostpathd stopped gracefully")
	return nil
}

// buildOAuthService wires an auth.Service from cfg.Auth, registering
// Google/GitHub providers whose client_id is set. Returns nil when no
// JWT secret is configured, leaving /auth/login and /auth/callback
// disabled.
func buildOAuthService(cfg *config.Config) *auth.Service {
	if cfg.Auth.JWTSecret == "" {
		return nil
	}
	svc := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	if g := cfg.Auth.OAuth.Google; g.ClientID != "" {
		svc.RegisterProvider("google", auth.NewGoogleProvider(auth.ProviderConfig{
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURL,
		}))
	}
	if gh := cfg.Auth.OAuth.GitHub; gh.ClientID != "" {
		svc.RegisterProvider("github", auth.NewGitHubProvider(auth.ProviderConfig{
			ClientID:     gh.ClientID,
			ClientSecret: gh.ClientSecret,
			RedirectURL:  gh.RedirectURL,
		}))
	}
	return svc
}

// runHealthcheck is a thin client used by the "healthcheck" subcommand for
// container probes that exec a binary rather than issue an HTTP request
// themselves.
func runHealthcheck(ctx context.Context, addr string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr+"/api/v1/health/ready", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("healthcheck failed: status %d", resp.StatusCode)
	}
	return nil
}
