// Package httpapi implements the Session HTTP Surface of spec §4.8/§6:
// net/http handlers for session CRUD, an SSE-framed agent-loop stream,
// and the user-input/spec-download endpoints. It is the only layer that
// knows about the wire protocol; everything it calls is pure Go.
package httpapi

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ghostpath/sessionrt/internal/agentloop"
	"github.com/ghostpath/sessionrt/internal/auth"
	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/observability"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/internal/store"
	"github.com/ghostpath/sessionrt/internal/tools"
)

// Config wires a Server's collaborators and settings.
type Config struct {
	Store     *store.Store
	Manager   *sessionstate.Manager
	LLM       agentloop.Completer
	Logger    *observability.Logger
	Tracer    *observability.Tracer
	Metrics   *observability.Metrics
	SpecDir   string
	JWTSecret []byte
	// OAuth mints bearer tokens via browser login. Nil disables the
	// /auth/login and /auth/callback routes entirely.
	OAuth *auth.Service

	Model         string
	MaxTokens     int
	SystemPrompt  string
	MaxIterations int

	CORSOrigins []string
}

// Server holds the collaborators shared across requests.
type Server struct {
	cfg         Config
	runner      *agentloop.Runner
	specs       []llmclient.ToolSpec
	corsOrigins atomic.Pointer[[]string]
}

// SetCORSOrigins swaps the allowed-origins list used by every subsequent
// request. Safe to call concurrently with requests in flight; it is how a
// config reload (see cmd/ghostpath's use of config.Watcher) takes effect
// without restarting the server.
func (s *Server) SetCORSOrigins(origins []string) {
	s.corsOrigins.Store(&origins)
}

// New builds a Server from cfg, constructing the shared agentloop.Runner
// that every /stream request reuses.
func New(cfg Config) *Server {
	specs := make([]llmclient.ToolSpec, 0, len(tools.Specs()))
	for _, s := range tools.Specs() {
		specs = append(specs, llmclient.ToolSpec{Name: s.Name, Description: s.Description, InputSchema: s.InputSchema})
	}

	runner := &agentloop.Runner{
		LLM:           cfg.LLM,
		Store:         cfg.Store,
		Logger:        cfg.Logger,
		Tracer:        cfg.Tracer,
		Metrics:       cfg.Metrics,
		Model:         cfg.Model,
		MaxTokens:     cfg.MaxTokens,
		SystemPrompt:  cfg.SystemPrompt,
		Tools:         specs,
		MaxIterations: cfg.MaxIterations,
	}

	srv := &Server{cfg: cfg, runner: runner, specs: specs}
	srv.corsOrigins.Store(&cfg.CORSOrigins)
	return srv
}

// Handler builds the complete routed, middleware-wrapped http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health/", s.handleHealthLive)
	mux.HandleFunc("GET /api/v1/health/ready", s.handleHealthReady)

	mux.HandleFunc("POST /api/v1/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/v1/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/v1/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/v1/sessions/{id}/cancel", s.handleCancelSession)
	mux.HandleFunc("GET /api/v1/sessions/{id}/stream", s.handleStream)
	mux.HandleFunc("POST /api/v1/sessions/{id}/user-input", s.handleUserInput)
	mux.HandleFunc("GET /api/v1/sessions/{id}/spec", s.handleGetSpec)

	mux.HandleFunc("GET /api/v1/auth/login/{provider}", s.handleAuthLogin)
	mux.HandleFunc("GET /api/v1/auth/callback/{provider}", s.handleAuthCallback)

	var handler http.Handler = mux
	handler = AuthMiddleware(s.cfg.JWTSecret, s.cfg.Logger)(handler)
	handler = CORSMiddleware(func() []string { return *s.corsOrigins.Load() })(handler)
	handler = LoggingMiddleware(s.cfg.Logger, s.cfg.Metrics, s.cfg.Tracer)(handler)
	return handler
}

func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if !s.cfg.Store.Healthy(ctx) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
