package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/observability"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/internal/store"
)

type noopCompleter struct{}

func (noopCompleter) Complete(ctx context.Context, req llmclient.Request) (*llmclient.Response, *ideaerrors.Error) {
	return &llmclient.Response{StopReason: llmclient.StopEndTurn}, nil
}

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	cfg := Config{
		Store:       store.FromDB(db),
		Manager:     sessionstate.NewManager(),
		LLM:         noopCompleter{},
		Logger:      observability.NewLogger(observability.LogConfig{}),
		Metrics:     observability.NewMetrics(),
		SpecDir:     t.TempDir(),
		CORSOrigins: []string{"*"},
		Model:       "claude-sonnet-4-5",
		MaxTokens:   4096,
	}
	tracer, _ := observability.NewTracer(observability.TraceConfig{})
	cfg.Tracer = tracer
	return New(cfg), mock
}

func TestCreateSessionRejectsShortProblem(t *testing.T) {
	srv, _ := newTestServer(t)
	body := strings.NewReader(`{"problem":"too short"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateSessionHappyPath(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectExec("INSERT INTO sessions").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE sessions SET status").WillReturnResult(sqlmock.NewResult(1, 1))

	body := strings.NewReader(`{"problem":"Reduce supermarket checkout queue wait times"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", body)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["id"] == "" || resp["status"] != "active" {
		t.Errorf("unexpected response body: %+v", resp)
	}
}

func TestGetSessionReturns404ForUnknownID(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery("SELECT id, problem, status").WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHealthReadyReturns503OnPingFailure(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectPing().WillReturnError(context.DeadlineExceeded)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/ready", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthLiveAlwaysOK(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health/", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsMissingBearerToken(t *testing.T) {
	db, _, _ := sqlmock.New()
	cfg := Config{
		Store:     store.FromDB(db),
		Manager:   sessionstate.NewManager(),
		LLM:       noopCompleter{},
		Logger:    observability.NewLogger(observability.LogConfig{}),
		Metrics:   observability.NewMetrics(),
		SpecDir:   t.TempDir(),
		JWTSecret: []byte("test-secret"),
	}
	tracer, _ := observability.NewTracer(observability.TraceConfig{})
	cfg.Tracer = tracer
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

