package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/pkg/models"
)

type createSessionBody struct {
	Problem string `json:"problem"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, fieldError{Field: "problem", Message: "request body must be valid JSON"})
		return
	}
	trimmed := strings.TrimSpace(body.Problem)
	if len(trimmed) < 10 || len(trimmed) > 10_000 {
		writeValidationError(w, fieldError{Field: "problem", Message: "must be between 10 and 10000 characters after trimming"})
		return
	}

	session, derr := s.cfg.Store.CreateSession(r.Context(), trimmed)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}
	s.cfg.Manager.Reset(session.ID)
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.SessionStarted()
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id": session.ID, "problem": session.Problem, "status": session.Status,
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit < 1 || limit > 100 {
		writeValidationError(w, fieldError{Field: "limit", Message: "must be between 1 and 100"})
		return
	}
	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}
	if offset < 0 {
		writeValidationError(w, fieldError{Field: "offset", Message: "must be >= 0"})
		return
	}
	status := r.URL.Query().Get("status")

	sessions, derr := s.cfg.Store.ListSessions(r.Context(), status, limit, offset)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions, "limit": limit, "offset": offset})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, derr := s.cfg.Store.GetSession(r.Context(), id)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, derr := s.cfg.Store.GetSession(r.Context(), id)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}
	if session.Status == models.SessionActive {
		writeTypedError(w, ideaerrors.New(ideaerrors.CodeConcurrencyConflict, "cannot delete an active session").WithSessionID(id))
		return
	}
	if derr := s.cfg.Store.DeleteSession(r.Context(), id); derr != nil {
		writeTypedError(w, derr)
		return
	}
	s.cfg.Manager.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, derr := s.cfg.Store.GetSession(r.Context(), id)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}
	if session.Status != models.SessionActive {
		writeValidationError(w, fieldError{Field: "status", Message: "session must be active to cancel"})
		return
	}
	if derr := s.cfg.Store.CancelSession(r.Context(), id); derr != nil {
		writeTypedError(w, derr)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": string(models.SessionCancelled)})
}

func (s *Server) handleGetSpec(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, derr := s.cfg.Store.GetSession(r.Context(), id); derr != nil {
		writeTypedError(w, derr)
		return
	}
	content, err := readSpecFile(s.cfg.SpecDir, id)
	if err != nil {
		writeTypedError(w, ideaerrors.New(ideaerrors.CodeResourceNotFound, "no spec has been generated for this session").WithSessionID(id))
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
