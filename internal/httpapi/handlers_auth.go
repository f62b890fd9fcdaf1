package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

const oauthStateCookie = "ghostpath_oauth_state"

// handleAuthLogin redirects the browser to the named provider's consent
// screen. A random state value is stashed in an httponly cookie and
// echoed back by the provider so handleAuthCallback can detect CSRF.
func (s *Server) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OAuth == nil || !s.cfg.OAuth.Enabled() {
		writeOAuthDisabled(w)
		return
	}
	provider := r.PathValue("provider")
	state := uuid.NewString()

	authURL, err := s.cfg.OAuth.AuthURL(provider, state)
	if err != nil {
		writeValidationError(w, fieldError{Field: "provider", Message: "unknown oauth provider"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   300,
	})
	http.Redirect(w, r, authURL, http.StatusFound)
}

// handleAuthCallback completes a login: it validates the returned state
// against the cookie set by handleAuthLogin, exchanges the authorization
// code, and returns the minted bearer token as JSON.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if s.cfg.OAuth == nil || !s.cfg.OAuth.Enabled() {
		writeOAuthDisabled(w)
		return
	}
	provider := r.PathValue("provider")

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeValidationError(w, fieldError{Field: "state", Message: "missing or mismatched oauth state"})
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		writeValidationError(w, fieldError{Field: "code", Message: "missing authorization code"})
		return
	}

	result, err := s.cfg.OAuth.HandleCallback(r.Context(), provider, code)
	if err != nil {
		if s.cfg.Logger != nil {
			s.cfg.Logger.Warn(r.Context(), "oauth callback failed", "provider", provider, "error", err.Error())
		}
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error": map[string]string{"code": "OAUTH_EXCHANGE_FAILED", "message": "failed to complete oauth login"},
		})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, map[string]string{
		"token":    result.Token,
		"provider": result.Provider,
		"email":    result.Email,
		"name":     result.Name,
	})
}

func writeOAuthDisabled(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": map[string]string{"code": "OAUTH_DISABLED", "message": "oauth login is not configured"},
	})
}
