package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
)

// writeTypedError is the first of the three global handlers of spec §7:
// it respects the error's own HTTP status and renders its REST envelope.
func writeTypedError(w http.ResponseWriter, err *ideaerrors.Error) {
	writeJSON(w, err.HTTPStatus, err.ToREST())
}

// fieldError is one entry in a schema-validation 400 response.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationEnvelope is the second global handler's body: 400 with a
// field-level detail list (spec §7).
type validationEnvelope struct {
	Error struct {
		Code   string       `json:"code"`
		Fields []fieldError `json:"fields"`
	} `json:"error"`
}

func writeValidationError(w http.ResponseWriter, fields ...fieldError) {
	env := validationEnvelope{}
	env.Error.Code = string(ideaerrors.CodeValidationError)
	env.Error.Fields = fields
	writeJSON(w, http.StatusBadRequest, env)
}

// writeInternalError is the catch-all third global handler: a generic
// 500 body, never exposing internal details to the client.
func writeInternalError(w http.ResponseWriter) {
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error": map[string]string{"code": "INTERNAL_ERROR", "message": "internal server error"},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		_, _ = fmt.Fprintf(w, `{"error":{"code":"INTERNAL_ERROR","message":"response encoding failed"}}`)
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
