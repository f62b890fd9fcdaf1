// Package tools implements the seventeen typed tool handlers of spec §4.5
// and the explicit dispatch table of §4.6. Every handler follows
// read→pure-validate→write: it inspects sessionstate.State, defers to
// internal/validators for preconditions, and only then mutates state or
// the durable store. Handlers never panic for business-rule failures —
// those come back as a *ideaerrors.Error the dispatcher folds into the
// same JSON-serializable Result shape a successful call returns.
package tools

import (
	"context"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/internal/store"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// Result is the JSON-serializable dict every handler (and Dispatch)
// returns. Its "status" key is always one of the Status* constants.
type Result map[string]any

// Status values a tool result's "status" field may carry (spec §4.5).
const (
	StatusOK                  = "ok"
	StatusError                = "error"
	StatusWarning              = "warning"
	StatusRejected             = "rejected"
	StatusAwaitingUserScores   = "awaiting_user_scores"
	StatusAwaitingUserResponse = "awaiting_user_response"
	StatusStored               = "stored"
)

// Env bundles everything a handler needs: the non-durable per-turn state,
// the durable session record it belongs to, and the store used by the
// handlers that persist across turns (present_round, store_premise,
// query_premises, get_negative_context).
type Env struct {
	State   *sessionstate.State
	Session *models.Session
	Store   *store.Store
}

// Handler is the signature shared by all seventeen tools.
type Handler func(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error)

// errResult renders an *ideaerrors.Error as the {status:"error", ...}
// dict spec §4.5 requires handlers to return instead of raising.
func errResult(err *ideaerrors.Error) Result {
	r := Result{
		"status":     StatusError,
		"error_code": string(err.Code),
		"message":    err.Message,
	}
	for k, v := range err.Context.Debug {
		r[k] = v
	}
	return r
}

// completedGatesList returns the required gates that have fired, in the
// fixed order spec §4.5's gate handlers report them.
func completedGatesList(s *sessionstate.State) []string {
	out := make([]string, 0, len(sessionstate.RequiredGates))
	for _, g := range sessionstate.RequiredGates {
		if s.CompletedGates[g] {
			out = append(out, g)
		}
	}
	return out
}
