package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/tools"
)

const kickoffMessage = "Run decompose_problem, map_conventional_approaches, and extract_hidden_axioms, " +
	"then generate, mutate, and test premises until round 1 is ready to present."

// loadEnv fetches the durable Session and acquires the session's turn
// lock, lazily creating its in-memory State if this is the first turn
// seen by this process (spec §5: at most one turn in flight per session).
func (s *Server) loadEnv(r *http.Request, id string) (*tools.Env, func(), *ideaerrors.Error) {
	session, derr := s.cfg.Store.GetSession(r.Context(), id)
	if derr != nil {
		return nil, nil, derr
	}
	release, err := s.cfg.Manager.TryLock(id)
	if err != nil {
		return nil, nil, err.(*ideaerrors.Error)
	}
	state, ok := s.cfg.Manager.Get(id)
	if !ok {
		release()
		return nil, nil, ideaerrors.New(ideaerrors.CodeResourceNotFound, "session state missing").WithSessionID(id)
	}
	return &tools.Env{State: state, Session: session, Store: s.cfg.Store}, release, nil
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	env, release, derr := s.loadEnv(r, id)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}
	defer release()
	s.runTurn(w, r, env, kickoffMessage)
}

type userInputBody struct {
	Type     string    `json:"type"`
	Scores   []float64 `json:"scores,omitempty"`
	Response string    `json:"response,omitempty"`
	Winner   *struct {
		Title string   `json:"title"`
		Score *float64 `json:"score"`
		Index int      `json:"index"`
	} `json:"winner,omitempty"`
}

func (s *Server) handleUserInput(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body userInputBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeValidationError(w, fieldError{Field: "body", Message: "request body must be valid JSON"})
		return
	}

	env, release, derr := s.loadEnv(r, id)
	if derr != nil {
		writeTypedError(w, derr)
		return
	}

	message, verr := s.translateUserInput(r, env, body)
	if verr != nil {
		release()
		writeValidationError(w, *verr)
		return
	}

	defer release()
	s.runTurn(w, r, env, message)
}

// translateUserInput builds the synthetic user message for the agent
// loop and applies any store side effects (persisting scores/winner)
// that the submission itself implies, per spec §4.8.
func (s *Server) translateUserInput(r *http.Request, env *tools.Env, body userInputBody) (string, *fieldError) {
	switch body.Type {
	case "scores":
		if len(body.Scores) != 3 {
			return "", &fieldError{Field: "scores", Message: "must contain exactly 3 items"}
		}
		for _, sc := range body.Scores {
			if sc < 0 || sc > 10 {
				return "", &fieldError{Field: "scores", Message: "each score must be between 0 and 10"}
			}
		}
		roundNumber := env.State.CurrentRoundNumber
		premises, derr := env.Store.QueryPremises(r.Context(), env.Session.ID, &roundNumber, "", 3)
		if derr != nil || len(premises) == 0 {
			return "", &fieldError{Field: "scores", Message: "no presented round found for this session"}
		}

		var b strings.Builder
		b.WriteString("User scored this round's premises:\n")
		bestIdx, bestScore := 0, -1.0
		for i, p := range premises {
			if i >= len(body.Scores) {
				break
			}
			score := body.Scores[i]
			fmt.Fprintf(&b, "%d. %s: %.1f\n", i+1, p.Title, score)
			_ = env.Store.StorePremiseEvaluation(r.Context(), env.Session.ID, p.Title, &score, "", false)
			if score > bestScore {
				bestScore, bestIdx = score, i
			}
		}
		fmt.Fprintf(&b, "Highest-scoring: %s (%.1f).", premises[bestIdx].Title, bestScore)
		return b.String(), nil

	case "ask_user_response":
		if strings.TrimSpace(body.Response) == "" {
			return "", &fieldError{Field: "response", Message: "must not be empty"}
		}
		return "User response: " + body.Response, nil

	case "resolved":
		if body.Winner == nil || strings.TrimSpace(body.Winner.Title) == "" {
			return "", &fieldError{Field: "winner", Message: "winner.title is required"}
		}
		if body.Winner.Index < 0 || body.Winner.Index > 2 {
			return "", &fieldError{Field: "winner.index", Message: "must be between 0 and 2"}
		}
		_ = env.Store.StorePremiseEvaluation(r.Context(), env.Session.ID, body.Winner.Title, body.Winner.Score, "", true)
		return fmt.Sprintf("The user selected a winner: %q. Please call generate_final_spec now.", body.Winner.Title), nil

	default:
		return "", &fieldError{Field: "type", Message: "must be one of scores, ask_user_response, resolved"}
	}
}

// runTurn drives one agent-loop turn and frames its events onto the
// response as `data: <json>\n\n` SSE records (spec §4.8, §6).
func (s *Server) runTurn(w http.ResponseWriter, r *http.Request, env *tools.Env, userMessage string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)

	events := s.runner.Run(r.Context(), env, userMessage)
	for ev := range events {
		if ev.Type == "final_spec" {
			if content, ok := ev.Data.(string); ok {
				if err := writeSpecFile(s.cfg.SpecDir, env.Session.ID, content); err == nil {
					writeSSE(w, "final_spec", content)
					writeSSE(w, "spec_file_ready", map[string]string{
						"download_url": "/api/v1/sessions/" + env.Session.ID + "/spec",
					})
					if flusher != nil {
						flusher.Flush()
					}
					now := time.Now()
					if derr := s.cfg.Store.ResolveSession(r.Context(), env.Session.ID, now); derr != nil && s.cfg.Logger != nil {
						s.cfg.Logger.Warn(r.Context(), "failed to mark session resolved", "error", derr.Error())
					}
					if s.cfg.Metrics != nil {
						s.cfg.Metrics.SessionEnded(time.Since(env.Session.CreatedAt).Seconds())
					}
					continue
				}
			}
		}
		writeSSE(w, string(ev.Type), ev.Data)
		if flusher != nil {
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, eventType string, data any) {
	payload, err := json.Marshal(map[string]any{"type": eventType, "data": data})
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", payload)
}
