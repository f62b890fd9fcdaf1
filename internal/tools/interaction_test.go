package tools

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/store"
	"github.com/ghostpath/sessionrt/pkg/models"
)

func TestPresentRoundRequiresFullTestedBuffer(t *testing.T) {
	env := newTestEnv()
	env.State.CurrentRoundBuffer = []models.BufferedPremise{{Title: "P0"}, {Title: "P1"}}
	_, err := PresentRound(context.Background(), env, map[string]any{})
	if err == nil || err.Code != ideaerrors.CodeIncompleteRound {
		t.Fatalf("expected INCOMPLETE_ROUND, got %v", err)
	}
}

func TestPresentRoundRequiresAllTested(t *testing.T) {
	env := newTestEnv()
	env.State.CurrentRoundBuffer = []models.BufferedPremise{{Title: "P0"}, {Title: "P1"}, {Title: "P2"}}
	env.State.ObviousnessTested = map[int]bool{0: true, 1: true}
	_, err := PresentRound(context.Background(), env, map[string]any{})
	if err == nil || err.Code != ideaerrors.CodeUntestedPremises {
		t.Fatalf("expected UNTESTED_PREMISES, got %v", err)
	}
}

// P5/P7/I5 — present_round persists exactly 3 premises, increments the
// round number by one, and clears per-round flags.
func TestPresentRoundSucceedsAndResetsRoundFlags(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO rounds").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO premises").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO premises").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO premises").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	env := &Env{
		State:   newTestEnv().State,
		Session: &models.Session{ID: "sess-1"},
		Store:   store.FromDB(db),
	}
	env.State.CurrentRoundBuffer = []models.BufferedPremise{{Title: "P0"}, {Title: "P1"}, {Title: "P2"}}
	env.State.ObviousnessTested = map[int]bool{0: true, 1: true, 2: true}
	env.State.AxiomChallenged = true
	env.State.NegativeContextFetched = true

	result, err := PresentRound(context.Background(), env, map[string]any{"round_summary": "first pass"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusAwaitingUserScores {
		t.Fatalf("expected awaiting_user_scores, got %v", result)
	}
	if result["round_number"] != 1 {
		t.Errorf("expected round_number 1, got %v", result["round_number"])
	}
	premises, ok := result["premises"].([]Result)
	if !ok || len(premises) != 3 {
		t.Fatalf("expected exactly 3 premises, got %v", result["premises"])
	}

	if env.State.CurrentRoundNumber != 1 {
		t.Errorf("expected current_round_number 1, got %d", env.State.CurrentRoundNumber)
	}
	if env.State.PremisesInBuffer() != 0 {
		t.Error("expected buffer reset")
	}
	if env.State.AxiomChallenged || env.State.NegativeContextFetched {
		t.Error("expected per-round flags cleared")
	}
	if !env.State.AwaitingUserInput || env.State.AwaitingInputType != "scores" {
		t.Error("expected session paused awaiting scores")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAskUserValidatesOptionCount(t *testing.T) {
	env := newTestEnv()
	_, err := AskUser(context.Background(), env, map[string]any{
		"question": "Which direction?",
		"options":  []any{map[string]any{"label": "only one"}},
	})
	if err == nil || err.Code != ideaerrors.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAskUserPausesSession(t *testing.T) {
	env := newTestEnv()
	result, err := AskUser(context.Background(), env, map[string]any{
		"question": "Which direction?",
		"options": []any{
			map[string]any{"label": "conservative"},
			map[string]any{"label": "radical"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusAwaitingUserResponse {
		t.Fatalf("expected awaiting_user_response, got %v", result)
	}
	if !env.State.AwaitingUserInput || env.State.AwaitingInputType != "ask_user" {
		t.Error("expected session paused awaiting ask_user response")
	}
}

// S8 — Resolution.
func TestGenerateFinalSpecResolvesSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectExec("UPDATE sessions SET status").WillReturnResult(sqlmock.NewResult(1, 1))

	env := &Env{
		State:   newTestEnv().State,
		Session: &models.Session{ID: "sess-1", Status: models.SessionActive},
		Store:   store.FromDB(db),
	}

	result, gerr := GenerateFinalSpec(context.Background(), env, map[string]any{
		"winning_premise_title": "Self-checkout triage",
		"winning_premise_body":  "...",
		"problem_statement":     "Reduce supermarket checkout queues",
		"spec_content":          "# Spec\n...",
	})
	if gerr != nil {
		t.Fatalf("unexpected error: %v", gerr)
	}
	if result["status"] != StatusOK {
		t.Fatalf("expected ok, got %v", result)
	}
	if result["spec_content"] != "# Spec\n..." {
		t.Errorf("expected spec_content echoed back, got %v", result["spec_content"])
	}
	if env.Session.Status != models.SessionResolved || env.Session.ResolvedAt == nil {
		t.Error("expected session resolved with resolved_at set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
