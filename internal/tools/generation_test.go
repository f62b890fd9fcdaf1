package tools

import (
	"context"
	"testing"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
)

func newTestEnv() *Env {
	return &Env{State: sessionstate.New()}
}

func satisfyGates(s *sessionstate.State) {
	s.CompletedGates[sessionstate.GateDecompose] = true
	s.CompletedGates[sessionstate.GateConventional] = true
	s.CompletedGates[sessionstate.GateAxioms] = true
}

// S2 — Gate bypass rejected.
func TestGeneratePremiseRejectsWithoutGates(t *testing.T) {
	env := newTestEnv()
	result, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "Queue triage kiosks", "body": "...", "premise_type": "initial",
	})
	if err == nil || err.Code != ideaerrors.CodeGatesNotSatisfied {
		t.Fatalf("expected GATES_NOT_SATISFIED, got %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result on error, got %v", result)
	}
	if env.State.PremisesInBuffer() != 0 {
		t.Errorf("expected empty buffer, got %d", env.State.PremisesInBuffer())
	}
}

func TestGeneratePremiseSucceedsOnceGatesSatisfied(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)

	result, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "Queue triage kiosks", "body": "...", "premise_type": "initial",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusOK {
		t.Errorf("expected ok status, got %v", result["status"])
	}
	if env.State.PremisesInBuffer() != 1 {
		t.Errorf("expected 1 premise staged, got %d", env.State.PremisesInBuffer())
	}
}

// S4 — Radical without challenge.
func TestGeneratePremiseRejectsRadicalWithoutChallenge(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)

	_, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "Burn the conveyor belt down", "body": "...", "premise_type": "radical",
	})
	if err == nil || err.Code != ideaerrors.CodeAxiomNotChallenged {
		t.Fatalf("expected AXIOM_NOT_CHALLENGED, got %v", err)
	}

	env.State.AxiomChallenged = true
	result, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "Burn the conveyor belt down", "body": "...", "premise_type": "radical",
	})
	if err != nil {
		t.Fatalf("unexpected error after challenge: %v", err)
	}
	if result["status"] != StatusOK {
		t.Errorf("expected ok after axiom challenged, got %v", result["status"])
	}
}

func TestGeneratePremiseRejectsFullBuffer(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)
	for i := 0; i < 3; i++ {
		if _, err := GeneratePremise(context.Background(), env, map[string]any{
			"title": "P", "body": "...", "premise_type": "initial",
		}); err != nil {
			t.Fatalf("unexpected error staging premise %d: %v", i, err)
		}
	}
	_, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "overflow", "body": "...", "premise_type": "initial",
	})
	if err == nil || err.Code != ideaerrors.CodeRoundBufferFull {
		t.Fatalf("expected ROUND_BUFFER_FULL, got %v", err)
	}
}

// S5 — Round 2 requires negative context.
func TestGeneratePremiseRequiresNegativeContextPastRoundOne(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)
	env.State.CurrentRoundNumber = 1

	_, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "t", "body": "b", "premise_type": "initial",
	})
	if err == nil || err.Code != ideaerrors.CodeNegativeContextMissing {
		t.Fatalf("expected NEGATIVE_CONTEXT_MISSING, got %v", err)
	}

	env.State.NegativeContextFetched = true
	result, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "t", "body": "b", "premise_type": "initial",
	})
	if err != nil {
		t.Fatalf("unexpected error after negative context fetched: %v", err)
	}
	if result["status"] != StatusOK {
		t.Errorf("expected ok, got %v", result["status"])
	}
}

func TestGeneratePremiseRejectsInvalidPremiseType(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)
	_, err := GeneratePremise(context.Background(), env, map[string]any{
		"title": "t", "body": "b", "premise_type": "nonsense",
	})
	if err == nil || err.Code != ideaerrors.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestMutatePremiseValidatesStrengthRange(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)
	_, err := MutatePremise(context.Background(), env, map[string]any{
		"source_title": "orig", "title": "t", "body": "b",
		"premise_type": "initial", "mutation_strength": 1.5,
	})
	if err == nil || err.Code != ideaerrors.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCrossPollinateDefaultsToCombinationType(t *testing.T) {
	env := newTestEnv()
	satisfyGates(env.State)
	result, err := CrossPollinate(context.Background(), env, map[string]any{
		"primary_title":       "A",
		"secondary_premises":  []any{"B", "C"},
		"title":               "Synthesis",
		"body":                "...",
		"synthesis_strategy":  "merge",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusOK {
		t.Errorf("expected ok, got %v", result["status"])
	}
	if env.State.CurrentRoundBuffer[0].Type != "combination" {
		t.Errorf("expected combination type, got %v", env.State.CurrentRoundBuffer[0].Type)
	}
}
