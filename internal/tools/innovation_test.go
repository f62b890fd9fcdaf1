package tools

import (
	"context"
	"testing"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// S3 — Obviousness rejection compacts buffer.
func TestObviousnessTestRejectionCompactsBuffer(t *testing.T) {
	env := newTestEnv()
	env.State.CurrentRoundBuffer = []models.BufferedPremise{{Title: "P0"}, {Title: "P1"}, {Title: "P2"}}
	env.State.ObviousnessTested = map[int]bool{0: true, 2: true}

	result, err := ObviousnessTest(context.Background(), env, map[string]any{
		"premise_buffer_index": float64(1),
		"premise_title":        "P1",
		"obviousness_score":    0.9,
		"justification":        "too close to the obvious fix",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusRejected || result["error_code"] != string(ideaerrors.CodeTooObvious) {
		t.Fatalf("expected rejected/TOO_OBVIOUS, got %v", result)
	}

	if got := env.State.PremisesInBuffer(); got != 2 {
		t.Fatalf("expected buffer of 2, got %d", got)
	}
	if env.State.CurrentRoundBuffer[0].Title != "P0" || env.State.CurrentRoundBuffer[1].Title != "P2" {
		t.Fatalf("unexpected buffer contents: %+v", env.State.CurrentRoundBuffer)
	}
	want := map[int]bool{0: true, 1: true}
	if len(env.State.ObviousnessTested) != len(want) || !env.State.ObviousnessTested[0] || !env.State.ObviousnessTested[1] {
		t.Fatalf("expected renumbered tested set %v, got %v", want, env.State.ObviousnessTested)
	}
}

func TestObviousnessTestAcceptsLowScore(t *testing.T) {
	env := newTestEnv()
	env.State.CurrentRoundBuffer = []models.BufferedPremise{{Title: "P0"}}

	result, err := ObviousnessTest(context.Background(), env, map[string]any{
		"premise_buffer_index": float64(0),
		"premise_title":        "P0",
		"obviousness_score":    0.2,
		"justification":        "novel enough",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusOK {
		t.Fatalf("expected ok, got %v", result)
	}
	if !env.State.ObviousnessTested[0] {
		t.Error("expected index 0 marked tested")
	}
}

func TestObviousnessTestRejectsOutOfRangeIndex(t *testing.T) {
	env := newTestEnv()
	_, err := ObviousnessTest(context.Background(), env, map[string]any{
		"premise_buffer_index": float64(5),
		"premise_title":        "nope",
		"obviousness_score":    0.1,
		"justification":        "n/a",
	})
	if err == nil || err.Code != ideaerrors.CodeInvalidIndex {
		t.Fatalf("expected INVALID_INDEX, got %v", err)
	}
}

// S4 — unrecognized axiom warns but still unlocks radical premises.
func TestChallengeAxiomWarnsOnUnknownAxiom(t *testing.T) {
	env := newTestEnv()
	env.State.ExtractedAxioms = []string{"customers prefer self-checkout"}

	result, err := ChallengeAxiom(context.Background(), env, map[string]any{
		"axiom":              "stores need cashiers",
		"violation_strategy": "invert",
		"resulting_insight":  "cashier-free entirely",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusWarning {
		t.Fatalf("expected warning status, got %v", result)
	}
	if !env.State.AxiomChallenged {
		t.Error("expected axiom_challenged true even on warning")
	}
}

func TestChallengeAxiomPassesSilentlyWhenNoAxiomsExtracted(t *testing.T) {
	env := newTestEnv()
	result, err := ChallengeAxiom(context.Background(), env, map[string]any{
		"axiom":              "anything",
		"violation_strategy": "negate",
		"resulting_insight":  "insight",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusOK {
		t.Fatalf("expected ok with no extracted axioms to check against, got %v", result)
	}
	if !env.State.AxiomChallenged {
		t.Error("expected axiom_challenged true")
	}
}

func TestChallengeAxiomRejectsUnknownViolationStrategy(t *testing.T) {
	env := newTestEnv()
	_, err := ChallengeAxiom(context.Background(), env, map[string]any{
		"axiom": "x", "violation_strategy": "vaporize", "resulting_insight": "i",
	})
	if err == nil || err.Code != ideaerrors.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
