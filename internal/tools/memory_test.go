package tools

import (
	"context"
	"testing"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/pkg/models"
)

func TestGetContextUsageComputesEstimatedRoundsLeft(t *testing.T) {
	env := newTestEnv()
	env.Session = &models.Session{TokensUsed: 200_000}
	env.State.CurrentRoundNumber = 2

	result, err := GetContextUsage(context.Background(), env, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["tokens_used"] != 200_000 {
		t.Errorf("expected tokens_used echoed, got %v", result["tokens_used"])
	}
	if result["tokens_remaining"] != 800_000 {
		t.Errorf("expected 800000 remaining, got %v", result["tokens_remaining"])
	}
	// avg = 200000/2 = 100000; remaining/avg = 8
	if result["estimated_rounds_left"] != 8 {
		t.Errorf("expected 8 estimated rounds left, got %v", result["estimated_rounds_left"])
	}
}

func TestGetContextUsageHandlesZeroRoundsWithoutDivideByZero(t *testing.T) {
	env := newTestEnv()
	env.Session = &models.Session{TokensUsed: 0}
	result, err := GetContextUsage(context.Background(), env, map[string]any{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["estimated_rounds_left"] != 0 {
		t.Errorf("expected 0 rounds left with no usage yet, got %v", result["estimated_rounds_left"])
	}
}

func TestQueryPremisesRejectsUnknownFilter(t *testing.T) {
	env := newTestEnv()
	env.Session = &models.Session{ID: "sess-1"}
	_, err := QueryPremises(context.Background(), env, map[string]any{"filter": "bogus"})
	if err == nil || err.Code != ideaerrors.CodeValidationError {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestApplyQueryFilterTopScored(t *testing.T) {
	hi, lo := 8.0, 3.0
	premises := []*models.Premise{
		{Title: "A", Score: &hi},
		{Title: "B", Score: &lo},
		{Title: "C", Score: nil},
	}
	got := applyQueryFilter("top_scored", premises)
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("expected only A to survive top_scored filter, got %+v", got)
	}
}
