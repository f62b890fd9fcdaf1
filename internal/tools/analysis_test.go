package tools

import (
	"context"
	"testing"
)

func TestDecomposeProblemMarksGateAndRecordsPayload(t *testing.T) {
	env := newTestEnv()
	result, err := DecomposeProblem(context.Background(), env, map[string]any{
		"problem_statement": "Reduce supermarket checkout queues",
		"dimensions":        []any{"staffing", "layout", "technology"},
		"constraints_real":  []any{"fixed floor space"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusOK {
		t.Fatalf("expected ok, got %v", result)
	}
	if env.State.Decomposition == nil || len(env.State.Decomposition.Dimensions) != 3 {
		t.Fatalf("expected decomposition recorded, got %+v", env.State.Decomposition)
	}
	gatesRemaining, ok := result["gates_remaining"].([]string)
	if !ok || len(gatesRemaining) != 2 {
		t.Fatalf("expected 2 remaining gates, got %v", result["gates_remaining"])
	}
}

func TestAllThreeGatesTogetherSatisfyGeneration(t *testing.T) {
	env := newTestEnv()
	if _, err := DecomposeProblem(context.Background(), env, map[string]any{
		"problem_statement": "p", "dimensions": []any{"d"},
	}); err != nil {
		t.Fatalf("decompose failed: %v", err)
	}
	if _, err := MapConventionalApproaches(context.Background(), env, map[string]any{
		"approaches": []any{"hire more cashiers"},
	}); err != nil {
		t.Fatalf("map_conventional_approaches failed: %v", err)
	}
	result, err := ExtractHiddenAxioms(context.Background(), env, map[string]any{
		"axioms": []any{"customers must physically queue"},
	})
	if err != nil {
		t.Fatalf("extract_hidden_axioms failed: %v", err)
	}
	if len(result["gates_remaining"].([]string)) != 0 {
		t.Fatalf("expected all gates satisfied, remaining=%v", result["gates_remaining"])
	}
	if !env.State.AllGatesSatisfied() {
		t.Error("expected AllGatesSatisfied true")
	}
}
