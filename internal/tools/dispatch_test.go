package tools

import (
	"context"
	"testing"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
)

func TestDispatchRejectsUnknownTool(t *testing.T) {
	env := newTestEnv()
	result, err := Dispatch(context.Background(), env, "delete_database", map[string]any{})
	if err == nil || err.Code != ideaerrors.CodeUnknownTool {
		t.Fatalf("expected UNKNOWN_TOOL, got %v", err)
	}
	if result["status"] != StatusError || result["error_code"] != string(ideaerrors.CodeUnknownTool) {
		t.Fatalf("expected error envelope, got %v", result)
	}
}

func TestDispatchRunsKnownHandler(t *testing.T) {
	env := newTestEnv()
	result, err := Dispatch(context.Background(), env, "decompose_problem", map[string]any{
		"problem_statement": "Reduce supermarket checkout queues",
		"dimensions":        []any{"staffing", "layout"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result["status"] != StatusOK {
		t.Fatalf("expected ok, got %v", result)
	}
	if !env.State.CompletedGates["decompose_problem"] {
		t.Error("expected DECOMPOSE gate marked complete")
	}
}

func TestDispatchIsolatesPanics(t *testing.T) {
	Table["panics_for_test"] = func(ctx context.Context, env *Env, input map[string]any) (Result, *ideaerrors.Error) {
		panic("boom")
	}
	defer delete(Table, "panics_for_test")

	env := newTestEnv()
	result, err := Dispatch(context.Background(), env, "panics_for_test", map[string]any{})
	if err == nil || err.Code != ideaerrors.CodeToolExecutionError {
		t.Fatalf("expected TOOL_EXECUTION_ERROR, got %v", err)
	}
	if result["status"] != StatusError {
		t.Fatalf("expected error envelope, got %v", result)
	}
}

func TestDispatchAttachesToolNameToErrors(t *testing.T) {
	env := newTestEnv() // no gates satisfied
	_, err := Dispatch(context.Background(), env, "generate_premise", map[string]any{
		"title": "t", "body": "b", "premise_type": "initial",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Context.ToolName != "generate_premise" {
		t.Errorf("expected tool_name context set, got %q", err.Context.ToolName)
	}
}
