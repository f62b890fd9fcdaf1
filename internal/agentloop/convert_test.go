package agentloop

import (
	"testing"

	"github.com/ghostpath/sessionrt/internal/tools"
	"github.com/ghostpath/sessionrt/pkg/models"
)

func TestToConversationPreservesToolRoundTrip(t *testing.T) {
	history := []models.Message{
		{Role: models.RoleUser, Content: "Reduce supermarket checkout queues"},
		{Role: models.RoleAssistant, ToolCalls: []models.ToolCall{{ID: "tu_1", Name: "decompose_problem", Input: []byte(`{}`)}}},
		{Role: models.RoleUser, ToolResults: []models.ToolResult{{ToolCallID: "tu_1", Content: `{"status":"ok"}`}}},
	}
	got := toConversation(history)
	if len(got) != 3 {
		t.Fatalf("expected 3 conversation messages, got %d", len(got))
	}
	if got[1].ToolUses[0].Name != "decompose_problem" {
		t.Errorf("expected tool use name preserved, got %+v", got[1].ToolUses)
	}
	if got[2].ToolResults[0].ToolCallID != "tu_1" {
		t.Errorf("expected tool result id preserved, got %+v", got[2].ToolResults)
	}
}

func TestPreviewJSONTruncatesLongInput(t *testing.T) {
	raw := make([]byte, 500)
	for i := range raw {
		raw[i] = 'a'
	}
	got := previewJSON(raw)
	if len(got) <= toolInputPreviewLimit {
		t.Fatalf("expected truncation marker appended, got length %d", len(got))
	}
}

func TestContextUsageFromResultMapsFields(t *testing.T) {
	result := tools.Result{
		"tokens_used": 1000, "tokens_limit": 1_000_000, "tokens_remaining": 999_000,
		"usage_percentage": 0.1, "estimated_rounds_left": 42,
	}
	got := contextUsageFromResult(result)
	if got.TokensUsed != 1000 || got.EstimatedRoundsLeft != 42 {
		t.Fatalf("unexpected conversion: %+v", got)
	}
}

func TestParseToolInputHandlesEmptyPayload(t *testing.T) {
	m, err := parseToolInput(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m) != 0 {
		t.Errorf("expected empty map, got %v", m)
	}
}
