package agentloop

import (
	"encoding/json"

	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/tools"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// toConversation maps the durable, replayable history onto the LLM
// client's request shape. Tool-result messages carry models.RoleUser,
// mirroring how the Anthropic Messages API represents tool_result blocks.
func toConversation(history []models.Message) []llmclient.ConversationMessage {
	out := make([]llmclient.ConversationMessage, 0, len(history))
	for _, m := range history {
		cm := llmclient.ConversationMessage{Role: llmclient.Role(m.Role), Text: m.Content}
		for _, tc := range m.ToolCalls {
			cm.ToolUses = append(cm.ToolUses, llmclient.ToolUseInput{ID: tc.ID, Name: tc.Name, Input: tc.Input})
		}
		for _, tr := range m.ToolResults {
			cm.ToolResults = append(cm.ToolResults, llmclient.ToolResultInput{
				ToolCallID: tr.ToolCallID, Content: tr.Content, IsError: tr.IsError,
			})
		}
		out = append(out, cm)
	}
	return out
}

func parseToolInput(raw json.RawMessage) (map[string]any, error) {
	if len(raw) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const toolInputPreviewLimit = 200

func previewJSON(raw json.RawMessage) string {
	s := string(raw)
	if len(s) > toolInputPreviewLimit {
		return s[:toolInputPreviewLimit] + "…"
	}
	return s
}

func contextUsageFromResult(r tools.Result) ContextUsageData {
	used, _ := r["tokens_used"].(int)
	limit, _ := r["tokens_limit"].(int)
	remaining, _ := r["tokens_remaining"].(int)
	pct, _ := r["usage_percentage"].(float64)
	roundsLeft, _ := r["estimated_rounds_left"].(int)
	return ContextUsageData{
		TokensUsed:          used,
		TokensLimit:         limit,
		TokensRemaining:     remaining,
		UsagePercentage:     pct,
		EstimatedRoundsLeft: roundsLeft,
	}
}
