// Package llmclient wraps the Anthropic Messages API behind the single
// operation spec §4.2 calls for: send a conversation, get the next
// assistant response, with exponential-backoff-with-jitter retry and
// server-provided retry-after honored on rate limits.
package llmclient

import "encoding/json"

// ToolSpec describes one tool the LLM may call, in the shape the agent
// loop's dispatch table exposes (name, description, JSON Schema).
type ToolSpec struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// Role is the author of a message in the conversation sent to the LLM.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolResultInput is a tool result to append to a user-role message.
type ToolResultInput struct {
	ToolCallID string
	Content    string
	IsError    bool
}

// ToolUseInput is a tool_use block to append to an assistant-role message
// when replaying history (e.g. reconstructing the prior turn's request).
type ToolUseInput struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ConversationMessage is one turn of the conversation sent to the LLM.
type ConversationMessage struct {
	Role        Role
	Text        string
	ToolUses    []ToolUseInput
	ToolResults []ToolResultInput
}

// Request is the single input shape for Complete.
type Request struct {
	Model     string
	MaxTokens int
	System    string
	Tools     []ToolSpec
	Messages  []ConversationMessage
}

// BlockType discriminates the kind of content in a ContentBlock.
type BlockType string

const (
	BlockText    BlockType = "text"
	BlockToolUse BlockType = "tool_use"
)

// ToolUse is an LLM request to invoke one tool.
type ToolUse struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ContentBlock is one ordered piece of the assistant's response: either a
// text block or a tool_use block, emitted in the order the LLM produced
// them (spec §4.7 S4, §5 ordering guarantees).
type ContentBlock struct {
	Type    BlockType
	Text    string
	ToolUse *ToolUse
}

// Usage carries token accounting for a single LLM call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// StopReason mirrors the Anthropic Messages API's stop_reason values that
// the agent loop distinguishes between (spec §4.7 S5/S6).
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopPauseTurn StopReason = "pause_turn"
	StopMaxTokens StopReason = "max_tokens"
)

// Response is the complete, ordered assistant response to one Complete call.
type Response struct {
	Blocks     []ContentBlock
	StopReason StopReason
	Usage      Usage
}
