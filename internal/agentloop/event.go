// Package agentloop drives the finite-turn state machine of spec §4.7: it
// builds the message history, calls the LLM client with retry, emits one
// stream event per response block, dispatches requested tools, and pauses
// or terminates the turn. Nothing in here talks to HTTP; it produces a
// channel of Event values the transport layer frames onto the wire.
package agentloop

// EventType discriminates the stream envelope variants of spec §6.
type EventType string

const (
	EventAgentText     EventType = "agent_text"
	EventToolCall      EventType = "tool_call"
	EventToolResult    EventType = "tool_result"
	EventToolError     EventType = "tool_error"
	EventPremises      EventType = "premises"
	EventAskUser       EventType = "ask_user"
	EventFinalSpec     EventType = "final_spec"
	EventContextUsage  EventType = "context_usage"
	EventSpecFileReady EventType = "spec_file_ready"
	EventError         EventType = "error"
	EventDone          EventType = "done"
)

// Event is one record the transport serializes as `data: <json>\n\n`.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// ToolCallData is the payload of an EventToolCall.
type ToolCallData struct {
	Tool         string `json:"tool"`
	InputPreview string `json:"input_preview"`
}

// ToolErrorData is the payload of an EventToolError.
type ToolErrorData struct {
	Tool      string `json:"tool"`
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// AskUserData is the payload of an EventAskUser: the original tool input
// payload, re-emitted verbatim so the client can render the question
// (spec §4.5 ask_user).
type AskUserData struct {
	Question       string `json:"question"`
	Options        []any  `json:"options"`
	AllowFreeText  bool   `json:"allow_free_text,omitempty"`
	Context        string `json:"context,omitempty"`
}

// ContextUsageData is the payload of an EventContextUsage.
type ContextUsageData struct {
	TokensUsed          int     `json:"tokens_used"`
	TokensLimit         int     `json:"tokens_limit"`
	TokensRemaining     int     `json:"tokens_remaining"`
	UsagePercentage     float64 `json:"usage_percentage"`
	EstimatedRoundsLeft int     `json:"estimated_rounds_left"`
}

// SpecFileReadyData is the payload of an EventSpecFileReady.
type SpecFileReadyData struct {
	DownloadURL string `json:"download_url"`
}

// DoneData is the payload of the exactly-one EventDone per invocation.
type DoneData struct {
	Error          bool `json:"error"`
	AwaitingInput  bool `json:"awaiting_input"`
}
