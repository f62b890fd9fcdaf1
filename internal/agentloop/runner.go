package agentloop

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/observability"
	"github.com/ghostpath/sessionrt/internal/store"
	"github.com/ghostpath/sessionrt/internal/tools"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// DefaultMaxIterations is the loop cap of spec §4.7 S10/S11.
const DefaultMaxIterations = 50

// DefaultSystemPrompt instructs the model to drive the GhostPath state
// machine of spec §4.7: analyze, generate and mutate premises, test them
// for obviousness, present a round, then wait for scores before moving on.
const DefaultSystemPrompt = `You are GhostPath, an idea-refinement agent. Given a problem statement, ` +
	`you decompose it, map conventional approaches, and surface the hidden axioms the obvious ` +
	`solutions rest on. You then generate, mutate, and cross-pollinate premises that challenge ` +
	`those axioms, testing each for obviousness before it is allowed into a round. You present ` +
	`exactly three premises per round and wait for the user's scores or questions before ` +
	`continuing. Once the user names a winner, call generate_final_spec and stop. Always act ` +
	`through the provided tools; never fabricate a tool result.`

// Completer is the narrow seam Runner calls the LLM through. *llmclient.Client
// satisfies it directly; tests substitute a fake so the state machine can be
// driven without a live Anthropic connection.
type Completer interface {
	Complete(ctx context.Context, req llmclient.Request) (*llmclient.Response, *ideaerrors.Error)
}

// Runner drives one agent turn at a time (spec §4.7). It holds the
// shared, long-lived collaborators; callers supply the per-session state
// and per-turn input to Run.
type Runner struct {
	LLM     Completer
	Store   *store.Store
	Logger  *observability.Logger
	Tracer  *observability.Tracer
	Metrics *observability.Metrics

	Model         string
	MaxTokens     int
	SystemPrompt  string
	Tools         []llmclient.ToolSpec
	MaxIterations int
}

func (r *Runner) maxIterations() int {
	if r.MaxIterations > 0 {
		return r.MaxIterations
	}
	return DefaultMaxIterations
}

// Run executes one turn of the state machine and returns a channel of
// events. The channel is closed after exactly one EventDone is sent, or
// immediately if the context is cancelled before a done event could be
// produced (client disconnect — spec §5/§7: no user-visible error, just
// a log line).
func (r *Runner) Run(ctx context.Context, env *tools.Env, userMessage string) <-chan Event {
	out := make(chan Event, 16)
	go r.run(ctx, env, userMessage, out)
	return out
}

func (r *Runner) run(ctx context.Context, env *tools.Env, userMessage string, out chan<- Event) {
	defer close(out)

	ctx, turnSpan := r.Tracer.Start(ctx, "agentloop.turn")
	defer turnSpan.End()
	ctx = observability.AddSessionID(ctx, env.Session.ID)

	history := append([]models.Message{}, env.Session.History...)
	if userMessage != "" {
		history = append(history, models.Message{Role: models.RoleUser, Content: userMessage})
	}

	maxIter := r.maxIterations()
	outcome := "ok"

	for iteration := 1; iteration <= maxIter; iteration++ {
		ctx := observability.AddRoundNumber(ctx, env.State.CurrentRoundNumber)

		if ctx.Err() != nil {
			r.Logger.Info(ctx, "agent loop cancelled", "iteration", iteration)
			return
		}

		// S0 build_messages
		req := llmclient.Request{
			Model:     r.Model,
			MaxTokens: r.MaxTokens,
			System:    r.SystemPrompt,
			Tools:     r.Tools,
			Messages:  toConversation(history),
		}

		// S1 call_llm
		llmCtx, llmSpan := r.Tracer.TraceLLMRequest(ctx, "anthropic", r.Model)
		resp, cerr := r.LLM.Complete(llmCtx, req)
		llmSpan.End()
		if cerr != nil {
			r.Metrics.RecordAgentLoopTurn(iteration, "llm_error")
			out <- Event{Type: EventError, Data: cerr.ToStream()}
			out <- Event{Type: EventDone, Data: DoneData{Error: true, AwaitingInput: false}}
			return
		}

		// S2 update_token_usage — failure logged, not fatal
		env.Session.TokensUsed += resp.Usage.InputTokens + resp.Usage.OutputTokens
		r.Metrics.RecordLLMTokens(r.Model, resp.Usage.InputTokens, resp.Usage.OutputTokens)
		if serr := r.Store.UpdateSessionTurn(ctx, env.Session.ID, env.Session.TokensUsed, history); serr != nil {
			r.Logger.Warn(ctx, "failed to persist token usage", "error", serr.Error())
		}

		// S3 emit(context_usage)
		usage, _ := tools.GetContextUsage(ctx, env, map[string]any{})
		out <- Event{Type: EventContextUsage, Data: contextUsageFromResult(usage)}

		assistantMsg := models.Message{Role: models.RoleAssistant}
		var toolCalls []llmclient.ToolUse

		// S4 for each response block, in order
		for _, block := range resp.Blocks {
			switch block.Type {
			case llmclient.BlockText:
				assistantMsg.Content += block.Text
				out <- Event{Type: EventAgentText, Data: block.Text}
			case llmclient.BlockToolUse:
				toolCalls = append(toolCalls, *block.ToolUse)
				assistantMsg.ToolCalls = append(assistantMsg.ToolCalls, models.ToolCall{
					ID: block.ToolUse.ID, Name: block.ToolUse.Name, Input: block.ToolUse.Input,
				})
				out <- Event{Type: EventToolCall, Data: ToolCallData{
					Tool: block.ToolUse.Name, InputPreview: previewJSON(block.ToolUse.Input),
				}}
			}
		}

		// S5 pause_turn: the LLM wants another turn before we act on anything
		if resp.StopReason == llmclient.StopPauseTurn {
			history = append(history, assistantMsg)
			continue
		}

		// S6 no tool_use in this response: the conversation is over
		if len(toolCalls) == 0 {
			history = append(history, assistantMsg)
			env.Session.History = history
			if serr := r.Store.UpdateSessionTurn(ctx, env.Session.ID, env.Session.TokensUsed, history); serr != nil {
				r.Logger.Warn(ctx, "failed to persist final history", "error", serr.Error())
			}
			r.Metrics.RecordAgentLoopTurn(iteration, outcome)
			out <- Event{Type: EventDone, Data: DoneData{Error: false, AwaitingInput: false}}
			return
		}

		// S7 append assistant message; execute every requested tool
		history = append(history, assistantMsg)
		toolResultMsg := models.Message{Role: models.RoleUser}
		pause := false

		for _, tc := range toolCalls {
			result, derr := r.dispatchOne(ctx, env, tc)

			switch {
			case derr != nil:
				out <- Event{Type: EventToolError, Data: ToolErrorData{
					Tool: tc.Name, ErrorCode: string(derr.Code), Message: derr.Message,
				}}
			case tc.Name == "present_round" && result["status"] == tools.StatusAwaitingUserScores:
				out <- Event{Type: EventPremises, Data: result["premises"]}
				pause = true
			case tc.Name == "ask_user":
				if input, perr := parseToolInput(tc.Input); perr == nil {
					out <- Event{Type: EventAskUser, Data: input}
				}
				pause = true
			case tc.Name == "generate_final_spec" && result["status"] == tools.StatusOK:
				out <- Event{Type: EventFinalSpec, Data: result["spec_content"]}
				pause = true
			}

			content, _ := json.Marshal(result)
			out <- Event{Type: EventToolResult, Data: string(content)}

			toolResultMsg.ToolResults = append(toolResultMsg.ToolResults, models.ToolResult{
				ToolCallID: tc.ID, Content: string(content), IsError: derr != nil,
			})
		}

		// S8 append tool_result message
		history = append(history, toolResultMsg)

		// S9 pause for user input — processed after all of this turn's tool
		// executions, never between them (spec §5 ordering guarantees)
		if pause {
			env.Session.History = history
			if serr := r.Store.UpdateSessionTurn(ctx, env.Session.ID, env.Session.TokensUsed, history); serr != nil {
				r.Logger.Warn(ctx, "failed to persist paused history", "error", serr.Error())
			}
			r.Metrics.RecordAgentLoopTurn(iteration, "awaiting_input")
			out <- Event{Type: EventDone, Data: DoneData{Error: false, AwaitingInput: true}}
			return
		}

		// S10 continue to the next iteration
	}

	// S11 loop cap exceeded
	exceeded := ideaerrors.New(ideaerrors.CodeAgentLoopExceeded, "agent loop exceeded maximum iterations").
		WithSessionID(env.Session.ID)
	r.Metrics.RecordAgentLoopTurn(maxIter, "exceeded")
	out <- Event{Type: EventError, Data: exceeded.ToStream()}
	out <- Event{Type: EventDone, Data: DoneData{Error: true, AwaitingInput: false}}
}

// dispatchOne executes a single tool call. It isolates malformed JSON
// input (never reaches the handler) and otherwise delegates to
// tools.Dispatch, which isolates handler panics itself (spec §4.7
// safe_execute).
func (r *Runner) dispatchOne(ctx context.Context, env *tools.Env, tc llmclient.ToolUse) (tools.Result, *ideaerrors.Error) {
	start := time.Now()
	ctx = observability.AddToolName(ctx, tc.Name)
	ctx, toolSpan := r.Tracer.TraceToolExecution(ctx, tc.Name)
	defer toolSpan.End()

	input, perr := parseToolInput(tc.Input)
	if perr != nil {
		derr := ideaerrors.New(ideaerrors.CodeValidationError, "malformed tool input JSON").WithToolName(tc.Name)
		r.Tracer.RecordError(toolSpan, derr)
		r.Metrics.RecordToolExecution(tc.Name, "error", time.Since(start).Seconds())
		return tools.Result{"status": tools.StatusError, "error_code": string(derr.Code), "message": derr.Message}, derr
	}

	result, derr := tools.Dispatch(ctx, env, tc.Name, input)
	duration := time.Since(start)
	status := "ok"
	if derr != nil {
		status = "error"
		r.Tracer.RecordError(toolSpan, derr)
		r.Metrics.RecordError("agentloop", string(derr.Code))
		r.Logger.Warn(ctx, "tool execution failed", "error_code", string(derr.Code), "message", derr.Message)
	}
	r.Tracer.SetAttributes(toolSpan, "tool.status", status, "tool.duration_ms", duration.Milliseconds())
	r.Tracer.AddEvent(toolSpan, "tool_dispatched", "tool_name", tc.Name, "status", status)
	r.Metrics.RecordToolExecution(tc.Name, status, duration.Seconds())
	return result, derr
}
