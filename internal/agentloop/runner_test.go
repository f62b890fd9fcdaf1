package agentloop

import (
	"context"
	"encoding/json"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/ghostpath/sessionrt/internal/ideaerrors"
	"github.com/ghostpath/sessionrt/internal/llmclient"
	"github.com/ghostpath/sessionrt/internal/observability"
	"github.com/ghostpath/sessionrt/internal/sessionstate"
	"github.com/ghostpath/sessionrt/internal/store"
	"github.com/ghostpath/sessionrt/internal/tools"
	"github.com/ghostpath/sessionrt/pkg/models"
)

// fakeCompleter drives Runner.run with a scripted sequence of responses,
// one per call to Complete, grounded on the teacher's LLMProvider seam
// (_examples/haasonsaas-nexus/internal/agent/provider_types.go).
type fakeCompleter struct {
	responses []*llmclient.Response
	err       *ideaerrors.Error
	calls     int
}

func (f *fakeCompleter) Complete(ctx context.Context, req llmclient.Request) (*llmclient.Response, *ideaerrors.Error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.responses) {
		return f.responses[len(f.responses)-1], nil
	}
	r := f.responses[f.calls]
	f.calls++
	return r, nil
}

func newTestRunner(t *testing.T, completer Completer, expectedPersists int) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < expectedPersists; i++ {
		mock.ExpectExec("UPDATE sessions SET tokens_used").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	st := store.FromDB(db)
	logger := observability.NewLogger(observability.LogConfig{})
	tracer, _ := observability.NewTracer(observability.TraceConfig{})
	metrics := observability.NewMetrics()

	return &Runner{
		LLM:           completer,
		Store:         st,
		Logger:        logger,
		Tracer:        tracer,
		Metrics:       metrics,
		Model:         "claude-sonnet-4-5",
		MaxTokens:     4096,
		MaxIterations: DefaultMaxIterations,
	}, mock
}

func newTestEnv() *tools.Env {
	return &tools.Env{
		State:   sessionstate.New(),
		Session: &models.Session{ID: "sess_1"},
	}
}

func drain(ch <-chan Event) []Event {
	var events []Event
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func TestRunEndsTurnOnNoToolUse(t *testing.T) {
	completer := &fakeCompleter{responses: []*llmclient.Response{
		{
			Blocks:     []llmclient.ContentBlock{{Type: llmclient.BlockText, Text: "Let's begin."}},
			StopReason: llmclient.StopEndTurn,
			Usage:      llmclient.Usage{InputTokens: 10, OutputTokens: 5},
		},
	}}
	runner, _ := newTestRunner(t, completer, 2)
	env := newTestEnv()

	events := drain(runner.Run(context.Background(), env, "Reduce checkout queues"))

	last := events[len(events)-1]
	if last.Type != EventDone {
		t.Fatalf("expected final event to be done, got %s", last.Type)
	}
	done := last.Data.(DoneData)
	if done.Error || done.AwaitingInput {
		t.Errorf("expected clean completion, got %+v", done)
	}
	foundText := false
	for _, e := range events {
		if e.Type == EventAgentText {
			foundText = true
		}
	}
	if !foundText {
		t.Errorf("expected an agent_text event, got %+v", events)
	}
}

func TestRunPausesOnAskUser(t *testing.T) {
	askInput, _ := json.Marshal(map[string]any{"question": "Which dimension matters most?"})
	completer := &fakeCompleter{responses: []*llmclient.Response{
		{
			Blocks: []llmclient.ContentBlock{{
				Type:    llmclient.BlockToolUse,
				ToolUse: &llmclient.ToolUse{ID: "tu_1", Name: "ask_user", Input: askInput},
			}},
			StopReason: llmclient.StopToolUse,
		},
	}}
	runner, _ := newTestRunner(t, completer, 2)
	env := newTestEnv()

	events := drain(runner.Run(context.Background(), env, "Reduce checkout queues"))

	last := events[len(events)-1]
	done, ok := last.Data.(DoneData)
	if !ok || !done.AwaitingInput || done.Error {
		t.Fatalf("expected awaiting_input done event, got %+v", last)
	}
	sawAskUser := false
	for _, e := range events {
		if e.Type == EventAskUser {
			sawAskUser = true
		}
	}
	if !sawAskUser {
		t.Errorf("expected an ask_user event, got %+v", events)
	}
}

func TestRunHaltsOnLLMError(t *testing.T) {
	completer := &fakeCompleter{err: ideaerrors.New(ideaerrors.CodeLLMAPIError, "rate limited")}
	runner, _ := newTestRunner(t, completer, 0)
	env := newTestEnv()

	events := drain(runner.Run(context.Background(), env, "Reduce checkout queues"))

	if len(events) != 2 || events[0].Type != EventError || events[1].Type != EventDone {
		t.Fatalf("expected [error, done], got %+v", events)
	}
	done := events[1].Data.(DoneData)
	if !done.Error {
		t.Errorf("expected done.Error=true, got %+v", done)
	}
}

func TestRunExceedsIterationCapWhenLLMNeverPauses(t *testing.T) {
	genInput, _ := json.Marshal(map[string]any{"premise_type": "reframe", "content": "loop forever"})
	loopResponse := &llmclient.Response{
		Blocks: []llmclient.ContentBlock{{
			Type:    llmclient.BlockToolUse,
			ToolUse: &llmclient.ToolUse{ID: "tu_x", Name: "generate_premise", Input: genInput},
		}},
		StopReason: llmclient.StopToolUse,
	}
	completer := &fakeCompleter{responses: []*llmclient.Response{loopResponse}}
	runner, _ := newTestRunner(t, completer, DefaultMaxIterations)
	runner.MaxIterations = DefaultMaxIterations
	env := newTestEnv()

	events := drain(runner.Run(context.Background(), env, "Reduce checkout queues"))

	last := events[len(events)-1]
	done, ok := last.Data.(DoneData)
	if !ok || !done.Error {
		t.Fatalf("expected a terminal error done event, got %+v", last)
	}
	if completer.calls != DefaultMaxIterations {
		t.Errorf("expected exactly %d LLM calls, got %d", DefaultMaxIterations, completer.calls)
	}
}
