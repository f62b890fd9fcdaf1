package ideaerrors

import "testing"

func TestNewAppliesDefaults(t *testing.T) {
	cases := []struct {
		code       Code
		wantStatus int
		wantSev    Severity
	}{
		{CodeGatesNotSatisfied, 400, SeverityError},
		{CodeTooObvious, 200, SeverityInfo},
		{CodeDatabaseError, 503, SeverityCritical},
		{CodeConcurrencyConflict, 409, SeverityWarning},
		{CodeAgentLoopExceeded, 500, SeverityCritical},
	}
	for _, c := range cases {
		err := New(c.code, "boom")
		if err.HTTPStatus != c.wantStatus {
			t.Errorf("%s: status = %d, want %d", c.code, err.HTTPStatus, c.wantStatus)
		}
		if err.Severity != c.wantSev {
			t.Errorf("%s: severity = %s, want %s", c.code, err.Severity, c.wantSev)
		}
	}
}

func TestRecoverable(t *testing.T) {
	if !New(CodeTooObvious, "too obvious").Recoverable() {
		t.Error("info severity should be recoverable")
	}
	if New(CodeDatabaseError, "db down").Recoverable() {
		t.Error("critical severity should not be recoverable")
	}
}

func TestWithChainAndUserMessageOverride(t *testing.T) {
	err := New(CodeLLMAPIError, "upstream said no").
		WithSessionID("sess-1").
		WithRetryAfterMs(2000).
		WithUserMessage("please try again shortly")

	rest := err.ToREST()
	if rest.Error.Message != "please try again shortly" {
		t.Errorf("REST message = %q, want user message override", rest.Error.Message)
	}
	if rest.Error.Context.SessionID != "sess-1" {
		t.Errorf("missing session id in context")
	}
	if rest.Error.Context.RetryAfterMs != 2000 {
		t.Errorf("missing retry_after_ms in context")
	}

	stream := err.ToStream()
	if stream.Message != "please try again shortly" {
		t.Errorf("stream message = %q, want user message override", stream.Message)
	}
	if stream.Recoverable {
		t.Errorf("LLM_API_ERROR should not be recoverable by default")
	}
}

func TestFromWrapsPlainError(t *testing.T) {
	plain := New(CodeValidationError, "already typed")
	if From(plain) != plain {
		t.Error("From should pass through an existing *Error unchanged")
	}

	wrapped := From(errString("disk on fire"))
	if wrapped.Code != CodeToolExecutionError {
		t.Errorf("From(plain error) code = %s, want %s", wrapped.Code, CodeToolExecutionError)
	}
	if wrapped.Unwrap() == nil {
		t.Error("From should preserve the original error via Unwrap")
	}
}

type errString string

func (e errString) Error() string { return string(e) }
