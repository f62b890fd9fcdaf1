// Package ideaerrors implements the typed error hierarchy shared by every
// layer of a GhostPath session runtime: tool handlers, the agent loop, the
// LLM client wrapper, the store adapter, and the HTTP transport. Every
// error that can reach a client carries a stable machine-readable code, a
// category, a severity, an HTTP status hint, and a small context bag, and
// knows how to render itself as either a REST response body or a stream
// event.
package ideaerrors

import (
	"fmt"
	"time"
)

// Code is a stable, machine-readable error identifier.
type Code string

const (
	CodeValidationError         Code = "VALIDATION_ERROR"
	CodeGatesNotSatisfied       Code = "GATES_NOT_SATISFIED"
	CodeRoundBufferFull         Code = "ROUND_BUFFER_FULL"
	CodeAxiomNotChallenged      Code = "AXIOM_NOT_CHALLENGED"
	CodeNegativeContextMissing  Code = "NEGATIVE_CONTEXT_MISSING"
	CodeIncompleteRound         Code = "INCOMPLETE_ROUND"
	CodeUntestedPremises        Code = "UNTESTED_PREMISES"
	CodeTooObvious              Code = "TOO_OBVIOUS"
	CodeInvalidIndex            Code = "INVALID_INDEX"
	CodeResourceNotFound        Code = "RESOURCE_NOT_FOUND"
	CodeDatabaseError           Code = "DATABASE_ERROR"
	CodeLLMAPIError             Code = "LLM_API_ERROR"
	CodeConcurrencyConflict     Code = "CONCURRENCY_CONFLICT"
	CodeAgentLoopExceeded       Code = "AGENT_LOOP_EXCEEDED"
	CodeToolExecutionError      Code = "TOOL_EXECUTION_ERROR"
	CodeUnknownTool             Code = "UNKNOWN_TOOL"
)

// Category groups error codes by the subsystem that raised them.
type Category string

const (
	CategoryValidation       Category = "validation"
	CategoryBusinessRule     Category = "business_rule"
	CategoryResourceNotFound Category = "resource_not_found"
	CategoryDatabase         Category = "database"
	CategoryExternalAPI      Category = "external_api"
	CategoryInternal         Category = "internal"
	CategoryConflict         Category = "conflict"
	CategoryTimeout          Category = "timeout"
)

// Severity indicates how serious an error is, and whether the condition
// it describes is something the LLM can recover from within the same turn.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

type codeDefaults struct {
	category   Category
	severity   Severity
	httpStatus int
}

var defaultsByCode = map[Code]codeDefaults{
	CodeValidationError:        {CategoryValidation, SeverityError, 400},
	CodeGatesNotSatisfied:      {CategoryBusinessRule, SeverityError, 400},
	CodeRoundBufferFull:        {CategoryBusinessRule, SeverityError, 400},
	CodeAxiomNotChallenged:     {CategoryBusinessRule, SeverityError, 400},
	CodeNegativeContextMissing: {CategoryBusinessRule, SeverityError, 400},
	CodeIncompleteRound:        {CategoryBusinessRule, SeverityError, 400},
	CodeUntestedPremises:       {CategoryBusinessRule, SeverityError, 400},
	CodeTooObvious:             {CategoryBusinessRule, SeverityInfo, 200},
	CodeInvalidIndex:           {CategoryValidation, SeverityError, 400},
	CodeResourceNotFound:       {CategoryResourceNotFound, SeverityError, 404},
	CodeDatabaseError:          {CategoryDatabase, SeverityCritical, 503},
	CodeLLMAPIError:            {CategoryExternalAPI, SeverityError, 503},
	CodeConcurrencyConflict:    {CategoryConflict, SeverityWarning, 409},
	CodeAgentLoopExceeded:      {CategoryInternal, SeverityCritical, 500},
	CodeToolExecutionError:     {CategoryInternal, SeverityError, 500},
	CodeUnknownTool:            {CategoryValidation, SeverityError, 400},
}

// Context carries the structured metadata an Error accumulates as it
// passes through the session runtime.
type Context struct {
	SessionID        string         `json:"session_id,omitempty"`
	ToolName         string         `json:"tool_name,omitempty"`
	RoundNumber      int            `json:"round_number,omitempty"`
	RetryAfterMs     int64          `json:"retry_after_ms,omitempty"`
	UserMessage      string         `json:"user_message,omitempty"`
	Debug            map[string]any `json:"debug,omitempty"`
}

// Error is the typed error value that flows through the whole runtime.
type Error struct {
	Code       Code
	Message    string
	Category   Category
	Severity   Severity
	HTTPStatus int
	Context    Context
	Cause      error
	Timestamp  time.Time
}

// New builds an Error for code with the category/severity/status defaults
// registered for that code. Unknown codes default to an internal, critical,
// 500 error so a missing entry fails loud rather than silently mapping to
// a misleading status.
func New(code Code, message string) *Error {
	d, ok := defaultsByCode[code]
	if !ok {
		d = codeDefaults{CategoryInternal, SeverityCritical, 500}
	}
	return &Error{
		Code:       code,
		Message:    message,
		Category:   d.category,
		Severity:   d.severity,
		HTTPStatus: d.httpStatus,
		Timestamp:  time.Now(),
	}
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Context.ToolName != "" {
		return fmt.Sprintf("[%s] %s (tool=%s)", e.Code, e.Message, e.Context.ToolName)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As chains.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Recoverable reports whether the LLM (or the client) can reasonably
// continue after seeing this error, per the stream envelope contract.
func (e *Error) Recoverable() bool {
	return e.Severity == SeverityInfo || e.Severity == SeverityWarning
}

// WithSessionID sets the session id context field and returns e for chaining.
func (e *Error) WithSessionID(id string) *Error {
	e.Context.SessionID = id
	return e
}

// WithToolName sets the tool name context field.
func (e *Error) WithToolName(name string) *Error {
	e.Context.ToolName = name
	return e
}

// WithRoundNumber sets the round number context field.
func (e *Error) WithRoundNumber(n int) *Error {
	e.Context.RoundNumber = n
	return e
}

// WithRetryAfterMs sets the retry-after hint, in milliseconds.
func (e *Error) WithRetryAfterMs(ms int64) *Error {
	e.Context.RetryAfterMs = ms
	return e
}

// WithUserMessage overrides the message shown to the end user, leaving
// Message (the internal/debug message) untouched.
func (e *Error) WithUserMessage(msg string) *Error {
	e.Context.UserMessage = msg
	return e
}

// WithDebug attaches a debug key/value to the context bag, lazily creating
// the map on first use.
func (e *Error) WithDebug(key string, value any) *Error {
	if e.Context.Debug == nil {
		e.Context.Debug = make(map[string]any)
	}
	e.Context.Debug[key] = value
	return e
}

// WithCause attaches an underlying error for Unwrap to expose.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// From wraps any error as a TOOL_EXECUTION_ERROR if it is not already a
// *Error, preserving the original for Unwrap. This is the backstop used by
// the tool dispatcher's exception isolation (spec §4.7 safe_execute).
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if ge, ok := err.(*Error); ok {
		return ge
	}
	return New(CodeToolExecutionError, err.Error()).WithCause(err)
}
