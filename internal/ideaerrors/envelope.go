package ideaerrors

import "time"

// RESTEnvelope is the `{error:{...}}` body returned by the HTTP transport
// for any typed error (spec §4.1).
type RESTEnvelope struct {
	Error RESTError `json:"error"`
}

// RESTError is the payload nested under the "error" key of a RESTEnvelope.
type RESTError struct {
	Code      Code      `json:"code"`
	Message   string    `json:"message"`
	Category  Category  `json:"category"`
	Severity  Severity  `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
	Context   Context   `json:"context,omitempty"`
}

// ToREST renders e as the REST error envelope.
func (e *Error) ToREST() RESTEnvelope {
	msg := e.Message
	if e.Context.UserMessage != "" {
		msg = e.Context.UserMessage
	}
	return RESTEnvelope{
		Error: RESTError{
			Code:      e.Code,
			Message:   msg,
			Category:  e.Category,
			Severity:  e.Severity,
			Timestamp: e.Timestamp,
			Context:   e.Context,
		},
	}
}

// StreamError is the `data` payload of a `type:"error"` stream event.
type StreamError struct {
	Code        Code   `json:"code"`
	Message     string `json:"message"`
	Severity    Severity `json:"severity"`
	Recoverable bool   `json:"recoverable"`
	ToolName    string `json:"tool_name,omitempty"`
}

// ToStream renders e as the stream error event payload.
func (e *Error) ToStream() StreamError {
	msg := e.Message
	if e.Context.UserMessage != "" {
		msg = e.Context.UserMessage
	}
	return StreamError{
		Code:        e.Code,
		Message:     msg,
		Severity:    e.Severity,
		Recoverable: e.Recoverable(),
		ToolName:    e.Context.ToolName,
	}
}
