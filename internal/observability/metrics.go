package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instrumentation exposed by a GhostPath
// session runtime. It tracks LLM request latency and token usage, tool
// dispatch outcomes, agent loop iteration counts, session lifecycle, and
// the HTTP/database surfaces that sit around them.
type Metrics struct {
	// LLMRequestDuration measures latency of calls to the LLM client wrapper.
	// Labels: model, status (ok|retried|error)
	LLMRequestDuration *prometheus.HistogramVec

	// LLMRequestCounter counts LLM requests by model and outcome.
	// Labels: model, status
	LLMRequestCounter *prometheus.CounterVec

	// LLMRetryCounter counts retry attempts made by the LLM client wrapper.
	// Labels: model, reason (rate_limit|transient)
	LLMRetryCounter *prometheus.CounterVec

	// LLMTokensUsed counts tokens consumed, split by direction.
	// Labels: model, type (input|output)
	LLMTokensUsed *prometheus.CounterVec

	// ToolExecutionCounter counts tool dispatches by tool name and outcome.
	// Labels: tool_name, status (ok|error|unknown_tool)
	ToolExecutionCounter *prometheus.CounterVec

	// ToolExecutionDuration measures tool handler latency.
	// Labels: tool_name
	ToolExecutionDuration *prometheus.HistogramVec

	// AgentLoopIterations records how many iterations a session's turn took
	// before pausing or completing.
	// Buckets chosen around the MAX_ITERATIONS default of 50.
	AgentLoopIterations prometheus.Histogram

	// AgentLoopOutcome counts how a loop invocation ended.
	// Labels: outcome (ask_user|present_round|final_spec|iterations_exceeded|error)
	AgentLoopOutcome *prometheus.CounterVec

	// ErrorCounter counts typed errors surfaced by the error model.
	// Labels: component, code
	ErrorCounter *prometheus.CounterVec

	// ActiveSessions tracks the number of sessions currently in memory.
	ActiveSessions prometheus.Gauge

	// SessionDuration measures session lifetime from creation to resolution.
	// Buckets: 60s .. 8h
	SessionDuration prometheus.Histogram

	// HTTPRequestDuration measures request latency by route.
	// Labels: method, path, status_code
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestCounter counts HTTP requests.
	// Labels: method, path, status_code
	HTTPRequestCounter *prometheus.CounterVec

	// DatabaseQueryDuration measures store adapter query latency.
	// Labels: operation, table
	DatabaseQueryDuration *prometheus.HistogramVec

	// DatabaseQueryCounter counts store adapter queries by outcome.
	// Labels: operation, table, status
	DatabaseQueryCounter *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics. Call once at
// application startup; the returned *Metrics is safe for concurrent use.
func NewMetrics() *Metrics {
	return &Metrics{
		LLMRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghostpath_llm_request_duration_seconds",
				Help:    "Duration of LLM API requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"model", "status"},
		),
		LLMRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_llm_requests_total",
				Help: "Total number of LLM requests by model and outcome",
			},
			[]string{"model", "status"},
		),
		LLMRetryCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_llm_retries_total",
				Help: "Total number of LLM client retry attempts by reason",
			},
			[]string{"model", "reason"},
		),
		LLMTokensUsed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_llm_tokens_total",
				Help: "Total number of tokens used by model and type",
			},
			[]string{"model", "type"},
		),
		ToolExecutionCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_tool_executions_total",
				Help: "Total number of tool executions by tool name and status",
			},
			[]string{"tool_name", "status"},
		),
		ToolExecutionDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghostpath_tool_execution_duration_seconds",
				Help:    "Duration of tool executions in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"tool_name"},
		),
		AgentLoopIterations: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ghostpath_agent_loop_iterations",
				Help:    "Number of agent loop iterations consumed per turn",
				Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 50},
			},
		),
		AgentLoopOutcome: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_agent_loop_outcomes_total",
				Help: "Total number of agent loop invocations by how they ended",
			},
			[]string{"outcome"},
		),
		ErrorCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_errors_total",
				Help: "Total number of errors by component and error code",
			},
			[]string{"component", "code"},
		),
		ActiveSessions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "ghostpath_active_sessions",
				Help: "Current number of sessions held in memory",
			},
		),
		SessionDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ghostpath_session_duration_seconds",
				Help:    "Duration of sessions in seconds, from creation to resolution",
				Buckets: []float64{60, 300, 600, 1800, 3600, 7200, 14400, 28800},
			},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghostpath_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		DatabaseQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ghostpath_database_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"operation", "table"},
		),
		DatabaseQueryCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ghostpath_database_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table", "status"},
		),
	}
}

// RecordLLMRequest records the outcome and latency of an LLM call.
func (m *Metrics) RecordLLMRequest(model, status string, durationSeconds float64) {
	m.LLMRequestCounter.WithLabelValues(model, status).Inc()
	m.LLMRequestDuration.WithLabelValues(model, status).Observe(durationSeconds)
}

// RecordLLMRetry records a retry attempt by the LLM client wrapper.
func (m *Metrics) RecordLLMRetry(model, reason string) {
	m.LLMRetryCounter.WithLabelValues(model, reason).Inc()
}

// RecordLLMTokens records token usage for a completed LLM call.
func (m *Metrics) RecordLLMTokens(model string, inputTokens, outputTokens int) {
	m.LLMTokensUsed.WithLabelValues(model, "input").Add(float64(inputTokens))
	m.LLMTokensUsed.WithLabelValues(model, "output").Add(float64(outputTokens))
}

// RecordToolExecution records metrics for a single tool dispatch.
func (m *Metrics) RecordToolExecution(toolName, status string, durationSeconds float64) {
	m.ToolExecutionCounter.WithLabelValues(toolName, status).Inc()
	m.ToolExecutionDuration.WithLabelValues(toolName).Observe(durationSeconds)
}

// RecordAgentLoopTurn records how many iterations a turn consumed and how it ended.
func (m *Metrics) RecordAgentLoopTurn(iterations int, outcome string) {
	m.AgentLoopIterations.Observe(float64(iterations))
	m.AgentLoopOutcome.WithLabelValues(outcome).Inc()
}

// RecordError increments the error counter for a given component and error code.
func (m *Metrics) RecordError(component, code string) {
	m.ErrorCounter.WithLabelValues(component, code).Inc()
}

// SessionStarted increments the active sessions gauge.
func (m *Metrics) SessionStarted() {
	m.ActiveSessions.Inc()
}

// SessionEnded decrements the active sessions gauge and records session duration.
func (m *Metrics) SessionEnded(durationSeconds float64) {
	m.ActiveSessions.Dec()
	m.SessionDuration.Observe(durationSeconds)
}

// RecordHTTPRequest records metrics for an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, durationSeconds float64) {
	m.HTTPRequestCounter.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(durationSeconds)
}

// RecordDatabaseQuery records metrics for a store adapter query.
func (m *Metrics) RecordDatabaseQuery(operation, table, status string, durationSeconds float64) {
	m.DatabaseQueryCounter.WithLabelValues(operation, table, status).Inc()
	m.DatabaseQueryDuration.WithLabelValues(operation, table).Observe(durationSeconds)
}
