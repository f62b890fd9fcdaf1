// Package observability provides monitoring and debugging capabilities for
// GhostPath through metrics, structured logging, and distributed tracing.
//
// # Overview
//
// The observability package implements the three pillars of observability:
//
//  1. Metrics - Quantitative measurements using Prometheus
//  2. Logging - Structured logs with sensitive data redaction
//  3. Tracing - Distributed request tracing with OpenTelemetry
//
// # Architecture
//
// The package is designed to be:
//   - Low-overhead: Minimal performance impact on production systems
//   - Type-safe: Strongly-typed APIs reduce configuration errors
//   - Production-ready: Built-in security (redaction) and reliability features
//   - Standards-based: Uses Prometheus, OpenTelemetry, and slog
//
// # Metrics
//
// Metrics are implemented using Prometheus client libraries and track:
//   - LLM API request latency and token usage
//   - Tool execution performance (per agent-loop dispatch)
//   - Agent loop iteration counts and turn outcomes
//   - Error rates by component and type
//   - Active session counts
//   - HTTP request/response metrics
//   - Database query performance
//
// Example usage:
//
//	metrics := observability.NewMetrics()
//
//	// Track LLM requests
//	start := time.Now()
//	// ... make LLM request ...
//	metrics.RecordLLMTokens("claude-opus-4", inputTokens, outputTokens)
//
//	// Track tool execution
//	start = time.Now()
//	// ... dispatch tool ...
//	metrics.RecordToolExecution("present_round", "ok", time.Since(start).Seconds())
//
// # Logging
//
// Logging is built on Go's slog package with enhancements for:
//   - Automatic session/round/tool correlation pulled from context
//   - Sensitive data redaction (API keys, passwords, tokens)
//   - JSON output for production, text for development
//   - Configurable log levels
//
// Example usage:
//
//	logger := observability.NewLogger(observability.LogConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    AddSource: true,
//	})
//
//	// Add correlation IDs for this turn
//	ctx := observability.AddSessionID(ctx, session.ID)
//	ctx = observability.AddRoundNumber(ctx, state.CurrentRoundNumber)
//
//	// Structured logging with automatic context correlation
//	logger.Info(ctx, "round presented", "premise_count", 3)
//
//	// Error logging with automatic redaction
//	logger.Error(ctx, "llm request failed",
//	    "error", err,
//	    "provider", "anthropic",
//	    "api_key", apiKey, // Automatically redacted
//	)
//
// # Tracing
//
// Distributed tracing uses OpenTelemetry to track requests across the HTTP
// surface, the agent loop, and outbound LLM calls:
//   - End-to-end turn visualization
//   - Performance bottleneck identification
//   - Error correlation across the loop's tool dispatches
//
// Example usage:
//
//	tracer, shutdown := observability.NewTracer(observability.TraceConfig{
//	    ServiceName:    "ghostpath",
//	    ServiceVersion: "1.0.0",
//	    Environment:    "production",
//	    Endpoint:       "localhost:4317", // OTLP collector
//	    SamplingRate:   0.1,              // Sample 10% of traces
//	})
//	defer shutdown(context.Background())
//
//	// Trace an agent-loop turn
//	ctx, turnSpan := tracer.Start(ctx, "agentloop.turn")
//	defer turnSpan.End()
//
//	// Trace LLM requests
//	ctx, llmSpan := tracer.TraceLLMRequest(ctx, "anthropic", "claude-opus-4")
//	defer llmSpan.End()
//	tracer.SetAttributes(llmSpan, "prompt_tokens", 100, "completion_tokens", 500)
//
//	// Trace tool dispatch
//	ctx, toolSpan := tracer.TraceToolExecution(ctx, "present_round")
//	defer toolSpan.End()
//	if err != nil {
//	    tracer.RecordError(toolSpan, err)
//	}
//
// # Context Propagation
//
// All three components integrate with Go's context for automatic correlation:
//
//	// Add IDs to context
//	ctx = observability.AddSessionID(ctx, "sess-456")
//	ctx = observability.AddRoundNumber(ctx, 2)
//	ctx = observability.AddToolName(ctx, "present_round")
//
//	// IDs automatically appear in logs
//	logger.Info(ctx, "dispatching tool") // includes session_id, round_number, tool_name
//
//	// Spans inherit context
//	ctx, span := tracer.Start(ctx, "operation")
//	// Trace context propagates to child spans
//
// # Integration Example
//
// Complete example integrating all three components for one tool dispatch:
//
//	func dispatchOne(ctx context.Context, tc llmclient.ToolUse) (tools.Result, *ideaerrors.Error) {
//	    start := time.Now()
//	    ctx = observability.AddToolName(ctx, tc.Name)
//
//	    ctx, span := tracer.TraceToolExecution(ctx, tc.Name)
//	    defer span.End()
//
//	    result, derr := tools.Dispatch(ctx, env, tc.Name, input)
//	    duration := time.Since(start)
//
//	    status := "ok"
//	    if derr != nil {
//	        status = "error"
//	        tracer.RecordError(span, derr)
//	        metrics.RecordError("agentloop", string(derr.Code))
//	        logger.Warn(ctx, "tool execution failed", "error_code", derr.Code)
//	    }
//	    tracer.SetAttributes(span, "tool.status", status, "tool.duration_ms", duration.Milliseconds())
//	    metrics.RecordToolExecution(tc.Name, status, duration.Seconds())
//	    return result, derr
//	}
//
// # Security Considerations
//
// The logging component automatically redacts:
//   - API keys (Anthropic, OpenAI, generic)
//   - Passwords and secrets
//   - JWT tokens
//   - Bearer tokens
//   - Custom patterns via configuration
//
// Sensitive fields in maps are also redacted:
//   - password, passwd, pwd
//   - secret, api_key, apikey
//   - token, auth, authorization
//   - private_key, privatekey
//
// # Performance
//
// The observability system is designed for minimal overhead:
//   - Metrics use lock-free counters where possible
//   - Logging with slog is highly efficient
//   - Tracing supports sampling to reduce overhead
//
// # Configuration
//
// All components support configuration via structs:
//
//	// Metrics - no configuration needed, auto-registered
//	metrics := observability.NewMetrics()
//
//	// Logging - configurable output, level, format
//	logger := observability.NewLogger(observability.LogConfig{
//	    Level:          os.Getenv("LOG_LEVEL"),
//	    Format:         "json",
//	    AddSource:      true,
//	    RedactPatterns: []string{`custom-secret-\d+`},
//	})
//
//	// Tracing - configurable sampling, endpoint, attributes
//	tracer, shutdown := observability.NewTracer(observability.TraceConfig{
//	    ServiceName:    "ghostpath",
//	    ServiceVersion: version,
//	    Environment:    env,
//	    Endpoint:       os.Getenv("OTEL_ENDPOINT"),
//	    SamplingRate:   0.1,
//	})
//	defer shutdown(context.Background())
//
// # Testing
//
// All components provide testable interfaces:
//   - Metrics can be verified using prometheus/testutil
//   - Logging can write to bytes.Buffer for assertions
//   - Tracing works with a no-op tracer when TraceConfig.Endpoint is empty
//
// # Monitoring Dashboard
//
// The metrics exposed can be used to build dashboards:
//
//	# LLM request latency (95th percentile)
//	histogram_quantile(0.95, rate(ghostpath_llm_request_duration_seconds_bucket[5m]))
//
//	# Error rate
//	rate(ghostpath_errors_total[5m])
//
//	# Active sessions
//	ghostpath_active_sessions
//
//	# Tool execution time
//	rate(ghostpath_tool_execution_duration_seconds_sum[5m]) /
//	rate(ghostpath_tool_execution_duration_seconds_count[5m])
//
// # Further Reading
//
//   - Prometheus best practices: https://prometheus.io/docs/practices/naming/
//   - OpenTelemetry specification: https://opentelemetry.io/docs/specs/otel/
//   - slog documentation: https://pkg.go.dev/log/slog
package observability
