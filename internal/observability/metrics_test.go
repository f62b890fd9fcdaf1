package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestToolExecutionCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_tool_executions_total",
			Help: "Test tool execution counter",
		},
		[]string{"tool_name", "status"},
	)
	registry.MustRegister(counter)

	counter.WithLabelValues("generate_premise", "ok").Inc()
	counter.WithLabelValues("generate_premise", "ok").Inc()
	counter.WithLabelValues("ask_user", "error").Inc()

	if count := testutil.CollectAndCount(counter); count != 2 {
		t.Errorf("expected 2 label combinations, got %d", count)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("generate_premise", "ok")); v != 2 {
		t.Errorf("expected generate_premise ok count 2, got %v", v)
	}
}

func TestAgentLoopOutcomeCounter(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_agent_loop_outcomes_total",
			Help: "Test agent loop outcome counter",
		},
		[]string{"outcome"},
	)
	registry.MustRegister(counter)

	counter.WithLabelValues("present_round").Inc()
	counter.WithLabelValues("iterations_exceeded").Inc()

	if v := testutil.ToFloat64(counter.WithLabelValues("present_round")); v != 1 {
		t.Errorf("expected present_round count 1, got %v", v)
	}
}

func TestActiveSessionsGauge(t *testing.T) {
	registry := prometheus.NewRegistry()
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_active_sessions",
		Help: "Test active sessions gauge",
	})
	registry.MustRegister(gauge)

	gauge.Inc()
	gauge.Inc()
	gauge.Dec()

	if v := testutil.ToFloat64(gauge); v != 1 {
		t.Errorf("expected active sessions 1, got %v", v)
	}
}

func TestErrorCounterLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "test_errors_total",
			Help: "Test error counter",
		},
		[]string{"component", "code"},
	)
	registry.MustRegister(counter)

	counter.WithLabelValues("agentloop", "AGENT_LOOP_EXCEEDED").Inc()

	if v := testutil.ToFloat64(counter.WithLabelValues("agentloop", "AGENT_LOOP_EXCEEDED")); v != 1 {
		t.Errorf("expected error count 1, got %v", v)
	}
}
