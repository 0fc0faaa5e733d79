package metrics

import "github.com/prometheus/client_golang/prometheus"

// AgentMetrics exposes counters/histograms for the voice agent flows.
type AgentMetrics struct {
	toolCalls         *prometheus.CounterVec
	submissions       *prometheus.CounterVec
	submissionLatency *prometheus.HistogramVec
	sessions          *prometheus.CounterVec
}

func NewAgentMetrics(reg prometheus.Registerer) *AgentMetrics {
	m := &AgentMetrics{
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sylvia",
			Subsystem: "agent",
			Name:      "tool_calls_total",
			Help:      "Total tool invocations from the conversational runtime",
		}, []string{"tool", "status"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sylvia",
			Subsystem: "crm",
			Name:      "submissions_total",
			Help:      "Total CRM webhook submission attempts",
		}, []string{"outcome", "trigger"}),
		submissionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sylvia",
			Subsystem: "crm",
			Name:      "submission_latency_seconds",
			Help:      "Latency of CRM webhook submissions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"trigger"}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sylvia",
			Subsystem: "agent",
			Name:      "sessions_total",
			Help:      "Total conversation sessions by end state",
		}, []string{"end_state"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.toolCalls, m.submissions, m.submissionLatency, m.sessions)
	return m
}

func (m *AgentMetrics) ObserveToolCall(tool, status string) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(tool, status).Inc()
}

func (m *AgentMetrics) ObserveSubmission(outcome, trigger string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome, trigger).Inc()
}

func (m *AgentMetrics) ObserveSubmissionLatency(trigger string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionLatency.WithLabelValues(trigger).Observe(seconds)
}

func (m *AgentMetrics) ObserveSessionEnd(endState string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(endState).Inc()
}
