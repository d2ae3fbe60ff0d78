package assistant

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the chat assistant.
type Metrics struct {
	ChatsTotal   *prometheus.CounterVec
	ChatDuration *prometheus.HistogramVec
	LLMCalls     prometheus.Counter
	LLMTokensIn  prometheus.Counter
	LLMTokensOut prometheus.Counter
	LLMDuration  prometheus.Histogram
}

// NewMetrics registers and returns assistant metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ChatsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locono_chat_requests_total",
			Help: "Total chat requests by outcome.",
		}, []string{"outcome"}),
		ChatDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locono_chat_duration_seconds",
			Help:    "End-to-end chat handling time in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		}, []string{"outcome"}),
		LLMCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locono_llm_calls_total",
			Help: "Total successful LLM provider calls.",
		}),
		LLMTokensIn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locono_llm_tokens_input_total",
			Help: "Total LLM input tokens consumed.",
		}),
		LLMTokensOut: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "locono_llm_tokens_output_total",
			Help: "Total LLM output tokens consumed.",
		}),
		LLMDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "locono_llm_call_duration_seconds",
			Help:    "Duration of individual LLM calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8), // 0.25s .. ~32s
		}),
	}

	reg.MustRegister(
		m.ChatsTotal,
		m.ChatDuration,
		m.LLMCalls,
		m.LLMTokensIn,
		m.LLMTokensOut,
		m.LLMDuration,
	)

	return m
}

// Hooks returns Hooks that update the corresponding metrics.
func (m *Metrics) Hooks() Hooks {
	return Hooks{
		OnLLMCall: func(inputTokens, outputTokens int, duration float64) {
			m.LLMCalls.Inc()
			m.LLMTokensIn.Add(float64(inputTokens))
			m.LLMTokensOut.Add(float64(outputTokens))
			m.LLMDuration.Observe(duration)
		},
		OnComplete: func(outcome Outcome, duration float64) {
			m.ChatsTotal.WithLabelValues(string(outcome)).Inc()
			m.ChatDuration.WithLabelValues(string(outcome)).Observe(duration)
		},
	}
}
