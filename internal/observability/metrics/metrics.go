package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the webhook and
// messaging flows. A nil receiver disables every observation.
type ConversationMetrics struct {
	inboundTotal  *prometheus.CounterVec
	turnsTotal    *prometheus.CounterVec
	outboundTotal *prometheus.CounterVec
	turnLatency   *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volky",
			Subsystem: "messaging",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound WhatsApp webhooks",
		}, []string{"status"}),
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volky",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Conversation turns by matched intent",
		}, []string{"intent"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "volky",
			Subsystem: "messaging",
			Name:      "outbound_total",
			Help:      "Total outbound WhatsApp sends",
		}, []string{"kind", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "volky",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of one conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.turnsTotal, m.outboundTotal, m.turnLatency)
	return m
}

func (m *ConversationMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) ObserveTurn(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent).Inc()
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *ConversationMetrics) ObserveOutbound(kind, status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(kind, status).Inc()
}
