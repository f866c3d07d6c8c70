package host

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the host's Prometheus collectors.
type Metrics struct {
	Messages *prometheus.CounterVec
	Events   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Messages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "narrative_host_messages_total",
				Help: "Messages received from the author, by type",
			},
			[]string{"type"},
		),
		Events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "narrative_host_events_total",
				Help: "Events sent to the author, by kind",
			},
			[]string{"event"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Messages, m.Events)
	}
	return m
}
