package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service counters. A nil *Metrics records nothing.
type Metrics struct {
	ApplicationsSubmitted prometheus.Counter
	StatusTransitions     *prometheus.CounterVec
	Logins                *prometheus.CounterVec
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ApplicationsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "portal_applications_submitted_total",
			Help: "Total number of incorporation applications submitted",
		}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_status_transitions_total",
			Help: "Total number of application status changes",
		}, []string{"from", "to"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) Submitted() {
	if m == nil {
		return
	}
	m.ApplicationsSubmitted.Inc()
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}
