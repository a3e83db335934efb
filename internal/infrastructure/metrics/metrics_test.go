package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Submitted()
	m.Submitted()
	m.Transition("completed", "pending")
	m.Login("ok")
	m.Login("wrong-credential")
	m.Login("ok")

	if got := testutil.ToFloat64(m.ApplicationsSubmitted); got != 2 {
		t.Fatalf("submitted = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.StatusTransitions.WithLabelValues("completed", "pending")); got != 1 {
		t.Fatalf("transitions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Logins.WithLabelValues("ok")); got != 2 {
		t.Fatalf("logins ok = %v, want 2", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.Submitted()
	m.Transition("a", "b")
	m.Login("ok")
}
