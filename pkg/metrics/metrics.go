package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes orchestration counters in Prometheus format.
type Recorder struct {
	stepsDispatched *prometheus.CounterVec
	stepsCompleted  *prometheus.CounterVec
	stepsFailed     *prometheus.CounterVec
	plansCompleted  prometheus.Counter
}

func NewRecorder(namespace string) *Recorder {
	if namespace == "" {
		namespace = "agentplan"
	}
	return &Recorder{
		stepsDispatched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_dispatched_total",
				Help:      "Steps dispatched to agents, by agent name",
			},
			[]string{"agent"},
		),
		stepsCompleted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_completed_total",
				Help:      "Steps completed successfully, by agent name",
			},
			[]string{"agent"},
		),
		stepsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "steps_failed_total",
				Help:      "Steps that returned a failed action response, by agent name",
			},
			[]string{"agent"},
		),
		plansCompleted: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "plans_completed_total",
				Help:      "Plans whose steps have all reached a terminal status",
			},
		),
	}
}

func (r *Recorder) StepDispatched(agent string) {
	if r != nil {
		r.stepsDispatched.WithLabelValues(agent).Inc()
	}
}

func (r *Recorder) StepCompleted(agent string) {
	if r != nil {
		r.stepsCompleted.WithLabelValues(agent).Inc()
	}
}

func (r *Recorder) StepFailed(agent string) {
	if r != nil {
		r.stepsFailed.WithLabelValues(agent).Inc()
	}
}

func (r *Recorder) PlanCompleted() {
	if r != nil {
		r.plansCompleted.Inc()
	}
}
