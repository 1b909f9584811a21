package observability

import (
	"context"
	"errors"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK     = "ok"
	ResultClosed = "closed"
	ResultFailed = "failed"
)

// Metrics holds the gforms collectors.
type Metrics struct {
	submissions  *prometheus.CounterVec
	stepDuration prometheus.Histogram
	fillAttempts *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gforms_submissions_total",
				Help: "Total number of finished submissions",
			},
			[]string{"result"},
		),
		stepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gforms_submit_step_seconds",
				Help:    "Duration of the requests of a submission",
				Buckets: prometheus.DefBuckets,
			},
		),
		fillAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gforms_fill_attempts_total",
				Help: "Total number of fill attempts",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.submissions, m.stepDuration, m.fillAttempts)
	return m
}

// Result classifies the outcome of a fill or a submission.
func Result(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrClosedForm):
		return ResultClosed
	}
	return ResultFailed
}

// ObserveFill records a fill attempt.
func (m *Metrics) ObserveFill(err error) {
	m.fillAttempts.WithLabelValues(Result(err)).Inc()
}

// Hooks returns the submission hooks feeding m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnSubmitStep: func(_ context.Context, e *domain.SubmitEvent) {
			m.stepDuration.Observe(e.Duration.Seconds())
		},
		OnSubmitted: func(_ context.Context, e *domain.SubmitEvent) {
			m.submissions.WithLabelValues(Result(e.Err)).Inc()
		},
	}
}
