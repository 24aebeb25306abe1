package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SessionsStarted      prometheus.Counter
	SessionsCompleted    prometheus.Counter
	SessionsDisqualified *prometheus.CounterVec
	SessionsReset        prometheus.Counter
	ActiveSessions       prometheus.Gauge
	SigningPipelineRuns  *prometheus.CounterVec
	StaffNotifications   *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hirebot_onboarding_sessions_started_total",
			Help: "Total number of onboarding sessions started",
		}),
		SessionsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hirebot_onboarding_sessions_completed_total",
			Help: "Total number of onboarding sessions that reached completion",
		}),
		SessionsDisqualified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hirebot_onboarding_sessions_disqualified_total",
			Help: "Total number of sessions ended by an eligibility rule",
		}, []string{"reason"}),
		SessionsReset: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hirebot_onboarding_sessions_reset_total",
			Help: "Total number of sessions discarded by the reset command",
		}),
		ActiveSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "hirebot_onboarding_active_sessions",
			Help: "Current number of in-progress onboarding sessions",
		}),
		SigningPipelineRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hirebot_signing_pipeline_runs_total",
			Help: "Total signing pipeline executions by outcome",
		}, []string{"outcome"}),
		StaffNotifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hirebot_staff_notifications_total",
			Help: "Total staff summary deliveries by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementStarted() {
	m.SessionsStarted.Inc()
}

func (m *Metrics) IncrementCompleted() {
	m.SessionsCompleted.Inc()
}

func (m *Metrics) IncrementDisqualified(reason string) {
	m.SessionsDisqualified.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncrementReset() {
	m.SessionsReset.Inc()
}

func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}

func (m *Metrics) IncrementSigningRun(outcome string) {
	m.SigningPipelineRuns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementStaffNotification(outcome string) {
	m.StaffNotifications.WithLabelValues(outcome).Inc()
}
