package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters exported by the service. A nil *Metrics is valid and
// records nothing, which keeps tests free of registry setup.
type Metrics struct {
	registry *prometheus.Registry

	uploads             *prometheus.CounterVec
	moderationTriggers  *prometheus.CounterVec
	avatarDecisions     *prometheus.CounterVec
	cleanupSteps        *prometheus.CounterVec
	moderationCallbacks *prometheus.CounterVec
	swallowedQueries    *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "popnow_video_uploads_total",
			Help: "Video uploads by outcome.",
		}, []string{"result"}),
		moderationTriggers: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "popnow_moderation_triggers_total",
			Help: "Video moderation jobs forwarded to the job runner by outcome.",
		}, []string{"result"}),
		avatarDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "popnow_avatar_decisions_total",
			Help: "Avatar moderation decisions.",
		}, []string{"decision"}),
		cleanupSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "popnow_avatar_cleanup_steps_total",
			Help: "Avatar rejection cleanup steps by step and outcome.",
		}, []string{"step", "result"}),
		moderationCallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "popnow_moderation_callbacks_total",
			Help: "Moderation results reported back by the job runner.",
		}, []string{"status"}),
		swallowedQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "popnow_query_errors_total",
			Help: "Read queries that failed and were answered with an empty result.",
		}, []string{"query"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) UploadResult(result string) {
	if m != nil {
		m.uploads.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ModerationTrigger(result string) {
	if m != nil {
		m.moderationTriggers.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AvatarDecision(decision string) {
	if m != nil {
		m.avatarDecisions.WithLabelValues(decision).Inc()
	}
}

func (m *Metrics) CleanupStep(step string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.cleanupSteps.WithLabelValues(step, result).Inc()
}

func (m *Metrics) ModerationCallback(status string) {
	if m != nil {
		m.moderationCallbacks.WithLabelValues(status).Inc()
	}
}

func (m *Metrics) QueryError(query string) {
	if m != nil {
		m.swallowedQueries.WithLabelValues(query).Inc()
	}
}
