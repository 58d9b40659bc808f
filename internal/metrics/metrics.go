package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PageViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undang_page_views_total",
		Help: "Public invitation page resolutions.",
	}, []string{"status"})

	PageRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "undang_page_render_duration_seconds",
		Help:    "Time from request receipt to rendered invitation page.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	RSVPsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "undang_rsvps_recorded_total",
		Help: "RSVP rows successfully written to the database.",
	})

	SlugProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "undang_slug_probes_total",
		Help: "Slug availability probes by outcome.",
	}, []string{"outcome"})

	NotifyErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "undang_notify_errors_total",
		Help: "Notification delivery failures.",
	})

	InvitationsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "undang_invitations_total",
		Help: "Total number of invitations in the database.",
	})

	UsersTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "undang_users_total",
		Help: "Total number of registered users in the database.",
	})
)
