package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WeatherFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatheralert_weather_fetches_total",
			Help: "Total upstream weather provider fetches",
		},
		[]string{"location", "status"},
	)

	WeatherFetchLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatheralert_weather_fetch_latency_seconds",
			Help:    "Weather provider fetch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"location"},
	)

	ReportCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatheralert_report_cache_hits_total",
			Help: "Weather report lookups served from the store",
		},
	)

	ReportCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatheralert_report_cache_misses_total",
			Help: "Weather report lookups that required an upstream fetch",
		},
	)

	AlertsEvaluatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatheralert_alerts_evaluated_total",
			Help: "Alert evaluations by outcome",
		},
		[]string{"outcome"}, // triggered, not_triggered, skipped, failed
	)

	NotificationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatheralert_notifications_created_total",
			Help: "Notifications persisted and published",
		},
	)

	SchedulerTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatheralert_scheduler_ticks_total",
			Help: "Scheduler ticks by status",
		},
		[]string{"status"}, // run, skipped
	)
)
