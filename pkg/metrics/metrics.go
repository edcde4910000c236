// Package metrics 提供 Prometheus 指标采集功能
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "octa_bazi"
)

var (
	// HTTP 请求指标
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_size_bytes",
			Help:      "HTTP request size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "HTTP response size in bytes",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	// 业务指标 - 排盘
	ChartComputationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bazi",
			Name:      "chart_computations_total",
			Help:      "Total number of computed charts",
		},
		[]string{"hour_pillar"}, // present/absent
	)

	StrengthLabelTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bazi",
			Name:      "strength_label_total",
			Help:      "Strength classifications by label",
		},
		[]string{"label"},
	)

	NarrativeLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "bazi",
			Name:      "narrative_lookups_total",
			Help:      "Narrative table lookups by outcome",
		},
		[]string{"status"}, // hit/not_found/invalid
	)

	ComputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "bazi",
			Name:      "compute_duration_seconds",
			Help:      "Duration of bazi operations in seconds",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .005, .01, .05},
		},
		[]string{"operation"},
	)

	// 缓存指标
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache requests by result",
		},
		[]string{"cache", "result"}, // hit/miss/error
	)

	CacheLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "loads_total",
			Help:      "Read-through loads after a cache miss",
		},
		[]string{"cache", "outcome"}, // loaded/shared/load_error/write_error
	)

	// 档案指标
	ProfileEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "events_published_total",
			Help:      "Profile events published to the stream",
		},
		[]string{"type", "status"},
	)

	ProfileOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "profile",
			Name:      "operations_total",
			Help:      "Profile operations by outcome",
		},
		[]string{"operation", "status"},
	)

	// 限流
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		},
		[]string{"path"},
	)
)

// BoolLabel 将布尔值转为 present/absent 标签
func BoolLabel(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}
