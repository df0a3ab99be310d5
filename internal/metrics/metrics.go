package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_compress_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "image_compress_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Compression metrics
var (
	CompressionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_compress_compressions_total",
			Help: "Total number of compression operations",
		},
		[]string{"format", "status"},
	)

	CompressionBytesIn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_compress_bytes_in_total",
			Help: "Total source image bytes received",
		},
	)

	CompressionBytesOut = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "image_compress_bytes_out_total",
			Help: "Total compressed image bytes produced",
		},
	)
)

// Proxy metrics
var (
	ProxyRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_compress_proxy_requests_total",
			Help: "Total number of curl proxy replays",
		},
		[]string{"status"},
	)
)
