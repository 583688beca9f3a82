package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values shared by all collectors.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var (
	// RequestsTotal - 총 요청 수
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sre_api_requests_total",
			Help: "Total number of HTTP requests by path, method and status code",
		},
		[]string{"path", "method", "status"},
	)

	// RequestDuration - 요청 처리 시간
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sre_api_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	// AWSAPICalls - AWS API 호출 성공/실패
	AWSAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sre_api_aws_api_calls_total",
			Help: "Total number of AWS API calls by service, operation and outcome",
		},
		[]string{"service", "operation", "status"},
	)
)
