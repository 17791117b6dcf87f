package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var txDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "social_tx_duration_seconds",
	Help:    "Duration of multi-document store transactions",
	Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
}, []string{"op", "status"})

var toggles = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "social_toggle_total",
	Help: "Toggle operations by kind and resulting state",
}, []string{"kind", "state"})

var notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "social_notifications_total",
	Help: "Notification requests by type and outcome",
}, []string{"type", "outcome"})

var httpErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "social_http_errors_total",
	Help: "HTTP error responses by status",
}, []string{"status"})

// ObserveTx 记录事务耗时
func ObserveTx(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	txDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}

// Toggle 记录切换操作，on 表示切换后处于加入状态
func Toggle(kind string, on bool) {
	state := "off"
	if on {
		state = "on"
	}
	toggles.WithLabelValues(kind, state).Inc()
}

// Notification 记录通知处理结果: sent, suppressed, failed
func Notification(kind, outcome string) {
	notifications.WithLabelValues(kind, outcome).Inc()
}

func HTTPError(status string) {
	httpErrors.WithLabelValues(status).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
