// Package metrics expone métricas Prometheus del servicio:
//   - http_request_total: counter por method/path/status
//   - http_request_duration_seconds: histograma por method/path
//   - http_request_in_flight: gauge de requests concurrentes
//   - doses_recorded_total: counter de tomas registradas
//   - expiry_alerts_sent_total: counter de alertas enviadas por el barrido
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	DosesRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "doses_recorded_total",
			Help: "Total dose log entries recorded",
		},
	)

	ExpiryAlertsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_alerts_sent_total",
			Help: "Expiry/low-stock alerts sent by the sweep",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(DosesRecordedTotal)
	prometheus.MustRegister(ExpiryAlertsSentTotal)
}
