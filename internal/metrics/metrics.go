// Package metrics provides Prometheus metrics collection for the freight service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks HTTP request duration by method, path, and status code.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freight_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	// LegDispatchDuration tracks carrier booking calls by carrier, role and outcome.
	LegDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freight_leg_dispatch_duration_seconds",
			Help:    "Duration of carrier booking calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"carrier", "role", "outcome"},
	)

	// ShipmentsTotal counts finished booking attempts by strategy and outcome.
	ShipmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_shipments_total",
			Help: "Total number of booking attempts",
		},
		[]string{"strategy", "outcome"},
	)

	// RollbacksTotal counts shipments deleted because the main leg failed.
	RollbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "freight_shipment_rollbacks_total",
			Help: "Total number of shipments rolled back after a main leg failure",
		},
	)

	// ClassificationsTotal counts dangerous goods packages by rules, tier and state.
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_dg_classifications_total",
			Help: "Total number of dangerous goods classifications",
		},
		[]string{"rules", "tier", "state"},
	)

	// RateQuotesTotal counts carrier rate calls by carrier and outcome.
	RateQuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freight_rate_requests_total",
			Help: "Total number of carrier rate calls",
		},
		[]string{"carrier", "outcome"},
	)

	// LegsOnHold tracks the legs waiting for an operator, as seen by the last reminder run.
	LegsOnHold = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "freight_legs_on_hold",
			Help: "Number of legs waiting for manual booking",
		},
	)

	// StrandedWaybills tracks reservations never consumed or released.
	StrandedWaybills = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "freight_stranded_waybills",
			Help: "Number of waybill reservations older than the stranded threshold",
		},
	)
)

// Middleware returns an Echo middleware that collects HTTP metrics.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := strconv.Itoa(c.Response().Status)
			HTTPRequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordLegDispatch records one carrier booking call.
func RecordLegDispatch(carrier int, role, outcome string, duration time.Duration) {
	LegDispatchDuration.WithLabelValues(strconv.Itoa(carrier), role, outcome).Observe(duration.Seconds())
}

// RecordShipment records the end of a booking attempt.
func RecordShipment(strategy, outcome string) {
	ShipmentsTotal.WithLabelValues(strategy, outcome).Inc()
}

func RecordRollback() {
	RollbacksTotal.Inc()
}

// RecordClassification records one classified dangerous goods package.
func RecordClassification(rules, tier, state string) {
	ClassificationsTotal.WithLabelValues(rules, tier, state).Inc()
}

// RecordRate records one carrier rate call.
func RecordRate(carrier int, outcome string) {
	RateQuotesTotal.WithLabelValues(strconv.Itoa(carrier), outcome).Inc()
}
