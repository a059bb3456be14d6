package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Orders committed by checkout
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dbs_orders_created_total",
		Help: "Total number of orders committed by checkout",
	})

	// Checkout attempts rejected or failed, by error code
	OrderFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dbs_order_failures_total",
		Help: "Total number of failed checkout attempts by reason",
	}, []string{"reason"})

	// Route guard decisions that did not let the request through
	GuardRedirects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dbs_guard_redirects_total",
		Help: "Route guard redirects by reason",
	}, []string{"reason"})

	// OTP emails handed to the mail provider
	OTPSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dbs_otp_sent_total",
		Help: "OTP emails sent by type",
	}, []string{"type"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dbs_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

var registerOnce sync.Once

// Init registers the collectors on the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			OrdersCreated,
			OrderFailures,
			GuardRedirects,
			OTPSent,
			HTTPRequestDuration,
		)
	})
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Seconds() float64 {
	return time.Since(t.start).Seconds()
}
