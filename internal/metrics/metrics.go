// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vending"

// Collector records machine and HTTP metrics. It satisfies
// machine.MetricsCollector.
type Collector struct {
	operationDuration *prometheus.HistogramVec
	operationResults  *prometheus.CounterVec
	coinsDeposited    *prometheus.CounterVec
	unitsSold         *prometheus.CounterVec
	salesAmount       prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewCollector creates the instruments and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "machine", Name: "operation_duration_seconds",
			Help:    "Duration of machine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		operationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "machine", Name: "operations_total",
			Help: "Machine operations by result code.",
		}, []string{"operation", "result"}),
		coinsDeposited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "machine", Name: "coins_deposited_total",
			Help: "Accepted coins by denomination in cents.",
		}, []string{"coin"}),
		unitsSold: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "machine", Name: "units_sold_total",
			Help: "Product units sold.",
		}, []string{"product_id"}),
		salesAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "machine", Name: "sales_cents_total",
			Help: "Total amount spent on purchases in cents.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.operationDuration,
		c.operationResults,
		c.coinsDeposited,
		c.unitsSold,
		c.salesAmount,
		c.httpRequests,
		c.httpDuration,
	)
	return c
}

func (c *Collector) RecordOperationDuration(operation string, duration time.Duration) {
	c.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (c *Collector) RecordOperationResult(operation, result string) {
	c.operationResults.WithLabelValues(operation, result).Inc()
}

func (c *Collector) RecordCoinDeposited(coin int64) {
	c.coinsDeposited.WithLabelValues(strconv.FormatInt(coin, 10)).Inc()
}

func (c *Collector) RecordUnitsSold(productID uuid.UUID, quantity, amount int64) {
	c.unitsSold.WithLabelValues(productID.String()).Add(float64(quantity))
	c.salesAmount.Add(float64(amount))
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
