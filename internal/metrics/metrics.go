package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics holds the application collectors on a private registry. It
// implements workorder.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	WorkOrdersCreated  prometheus.Counter
	BookedValueTotal   prometheus.Counter
	WorkOrderStatus    *prometheus.CounterVec
	WorkOrdersPaid     prometheus.Counter
	WorkOrdersDeleted  prometheus.Counter
	RevenueTotal       prometheus.Counter
	StockConsumedTotal *prometheus.CounterVec

	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		WorkOrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_created_total",
			Help:      "Total number of work orders created",
		}),
		BookedValueTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_booked_value_total",
			Help:      "Sum of totals of created work orders since start, paid or not",
		}),
		WorkOrderStatus: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_order_status_changes_total",
			Help:      "Total number of status updates by target status",
		}, []string{"status"}),
		WorkOrdersPaid: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_paid_total",
			Help:      "Total number of work orders whose payment consumed inventory",
		}),
		WorkOrdersDeleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_deleted_total",
			Help:      "Total number of work orders deleted",
		}),
		RevenueTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Sum of totals of paid work orders since start",
		}),
		StockConsumedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_consumed_total",
			Help:      "Quantity debited from inventory by product",
		}, []string{"product_id"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records duration and count per route template, so ids in the
// path do not create new series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func (m *Metrics) WorkOrderCreated(total decimal.Decimal) {
	m.WorkOrdersCreated.Inc()
	m.BookedValueTotal.Add(total.InexactFloat64())
}

func (m *Metrics) WorkOrderStatusChanged(status models.WorkOrderStatus) {
	m.WorkOrderStatus.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) WorkOrderPaid(total decimal.Decimal) {
	m.WorkOrdersPaid.Inc()
	m.RevenueTotal.Add(total.InexactFloat64())
}

func (m *Metrics) StockConsumed(productID int64, quantity decimal.Decimal) {
	m.StockConsumedTotal.WithLabelValues(strconv.FormatInt(productID, 10)).Add(quantity.InexactFloat64())
}

func (m *Metrics) WorkOrderDeleted() {
	m.WorkOrdersDeleted.Inc()
}
