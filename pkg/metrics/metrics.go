package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inventory_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Product metrics
	ProductOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inventory_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	ProductStockGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "inventory_product_stock",
			Help: "Current stock level for products",
		},
		[]string{"product_id", "category"},
	)
)

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	ProductOperationsTotal.WithLabelValues(operation).Inc()
}

// SetProductStock updates the gauge for a product's stock level
func SetProductStock(productID uint, category string, stock int) {
	ProductStockGauge.WithLabelValues(strconv.FormatUint(uint64(productID), 10), category).Set(float64(stock))
}

// RemoveProductStock drops the gauge series for a deleted product
func RemoveProductStock(productID uint, category string) {
	ProductStockGauge.DeleteLabelValues(strconv.FormatUint(uint64(productID), 10), category)
}
