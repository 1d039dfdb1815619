package prometheus

import (
	"time"

	"github.com/abela7/geez-restaurant-sub000/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Entity operation metrics
	IngredientOperationsCounter prometheus.CounterVec
	UnitOperationsCounter       prometheus.CounterVec
	DishCostOperationsCounter   prometheus.CounterVec
)

// Engine-level counters are created up front so the costing engine can
// record them whether or not InitMetrics has run; InitMetrics registers
// them for export.
var (
	// Cost history metrics
	HistoryEntriesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "costing_history_entries_total",
			Help: "Total number of cost history entries written",
		},
	)

	HistorySuppressedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "costing_history_suppressed_total",
			Help: "Total number of cost history entries suppressed below the epsilon",
		},
	)

	// Bulk loader metrics
	LoadAttemptsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "costing_load_attempts_total",
			Help: "Total number of bulk cost-data load attempts",
		},
	)

	LoadRetriesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "costing_load_retries_total",
			Help: "Total number of bulk cost-data load retries",
		},
	)

	LoadFailuresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "costing_load_failures_total",
			Help: "Total number of bulk cost-data loads that exhausted their retries",
		},
	)
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Ingredient metrics
	IngredientOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_ingredient_operations_total",
			Help: "Total number of ingredient operations",
		},
		[]string{"operation"},
	)

	// Measurement unit metrics
	UnitOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_unit_operations_total",
			Help: "Total number of measurement unit operations",
		},
		[]string{"operation"},
	)

	// Dish cost metrics
	DishCostOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_dish_cost_operations_total",
			Help: "Total number of dish cost operations",
		},
		[]string{"operation"},
	)

	// Register the engine-level counters for export
	prometheus.MustRegister(
		HistoryEntriesCounter,
		HistorySuppressedCounter,
		LoadAttemptsCounter,
		LoadRetriesCounter,
		LoadFailuresCounter,
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordIngredientOperation increments the counter for ingredient operations
func RecordIngredientOperation(operation string) {
	IngredientOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordUnitOperation increments the counter for measurement unit operations
func RecordUnitOperation(operation string) {
	UnitOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordDishCostOperation increments the counter for dish cost operations
func RecordDishCostOperation(operation string) {
	DishCostOperationsCounter.WithLabelValues(operation).Inc()
}
