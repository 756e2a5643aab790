package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Kafka metrics
	KafkaEventsPublished *prometheus.CounterVec
	KafkaPublishDuration *prometheus.HistogramVec

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec

	// Business metrics
	ShipmentsCreated     *prometheus.CounterVec
	StatusTransitions    *prometheus.CounterVec
	NotificationsEmitted *prometheus.CounterVec
	EmailsRestored       prometheus.Counter

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "exodus",
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.KafkaEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "kafka_events_published_total",
			Help:      "Total number of Kafka events published",
		},
		[]string{"service", "topic", "event_type", "status"},
	)

	m.KafkaPublishDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"service", "topic"},
	)

	m.MongoDBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operations_total",
			Help:      "Total number of MongoDB operations",
		},
		[]string{"service", "collection", "operation", "status"},
	)

	m.MongoDBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "collection", "operation"},
	)

	m.ShipmentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "shipments_created_total",
			Help:      "Total number of shipments created",
		},
		[]string{"service", "country"},
	)

	m.StatusTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "shipment_status_transitions_total",
			Help:      "Total number of shipment status transitions",
		},
		[]string{"service", "status"},
	)

	m.NotificationsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "notifications_emitted_total",
			Help:      "Total number of notifications emitted",
		},
		[]string{"service", "type"},
	)

	m.EmailsRestored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "blocked_emails_restored_total",
			Help:        "Total number of blocked emails restored",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "name"},
	)

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.KafkaEventsPublished,
		m.KafkaPublishDuration,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.ShipmentsCreated,
		m.StatusTransitions,
		m.NotificationsEmitted,
		m.EmailsRestored,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordKafkaPublish records a Kafka publish event
func (m *Metrics) RecordKafkaPublish(topic, eventType string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.KafkaEventsPublished.WithLabelValues(m.serviceName, topic, eventType, status).Inc()
	m.KafkaPublishDuration.WithLabelValues(m.serviceName, topic).Observe(duration.Seconds())
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, status).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// RecordShipmentCreated records a shipment creation
func (m *Metrics) RecordShipmentCreated(country string) {
	m.ShipmentsCreated.WithLabelValues(m.serviceName, country).Inc()
}

// RecordStatusTransition records a shipment status transition
func (m *Metrics) RecordStatusTransition(status string) {
	m.StatusTransitions.WithLabelValues(m.serviceName, status).Inc()
}

// RecordNotificationEmitted records a notification creation
func (m *Metrics) RecordNotificationEmitted(notificationType string) {
	m.NotificationsEmitted.WithLabelValues(m.serviceName, notificationType).Inc()
}

// RecordEmailRestored records a blocked email restoration
func (m *Metrics) RecordEmailRestored() {
	m.EmailsRestored.Inc()
}

// SetCircuitBreakerState sets the circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
