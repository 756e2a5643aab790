package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/resilience"
)

// EmailEvent is the payload published for downstream email delivery.
// Delivery itself is out of process; this service only emits the event.
type EmailEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// EmailPublisher emits email events to the delivery pipeline
type EmailPublisher interface {
	PublishEmail(ctx context.Context, event *EmailEvent) error
	Close() error
}

// Config holds Kafka publisher configuration
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// DefaultConfig returns default publisher configuration
func DefaultConfig() *Config {
	return &Config{
		Brokers:      []string{"localhost:9092"},
		Topic:        "notification-emails",
		BatchTimeout: 10 * time.Millisecond,
	}
}

// KafkaPublisher publishes email events to Kafka behind a circuit breaker.
// Publish failures trip the breaker so a dead broker degrades to fast
// local failures instead of stalling request handlers.
type KafkaPublisher struct {
	writer  *kafka.Writer
	breaker *resilience.CircuitBreaker
	topic   string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewKafkaPublisher creates a new KafkaPublisher
func NewKafkaPublisher(config *Config, logger *slog.Logger, m *metrics.Metrics) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: config.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	breaker := resilience.NewCircuitBreaker(
		resilience.DefaultCircuitBreakerConfig("email-publisher"),
		logger,
		m,
	)

	return &KafkaPublisher{
		writer:  writer,
		breaker: breaker,
		topic:   config.Topic,
		logger:  logger,
		metrics: m,
	}
}

// NewEmailEvent builds an email event with a fresh id and timestamp
func NewEmailEvent(eventType, recipient, subject, body string) *EmailEvent {
	return &EmailEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
		Timestamp: time.Now().UTC(),
	}
}

// PublishEmail publishes an email event, keyed by recipient so per-address
// ordering is preserved
func (p *KafkaPublisher) PublishEmail(ctx context.Context, event *EmailEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal email event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.Recipient),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
			{Key: "event-id", Value: []byte(event.ID)},
		},
		Time: event.Timestamp,
	}

	start := time.Now()
	_, err = p.breaker.Execute(ctx, func() (interface{}, error) {
		return nil, p.writer.WriteMessages(ctx, msg)
	})

	if p.metrics != nil {
		p.metrics.RecordKafkaPublish(p.topic, event.Type, err == nil, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("failed to publish email event to topic %s: %w", p.topic, err)
	}
	return nil
}

// Close closes the underlying writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
