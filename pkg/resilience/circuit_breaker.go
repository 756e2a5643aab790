package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Mosco267/exodus-logistics-platform-sub001/pkg/metrics"
)

// Common errors
var (
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// Defaults for circuit breaker settings
const (
	DefaultMaxRequests           uint32        = 5
	DefaultInterval              time.Duration = 60 * time.Second
	DefaultTimeout               time.Duration = 30 * time.Second
	DefaultFailureThreshold      uint32        = 5
	DefaultFailureRatioThreshold float64       = 0.5
	DefaultMinRequestsToTrip     uint32        = 10
)

// CircuitBreakerConfig holds configuration for a circuit breaker
type CircuitBreakerConfig struct {
	Name                  string
	MaxRequests           uint32        // Maximum number of requests allowed in half-open state
	Interval              time.Duration // Time interval to clear failure count (0 = never clear)
	Timeout               time.Duration // How long to wait before transitioning from open to half-open
	FailureThreshold      uint32        // Number of consecutive failures to trip the circuit
	FailureRatioThreshold float64       // Failure ratio to trip (0.5 = 50%)
	MinRequestsToTrip     uint32        // Minimum requests before evaluating ratio
}

// DefaultCircuitBreakerConfig returns sensible defaults
func DefaultCircuitBreakerConfig(name string) *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:                  name,
		MaxRequests:           DefaultMaxRequests,
		Interval:              DefaultInterval,
		Timeout:               DefaultTimeout,
		FailureThreshold:      DefaultFailureThreshold,
		FailureRatioThreshold: DefaultFailureRatioThreshold,
		MinRequestsToTrip:     DefaultMinRequestsToTrip,
	}
}

// CircuitBreaker wraps gobreaker with logging and state metrics
type CircuitBreaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *slog.Logger
}

// NewCircuitBreaker creates a new circuit breaker. Metrics may be nil; state
// changes are then only logged.
func NewCircuitBreaker(config *CircuitBreakerConfig, logger *slog.Logger, m *metrics.Metrics) *CircuitBreaker {
	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= config.FailureThreshold {
				return true
			}

			if counts.Requests >= config.MinRequestsToTrip {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return failureRatio >= config.FailureRatioThreshold
			}

			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)

			if m != nil {
				m.SetCircuitBreakerState(name, stateValue(to))
				if to == gobreaker.StateOpen {
					m.RecordCircuitBreakerTrip(name)
				}
			}
		},
	}

	if m != nil {
		m.SetCircuitBreakerState(config.Name, stateValue(gobreaker.StateClosed))
	}

	return &CircuitBreaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		name:   config.Name,
		logger: logger,
	}
}

// stateValue maps breaker states onto the gauge encoding: 0=closed,
// 1=half-open, 2=open.
func stateValue(s gobreaker.State) int {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Execute runs a function through the circuit breaker
func (c *CircuitBreaker) Execute(ctx context.Context, fn func() (interface{}, error)) (interface{}, error) {
	result, err := c.cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err == gobreaker.ErrOpenState {
		c.logger.Warn("Circuit breaker is open", "name", c.name)
		return nil, fmt.Errorf("service unavailable: circuit breaker open for %s: %w", c.name, ErrCircuitOpen)
	}

	if err == gobreaker.ErrTooManyRequests {
		c.logger.Warn("Circuit breaker: too many requests", "name", c.name)
		return nil, fmt.Errorf("service unavailable: too many requests for %s", c.name)
	}

	return result, err
}

// State returns the current state of the circuit breaker
func (c *CircuitBreaker) State() gobreaker.State {
	return c.cb.State()
}

// Name returns the circuit breaker name
func (c *CircuitBreaker) Name() string {
	return c.name
}

// Counts returns the current counts
func (c *CircuitBreaker) Counts() gobreaker.Counts {
	return c.cb.Counts()
}
