package postgresengine

import (
	"github.com/opencirc/circulation-engine-go/circulation"
)

// Logger interface for SQL query logging, operational messages, warnings, and error reporting.
type Logger = circulation.Logger

// MetricsCollector interface for collecting store performance and operational metrics.
type MetricsCollector = circulation.MetricsCollector

// SpanContext represents an active tracing span that can be finished and updated with attributes.
type SpanContext = circulation.SpanContext

// TracingCollector interface for collecting distributed tracing information from store operations.
type TracingCollector = circulation.TracingCollector

// ContextualLogger interface for context-aware logging with automatic trace correlation.
type ContextualLogger = circulation.ContextualLogger

// Option defines a functional option for configuring CirculationStore.
type Option func(*CirculationStore) error

// WithTablePrefix prefixes all four table names (items, loans, reservations,
// notifications), e.g. "circ_" yields circ_items and so on.
func WithTablePrefix(prefix string) Option {
	return func(cs *CirculationStore) error {
		if prefix == "" {
			return circulation.ErrEmptyTableName
		}

		cs.tables = tableNamesWithPrefix(prefix)

		return nil
	}
}

// WithLogger sets the logger for the CirculationStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Operation outcomes, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(cs *CirculationStore) error {
		cs.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the CirculationStore.
// The collector will receive performance and operational metrics including
// load/commit durations, commit outcomes, concurrency conflicts, and database errors.
func WithMetrics(collector MetricsCollector) Option {
	return func(cs *CirculationStore) error {
		cs.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the CirculationStore.
// The tracing collector will receive distributed tracing information including
// span creation for load/commit operations, context propagation, and error tracking.
func WithTracing(collector TracingCollector) Option {
	return func(cs *CirculationStore) error {
		cs.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the CirculationStore.
// The contextual logger will receive log messages with context information including
// automatic trace/span correlation when tracing is enabled, enabling unified observability.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(cs *CirculationStore) error {
		cs.contextualLogger = logger
		return nil
	}
}
