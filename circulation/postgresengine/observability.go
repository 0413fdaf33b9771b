package postgresengine

import (
	"context"
	"math"
	"time"

	"github.com/opencirc/circulation-engine-go/circulation"
)

// logQueryWithDuration logs SQL queries with execution time at debug level if a logger is configured.
func (cs *CirculationStore) logQueryWithDuration(
	ctx context.Context,
	sqlQuery string,
	action string,
	duration time.Duration,
) {
	if cs.contextualLogger != nil {
		cs.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, logAttrDurationMS, cs.toMilliseconds(duration), logAttrQuery, sqlQuery)
		return
	}

	if cs.logger != nil {
		cs.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, cs.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if a logger is configured.
func (cs *CirculationStore) logOperation(ctx context.Context, action string, args ...any) {
	if cs.contextualLogger != nil {
		cs.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if cs.logger != nil {
		cs.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (cs *CirculationStore) logError(
	ctx context.Context,
	message string,
	err error,
	args ...any,
) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if cs.contextualLogger != nil {
		cs.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if cs.logger != nil {
		cs.logger.Error(message, allArgs...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (cs *CirculationStore) logWarn(ctx context.Context, message string, args ...any) {
	if cs.contextualLogger != nil {
		cs.contextualLogger.WarnContext(ctx, message, args...)
		return
	}

	if cs.logger != nil {
		cs.logger.Warn(message, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (cs *CirculationStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (cs *CirculationStore) recordDurationMetricsContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	operation, status string,
) {
	if cs.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := cs.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		cs.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordErrorMetricsContext records error metrics with context if the collector supports it.
func (cs *CirculationStore) recordErrorMetricsContext(ctx context.Context, operation, errorType string) {
	if cs.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	}

	if contextualCollector, ok := cs.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricDatabaseErrors, labels)
	} else {
		cs.metricsCollector.IncrementCounter(metricDatabaseErrors, labels)
	}
}

// recordConcurrencyConflictMetrics records concurrency conflict metrics if a collector is configured.
func (cs *CirculationStore) recordConcurrencyConflictMetrics(ctx context.Context, operation string) {
	if cs.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"conflict_type":   "concurrency",
	}

	if contextualCollector, ok := cs.metricsCollector.(circulation.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricConcurrencyConflicts, labels)
	} else {
		cs.metricsCollector.IncrementCounter(metricConcurrencyConflicts, labels)
	}
}

// startTraceSpan starts a tracing span if the tracing collector is configured.
func (cs *CirculationStore) startTraceSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, SpanContext) {
	if cs.tracingCollector != nil {
		return cs.tracingCollector.StartSpan(ctx, name, attrs)
	}

	return ctx, nil
}

// finishTraceSpanSuccess finishes a span for a successful operation.
func (cs *CirculationStore) finishTraceSpanSuccess(span SpanContext, duration time.Duration) {
	if cs.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)

	cs.tracingCollector.FinishSpan(span, statusSuccess, map[string]string{
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}

// finishTraceSpanError finishes a span with error details.
func (cs *CirculationStore) finishTraceSpanError(span SpanContext, errorType string, duration time.Duration) {
	if cs.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorType, errorType)

	cs.tracingCollector.FinishSpan(span, statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatMilliseconds(duration),
	})
}
