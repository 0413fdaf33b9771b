package activeloans

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/shell"
)

// ErrMissingQueryScope occurs when a query names neither an item nor a holder.
var ErrMissingQueryScope = errors.New("active loans query needs an item or holder scope")

// CirculationStore defines the interface needed by the QueryHandler for store operations.
type CirculationStore interface {
	ActiveLoansByItem(ctx context.Context, itemID uuid.UUID) ([]circulation.Loan, error)
	ActiveLoansByHolder(ctx context.Context, holderID uuid.UUID) ([]circulation.Loan, error)
}

// QueryHandler orchestrates the complete query processing workflow.
// It handles infrastructure concerns like store interactions and observability
// instrumentation, and delegates projection logic to the pure core function.
type QueryHandler struct {
	store            CirculationStore
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option defines a functional option for configuring QueryHandler.
type Option func(*QueryHandler)

// WithMetrics sets the metrics collector for the QueryHandler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(h *QueryHandler) {
		h.metricsCollector = collector
	}
}

// WithTracing sets the tracing collector for the QueryHandler.
func WithTracing(collector shell.TracingCollector) Option {
	return func(h *QueryHandler) {
		h.tracingCollector = collector
	}
}

// WithContextualLogging sets the contextual logger for the QueryHandler.
func WithContextualLogging(logger shell.ContextualLogger) Option {
	return func(h *QueryHandler) {
		h.contextualLogger = logger
	}
}

// WithLogging sets the basic logger for the QueryHandler.
func WithLogging(logger shell.Logger) Option {
	return func(h *QueryHandler) {
		h.logger = logger
	}
}

// NewQueryHandler creates a new QueryHandler with the provided store dependency and options.
func NewQueryHandler(store CirculationStore, opts ...Option) QueryHandler {
	handler := QueryHandler{
		store: store,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete query processing workflow: Read -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ActiveLoans, error) {
	queryStart := time.Now()
	ctx, span := shell.StartQuerySpan(ctx, h.tracingCollector, queryType)
	shell.LogQueryStart(ctx, h.logger, h.contextualLogger, queryType)

	loans, err := h.readLoans(ctx, query)
	if err != nil {
		h.recordQueryError(ctx, err, time.Since(queryStart), span)
		return ActiveLoans{}, err
	}

	result := ProjectActiveLoans(loans)

	h.recordQuerySuccess(ctx, time.Since(queryStart), span)

	return result, nil
}

// readLoans dispatches to the read view matching the query scope.
func (h QueryHandler) readLoans(ctx context.Context, query Query) ([]circulation.Loan, error) {
	switch {
	case query.ItemID != uuid.Nil:
		return h.store.ActiveLoansByItem(ctx, query.ItemID)
	case query.HolderID != uuid.Nil:
		return h.store.ActiveLoansByHolder(ctx, query.HolderID)
	default:
		return nil, ErrMissingQueryScope
	}
}

// recordQuerySuccess records successful query execution with observability.
func (h QueryHandler) recordQuerySuccess(ctx context.Context, duration time.Duration, span shell.SpanContext) {
	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, shell.StatusSuccess, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, shell.StatusSuccess, duration, nil)
	shell.LogQuerySuccess(ctx, h.logger, h.contextualLogger, queryType, shell.StatusSuccess, duration)
}

// recordQueryError records failed query execution with observability.
func (h QueryHandler) recordQueryError(ctx context.Context, err error, duration time.Duration, span shell.SpanContext) {
	status := queryErrorStatus(err)
	shell.RecordQueryMetrics(ctx, h.metricsCollector, queryType, status, duration)
	shell.FinishQuerySpan(h.tracingCollector, span, status, duration, err)
	shell.LogQueryError(ctx, h.logger, h.contextualLogger, queryType, err)
}

func queryErrorStatus(err error) string {
	switch {
	case shell.IsCancellationError(err):
		return shell.StatusCanceled
	case shell.IsTimeoutError(err):
		return shell.StatusTimeout
	default:
		return shell.StatusError
	}
}
