package additem

import (
	"context"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/shell"
)

// CirculationStore defines the interface needed by the CommandHandler for store operations.
type CirculationStore interface {
	InsertItem(ctx context.Context, item circulation.Item) error
}

// CommandHandler creates catalog items. There is no optimistic concurrency here:
// the insert either claims the ID or fails with ErrItemAlreadyExists, so the
// handler runs without the retry loop the circulation commands use.
type CommandHandler struct {
	store            CirculationStore
	eventSink        shell.EventSink
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithEventSink sets the sink receiving domain events after a successful insert.
func WithEventSink(sink shell.EventSink) Option {
	return func(h *CommandHandler) {
		h.eventSink = sink
	}
}

// WithLogger sets the logger used when event publication fails.
func WithLogger(logger shell.Logger) Option {
	return func(h *CommandHandler) {
		h.logger = logger
	}
}

// WithContextualLogger sets the contextual logger used when event publication fails.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(h *CommandHandler) {
		h.contextualLogger = logger
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store CirculationStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store: store,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle inserts the item and publishes ItemAddedToCatalog on success.
// Returns HandlerResult containing business outcomes for observability.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	item := circulation.Item{
		ID:              command.ItemID,
		Title:           command.Title,
		Author:          command.Author,
		ISBN:            command.ISBN,
		TotalCopies:     command.TotalCopies,
		AvailableCopies: command.TotalCopies,
		CreatedAt:       command.OccurredAt,
	}

	if err := h.store.InsertItem(ctx, item); err != nil {
		return shell.NewErrorResult(shell.RetryMetrics{}), err
	}

	shell.PublishEvents(ctx, h.eventSink, h.logger, h.contextualLogger, core.DomainEvents{
		core.BuildItemAddedToCatalog(
			command.ItemID,
			command.Title,
			command.Author,
			command.ISBN,
			command.TotalCopies,
			command.OccurredAt,
		),
	})

	return shell.NewSuccessResult(shell.RetryMetrics{}), nil
}
