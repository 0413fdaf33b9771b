package reservebook

import (
	"context"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/shell"
)

// CirculationStore defines the interface needed by the CommandHandler for store operations.
type CirculationStore interface {
	Load(ctx context.Context, itemID uuid.UUID) (circulation.ItemState, error)
	Commit(ctx context.Context, itemID uuid.UUID, expectedVersion uint, changes circulation.Changeset) error
}

// CommandHandler orchestrates the complete command processing workflow with pure business logic and retry.
// It handles the core circulation workflow: Load -> Decide -> Commit -> Publish.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store            CirculationStore
	holders          circulation.HolderDirectory
	eventSink        shell.EventSink
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
	retryOptions     []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// WithEventSink sets the sink receiving domain events after a successful commit.
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
func NewCommandHandler(store CirculationStore, holders circulation.HolderDirectory, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:   store,
		holders: holders,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the complete command processing workflow with retry logic.
// Returns HandlerResult containing business outcomes and execution metadata for observability.
//
// Resilience: Implements exponential backoff retry logic for concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := h.executeCommand(retryCtx, command)
		isIdempotent = idempotent

		return execErr
	}, h.retryOptions...)

	if isIdempotent {
		return shell.NewIdempotentResult(retryMetrics), err
	}

	if err != nil {
		return shell.NewErrorResult(retryMetrics), err
	}

	return shell.NewSuccessResult(retryMetrics), nil
}

// executeCommand contains the core command processing logic that can be retried.
func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	holder, err := h.holders.GetHolder(ctx, command.HolderID)
	if err != nil {
		return false, err
	}

	state, loadErr := h.store.Load(ctx, command.ItemID)
	if loadErr != nil {
		return false, loadErr
	}

	result := Decide(state, holder, command)

	if decideErr := result.HasError(); decideErr != nil {
		return false, decideErr
	}

	if !result.HasChangesToCommit() {
		return true, nil // idempotent success - nothing to commit
	}

	if commitErr := h.store.Commit(ctx, command.ItemID, state.Version, result.Changes); commitErr != nil {
		return false, commitErr
	}

	shell.PublishEvents(ctx, h.eventSink, h.logger, h.contextualLogger, result.Events)

	return false, nil
}
