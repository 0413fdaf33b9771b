package shell

import (
	"context"
)

// Command represents the contract for all command types in the circulation engine.
// Each command encapsulates the intent and parameters needed to execute a specific business operation.
// The CommandType method enables polymorphic handling and observability instrumentation.
type Command interface {
	CommandType() string
}

// CoreCommandHandler defines the contract for components that process commands with pure business logic.
// Handlers orchestrate the complete command workflow: loading item state, deciding, and committing.
// The generic parameter C ensures type safety between commands and their corresponding handlers.
// Implementations should focus purely on business logic without observability or infrastructure concerns.
// This interface is designed to be wrapped with observability decorators for complete functionality.
// Handlers return HandlerResult containing business outcomes (idempotency) and execution metadata (retry info).
type CoreCommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) (HandlerResult, error)
}

// CommandHandler defines the contract for command handlers that return only errors (compatibility interface).
// Typically implemented by wrapper types that convert (HandlerResult, error) to just error.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, command C) error
}

// Query represents the contract for all query types in the circulation engine.
// Each query encapsulates the intent and parameters needed to retrieve a specific read view.
// The QueryType method enables polymorphic handling and observability instrumentation.
type Query interface {
	QueryType() string
}

// CoreQueryHandler defines the contract for components that process queries with pure business logic.
// Handlers orchestrate the complete query workflow: reading records from the store and projecting.
// The generic parameters Q and R ensure type safety between queries and their corresponding results.
// Implementations should focus purely on business logic without observability or infrastructure concerns.
// This interface is designed to be wrapped with observability decorators for complete functionality.
type CoreQueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// QueryHandler defines the contract for components that process queries and return read views.
// Implementations handle infrastructure concerns (store access, observability) while delegating
// business logic to pure projection functions.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
