// Package shell provides the imperative shell around the functional core
// of the circulation engine.
//
// It contains the cross-cutting pieces shared by all command and query
// handlers: retry with exponential backoff for optimistic concurrency
// conflicts, handler result metadata, observability helpers, and the
// event envelope / sink used to publish domain events after a successful
// commit.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
