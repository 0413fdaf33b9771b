package core

import (
	"github.com/opencirc/circulation-engine-go/circulation"
)

// DecisionResult represents the outcome of a business decision in a Decide function.
// This enables type-safe, functional programming style decision modeling.
//
// IMPORTANT: DecisionResult should only be constructed using the provided factory methods:
// IdempotentDecision(), SuccessDecision(changes, events...), or ErrorDecision(err).
// Do not construct DecisionResult directly to ensure type safety.
type DecisionResult struct {
	Outcome string               // "idempotent", "success", or "error"
	Changes circulation.Changeset // empty for idempotent and error decisions
	Events  DomainEvents          // events to publish after a successful commit
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult with a changeset to commit and the
// events to publish once that commit succeeds.
func SuccessDecision(changes circulation.Changeset, events ...DomainEvent) DecisionResult {
	return DecisionResult{
		Outcome: successOutcome,
		Changes: changes,
		Events:  events,
	}
}

// ErrorDecision creates a DecisionResult indicating a business rule violation.
// Nothing is committed; the typed error is surfaced to the caller.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Err:     err,
	}
}

// HasChangesToCommit returns true if there is a changeset to commit to the store.
func (r DecisionResult) HasChangesToCommit() bool {
	return r.Outcome == successOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
