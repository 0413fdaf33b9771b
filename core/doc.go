// Package core contains the pure domain logic of the circulation engine:
// domain events, the DecisionResult produced by the feature Decide functions,
// and the fine calculation. Nothing in this package performs I/O or reads the
// clock - all timestamps are passed in by the caller.
package core
