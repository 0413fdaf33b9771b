// Package memoryengine provides an in-memory implementation of the circulation
// Store contract.
//
// It exists for tests, examples and embedding scenarios where PostgreSQL is not
// available. Optimistic concurrency works exactly like the Postgres engine: a
// Commit with a stale expected version fails with ErrConcurrencyConflict. All
// state is lost when the process exits.
package memoryengine
