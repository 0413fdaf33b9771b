// Package postgresengine provides the PostgreSQL implementation of the
// circulation Store contract.
//
// The engine keeps items, loans, reservations and notifications in four
// tables and applies every Commit as one transaction. Optimistic concurrency
// rides on the item version column: the availability adjustment is a
// conditional UPDATE guarded by the expected version and the availability
// bounds, so a commit from a stale snapshot affects zero rows and surfaces
// as ErrConcurrencyConflict without touching any state.
//
// Three database libraries are supported through internal adapters:
// pgx.Pool, sql.DB, and sqlx.DB. See the Schema constant for the DDL.
package postgresengine
