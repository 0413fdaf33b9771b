// Package reservebook implements the Reserve Book use case.
//
// This feature puts an active holder on the waiting list of an item that has no
// available copies. It follows the Load-Decide-Commit pattern with proper separation
// between infrastructure concerns (CommandHandler) and pure business logic (Decide
// function).
//
// Reserving is only allowed when the item cannot be issued right away: an available
// item must be borrowed instead. At most one pending reservation per (item, holder)
// pair may exist, and holders with an active loan of the item cannot reserve it.
package reservebook
