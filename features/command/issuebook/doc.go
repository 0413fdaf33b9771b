// Package issuebook implements the Issue Book use case.
//
// This feature lends an available copy of a catalogued item to an active holder.
// It follows the Load-Decide-Commit pattern with proper separation between
// infrastructure concerns (CommandHandler) and pure business logic (Decide function).
//
// The business logic enforces multiple constraints: the holder must be active, must
// not already hold an active loan of this item, and a copy must be available. When
// the holder has a pending reservation for the item, the same commit fulfills it.
package issuebook
