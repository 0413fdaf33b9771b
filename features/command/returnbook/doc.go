// Package returnbook implements the Return Book use case.
//
// This feature closes an active loan, computes the overdue fine, and gives the copy
// back to the item's available pool. It follows the Load-Decide-Commit pattern with
// proper separation between infrastructure concerns (CommandHandler) and pure
// business logic (Decide function).
//
// When pending reservations exist, the same commit marks the oldest one notified and
// records the "item available" notification. The copy is not held back for that
// holder: they must still issue the item themselves, and the reservation only
// becomes Fulfilled once that issue succeeds.
package returnbook
