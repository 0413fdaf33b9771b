// Package cancelreservation implements the Cancel Reservation use case.
//
// This feature lets a holder give up their place in an item's waiting list. It
// follows the Load-Decide-Commit pattern with proper separation between
// infrastructure concerns (CommandHandler) and pure business logic (Decide function).
//
// Only pending reservations can be cancelled; Fulfilled and Cancelled are terminal
// states. Cancelling never touches availability - the queue position simply
// disappears and later reservations move up.
package cancelreservation
