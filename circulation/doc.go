// Package circulation defines the store-agnostic surface of the circulation engine:
// the typed records (Item, Loan, Reservation), the error taxonomy, the transactional
// Store contract with optimistic concurrency, the HolderDirectory collaborator, and
// the dependency-free observability interfaces implemented by the adapter submodules.
//
// The engine keeps three pools mutually consistent under concurrent access:
// copies available, active loans, and pending reservations. Every state change goes
// through Store.Commit with the item version observed at load time; a moved version
// surfaces as ErrConcurrencyConflict and callers retry on a fresh snapshot.
package circulation
