// Package pendingreservations implements the Pending Reservations query use case.
//
// This feature lists reservations still waiting for a copy, scoped either to
// one item or to one holder. It follows the Query-Project pattern without any
// command processing or event generation.
//
// Reservations are returned in promotion order: request time ascending with
// insertion order breaking ties.
package pendingreservations
