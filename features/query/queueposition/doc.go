// Package queueposition implements the Queue Position query use case.
//
// This feature reports where a holder stands in the reservation queue of one
// item. It follows the Query-Project pattern without any command processing
// or event generation.
//
// The position is 1-indexed over the item's pending reservations ordered by
// request time, with insertion order breaking ties. A holder without a
// pending reservation gets Position 0 and InQueue false.
package queueposition
