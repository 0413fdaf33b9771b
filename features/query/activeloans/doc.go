// Package activeloans implements the Active Loans query use case.
//
// This feature lists loans currently out, scoped either to one item or to one
// holder. It follows the Query-Project pattern without any command processing
// or event generation.
package activeloans
