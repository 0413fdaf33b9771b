// Package overdueloans implements the Overdue Loans query use case.
//
// This feature lists active loans whose due date has passed a given reference
// time, together with how many whole days each one is overdue and the fine
// accrued so far. It follows the Query-Project pattern without any command
// processing or event generation.
package overdueloans
