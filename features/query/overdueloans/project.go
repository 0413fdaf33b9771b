package overdueloans

import (
	"slices"
	"time"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/core"
)

// ProjectOverdueLoans implements the query logic to shape overdue loans into the result.
// This is a pure function with no side effects - it takes the loans read from the
// store and returns the projected state sorted by due date (most overdue first).
//
// The store read view already restricts the loans to active ones past due, so
// the projection only derives the day count and accrued fine per loan.
func ProjectOverdueLoans(loans []circulation.Loan, query Query) OverdueLoans {
	infos := make([]OverdueLoanInfo, 0, len(loans))
	for _, loan := range loans {
		infos = append(infos, OverdueLoanInfo{
			LoanID:      loan.ID,
			ItemID:      loan.ItemID,
			HolderID:    loan.HolderID,
			DueAt:       loan.DueAt,
			DaysOverdue: wholeDaysBetween(loan.DueAt, query.AsOf),
			AccruedFine: core.CalculateFine(loan.DueAt, query.AsOf, query.FinePerDay),
		})
	}

	slices.SortFunc(infos, func(a, b OverdueLoanInfo) int {
		return a.DueAt.Compare(b.DueAt)
	})

	return OverdueLoans{
		AsOf:  query.AsOf,
		Loans: infos,
		Count: len(infos),
	}
}

func wholeDaysBetween(dueAt, asOf time.Time) int {
	if !asOf.After(dueAt) {
		return 0
	}

	return int(asOf.Sub(dueAt).Hours() / 24)
}
