package activeloans

import (
	"slices"

	"github.com/opencirc/circulation-engine-go/circulation"
)

// ProjectActiveLoans implements the query logic to shape active loans into the result.
// This is a pure function with no side effects - it takes the loans read from the
// store and returns the projected state sorted by issue time (oldest first).
func ProjectActiveLoans(loans []circulation.Loan) ActiveLoans {
	infos := make([]LoanInfo, 0, len(loans))
	for _, loan := range loans {
		infos = append(infos, LoanInfo{
			LoanID:   loan.ID,
			ItemID:   loan.ItemID,
			HolderID: loan.HolderID,
			IssuedAt: loan.IssuedAt,
			DueAt:    loan.DueAt,
		})
	}

	slices.SortFunc(infos, func(a, b LoanInfo) int {
		return a.IssuedAt.Compare(b.IssuedAt)
	})

	return ActiveLoans{
		Loans: infos,
		Count: len(infos),
	}
}
