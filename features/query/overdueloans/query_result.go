package overdueloans

import (
	"time"

	"github.com/google/uuid"
)

// OverdueLoanInfo represents information about one overdue loan.
// AccruedFine is the fine the holder would owe if the item came back at the
// query's reference time.
type OverdueLoanInfo struct {
	LoanID      uuid.UUID
	ItemID      uuid.UUID
	HolderID    uuid.UUID
	DueAt       time.Time
	DaysOverdue int
	AccruedFine float64
}

// OverdueLoans represents the query result containing loans past their due date.
type OverdueLoans struct {
	AsOf  time.Time
	Loans []OverdueLoanInfo
	Count int
}
