package activeloans

import (
	"time"

	"github.com/google/uuid"
)

// LoanInfo represents information about one active loan.
type LoanInfo struct {
	LoanID   uuid.UUID
	ItemID   uuid.UUID
	HolderID uuid.UUID
	IssuedAt time.Time
	DueAt    time.Time
}

// ActiveLoans represents the query result containing loans currently out.
type ActiveLoans struct {
	Loans []LoanInfo
	Count int
}
