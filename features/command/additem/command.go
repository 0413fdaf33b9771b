package additem

import (
	"time"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/core"
)

const (
	commandType = "AddItem"
)

// Command represents the intent to add a new item to the catalog.
type Command struct {
	ItemID      uuid.UUID
	Title       string
	Author      string
	ISBN        string
	TotalCopies int
	OccurredAt  core.OccurredAtTS
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	itemID uuid.UUID,
	title string,
	author string,
	isbn string,
	totalCopies int,
	occurredAt time.Time,
) Command {

	return Command{
		ItemID:      itemID,
		Title:       title,
		Author:      author,
		ISBN:        isbn,
		TotalCopies: totalCopies,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}
