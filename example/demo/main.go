// Demo runs a full circulation round trip against the in-memory engine:
// catalogue an item, race two holders for the single copy, reserve, return,
// and let the reservation holder pick the copy up.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/memoryengine"
	"github.com/opencirc/circulation-engine-go/coordinator"
	"github.com/opencirc/circulation-engine-go/shell"
	"github.com/opencirc/circulation-engine-go/testutil"
)

// loggingEventSink logs every published envelope instead of forwarding it.
type loggingEventSink struct {
	logger *slog.Logger
}

func (s loggingEventSink) Publish(_ context.Context, envelopes ...shell.EventEnvelope) error {
	for _, envelope := range envelopes {
		s.logger.Info("event published",
			"event_type", envelope.EventType,
			"event_id", envelope.EventID,
			"payload", string(envelope.PayloadJSON),
		)
	}

	return nil
}

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	engine, err := coordinator.New(store, holders,
		coordinator.WithEventSink(loggingEventSink{logger: logger}),
		coordinator.WithLogger(logger),
	)
	if err != nil {
		logger.Error("building coordinator failed", "error", err)
		os.Exit(1)
	}

	itemID := uuid.New()
	ada := holders.AddActiveHolder("Ada Lovelace")
	grace := holders.AddActiveHolder("Grace Hopper")

	if err = engine.AddItem(ctx, itemID, "The Pragmatic Programmer", "Hunt, Thomas", "978-0135957059", 1); err != nil {
		logger.Error("adding item failed", "error", err)
		os.Exit(1)
	}

	loan, err := engine.IssueBook(ctx, itemID, ada)
	if err != nil {
		logger.Error("issuing failed", "error", err)
		os.Exit(1)
	}
	logger.Info("copy issued", "holder", "Ada Lovelace", "due_at", loan.DueAt)

	if _, err = engine.IssueBook(ctx, itemID, grace); !errors.Is(err, circulation.ErrNotAvailable) {
		logger.Error("expected the second issue to be rejected", "error", err)
		os.Exit(1)
	}
	logger.Info("no copies left, second holder reserves instead")

	if _, err = engine.ReserveBook(ctx, itemID, grace); err != nil {
		logger.Error("reserving failed", "error", err)
		os.Exit(1)
	}

	position, err := engine.QueuePosition(ctx, itemID, grace)
	if err != nil {
		logger.Error("queue position failed", "error", err)
		os.Exit(1)
	}
	logger.Info("holder queued", "holder", "Grace Hopper", "position", position.Position)

	fine, err := engine.ReturnBook(ctx, loan.ID)
	if err != nil {
		logger.Error("returning failed", "error", err)
		os.Exit(1)
	}
	logger.Info("copy returned", "fine", fine)

	secondLoan, err := engine.IssueBook(ctx, itemID, grace)
	if err != nil {
		logger.Error("issuing to the reservation holder failed", "error", err)
		os.Exit(1)
	}
	logger.Info("reserved copy picked up", "holder", "Grace Hopper", "due_at", secondLoan.DueAt)
}
