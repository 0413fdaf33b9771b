package additem_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/memoryengine"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/additem"
	"github.com/opencirc/circulation-engine-go/testutil"
)

func Test_CommandHandler_AddItem_CataloguesItem_WithFullAvailability(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	sink := testutil.NewEventSinkSpy()

	handler := additem.NewCommandHandler(store, additem.WithEventSink(sink))

	itemID := testutil.GivenUniqueID(t)
	command := additem.BuildCommand(itemID, "Designing Data-Intensive Applications", "Kleppmann", "978-1449373320", 3, time.Now())

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Idempotent)

	state, loadErr := store.Load(ctx, itemID)
	require.NoError(t, loadErr)
	assert.Equal(t, 3, state.Item.TotalCopies)
	assert.Equal(t, 3, state.Item.AvailableCopies)
	assert.Equal(t, uint(0), state.Version)

	assert.Equal(t, []string{core.ItemAddedToCatalogEventType}, sink.PublishedEventTypes())
}

func Test_CommandHandler_AddItem_Fails_WhenIDTaken(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	sink := testutil.NewEventSinkSpy()

	handler := additem.NewCommandHandler(store, additem.WithEventSink(sink))

	itemID := testutil.GivenUniqueID(t)
	command := additem.BuildCommand(itemID, "Designing Data-Intensive Applications", "Kleppmann", "978-1449373320", 3, time.Now())

	_, firstErr := handler.Handle(ctx, command)
	require.NoError(t, firstErr)
	sink.Reset()

	// act
	_, secondErr := handler.Handle(ctx, command)

	// assert: no event for the rejected duplicate
	assert.ErrorIs(t, secondErr, circulation.ErrItemAlreadyExists)
	assert.Empty(t, sink.PublishedEventTypes())
}
