package issuebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/memoryengine"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/features/command/issuebook"
	"github.com/opencirc/circulation-engine-go/testutil"
)

func Test_CommandHandler_Issue_Succeeds_AndPublishesEvent(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()
	sink := testutil.NewEventSinkSpy()

	itemID := givenCataloguedItem(t, store, 2)
	holderID := holders.AddActiveHolder("Ada Lovelace")

	handler := issuebook.NewCommandHandler(store, holders, issuebook.WithEventSink(sink))
	command := issuebook.BuildCommand(itemID, holderID, issuebook.DefaultLoanPeriodDays, time.Now())

	// act
	result, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)
	assert.False(t, result.Idempotent)

	state, loadErr := store.Load(ctx, itemID)
	require.NoError(t, loadErr)
	assert.Equal(t, 1, state.Item.AvailableCopies)
	require.Len(t, state.ActiveLoans, 1)
	assert.Equal(t, command.LoanID, state.ActiveLoans[0].ID)

	assert.Equal(t, []string{core.LoanIssuedEventType}, sink.PublishedEventTypes())
}

func Test_CommandHandler_Issue_FulfillsReservation_AndPublishesBothEvents(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()
	sink := testutil.NewEventSinkSpy()

	itemID := givenCataloguedItem(t, store, 1)
	holderID := holders.AddActiveHolder("Grace Hopper")

	reservation := circulation.Reservation{
		ID:          uuid.New(),
		ItemID:      itemID,
		HolderID:    holderID,
		RequestedAt: time.Now().Add(-time.Hour),
		Status:      circulation.ReservationStatusPending,
	}
	require.NoError(t, store.Commit(ctx, itemID, 0, circulation.Changeset{InsertReservation: &reservation}))

	handler := issuebook.NewCommandHandler(store, holders, issuebook.WithEventSink(sink))
	command := issuebook.BuildCommand(itemID, holderID, issuebook.DefaultLoanPeriodDays, time.Now())

	// act
	_, err := handler.Handle(ctx, command)

	// assert
	assert.NoError(t, err)

	fulfilled, getErr := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, getErr)
	assert.Equal(t, circulation.ReservationStatusFulfilled, fulfilled.Status)

	assert.Equal(t,
		[]string{core.LoanIssuedEventType, core.ReservationFulfilledEventType},
		sink.PublishedEventTypes(),
	)
}

func Test_CommandHandler_Issue_BusinessErrors_LeaveStateUntouched(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	itemID := givenCataloguedItem(t, store, 1)
	activeHolderID := holders.AddActiveHolder("Ada Lovelace")
	inactiveHolderID := holders.AddInactiveHolder("Charles Babbage")

	testCases := []struct {
		name        string
		itemID      uuid.UUID
		holderID    uuid.UUID
		expectedErr error
	}{
		{
			name:        "unknown item",
			itemID:      uuid.New(),
			holderID:    activeHolderID,
			expectedErr: circulation.ErrItemNotFound,
		},
		{
			name:        "unknown holder",
			itemID:      itemID,
			holderID:    uuid.New(),
			expectedErr: circulation.ErrHolderNotFound,
		},
		{
			name:        "inactive holder",
			itemID:      itemID,
			holderID:    inactiveHolderID,
			expectedErr: circulation.ErrHolderInactive,
		},
	}

	handler := issuebook.NewCommandHandler(store, holders)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			command := issuebook.BuildCommand(tc.itemID, tc.holderID, issuebook.DefaultLoanPeriodDays, time.Now())
			_, err := handler.Handle(ctx, command)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)

			state, loadErr := store.Load(ctx, itemID)
			require.NoError(t, loadErr)
			assert.Equal(t, 1, state.Item.AvailableCopies)
			assert.Empty(t, state.ActiveLoans)
		})
	}
}

func Test_CommandHandler_Issue_Fails_WhenNoCopiesLeft(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	itemID := givenCataloguedItem(t, store, 1)
	firstHolderID := holders.AddActiveHolder("Ada Lovelace")
	secondHolderID := holders.AddActiveHolder("Grace Hopper")

	handler := issuebook.NewCommandHandler(store, holders)

	_, firstErr := handler.Handle(ctx, issuebook.BuildCommand(itemID, firstHolderID, issuebook.DefaultLoanPeriodDays, time.Now()))
	require.NoError(t, firstErr)

	// act
	_, secondErr := handler.Handle(ctx, issuebook.BuildCommand(itemID, secondHolderID, issuebook.DefaultLoanPeriodDays, time.Now()))

	// assert
	assert.ErrorIs(t, secondErr, circulation.ErrNotAvailable)
}

func givenCataloguedItem(t *testing.T, store *memoryengine.CirculationStore, totalCopies int) uuid.UUID {
	t.Helper()

	item := circulation.Item{
		ID:              testutil.GivenUniqueID(t),
		Title:           "The Art of Computer Programming",
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
		CreatedAt:       time.Now().UTC(),
	}

	require.NoError(t, store.InsertItem(context.Background(), item))

	return item.ID
}
