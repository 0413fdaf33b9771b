package coordinator_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/circulation/memoryengine"
	"github.com/opencirc/circulation-engine-go/coordinator"
	"github.com/opencirc/circulation-engine-go/core"
	"github.com/opencirc/circulation-engine-go/testutil"
)

func Test_Coordinator_FullCirculationScenario(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()
	sink := testutil.NewEventSinkSpy()

	engine, err := coordinator.New(store, holders, coordinator.WithEventSink(sink))
	require.NoError(t, err)

	itemID := testutil.GivenUniqueID(t)
	holderA := holders.AddActiveHolder("Ada Lovelace")
	holderB := holders.AddActiveHolder("Grace Hopper")

	require.NoError(t, engine.AddItem(ctx, itemID, "The Pragmatic Programmer", "Hunt, Thomas", "978-0135957059", 1))

	// holder A takes the only copy
	loan, err := engine.IssueBook(ctx, itemID, holderA)
	require.NoError(t, err)
	assert.Equal(t, holderA, loan.HolderID)

	state, err := store.Load(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, 0, state.Item.AvailableCopies)

	// holder B cannot issue, so they reserve
	_, err = engine.IssueBook(ctx, itemID, holderB)
	assert.ErrorIs(t, err, circulation.ErrNotAvailable)

	reservation, err := engine.ReserveBook(ctx, itemID, holderB)
	require.NoError(t, err)
	assert.Equal(t, circulation.ReservationStatusPending, reservation.Status)

	position, err := engine.QueuePosition(ctx, itemID, holderB)
	require.NoError(t, err)
	assert.Equal(t, 1, position.Position)

	// holder A returns on time, holder B gets notified
	fine, err := engine.ReturnBook(ctx, loan.ID)
	require.NoError(t, err)
	assert.Zero(t, fine)

	notified, err := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, err)
	assert.True(t, notified.Notified)
	assert.Equal(t, circulation.ReservationStatusPending, notified.Status)

	// holder B issues, which fulfills their reservation
	secondLoan, err := engine.IssueBook(ctx, itemID, holderB)
	require.NoError(t, err)
	assert.Equal(t, holderB, secondLoan.HolderID)

	fulfilled, err := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.ReservationStatusFulfilled, fulfilled.Status)

	assert.Equal(t, []string{
		core.ItemAddedToCatalogEventType,
		core.LoanIssuedEventType,
		core.ReservationPlacedEventType,
		core.LoanReturnedEventType,
		core.ItemAvailableForHolderEventType,
		core.LoanIssuedEventType,
		core.ReservationFulfilledEventType,
	}, sink.PublishedEventTypes())
}

func Test_Coordinator_ConcurrentIssues_OnLastCopy_ExactlyOneWins(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	engine, err := coordinator.New(store, holders)
	require.NoError(t, err)

	itemID := testutil.GivenUniqueID(t)
	require.NoError(t, engine.AddItem(ctx, itemID, "Operating Systems", "Tanenbaum", "978-0133591620", 1))

	first := holders.AddActiveHolder("Ada Lovelace")
	second := holders.AddActiveHolder("Grace Hopper")

	// act: both race for the single copy
	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = engine.IssueBook(ctx, itemID, first)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = engine.IssueBook(ctx, itemID, second)
	}()
	wg.Wait()

	// assert: exactly one success, the loser gets the typed rejection
	successes := 0
	for _, issueErr := range errs {
		if issueErr == nil {
			successes++
		} else {
			assert.ErrorIs(t, issueErr, circulation.ErrNotAvailable)
		}
	}
	assert.Equal(t, 1, successes)

	state, loadErr := store.Load(ctx, itemID)
	require.NoError(t, loadErr)
	assert.Equal(t, 0, state.Item.AvailableCopies)
	assert.Len(t, state.ActiveLoans, 1)
}

func Test_Coordinator_OverdueLoans_UsesConfiguredFineRate(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	engine, err := coordinator.New(store, holders,
		coordinator.WithLoanPeriodDays(1),
		coordinator.WithFinePerDay(0.5),
	)
	require.NoError(t, err)

	itemID := testutil.GivenUniqueID(t)
	holderID := holders.AddActiveHolder("Ada Lovelace")

	require.NoError(t, engine.AddItem(ctx, itemID, "TCP/IP Illustrated", "Stevens", "978-0201633467", 1))

	loan, err := engine.IssueBook(ctx, itemID, holderID)
	require.NoError(t, err)

	// act: look three days past the due date
	result, err := engine.OverdueLoans(ctx, loan.DueAt.Add(3*24*time.Hour))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Loans, 1)
	assert.Equal(t, loan.ID, result.Loans[0].LoanID)
	assert.Equal(t, 3, result.Loans[0].DaysOverdue)
	assert.InDelta(t, 1.5, result.Loans[0].AccruedFine, 0.0001)
}

func Test_Coordinator_IssueBookWithLoanPeriod_OverridesDefault(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	engine, err := coordinator.New(store, holders)
	require.NoError(t, err)

	itemID := testutil.GivenUniqueID(t)
	holderA := holders.AddActiveHolder("Ada Lovelace")
	holderB := holders.AddActiveHolder("Grace Hopper")

	require.NoError(t, engine.AddItem(ctx, itemID, "The C Programming Language", "Kernighan, Ritchie", "978-0131103627", 2))

	// act
	shortLoan, shortErr := engine.IssueBookWithLoanPeriod(ctx, itemID, holderA, 3)
	defaultLoan, defaultErr := engine.IssueBook(ctx, itemID, holderB)
	_, invalidErr := engine.IssueBookWithLoanPeriod(ctx, itemID, holderA, 0)

	// assert
	require.NoError(t, shortErr)
	assert.Equal(t, shortLoan.IssuedAt.AddDate(0, 0, 3), shortLoan.DueAt)

	require.NoError(t, defaultErr)
	assert.Equal(t, defaultLoan.IssuedAt.AddDate(0, 0, 14), defaultLoan.DueAt)

	assert.ErrorIs(t, invalidErr, coordinator.ErrInvalidLoanPeriod)
}

func Test_Coordinator_RejectsInvalidDefaults(t *testing.T) {
	// setup
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	testCases := []struct {
		name        string
		option      coordinator.Option
		expectedErr error
	}{
		{
			name:        "zero loan period",
			option:      coordinator.WithLoanPeriodDays(0),
			expectedErr: coordinator.ErrInvalidLoanPeriod,
		},
		{
			name:        "negative fine rate",
			option:      coordinator.WithFinePerDay(-1),
			expectedErr: coordinator.ErrNegativeFineRate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := coordinator.New(store, holders, tc.option)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Coordinator_CancelReservation_RemovesHolderFromQueue(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memoryengine.NewCirculationStore()
	holders := testutil.NewFakeHolderDirectory()

	engine, err := coordinator.New(store, holders)
	require.NoError(t, err)

	itemID := testutil.GivenUniqueID(t)
	holderA := holders.AddActiveHolder("Ada Lovelace")
	holderB := holders.AddActiveHolder("Grace Hopper")

	require.NoError(t, engine.AddItem(ctx, itemID, "Compilers", "Aho, Lam, Sethi, Ullman", "978-0321486813", 1))

	_, err = engine.IssueBook(ctx, itemID, holderA)
	require.NoError(t, err)

	reservation, err := engine.ReserveBook(ctx, itemID, holderB)
	require.NoError(t, err)

	// act
	require.NoError(t, engine.CancelReservation(ctx, reservation.ID))

	// assert
	position, err := engine.QueuePosition(ctx, itemID, holderB)
	require.NoError(t, err)
	assert.False(t, position.InQueue)

	cancelled, err := store.GetReservation(ctx, reservation.ID)
	require.NoError(t, err)
	assert.Equal(t, circulation.ReservationStatusCancelled, cancelled.Status)

	// cancelling again is rejected
	assert.ErrorIs(t, engine.CancelReservation(ctx, reservation.ID), circulation.ErrReservationNotPending)
}
