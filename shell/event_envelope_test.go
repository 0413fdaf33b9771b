package shell

import (
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/core"
)

func Test_EventEnvelopeFrom_CarriesTypeTimeAndPayload(t *testing.T) {
	// setup
	occurredAt := time.Now().UTC()
	itemID := uuid.New()
	holderID := uuid.New()
	event := core.BuildLoanIssued(uuid.New(), itemID, holderID, occurredAt.AddDate(0, 0, 14), occurredAt)

	// act
	envelope, err := EventEnvelopeFrom(event)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanIssuedEventType, envelope.EventType)
	assert.Equal(t, core.ToOccurredAt(occurredAt), envelope.OccurredAt)
	assert.NotEqual(t, uuid.Nil, envelope.EventID)
	assert.Equal(t, itemID.String(), envelope.ItemID)
	assert.Equal(t, holderID.String(), envelope.HolderID)
	assert.Empty(t, envelope.Kind)
	assert.Empty(t, envelope.Message)

	var payload map[string]any
	require.NoError(t, jsoniter.ConfigFastest.Unmarshal(envelope.PayloadJSON, &payload))
	assert.Contains(t, payload, "LoanID")
}

func Test_EventEnvelopeFrom_Notification_CarriesKindAndMessage(t *testing.T) {
	// setup
	occurredAt := time.Now().UTC()
	itemID := uuid.New()
	holderID := uuid.New()
	event := core.BuildItemAvailableForHolder(uuid.New(), itemID, holderID, "Refactoring", occurredAt)

	// act
	envelope, err := EventEnvelopeFrom(event)

	// assert
	require.NoError(t, err)
	assert.Equal(t, itemID.String(), envelope.ItemID)
	assert.Equal(t, holderID.String(), envelope.HolderID)
	assert.Equal(t, core.NotificationKindReservation, envelope.Kind)
	assert.Equal(t, event.Message, envelope.Message)
}

func Test_EventEnvelopesFrom_PreservesOrder(t *testing.T) {
	// setup
	now := time.Now().UTC()
	events := core.DomainEvents{
		core.BuildLoanReturned(uuid.New(), uuid.New(), uuid.New(), 0, now),
		core.BuildItemAvailableForHolder(uuid.New(), uuid.New(), uuid.New(), "Refactoring", now),
	}

	// act
	envelopes, err := EventEnvelopesFrom(events)

	// assert
	require.NoError(t, err)
	require.Len(t, envelopes, 2)
	assert.Equal(t, core.LoanReturnedEventType, envelopes[0].EventType)
	assert.Equal(t, core.ItemAvailableForHolderEventType, envelopes[1].EventType)
}
