package shell

import (
	"errors"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/opencirc/circulation-engine-go/core"
)

// ErrEventEnvelopeFromDomainEventFailed is returned when event envelope conversion fails
var ErrEventEnvelopeFromDomainEventFailed = errors.New("event envelope from domain event failed")

// EventEnvelopes is a slice of EventEnvelope instances
type EventEnvelopes = []EventEnvelope

// EventEnvelope wraps a domain event with transport metadata for publication.
// The payload is the JSON serialization of the domain event, so subscribers
// outside this process can consume it without importing the core package.
//
// ItemID, HolderID, Kind and Message are promoted out of the payload so
// subscribers can route and deliver notifications without parsing it. Kind
// and Message are only set on notification events.
type EventEnvelope struct {
	EventID     uuid.UUID
	EventType   string
	ItemID      string
	HolderID    string
	Kind        string
	Message     string
	OccurredAt  time.Time
	PayloadJSON []byte
}

// EventEnvelopeFrom converts a DomainEvent to an EventEnvelope
func EventEnvelopeFrom(domainEvent core.DomainEvent) (EventEnvelope, error) {
	eventID, err := uuid.NewV7()
	if err != nil {
		return EventEnvelope{}, errors.Join(ErrEventEnvelopeFromDomainEventFailed, err)
	}

	payloadJSON, err := jsoniter.ConfigFastest.Marshal(domainEvent)
	if err != nil {
		return EventEnvelope{}, errors.Join(ErrEventEnvelopeFromDomainEventFailed, err)
	}

	envelope := EventEnvelope{
		EventID:     eventID,
		EventType:   domainEvent.IsEventType(),
		OccurredAt:  domainEvent.HasOccurredAt(),
		PayloadJSON: payloadJSON,
	}

	switch event := domainEvent.(type) {
	case core.ItemAddedToCatalog:
		envelope.ItemID = event.ItemID
	case core.LoanIssued:
		envelope.ItemID = event.ItemID
		envelope.HolderID = event.HolderID
	case core.LoanReturned:
		envelope.ItemID = event.ItemID
		envelope.HolderID = event.HolderID
	case core.ReservationPlaced:
		envelope.ItemID = event.ItemID
		envelope.HolderID = event.HolderID
	case core.ReservationCanceled:
		envelope.ItemID = event.ItemID
		envelope.HolderID = event.HolderID
	case core.ReservationFulfilled:
		envelope.ItemID = event.ItemID
		envelope.HolderID = event.HolderID
	case core.ItemAvailableForHolder:
		envelope.ItemID = event.ItemID
		envelope.HolderID = event.HolderID
		envelope.Kind = core.NotificationKindReservation
		envelope.Message = event.Message
	}

	return envelope, nil
}

// EventEnvelopesFrom converts multiple DomainEvents to EventEnvelopes
func EventEnvelopesFrom(domainEvents core.DomainEvents) (EventEnvelopes, error) {
	envelopes := make(EventEnvelopes, 0, len(domainEvents))

	for _, domainEvent := range domainEvents {
		envelope, err := EventEnvelopeFrom(domainEvent)
		if err != nil {
			return nil, err
		}

		envelopes = append(envelopes, envelope)
	}

	return envelopes, nil
}
