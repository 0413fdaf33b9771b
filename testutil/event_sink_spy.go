package testutil

import (
	"context"
	"sync"

	"github.com/opencirc/circulation-engine-go/shell"
)

// EventSinkSpy captures published event envelopes for inspection in tests.
// A non-nil FailWith makes every Publish call return that error.
type EventSinkSpy struct {
	mu        sync.Mutex
	envelopes []shell.EventEnvelope

	FailWith error
}

// NewEventSinkSpy creates an empty spy.
func NewEventSinkSpy() *EventSinkSpy {
	return &EventSinkSpy{}
}

// Publish implements shell.EventSink.
func (s *EventSinkSpy) Publish(_ context.Context, envelopes ...shell.EventEnvelope) error {
	if s.FailWith != nil {
		return s.FailWith
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.envelopes = append(s.envelopes, envelopes...)

	return nil
}

// Published returns a copy of all captured envelopes.
func (s *EventSinkSpy) Published() []shell.EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	envelopes := make([]shell.EventEnvelope, len(s.envelopes))
	copy(envelopes, s.envelopes)

	return envelopes
}

// PublishedEventTypes returns the event types of all captured envelopes in order.
func (s *EventSinkSpy) PublishedEventTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	types := make([]string, 0, len(s.envelopes))
	for _, envelope := range s.envelopes {
		types = append(types, envelope.EventType)
	}

	return types
}

// Reset clears all captured envelopes.
func (s *EventSinkSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.envelopes = s.envelopes[:0]
}

var _ shell.EventSink = (*EventSinkSpy)(nil)
