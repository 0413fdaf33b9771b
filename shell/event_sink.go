package shell

import (
	"context"

	"github.com/opencirc/circulation-engine-go/core"
)

// EventSink receives domain events after they have been committed to the store.
// Publication happens after the commit, so delivery is at-least-once: a crash
// between commit and publish loses the in-flight events, never the state change.
type EventSink interface {
	Publish(ctx context.Context, envelopes ...EventEnvelope) error
}

// NoOpEventSink discards all events. Used when no downstream consumer is wired.
type NoOpEventSink struct{}

// Publish implements EventSink and does nothing.
func (NoOpEventSink) Publish(_ context.Context, _ ...EventEnvelope) error {
	return nil
}

// PublishEvents converts the given domain events to envelopes and hands them to the sink.
// A nil sink is treated like NoOpEventSink.
// Publish failures are logged and swallowed since the state change is already durable.
func PublishEvents(
	ctx context.Context,
	sink EventSink,
	logger Logger,
	contextualLogger ContextualLogger,
	domainEvents core.DomainEvents,
) {
	if sink == nil || len(domainEvents) == 0 {
		return
	}

	envelopes, err := EventEnvelopesFrom(domainEvents)
	if err != nil {
		logPublishError(ctx, logger, contextualLogger, err)

		return
	}

	if publishErr := sink.Publish(ctx, envelopes...); publishErr != nil {
		logPublishError(ctx, logger, contextualLogger, publishErr)
	}
}

func logPublishError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, err error) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, LogMsgEventPublishFailed, LogAttrError, err.Error())
	} else if logger != nil {
		logger.Error(LogMsgEventPublishFailed, LogAttrError, err.Error())
	}
}
