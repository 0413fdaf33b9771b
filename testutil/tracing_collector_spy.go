package testutil

import (
	"context"
	"sync"

	"github.com/opencirc/circulation-engine-go/circulation"
)

// SpySpan represents a captured span lifecycle.
type SpySpan struct {
	Name         string
	StartAttrs   map[string]string
	FinishStatus string
	FinishAttrs  map[string]string
	Finished     bool

	mu         sync.Mutex
	status     string
	attributes map[string]string
}

// SetStatus implements circulation.SpanContext.
func (s *SpySpan) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = status
}

// AddAttribute implements circulation.SpanContext.
func (s *SpySpan) AddAttribute(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attributes == nil {
		s.attributes = make(map[string]string)
	}
	s.attributes[key] = value
}

// TracingCollectorSpy captures spans for testing tracing instrumentation.
type TracingCollectorSpy struct {
	mu    sync.Mutex
	spans []*SpySpan
}

// NewTracingCollectorSpy creates an empty spy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

// StartSpan implements circulation.TracingCollector.
func (t *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, circulation.SpanContext) {
	span := &SpySpan{
		Name:       name,
		StartAttrs: copyLabels(attrs),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = append(t.spans, span)

	return ctx, span
}

// FinishSpan implements circulation.TracingCollector.
func (t *TracingCollectorSpy) FinishSpan(spanCtx circulation.SpanContext, status string, attrs map[string]string) {
	if span, ok := spanCtx.(*SpySpan); ok {
		span.mu.Lock()
		defer span.mu.Unlock()

		span.FinishStatus = status
		span.FinishAttrs = copyLabels(attrs)
		span.Finished = true
	}
}

// Spans returns all captured spans.
func (t *TracingCollectorSpy) Spans() []*SpySpan {
	t.mu.Lock()
	defer t.mu.Unlock()

	spans := make([]*SpySpan, len(t.spans))
	copy(spans, t.spans)

	return spans
}

// HasSpan reports whether a span with the given name was started.
func (t *TracingCollectorSpy) HasSpan(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, span := range t.spans {
		if span.Name == name {
			return true
		}
	}

	return false
}

var _ circulation.TracingCollector = (*TracingCollectorSpy)(nil)
