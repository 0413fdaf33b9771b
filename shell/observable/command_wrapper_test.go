package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencirc/circulation-engine-go/circulation"
	"github.com/opencirc/circulation-engine-go/shell"
	"github.com/opencirc/circulation-engine-go/shell/observable"
	"github.com/opencirc/circulation-engine-go/testutil"
)

type stubCommand struct{}

func (stubCommand) CommandType() string { return "StubCommand" }

type stubCoreHandler struct {
	result shell.HandlerResult
	err    error
}

func (h stubCoreHandler) Handle(_ context.Context, _ stubCommand) (shell.HandlerResult, error) {
	return h.result, h.err
}

func Test_CommandWrapper_Success_RecordsMetricsSpanAndLogs(t *testing.T) {
	// setup
	metricsSpy := testutil.NewMetricsCollectorSpy()
	tracingSpy := testutil.NewTracingCollectorSpy()
	loggerSpy := testutil.NewLoggerSpy()

	core := stubCoreHandler{result: shell.NewSuccessResult(shell.RetryMetrics{Attempts: 1})}

	wrapper, err := observable.NewCommandWrapper[stubCommand](core,
		observable.WithCommandMetrics[stubCommand](metricsSpy),
		observable.WithCommandTracing[stubCommand](tracingSpy),
		observable.WithCommandLogging[stubCommand](loggerSpy),
	)
	require.NoError(t, err)

	// act
	result, handleErr := wrapper.Handle(context.Background(), stubCommand{})

	// assert
	assert.NoError(t, handleErr)
	assert.False(t, result.Idempotent)
	assert.True(t, metricsSpy.HasDurationRecord(shell.CommandHandlerDurationMetric))
	assert.True(t, metricsSpy.HasCounterRecord(shell.CommandHandlerCallsMetric))
	assert.True(t, tracingSpy.HasSpan(shell.SpanNameCommandHandle))
	assert.True(t, loggerSpy.HasMessageContaining(shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_IdempotentResult_CountsSeparately(t *testing.T) {
	// setup
	metricsSpy := testutil.NewMetricsCollectorSpy()

	core := stubCoreHandler{result: shell.NewIdempotentResult(shell.RetryMetrics{Attempts: 1})}

	wrapper, err := observable.NewCommandWrapper[stubCommand](core,
		observable.WithCommandMetrics[stubCommand](metricsSpy),
	)
	require.NoError(t, err)

	// act
	result, handleErr := wrapper.Handle(context.Background(), stubCommand{})

	// assert
	assert.NoError(t, handleErr)
	assert.True(t, result.Idempotent)
	assert.True(t, metricsSpy.HasCounterRecord(shell.CommandHandlerIdempotentMetric))
}

func Test_CommandWrapper_ConcurrencyConflict_CountsConflict(t *testing.T) {
	// setup
	metricsSpy := testutil.NewMetricsCollectorSpy()
	loggerSpy := testutil.NewLoggerSpy()

	core := stubCoreHandler{
		result: shell.NewErrorResult(shell.RetryMetrics{Attempts: 6, RetriesExhausted: true}),
		err:    circulation.ErrConcurrencyConflict,
	}

	wrapper, err := observable.NewCommandWrapper[stubCommand](core,
		observable.WithCommandMetrics[stubCommand](metricsSpy),
		observable.WithCommandLogging[stubCommand](loggerSpy),
	)
	require.NoError(t, err)

	// act
	_, handleErr := wrapper.Handle(context.Background(), stubCommand{})

	// assert
	assert.ErrorIs(t, handleErr, circulation.ErrConcurrencyConflict)
	assert.True(t, metricsSpy.HasCounterRecord(shell.CommandHandlerConcurrencyConflictMetric))
	assert.True(t, loggerSpy.HasMessageContaining(shell.LogMsgCommandFailed))
}
