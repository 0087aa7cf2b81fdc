package otel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	inErrors "github.com/Alturino/raffa/internal/errors"
)

func recordOn(t *testing.T, err error) sdktrace.ReadOnlySpan {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	_, span := provider.Tracer("test").Start(context.Background(), "test")
	RecordError(err, span)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	return ended[0]
}

func TestRecordError(t *testing.T) {
	t.Run("rejection leaves the span status unset", func(t *testing.T) {
		span := recordOn(t, fmt.Errorf("failed placing order with error=%w", inErrors.ErrRateLimited))

		assert.Equal(t, codes.Unset, span.Status().Code)
		require.Len(t, span.Events(), 1)
		assert.Equal(t, "rejected", span.Events()[0].Name)
	})

	t.Run("tampered price is a rejection", func(t *testing.T) {
		span := recordOn(t, fmt.Errorf("failed verifying cart with error=%w: Fishball", inErrors.ErrInvalidPrice))

		assert.Equal(t, codes.Unset, span.Status().Code)
		require.Len(t, span.Events(), 1)
		assert.Equal(t, "rejected", span.Events()[0].Name)
	})

	t.Run("failure marks the span as error", func(t *testing.T) {
		span := recordOn(t, errors.New("connection refused"))

		assert.Equal(t, codes.Error, span.Status().Code)
		assert.Equal(t, "connection refused", span.Status().Description)
		require.NotEmpty(t, span.Events())
		assert.Equal(t, "exception", span.Events()[0].Name)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		span := recordOn(t, nil)

		assert.Equal(t, codes.Unset, span.Status().Code)
		assert.Empty(t, span.Events())
	})
}
