package telemetry

import (
	"context"
	"testing"

	"github.com/cameronfredericks24/beatbuddy-sales-pro/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup(t *testing.T) {
	t.Run("Disabled returns a no-op shutdown", func(t *testing.T) {
		shutdown, err := Setup(t.Context(), config.OTel{Enabled: false}, "test")

		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	})
}

func TestNewProvider(t *testing.T) {
	t.Run("Records spans with service attributes", func(t *testing.T) {
		// Arrange
		exporter := tracetest.NewInMemoryExporter()
		tp := newProvider(exporter, config.OTel{ServiceName: "beatbuddy-test", SamplerRatio: 1}, "test")

		// Act
		_, span := tp.Tracer("test").Start(t.Context(), "OrderService.Checkout")
		span.End()
		require.NoError(t, tp.ForceFlush(t.Context()))

		// Assert
		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "OrderService.Checkout", spans[0].Name)

		var serviceName string
		for _, attr := range spans[0].Resource.Attributes() {
			if attr.Key == "service.name" {
				serviceName = attr.Value.AsString()
			}
		}
		assert.Equal(t, "beatbuddy-test", serviceName)

		require.NoError(t, tp.Shutdown(t.Context()))
	})

	t.Run("Zero ratio samples nothing", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		tp := newProvider(exporter, config.OTel{ServiceName: "beatbuddy-test", SamplerRatio: 0}, "test")

		_, span := tp.Tracer("test").Start(t.Context(), "dropped")
		span.End()
		require.NoError(t, tp.ForceFlush(t.Context()))

		assert.Empty(t, exporter.GetSpans())
		assert.IsType(t, &sdktrace.TracerProvider{}, tp)
	})
}
