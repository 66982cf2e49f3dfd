package dashboard

import (
	"context"

	"go.uber.org/zap"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// ZapTelemetry writes telemetry events as debug log entries.
type ZapTelemetry struct {
	Logger *zap.Logger
}

// Record logs the event with its payload flattened into fields.
func (z ZapTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if z.Logger == nil {
		return
	}
	fields := make([]zap.Field, 0, len(payload))
	for key, value := range payload {
		fields = append(fields, zap.Any(key, value))
	}
	z.Logger.Debug(event, fields...)
}

// MultiTelemetry fans an event out to every wrapped sink.
type MultiTelemetry []Telemetry

func (m MultiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range m {
		if t != nil {
			t.Record(ctx, event, payload)
		}
	}
}
