package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "rmux"

// Metrics holds all OTEL metric instruments for rmux.
// All counters are cumulative (monotonic) and safe for concurrent use.
type Metrics struct {
	// Compilation counters (partitioned by mode: first_start, restart, debug)
	Compiles       metric.Int64Counter
	ScriptCommands metric.Int64Counter

	// Session lifecycle counters
	SessionsStarted metric.Int64Counter
	SessionsStopped metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered (safe to call unconditionally).
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Compiles, err = meter.Int64Counter("compiles.total",
		metric.WithDescription("Total project compilations partitioned by start mode"))
	if err != nil {
		return nil, err
	}

	m.ScriptCommands, err = meter.Int64Counter("compiles.script_commands",
		metric.WithDescription("Total tmux commands emitted by the compiler"),
		metric.WithUnit("{command}"))
	if err != nil {
		return nil, err
	}

	m.SessionsStarted, err = meter.Int64Counter("sessions.started",
		metric.WithDescription("Total sessions started partitioned by start mode"))
	if err != nil {
		return nil, err
	}

	m.SessionsStopped, err = meter.Int64Counter("sessions.stopped",
		metric.WithDescription("Total sessions stopped"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordCompile records one compilation and the size of its script.
func (m *Metrics) RecordCompile(ctx context.Context, mode string, commands int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("compile.mode", mode))
	m.Compiles.Add(ctx, 1, attrs)
	m.ScriptCommands.Add(ctx, int64(commands), attrs)
}

// RecordSessionStarted records one started session.
func (m *Metrics) RecordSessionStarted(ctx context.Context, mode string) {
	if m == nil {
		return
	}
	m.SessionsStarted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("compile.mode", mode),
	))
}

// RecordSessionStopped records one stopped session.
func (m *Metrics) RecordSessionStopped(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionsStopped.Add(ctx, 1)
}
