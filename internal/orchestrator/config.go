package orchestrator

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/dusk-indust/eventplan/internal/agent"
)

// Option configures a Pipeline during construction.
type Option func(*Pipeline)

// WithRegistry sets the persona registry the stage specifications are built
// from. The default is agent.NewRegistry().
func WithRegistry(reg *agent.Registry) Option {
	return func(p *Pipeline) {
		if reg != nil {
			p.registry = reg
		}
	}
}

// WithStageExecutor routes a single stage to its own executor instead of the
// pipeline default.
func WithStageExecutor(stage Stage, exec StageExecutor) Option {
	return func(p *Pipeline) {
		if exec != nil {
			p.overrides[stage] = exec
		}
	}
}

// WithStageTimeout bounds each stage's executor call. Zero, the default,
// applies no timeout and a hung provider hangs the run.
func WithStageTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.stageTimeout = d
	}
}

// WithTracer sets the OpenTelemetry tracer used for run and stage spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}
