package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dusk-indust/eventplan/internal/agent"
)

// Compile-time interface check.
var _ Orchestrator = (*Pipeline)(nil)

// Pipeline runs the venue, logistics and marketing stages in order, threading
// each stage's output into the next stage's instruction. A Pipeline holds no
// per-run state: every call to Run builds its own FlowState, so one Pipeline
// may serve many callers.
type Pipeline struct {
	executor     StageExecutor
	registry     *agent.Registry
	overrides    map[Stage]StageExecutor
	stages       []StageSpec
	stageTimeout time.Duration
	tracer       trace.Tracer
	logger       *slog.Logger

	// progress is created by the first Progress call; until then events are
	// not emitted at all.
	progressMu sync.Mutex
	progress   *ProgressReporter
	closed     bool
}

// NewPipeline creates a Pipeline whose stages execute on exec unless an
// option routes a stage elsewhere.
func NewPipeline(exec StageExecutor, opts ...Option) *Pipeline {
	p := &Pipeline{
		executor:  exec,
		registry:  agent.NewRegistry(),
		overrides: make(map[Stage]StageExecutor),
		tracer:    noop.NewTracerProvider().Tracer("eventplan/orchestrator"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.stages = DefaultStages(p.registry)
	for i := range p.stages {
		if exec, ok := p.overrides[p.stages[i].Stage]; ok {
			p.stages[i].Executor = exec
		}
	}
	return p
}

// runState is a state of the run state machine. Stage states map one-to-one
// onto pipeline stages; done and failed are terminal.
type runState int

const (
	stateInit runState = iota
	stateVenue
	stateLogistics
	stateMarketing
	stateDone
	stateFailed
)

func (s runState) String() string {
	switch s {
	case stateInit:
		return "init"
	case stateVenue, stateLogistics, stateMarketing:
		return s.stage().String()
	case stateDone:
		return "done"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func (s runState) stage() Stage {
	return Stage(s - stateVenue)
}

// Run executes the pipeline for one set of event parameters. It never
// returns a raw error: every call yields exactly one terminal result. Run
// does not validate params; callers reject bad input before calling it.
func (p *Pipeline) Run(ctx context.Context, params EventParams) PipelineResult {
	runID := RunIDFromContext(ctx)
	ctx, span := p.tracer.Start(ctx, "eventplan.run", trace.WithAttributes(
		attribute.String("eventplan.run_id", runID),
		attribute.String("eventplan.event.topic", params.Topic),
		attribute.String("eventplan.event.city", params.City),
		attribute.Int("eventplan.event.participants", params.Participants),
	))
	defer span.End()

	var (
		state   = stateInit
		flow    *FlowState
		failure *ExecutionError
	)

	for {
		switch state {
		case stateInit:
			flow = NewFlowState(params)
			for _, spec := range p.stages {
				p.emit(ctx, spec.Stage, ProgressPending, "")
			}
			state = stateVenue

		case stateVenue, stateLogistics, stateMarketing:
			if err := p.runStage(ctx, p.stages[state.stage()], flow); err != nil {
				failure = err
				state = stateFailed
				continue
			}
			state++

		case stateDone:
			span.SetStatus(codes.Ok, "")
			p.logger.Info("event plan complete", "run_id", runID, "topic", params.Topic)
			return successResult(flow)

		case stateFailed:
			span.RecordError(failure)
			span.SetStatus(codes.Error, failure.Error())
			span.SetAttributes(attribute.String("error.type", failure.Kind))
			return failureResult(failure)
		}
	}
}

// runStage renders the stage instruction, executes it and records the
// output into flow.
func (p *Pipeline) runStage(ctx context.Context, spec StageSpec, flow *FlowState) *ExecutionError {
	runID := RunIDFromContext(ctx)
	exec := spec.Executor
	if exec == nil {
		exec = p.executor
	}

	task := StageTask{
		Stage:          spec.Stage,
		Instruction:    spec.Render(flow),
		ExpectedOutput: spec.ExpectedOutput,
		Persona:        spec.Persona,
	}

	ctx, span := p.tracer.Start(ctx, "eventplan.stage."+spec.Stage.String(), trace.WithAttributes(
		attribute.String("eventplan.stage", spec.Stage.String()),
		attribute.String("eventplan.agent.role", spec.Persona.Role),
		attribute.Int("eventplan.instruction.length", len(task.Instruction)),
	))
	defer span.End()

	if p.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.stageTimeout)
		defer cancel()
	}

	p.emit(ctx, spec.Stage, ProgressWorking, "")
	p.logger.Debug("stage started", "run_id", runID, "stage", spec.Stage.String())
	start := time.Now()

	output, err := exec.Execute(ctx, task)
	if err == nil {
		err = flow.record(spec.Stage, output)
	}
	if err != nil {
		execErr := newExecutionError(spec.Stage, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.emit(ctx, spec.Stage, ProgressFailed, err.Error())
		p.logger.Warn("stage failed",
			"run_id", runID,
			"stage", spec.Stage.String(),
			"kind", execErr.Kind,
			"error", err,
		)
		return execErr
	}

	span.SetStatus(codes.Ok, "")
	span.SetAttributes(attribute.Int("eventplan.output.length", len(output)))
	p.emit(ctx, spec.Stage, ProgressComplete, "")
	p.logger.Debug("stage complete",
		"run_id", runID,
		"stage", spec.Stage.String(),
		"duration", time.Since(start),
	)
	return nil
}

func (p *Pipeline) emit(ctx context.Context, stage Stage, status ProgressStatus, msg string) {
	p.progressMu.Lock()
	pr := p.progress
	p.progressMu.Unlock()
	if pr == nil {
		return
	}
	pr.Emit(ProgressEvent{
		RunID:   RunIDFromContext(ctx),
		Stage:   stage,
		Status:  status,
		Message: msg,
	})
}

// Stages returns a copy of the pipeline's stage specifications.
func (p *Pipeline) Stages() []StageSpec {
	out := make([]StageSpec, len(p.stages))
	copy(out, p.stages)
	return out
}

// Progress returns the pipeline's progress channel, creating it on first use.
// Every call returns the same channel, so there is one subscriber per
// Pipeline. Events are emitted only once Progress has been called, and are
// dropped when the subscriber falls behind. After Close it returns a closed
// channel.
func (p *Pipeline) Progress() <-chan ProgressEvent {
	p.progressMu.Lock()
	defer p.progressMu.Unlock()
	if p.progress == nil {
		p.progress = NewProgressReporter()
		if p.closed {
			p.progress.Close()
		}
	}
	return p.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when the
// pipeline is no longer needed. It is safe to call more than once.
func (p *Pipeline) Close() {
	p.progressMu.Lock()
	defer p.progressMu.Unlock()
	p.closed = true
	if p.progress != nil {
		p.progress.Close()
	}
}
