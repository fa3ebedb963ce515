package orchestrator

import (
	"context"

	"github.com/dusk-indust/eventplan/internal/agent"
)

// Stage identifies a pipeline stage (0–2).
type Stage int

const (
	StageVenue     Stage = 0
	StageLogistics Stage = 1
	StageMarketing Stage = 2

	stageCount = 3
)

func (s Stage) String() string {
	names := [...]string{
		"venue",
		"logistics",
		"marketing",
	}
	if s >= 0 && int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Label returns the heading used when a stage's output is shown to a user.
func (s Stage) Label() string {
	labels := [...]string{
		"Venue Recommendation",
		"Logistics Plan",
		"Marketing Strategy",
	}
	if s >= 0 && int(s) < len(labels) {
		return labels[s]
	}
	return "Unknown Stage"
}

// Role returns the agent role responsible for the stage.
func (s Stage) Role() agent.Role {
	switch s {
	case StageVenue:
		return agent.RoleVenue
	case StageLogistics:
		return agent.RoleLogistics
	case StageMarketing:
		return agent.RoleMarketing
	default:
		return agent.Role(s.String())
	}
}

// Stages returns every stage in execution order.
func Stages() []Stage {
	return []Stage{StageVenue, StageLogistics, StageMarketing}
}

// ParseStage converts a stage name back into a Stage.
func ParseStage(name string) (Stage, bool) {
	for _, s := range Stages() {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// EventParams are the initial values of a run.
type EventParams struct {
	Topic        string `json:"event_topic"`
	City         string `json:"event_city"`
	Participants int    `json:"expected_participants"`
	Date         string `json:"tentative_date"`
}

// StageTask is a single request to a StageExecutor: the rendered instruction,
// a description of the expected output and the persona to answer as.
type StageTask struct {
	Stage          Stage
	Instruction    string
	ExpectedOutput string
	Persona        agent.Persona
}

// StageExecutor produces the text result for one stage. Implementations block
// until the result is available or the call fails.
type StageExecutor interface {
	Execute(ctx context.Context, task StageTask) (string, error)
}

// ExecutorFunc adapts an ordinary function to the StageExecutor interface.
type ExecutorFunc func(ctx context.Context, task StageTask) (string, error)

// Execute calls f(ctx, task).
func (f ExecutorFunc) Execute(ctx context.Context, task StageTask) (string, error) {
	return f(ctx, task)
}

// ProgressEvent is emitted while a run moves through its stages. It never
// carries stage output text.
type ProgressEvent struct {
	RunID   string
	Stage   Stage
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of a stage within a run.
type ProgressStatus string

const (
	ProgressPending  ProgressStatus = "pending"
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressFailed   ProgressStatus = "failed"
)

// Orchestrator runs the event planning pipeline.
type Orchestrator interface {
	// Run executes every stage in order and always returns a terminal result.
	Run(ctx context.Context, params EventParams) PipelineResult

	// Progress returns a channel that emits progress events.
	Progress() <-chan ProgressEvent
}

type runIDKey struct{}

// WithRunID returns a context carrying the caller's run identifier. Progress
// events and log lines emitted for the run are tagged with it.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run identifier stored by WithRunID, if any.
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
