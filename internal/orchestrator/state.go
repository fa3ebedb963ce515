package orchestrator

import "fmt"

// FlowState is the record of a single run: the initial parameters and the
// stage outputs accumulated so far. A FlowState belongs to exactly one run and
// is never shared, so it carries no locking.
type FlowState struct {
	params    EventParams
	outputs   [stageCount]string
	completed int
}

// NewFlowState creates the state for a new run.
func NewFlowState(params EventParams) *FlowState {
	return &FlowState{params: params}
}

// Params returns the initial parameters of the run.
func (f *FlowState) Params() EventParams { return f.params }

// Topic returns the event topic.
func (f *FlowState) Topic() string { return f.params.Topic }

// City returns the event city.
func (f *FlowState) City() string { return f.params.City }

// Participants returns the expected participant count.
func (f *FlowState) Participants() int { return f.params.Participants }

// Date returns the tentative event date.
func (f *FlowState) Date() string { return f.params.Date }

// VenueOutput returns the venue stage output. Only valid once the venue
// stage has completed.
func (f *FlowState) VenueOutput() string { return f.outputs[StageVenue] }

// LogisticsOutput returns the logistics stage output. Only valid once the
// logistics stage has completed.
func (f *FlowState) LogisticsOutput() string { return f.outputs[StageLogistics] }

// MarketingOutput returns the marketing stage output. Only valid once the
// marketing stage has completed.
func (f *FlowState) MarketingOutput() string { return f.outputs[StageMarketing] }

// Output returns the output of stage and whether that stage has completed.
func (f *FlowState) Output(stage Stage) (string, bool) {
	if stage < 0 || int(stage) >= f.completed {
		return "", false
	}
	return f.outputs[stage], true
}

// Completed returns the number of stages whose output has been recorded.
func (f *FlowState) Completed() int { return f.completed }

// record stores the output of stage. Outputs are write-once and must be
// recorded in stage order.
func (f *FlowState) record(stage Stage, output string) error {
	switch {
	case stage < 0 || int(stage) >= stageCount:
		return fmt.Errorf("flow state: stage %d: %w", int(stage), ErrUnknownStage)
	case int(stage) < f.completed:
		return fmt.Errorf("flow state: stage %s: %w", stage, ErrStageRecorded)
	case int(stage) > f.completed:
		return fmt.Errorf("flow state: stage %s before %s: %w",
			stage, Stage(f.completed), ErrStageOutOfOrder)
	}
	f.outputs[stage] = output
	f.completed++
	return nil
}
