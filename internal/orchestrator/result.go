package orchestrator

// Outcome tags a PipelineResult.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// PipelineResult is the terminal outcome of a run. A successful result holds
// the three stage outputs; a failed result holds only the failure message and
// kind. Outputs of stages that completed before a failure are never exposed.
type PipelineResult struct {
	Outcome Outcome

	Venue     string
	Logistics string
	Marketing string

	Message     string
	ErrorKind   string
	FailedStage string
}

func successResult(f *FlowState) PipelineResult {
	return PipelineResult{
		Outcome:   OutcomeSuccess,
		Venue:     f.VenueOutput(),
		Logistics: f.LogisticsOutput(),
		Marketing: f.MarketingOutput(),
	}
}

func failureResult(err *ExecutionError) PipelineResult {
	return PipelineResult{
		Outcome:     OutcomeFailure,
		Message:     err.Error(),
		ErrorKind:   err.Kind,
		FailedStage: err.Stage.String(),
	}
}

// Succeeded reports whether the run reached the done state.
func (r PipelineResult) Succeeded() bool {
	return r.Outcome == OutcomeSuccess
}

// Output returns the output of stage for a successful result.
func (r PipelineResult) Output(stage Stage) string {
	switch stage {
	case StageVenue:
		return r.Venue
	case StageLogistics:
		return r.Logistics
	case StageMarketing:
		return r.Marketing
	default:
		return ""
	}
}
