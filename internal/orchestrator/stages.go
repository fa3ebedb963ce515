package orchestrator

import (
	"fmt"

	"github.com/dusk-indust/eventplan/internal/agent"
)

// StageSpec is the static description of one stage: how to render its
// instruction from the flow state, what output is expected, who answers, and
// optionally which executor answers (nil uses the pipeline default).
type StageSpec struct {
	Stage          Stage
	Persona        agent.Persona
	ExpectedOutput string
	Render         func(*FlowState) string
	Executor       StageExecutor
}

// Expected output descriptions, one per stage.
const (
	VenueExpectedOutput     = "A detailed venue recommendation with name, address, capacity, amenities, and cost"
	LogisticsExpectedOutput = "Comprehensive logistics plan with vendor recommendations and cost estimates"
	MarketingExpectedOutput = "Complete marketing plan with channels, timeline, reach estimates, and budget"
)

// DefaultStages returns the three stage specifications in execution order,
// with personas taken from reg.
func DefaultStages(reg *agent.Registry) []StageSpec {
	return []StageSpec{
		{
			Stage:          StageVenue,
			Persona:        reg.MustLookup(agent.RoleVenue),
			ExpectedOutput: VenueExpectedOutput,
			Render:         renderVenue,
		},
		{
			Stage:          StageLogistics,
			Persona:        reg.MustLookup(agent.RoleLogistics),
			ExpectedOutput: LogisticsExpectedOutput,
			Render:         renderLogistics,
		},
		{
			Stage:          StageMarketing,
			Persona:        reg.MustLookup(agent.RoleMarketing),
			ExpectedOutput: MarketingExpectedOutput,
			Render:         renderMarketing,
		},
	}
}

func renderVenue(f *FlowState) string {
	return fmt.Sprintf("Find a suitable venue in %s for '%s' "+
		"that can accommodate %d people on %s. "+
		"Provide: venue name, address, capacity, key amenities, and estimated cost per day.",
		f.City(), f.Topic(), f.Participants(), f.Date())
}

// renderLogistics embeds the venue output verbatim. It must not summarize or
// reformat it.
func renderLogistics(f *FlowState) string {
	return "Based on this venue: " + f.VenueOutput() + "\n\n" +
		"Plan the logistics including:\n" +
		"1. Catering options (breakfast, lunch, refreshments)\n" +
		"2. AV equipment needed\n" +
		"3. Furniture and seating arrangements\n" +
		"4. Vendor recommendations with estimated costs"
}

// renderMarketing embeds the logistics output verbatim.
func renderMarketing(f *FlowState) string {
	return "Create a marketing strategy considering these logistics: " + f.LogisticsOutput() + "\n\n" +
		"Include:\n" +
		"1. Target channels (social media, email, partnerships)\n" +
		"2. Content strategy and timeline\n" +
		"3. Estimated reach and engagement goals\n" +
		"4. Marketing budget breakdown"
}
