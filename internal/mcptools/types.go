package mcptools

// --- MCP tool types for serve-mcp ---

// PlanEventInput is the input for the plan_event MCP tool.
type PlanEventInput struct {
	Topic        string `json:"event_topic" jsonschema:"what the event is about"`
	City         string `json:"event_city" jsonschema:"city the event takes place in"`
	Participants int    `json:"expected_participants" jsonschema:"expected number of attendees"`
	Date         string `json:"tentative_date" jsonschema:"tentative date of the event"`
}

// PlanEventOutput is the result of the plan_event MCP tool. Success
// fields are set when status is "success", message and error_type when
// status is "error".
type PlanEventOutput struct {
	ID                  string `json:"id"`
	Status              string `json:"status"`
	VenueRecommendation string `json:"venue_recommendation,omitempty"`
	LogisticsPlan       string `json:"logistics_plan,omitempty"`
	MarketingPlan       string `json:"marketing_plan,omitempty"`
	Message             string `json:"message,omitempty"`
	ErrorType           string `json:"error_type,omitempty"`
	FailedStage         string `json:"failed_stage,omitempty"`
}

// PlanEventsInput is the input for the plan_events MCP tool.
type PlanEventsInput struct {
	Events      []PlanEventInput `json:"events" jsonschema:"events to plan"`
	Concurrency int              `json:"concurrency,omitempty" jsonschema:"maximum pipelines run at once (default 1)"`
}

// PlanEventsOutput is the result of the plan_events MCP tool.
type PlanEventsOutput struct {
	Plans []PlanEventOutput `json:"plans"`
}

// GetPlanInput is the input for the get_plan MCP tool.
type GetPlanInput struct {
	ID string `json:"id" jsonschema:"plan id returned by plan_event"`
}

// ListPlansInput is the input for the list_plans MCP tool.
type ListPlansInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of plans to return (default all)"`
}

// ListPlansOutput is the result of the list_plans MCP tool.
type ListPlansOutput struct {
	Plans []PlanSummary `json:"plans"`
}

// PlanSummary is a brief overview of one archived plan.
type PlanSummary struct {
	ID        string `json:"id"`
	Topic     string `json:"event_topic"`
	City      string `json:"event_city"`
	Date      string `json:"tentative_date"`
	Status    string `json:"status"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}
