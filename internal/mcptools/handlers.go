package mcptools

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/planner"
	"github.com/dusk-indust/eventplan/internal/status"
)

// PlanService handles MCP tool calls. It wraps a planner.Service.
type PlanService struct {
	planner *planner.Service
}

// NewPlanService creates a PlanService backed by p.
func NewPlanService(p *planner.Service) *PlanService {
	return &PlanService{planner: p}
}

// PlanEvent runs the planning pipeline for one event. A failed pipeline is
// a normal result with status "error"; invalid input is a tool error.
func (s *PlanService) PlanEvent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanEventInput,
) (*mcp.CallToolResult, PlanEventOutput, error) {
	rec, err := s.planner.Plan(ctx, input.params())
	if err != nil {
		return nil, PlanEventOutput{}, err
	}
	return nil, toOutput(rec), nil
}

// PlanEvents plans several events, optionally concurrently.
func (s *PlanService) PlanEvents(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanEventsInput,
) (*mcp.CallToolResult, PlanEventsOutput, error) {
	if len(input.Events) == 0 {
		return nil, PlanEventsOutput{}, fmt.Errorf("events must not be empty")
	}

	reqs := make([]orchestrator.EventParams, len(input.Events))
	for i, ev := range input.Events {
		reqs[i] = ev.params()
	}

	results, err := s.planner.PlanBatch(ctx, reqs, input.Concurrency)
	if err != nil {
		return nil, PlanEventsOutput{}, err
	}

	out := PlanEventsOutput{Plans: make([]PlanEventOutput, 0, len(results))}
	for _, r := range results {
		if r.Record == nil {
			return nil, PlanEventsOutput{}, fmt.Errorf("event %d: %w", r.Index, r.Err)
		}
		out.Plans = append(out.Plans, toOutput(r.Record))
	}
	return nil, out, nil
}

// GetPlan returns an archived plan by ID.
func (s *PlanService) GetPlan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetPlanInput,
) (*mcp.CallToolResult, PlanEventOutput, error) {
	if input.ID == "" {
		return nil, PlanEventOutput{}, fmt.Errorf("id is required")
	}
	rec, err := s.planner.Get(ctx, input.ID)
	if err != nil {
		return nil, PlanEventOutput{}, err
	}
	return nil, toOutput(rec), nil
}

// ListPlans lists archived plans, newest first.
func (s *PlanService) ListPlans(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListPlansInput,
) (*mcp.CallToolResult, ListPlansOutput, error) {
	recs, err := s.planner.List(ctx)
	if err != nil {
		return nil, ListPlansOutput{}, err
	}
	if input.Limit > 0 && len(recs) > input.Limit {
		recs = recs[:input.Limit]
	}

	out := ListPlansOutput{Plans: make([]PlanSummary, 0, len(recs))}
	for _, sum := range status.Summarize(recs) {
		out.Plans = append(out.Plans, PlanSummary{
			ID:        sum.ID,
			Topic:     sum.Topic,
			City:      sum.City,
			Date:      sum.Date,
			Status:    sum.Status,
			Detail:    sum.Detail,
			CreatedAt: sum.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return nil, out, nil
}

func (in PlanEventInput) params() orchestrator.EventParams {
	return orchestrator.EventParams{
		Topic:        in.Topic,
		City:         in.City,
		Participants: in.Participants,
		Date:         in.Date,
	}
}

func toOutput(rec *archive.Record) PlanEventOutput {
	r := rec.Report
	return PlanEventOutput{
		ID:                  rec.ID,
		Status:              r.Status,
		VenueRecommendation: r.VenueRecommendation,
		LogisticsPlan:       r.LogisticsPlan,
		MarketingPlan:       r.MarketingPlan,
		Message:             r.Message,
		ErrorType:           r.ErrorType,
		FailedStage:         rec.FailedStage,
	}
}
