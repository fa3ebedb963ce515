package mcptools

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/planner"
)

// mockOrchestrator is a test double for orchestrator.Orchestrator.
type mockOrchestrator struct {
	result     *orchestrator.PipelineResult
	progressCh chan orchestrator.ProgressEvent
}

func newMockOrchestrator() *mockOrchestrator {
	ch := make(chan orchestrator.ProgressEvent)
	close(ch) // immediately closed since we don't need progress
	return &mockOrchestrator{progressCh: ch}
}

func (m *mockOrchestrator) Run(_ context.Context, p orchestrator.EventParams) orchestrator.PipelineResult {
	if m.result != nil {
		return *m.result
	}
	return orchestrator.PipelineResult{
		Outcome:   orchestrator.OutcomeSuccess,
		Venue:     "Venue in " + p.City,
		Logistics: "Logistics for " + p.Topic,
		Marketing: "Marketing for " + p.Date,
	}
}

func (m *mockOrchestrator) Progress() <-chan orchestrator.ProgressEvent {
	return m.progressCh
}

func newPlanService(t *testing.T, orch orchestrator.Orchestrator, withArchive bool) *PlanService {
	t.Helper()
	var opts []planner.Option
	if withArchive {
		store := archive.New(memblob.OpenBucket(nil), "plans")
		t.Cleanup(func() { _ = store.Close() })
		opts = append(opts, planner.WithArchive(store))
	}
	return NewPlanService(planner.NewService(orch, opts...))
}

// setupServerClient wires an MCP server and client together using in-memory
// transports.
func setupServerClient(t *testing.T, svc *PlanService) *mcp.ClientSession {
	t.Helper()

	server := NewMCPServer(svc)
	st, ct := mcp.NewInMemoryTransports()
	ctx := context.Background()

	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
	})
	return session
}

func decode[T any](t *testing.T, result *mcp.CallToolResult) T {
	t.Helper()
	require.NotNil(t, result.StructuredContent, "expected structured content")
	raw, err := json.Marshal(result.StructuredContent)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

var summitInput = PlanEventInput{
	Topic:        "Tech Summit",
	City:         "Berlin",
	Participants: 500,
	Date:         "2025-06-15",
}

func TestMCPListTools(t *testing.T) {
	session := setupServerClient(t, newPlanService(t, newMockOrchestrator(), true))

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}
	sort.Strings(names)
	assert.Equal(t, []string{"get_plan", "list_plans", "plan_event", "plan_events"}, names)
}

func TestMCPPlanEvent(t *testing.T) {
	session := setupServerClient(t, newPlanService(t, newMockOrchestrator(), true))
	ctx := context.Background()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "plan_event",
		Arguments: summitInput,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "plan_event should not return an error")

	out := decode[PlanEventOutput](t, result)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "Venue in Berlin", out.VenueRecommendation)
	assert.Equal(t, "Logistics for Tech Summit", out.LogisticsPlan)
	assert.Equal(t, "Marketing for 2025-06-15", out.MarketingPlan)

	got, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_plan",
		Arguments: GetPlanInput{ID: out.ID},
	})
	require.NoError(t, err)
	require.False(t, got.IsError)
	assert.Equal(t, out, decode[PlanEventOutput](t, got))
}

func TestMCPPlanEvent_PipelineFailure(t *testing.T) {
	mock := newMockOrchestrator()
	mock.result = &orchestrator.PipelineResult{
		Outcome:     orchestrator.OutcomeFailure,
		Message:     "flow execution failed at logistics stage: rate limited",
		ErrorKind:   "ProviderRateLimited",
		FailedStage: "logistics",
	}
	session := setupServerClient(t, newPlanService(t, mock, false))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "plan_event",
		Arguments: summitInput,
	})
	require.NoError(t, err)
	require.False(t, result.IsError, "a failed pipeline is a normal result")

	out := decode[PlanEventOutput](t, result)
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, "ProviderRateLimited", out.ErrorType)
	assert.Equal(t, "logistics", out.FailedStage)
	assert.Empty(t, out.VenueRecommendation)
}

func TestMCPPlanEvent_InvalidInput(t *testing.T) {
	session := setupServerClient(t, newPlanService(t, newMockOrchestrator(), false))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "plan_event",
		Arguments: PlanEventInput{Topic: "Tech Summit"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPPlanEvents(t *testing.T) {
	session := setupServerClient(t, newPlanService(t, newMockOrchestrator(), false))

	second := summitInput
	second.City = "Lisbon"
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "plan_events",
		Arguments: PlanEventsInput{Events: []PlanEventInput{summitInput, second}, Concurrency: 2},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decode[PlanEventsOutput](t, result)
	require.Len(t, out.Plans, 2)
	assert.Equal(t, "Venue in Berlin", out.Plans[0].VenueRecommendation)
	assert.Equal(t, "Venue in Lisbon", out.Plans[1].VenueRecommendation)
}

func TestMCPListPlans(t *testing.T) {
	session := setupServerClient(t, newPlanService(t, newMockOrchestrator(), true))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "plan_event", Arguments: summitInput})
		require.NoError(t, err)
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_plans",
		Arguments: ListPlansInput{Limit: 2},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := decode[ListPlansOutput](t, result)
	require.Len(t, out.Plans, 2)
	assert.Equal(t, "Berlin", out.Plans[0].City)
	_, err = time.Parse(time.RFC3339, out.Plans[0].CreatedAt)
	assert.NoError(t, err)
}

func TestMCPGetPlan_NoArchive(t *testing.T) {
	svc := newPlanService(t, newMockOrchestrator(), false)

	_, _, err := svc.GetPlan(context.Background(), nil, GetPlanInput{ID: "x"})
	assert.ErrorIs(t, err, planner.ErrNoArchive)

	_, _, err = svc.ListPlans(context.Background(), nil, ListPlansInput{})
	assert.ErrorIs(t, err, planner.ErrNoArchive)
}

func TestMCPGetPlan_Missing(t *testing.T) {
	svc := newPlanService(t, newMockOrchestrator(), true)

	_, _, err := svc.GetPlan(context.Background(), nil, GetPlanInput{ID: "missing"})
	assert.ErrorIs(t, err, archive.ErrNotFound)

	_, _, err = svc.GetPlan(context.Background(), nil, GetPlanInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "id is required")
}

func TestMCPPlanEvents_Empty(t *testing.T) {
	svc := newPlanService(t, newMockOrchestrator(), false)

	_, _, err := svc.PlanEvents(context.Background(), nil, PlanEventsInput{})
	require.Error(t, err)
}

func TestMCPStreamableHTTP(t *testing.T) {
	server := NewMCPServer(newPlanService(t, newMockOrchestrator(), false))
	httpServer := httptest.NewServer(NewHTTPHandler(server))
	defer httpServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "dev"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL}, nil)
	require.NoError(t, err)
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "plan_event", Arguments: summitInput})
	require.NoError(t, err)
	out := decode[PlanEventOutput](t, result)
	assert.True(t, strings.HasPrefix(out.VenueRecommendation, "Venue in"))
}

func TestRunHTTP_StopsOnCancel(t *testing.T) {
	server := NewMCPServer(newPlanService(t, newMockOrchestrator(), false))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- RunHTTP(ctx, server, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunHTTP did not return after cancel")
	}
}
