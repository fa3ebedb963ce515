package mcptools

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// version is set by the linker at build time.
var version = "dev"

// NewMCPServer creates an MCP server with the planning tools registered:
// plan_event, plan_events, get_plan and list_plans.
func NewMCPServer(svc *PlanService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "eventplan",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_event",
		Description: "Plan an event. Runs the venue, logistics and marketing stages in order and returns all three plans, or the stage failure.",
	}, svc.PlanEvent)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "plan_events",
		Description: "Plan several events. Each event runs its own sequential pipeline; concurrency bounds how many run at once.",
	}, svc.PlanEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_plan",
		Description: "Fetch an archived plan by the id plan_event returned.",
	}, svc.GetPlan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_plans",
		Description: "List archived plans, newest first.",
	}, svc.ListPlans)

	return server
}

// RunStdio runs the MCP server on stdio transport, blocking until stdin is
// closed or the context is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

// NewHTTPHandler exposes server over the streamable HTTP transport.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)
}

// RunHTTP serves the MCP tools over streamable HTTP on addr until ctx is
// cancelled.
func RunHTTP(ctx context.Context, server *mcp.Server, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: NewHTTPHandler(server),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return httpServer.Shutdown(context.Background())
	})
	return g.Wait()
}
