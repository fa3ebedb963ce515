package main

import (
	"context"
	"flag"
	"log/slog"

	"github.com/dusk-indust/eventplan/internal/mcptools"
	"github.com/dusk-indust/eventplan/internal/server"
)

func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory holding eventplan.yml and .env")
	addr := fs.String("addr", "", "listen address (default http_addr from config)")
	withMCP := fs.Bool("mcp", true, "also serve the MCP tools at /mcp")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := []server.Option{server.WithVersion(version)}
	if *withMCP {
		mcpServer := mcptools.NewMCPServer(mcptools.NewPlanService(a.planner))
		opts = append(opts, server.WithMCPHandler(mcptools.NewHTTPHandler(mcpServer)))
	}

	slog.Info("starting eventplan api", "addr", cfg.HTTPAddr, "provider", a.provider.String())
	return server.NewServer(a.planner, opts...).Run(ctx, cfg.HTTPAddr)
}

func runServeMCP(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve-mcp", flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory holding eventplan.yml and .env")
	addr := fs.String("addr", "", "serve streamable HTTP on this address instead of stdio")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpServer := mcptools.NewMCPServer(mcptools.NewPlanService(a.planner))
	if *addr != "" {
		slog.Info("serving MCP over HTTP", "addr", *addr)
		return mcptools.RunHTTP(ctx, mcpServer, *addr)
	}
	return mcptools.RunStdio(ctx, mcpServer)
}
