package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/dusk-indust/eventplan/internal/agent"
	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/config"
	"github.com/dusk-indust/eventplan/internal/llm"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/planner"
)

// app holds everything a planning command needs.
type app struct {
	cfg      *config.ProjectConfig
	provider llm.ProviderConfig
	pipeline *orchestrator.Pipeline
	planner  *planner.Service
	store    *archive.Store
	tp       *sdktrace.TracerProvider
}

// loadConfig resolves configuration from dir and installs the logger.
func loadConfig(dir string) (*config.ProjectConfig, error) {
	cfg, err := config.Resolve(dir)
	if err != nil {
		return nil, err
	}
	config.SetupLogging(cfg.LogLevel)
	return cfg, nil
}

// newApp wires provider, pipeline, archive and planner. Provider problems
// surface as configuration errors before any pipeline exists.
func newApp(ctx context.Context, cfg *config.ProjectConfig) (*app, error) {
	provider, err := llm.SelectProvider(os.Getenv, llm.ProviderKind(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, err
	}

	var llmOpts []llm.Option
	if cfg.Temperature != nil {
		llmOpts = append(llmOpts, llm.WithTemperature(*cfg.Temperature))
	}
	if cfg.MaxTokens > 0 {
		llmOpts = append(llmOpts, llm.WithMaxTokens(cfg.MaxTokens))
	}
	exec, err := llm.New(provider, llmOpts...)
	if err != nil {
		return nil, err
	}

	reg := agent.NewRegistry()
	if err := cfg.ApplyPersonas(reg); err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, provider: provider}

	pipeOpts := []orchestrator.Option{
		orchestrator.WithRegistry(reg),
		orchestrator.WithStageTimeout(cfg.StageTimeout),
		orchestrator.WithLogger(slog.Default()),
	}
	tp, err := setupTracing(cfg.Trace, os.Stderr)
	if err != nil {
		return nil, err
	}
	if tp != nil {
		a.tp = tp
		pipeOpts = append(pipeOpts, orchestrator.WithTracer(tp.Tracer("eventplan/orchestrator")))
	}
	a.pipeline = orchestrator.NewPipeline(exec, pipeOpts...)

	svcOpts := []planner.Option{
		planner.WithProvider(provider.String()),
		planner.WithOutputDir(cfg.OutputDir),
	}
	if cfg.ArchiveURL != "" {
		store, err := archive.Open(ctx, cfg.ArchiveURL, cfg.ArchivePrefix)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.store = store
		svcOpts = append(svcOpts, planner.WithArchive(store))
	}
	a.planner = planner.NewService(a.pipeline, svcOpts...)

	slog.Debug("app ready", "provider", provider.String(), "archive", cfg.ArchiveURL != "")
	return a, nil
}

func (a *app) Close() {
	if a.pipeline != nil {
		a.pipeline.Close()
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("close archive", "error", err)
		}
	}
	if a.tp != nil {
		if err := a.tp.Shutdown(context.Background()); err != nil {
			slog.Warn("shutdown tracing", "error", err)
		}
	}
}

// openArchive opens the configured archive for read-only commands.
func openArchive(ctx context.Context, cfg *config.ProjectConfig) (*archive.Store, error) {
	if cfg.ArchiveURL == "" {
		return nil, fmt.Errorf("%w: set archive_url in eventplan.yml or EVENTPLAN_ARCHIVE_URL", planner.ErrNoArchive)
	}
	return archive.Open(ctx, cfg.ArchiveURL, cfg.ArchivePrefix)
}
