// Package planner runs event planning requests end to end: it validates the
// request, drives the stage pipeline, and records the outcome.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/export"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// ErrNoArchive is returned by history lookups when no archive is configured.
var ErrNoArchive = errors.New("planner: no archive configured")

// Archive persists planning records.
type Archive interface {
	Save(ctx context.Context, rec *archive.Record) error
	Get(ctx context.Context, id string) (*archive.Record, error)
	List(ctx context.Context) ([]*archive.Record, error)
	Delete(ctx context.Context, id string) error
}

// Compile-time interface check.
var _ Archive = (*archive.Store)(nil)

// Accepted attendee counts.
const (
	MinParticipants = 10
	MaxParticipants = 10000
)

// ValidationError lists every problem found in a request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid event parameters: " + strings.Join(e.Problems, "; ")
}

// Validate checks that every event parameter is usable.
func Validate(p orchestrator.EventParams) error {
	var problems []string
	if strings.TrimSpace(p.Topic) == "" {
		problems = append(problems, "event_topic is required")
	}
	if strings.TrimSpace(p.City) == "" {
		problems = append(problems, "event_city is required")
	}
	if p.Participants < MinParticipants || p.Participants > MaxParticipants {
		problems = append(problems, fmt.Sprintf("expected_participants must be between %d and %d", MinParticipants, MaxParticipants))
	}
	if date := strings.TrimSpace(p.Date); date == "" {
		problems = append(problems, "tentative_date is required")
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		problems = append(problems, "tentative_date must be a calendar date (YYYY-MM-DD)")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Service plans events on an orchestrator.
type Service struct {
	orch      orchestrator.Orchestrator
	archive   Archive
	outputDir string
	provider  string
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// Option configures a Service.
type Option func(*Service)

// WithArchive records every run in a.
func WithArchive(a Archive) Option {
	return func(s *Service) {
		s.archive = a
	}
}

// WithOutputDir writes stage files of successful runs to dir/<run id>.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		s.outputDir = dir
	}
}

// WithProvider names the completion provider in records.
func WithProvider(name string) Option {
	return func(s *Service) {
		s.provider = name
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithIDGenerator replaces the random run ID source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService creates a Service running plans on orch.
func NewService(orch orchestrator.Orchestrator, opts ...Option) *Service {
	s := &Service{
		orch:   orch,
		logger: slog.Default(),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasArchive reports whether runs are recorded.
func (s *Service) HasArchive() bool { return s.archive != nil }

// Plan validates params and runs the pipeline. A pipeline failure is not a
// Go error: it comes back as a record whose report has status "error".
// Archive and file write failures are logged and never change the report.
func (s *Service) Plan(ctx context.Context, params orchestrator.EventParams) (*archive.Record, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}

	id := s.newID()
	start := s.now()
	ctx = orchestrator.WithRunID(ctx, id)

	s.logger.Info("planning event",
		"run_id", id,
		"topic", params.Topic,
		"city", params.City,
		"participants", params.Participants,
	)

	result := s.orch.Run(ctx, params)

	rec := &archive.Record{
		ID:          id,
		CreatedAt:   start.UTC(),
		Params:      params,
		Report:      orchestrator.NewReport(result),
		FailedStage: result.FailedStage,
		Provider:    s.provider,
		Elapsed:     s.now().Sub(start),
	}

	if s.outputDir != "" && rec.Succeeded() {
		dir := filepath.Join(s.outputDir, id)
		if _, err := export.WriteStageFiles(dir, rec.Report); err != nil {
			s.logger.Warn("write stage files failed", "run_id", id, "error", err)
		} else {
			rec.OutputDir = dir
		}
	}

	if s.archive != nil {
		if err := s.archive.Save(ctx, rec); err != nil {
			s.logger.Warn("archive run failed", "run_id", id, "error", err)
		}
	}

	if rec.Succeeded() {
		s.logger.Info("event planned", "run_id", id, "elapsed", rec.Elapsed)
	} else {
		s.logger.Warn("event planning failed",
			"run_id", id,
			"stage", rec.FailedStage,
			"kind", rec.Report.ErrorType,
		)
	}
	return rec, nil
}

// Get returns an archived run.
func (s *Service) Get(ctx context.Context, id string) (*archive.Record, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	rec, err := s.archive.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("planner: get %s: %w", id, err)
	}
	return rec, nil
}

// List returns archived runs, newest first.
func (s *Service) List(ctx context.Context) ([]*archive.Record, error) {
	if s.archive == nil {
		return nil, ErrNoArchive
	}
	recs, err := s.archive.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("planner: list: %w", err)
	}
	return recs, nil
}

// Delete removes an archived run. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.archive == nil {
		return ErrNoArchive
	}
	if err := s.archive.Delete(ctx, id); err != nil {
		return fmt.Errorf("planner: delete %s: %w", id, err)
	}
	s.logger.Info("plan deleted", "run_id", id)
	return nil
}
