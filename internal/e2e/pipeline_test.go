//go:build e2e

package e2e

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"github.com/dusk-indust/eventplan/internal/agent"
	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/llm"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/planner"
	"github.com/dusk-indust/eventplan/internal/status"
)

var summit = orchestrator.EventParams{
	Topic:        "Tech Summit",
	City:         "Berlin",
	Participants: 500,
	Date:         "2025-06-15",
}

type harness struct {
	model    *scriptedModel
	pipeline *orchestrator.Pipeline
	store    *archive.Store
	service  *planner.Service
	outDir   string
	events   []orchestrator.ProgressEvent
	drained  chan struct{}
}

func newHarness(t *testing.T, fail map[string]error) *harness {
	t.Helper()

	h := &harness{
		model:   &scriptedModel{fail: fail},
		store:   archive.New(memblob.OpenBucket(nil), "plans"),
		outDir:  t.TempDir(),
		drained: make(chan struct{}),
	}
	exec := llm.NewExecutor(h.model, "scripted")
	h.pipeline = orchestrator.NewPipeline(exec, orchestrator.WithRegistry(agent.NewRegistry()))

	go func() {
		defer close(h.drained)
		for ev := range h.pipeline.Progress() {
			h.events = append(h.events, ev)
		}
	}()

	h.service = planner.NewService(h.pipeline,
		planner.WithArchive(h.store),
		planner.WithOutputDir(h.outDir),
		planner.WithProvider("scripted"),
		planner.WithIDGenerator(func() string { return "run-1" }),
	)
	t.Cleanup(func() { _ = h.store.Close() })
	return h
}

// finish closes the pipeline and waits for the progress drain.
func (h *harness) finish() {
	h.pipeline.Close()
	<-h.drained
}

func TestPipeline_E2E_Success(t *testing.T) {
	h := newHarness(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := h.service.Plan(ctx, summit)
	require.NoError(t, err)
	h.finish()

	require.True(t, rec.Succeeded(), "report: %+v", rec.Report)
	assert.Equal(t, stageAnswers["Venue Coordinator"], rec.Report.VenueRecommendation)
	assert.Equal(t, stageAnswers["Logistics Manager"], rec.Report.LogisticsPlan)
	assert.Equal(t, stageAnswers["Marketing Specialist"], rec.Report.MarketingPlan)
	assert.Equal(t, []string{"Venue Coordinator", "Logistics Manager", "Marketing Specialist"}, h.model.Calls())

	// Stage files land under the run directory.
	assert.Equal(t, filepath.Join(h.outDir, "run-1"), rec.OutputDir)
	st := status.GetOutputStatus(rec.OutputDir)
	assert.Equal(t, -1, st.NextStage)

	// The archived copy matches what the caller saw.
	stored, err := h.service.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, rec.Report, stored.Report)
	assert.Equal(t, "scripted", stored.Provider)

	var completed int
	for _, ev := range h.events {
		if ev.Status == orchestrator.ProgressComplete {
			completed++
		}
	}
	assert.Equal(t, 3, completed)
}

func TestPipeline_E2E_StageFailureStopsPipeline(t *testing.T) {
	h := newHarness(t, map[string]error{
		"Logistics Manager": errors.New("429 Too Many Requests"),
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := h.service.Plan(ctx, summit)
	require.NoError(t, err)
	h.finish()

	require.False(t, rec.Succeeded())
	assert.Equal(t, "error", rec.Report.Status)
	assert.Equal(t, llm.KindRateLimited, rec.Report.ErrorType)
	assert.Contains(t, rec.Report.Message, "logistics")
	assert.Equal(t, "logistics", rec.FailedStage)
	assert.Empty(t, rec.Report.VenueRecommendation, "partial results are not surfaced")
	assert.Empty(t, rec.OutputDir, "failed runs write no stage files")

	assert.Equal(t, []string{"Venue Coordinator", "Logistics Manager"}, h.model.Calls(),
		"marketing must not run after logistics fails")

	recs, err := h.service.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "logistics", recs[0].FailedStage)
}

func TestPipeline_E2E_ValidationRejectsBeforeAnyCall(t *testing.T) {
	h := newHarness(t, nil)

	bad := summit
	bad.Participants = 5
	_, err := h.service.Plan(context.Background(), bad)
	h.finish()

	var ve *planner.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, h.model.Calls())
}
