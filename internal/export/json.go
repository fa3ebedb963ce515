package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/status"
)

// RunExport is the top-level JSON export structure.
type RunExport struct {
	ID         string                   `json:"id"`
	CreatedAt  string                   `json:"createdAt"`
	ExportedAt string                   `json:"exportedAt"`
	Params     orchestrator.EventParams `json:"params"`
	Stages     []StageExport            `json:"stages"`
	Report     orchestrator.Report      `json:"report"`
}

// StageExport describes one pipeline stage.
type StageExport struct {
	Stage    int    `json:"stage"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	FilePath string `json:"filePath,omitempty"`
}

// BuildExport builds a RunExport from an archived record. When outputDir is
// set, stage files found there are linked from their stages.
func BuildExport(rec *archive.Record, outputDir string) *RunExport {
	exp := &RunExport{
		ID:         rec.ID,
		CreatedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Params:     rec.Params,
		Report:     rec.Report,
	}

	files := make(map[orchestrator.Stage]string)
	if outputDir != "" {
		for _, si := range status.GetOutputStatus(outputDir).Stages {
			if si.Complete {
				files[si.Stage] = si.FilePath
			}
		}
	}

	for _, s := range orchestrator.Stages() {
		exp.Stages = append(exp.Stages, StageExport{
			Stage:    int(s) + 1,
			Name:     s.Label(),
			Status:   stageStatus(rec, s),
			FilePath: files[s],
		})
	}
	return exp
}

// JSON returns the indented export of rec.
func JSON(rec *archive.Record) ([]byte, error) {
	data, err := json.MarshalIndent(BuildExport(rec, ""), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode %s: %w", rec.ID, err)
	}
	return data, nil
}

// stageStatus derives a stage's status from the record. Stages after the
// failed one never ran.
func stageStatus(rec *archive.Record, s orchestrator.Stage) string {
	if rec.Succeeded() {
		return string(orchestrator.ProgressComplete)
	}
	failed, ok := orchestrator.ParseStage(rec.FailedStage)
	switch {
	case !ok:
		return string(orchestrator.ProgressFailed)
	case s < failed:
		return string(orchestrator.ProgressComplete)
	case s == failed:
		return string(orchestrator.ProgressFailed)
	default:
		return string(orchestrator.ProgressPending)
	}
}
