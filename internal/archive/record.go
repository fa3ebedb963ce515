package archive

import (
	"time"

	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// Record is one archived planning run.
type Record struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Params    orchestrator.EventParams `json:"params"`
	Report    orchestrator.Report      `json:"report"`

	// FailedStage names the stage that failed; empty on success.
	FailedStage string        `json:"failed_stage,omitempty"`
	Provider    string        `json:"provider,omitempty"`
	Elapsed     time.Duration `json:"elapsed_ns,omitempty"`
	// OutputDir is where stage files were written, if anywhere.
	OutputDir string `json:"output_dir,omitempty"`
}

// Succeeded reports whether the archived run produced all three plans.
func (r Record) Succeeded() bool { return r.Report.Succeeded() }
