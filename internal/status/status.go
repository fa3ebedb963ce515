package status

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// StageInfo describes the output file state of a single stage.
type StageInfo struct {
	Stage    orchestrator.Stage
	Name     string // human-readable name (e.g. "Logistics Plan")
	Slug     string // file slug (e.g. "logistics")
	Complete bool
	FilePath string // absolute path when complete, empty otherwise
}

// OutputStatus holds the stage file state of one output directory.
type OutputStatus struct {
	Dir    string
	Stages []StageInfo
	// NextStage is the first stage without an output file, -1 if all exist.
	NextStage int
}

// RunSummary is one line of plan history.
type RunSummary struct {
	ID        string
	Topic     string
	City      string
	Date      string
	Status    string
	Detail    string // failed stage and error type, empty on success
	CreatedAt time.Time
}

// StageFileName returns the markdown file name for a stage, e.g.
// "stage-2-logistics.md". Stage numbers are one-based.
func StageFileName(s orchestrator.Stage) string {
	return fmt.Sprintf("stage-%d-%s.md", int(s)+1, s.String())
}

// ScanCompletedStages checks which stage output files exist in a directory.
func ScanCompletedStages(dir string) []orchestrator.Stage {
	var completed []orchestrator.Stage
	for _, s := range orchestrator.Stages() {
		if _, err := os.Stat(filepath.Join(dir, StageFileName(s))); err == nil {
			completed = append(completed, s)
		}
	}
	return completed
}

// NextStage returns the first stage not in completed, or -1 if every stage
// is present.
func NextStage(completed []orchestrator.Stage) int {
	done := make(map[orchestrator.Stage]bool, len(completed))
	for _, s := range completed {
		done[s] = true
	}
	for _, s := range orchestrator.Stages() {
		if !done[s] {
			return int(s)
		}
	}
	return -1
}

// GetOutputStatus returns per-stage file state for an output directory.
func GetOutputStatus(dir string) OutputStatus {
	completed := ScanCompletedStages(dir)
	done := make(map[orchestrator.Stage]bool, len(completed))
	for _, s := range completed {
		done[s] = true
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}

	var stages []StageInfo
	for _, s := range orchestrator.Stages() {
		info := StageInfo{
			Stage:    s,
			Name:     s.Label(),
			Slug:     s.String(),
			Complete: done[s],
		}
		if info.Complete {
			info.FilePath = filepath.Join(abs, StageFileName(s))
		}
		stages = append(stages, info)
	}

	return OutputStatus{
		Dir:       abs,
		Stages:    stages,
		NextStage: NextStage(completed),
	}
}

// Summarize reduces archived records to history lines, keeping their order.
func Summarize(records []*archive.Record) []RunSummary {
	summaries := make([]RunSummary, 0, len(records))
	for _, rec := range records {
		s := RunSummary{
			ID:        rec.ID,
			Topic:     rec.Params.Topic,
			City:      rec.Params.City,
			Date:      rec.Params.Date,
			Status:    rec.Report.Status,
			CreatedAt: rec.CreatedAt,
		}
		if !rec.Succeeded() {
			s.Detail = failureDetail(rec)
		}
		summaries = append(summaries, s)
	}
	return summaries
}

func failureDetail(rec *archive.Record) string {
	var parts []string
	if rec.FailedStage != "" {
		parts = append(parts, rec.FailedStage)
	}
	if rec.Report.ErrorType != "" {
		parts = append(parts, rec.Report.ErrorType)
	}
	return strings.Join(parts, ": ")
}

// FormatTable renders summaries as an aligned text table.
func FormatTable(summaries []RunSummary) string {
	if len(summaries) == 0 {
		return "No plans found.\n"
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tTOPIC\tCITY\tDATE\tSTATUS")
	for _, s := range summaries {
		st := s.Status
		if s.Detail != "" {
			st += " (" + s.Detail + ")"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID,
			s.CreatedAt.UTC().Format(time.RFC3339),
			s.Topic,
			s.City,
			s.Date,
			st,
		)
	}
	w.Flush()
	return sb.String()
}
