package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/status"
)

// Markdown renders a report as one document. Successful reports get one
// section per stage; failed reports get the error message and type.
func Markdown(params orchestrator.EventParams, report orchestrator.Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Event Plan: %s\n\n", params.Topic)
	fmt.Fprintf(&sb, "- **City:** %s\n", params.City)
	fmt.Fprintf(&sb, "- **Participants:** %d\n", params.Participants)
	fmt.Fprintf(&sb, "- **Date:** %s\n\n", params.Date)

	if !report.Succeeded() {
		sb.WriteString("## Planning Failed\n\n")
		fmt.Fprintf(&sb, "%s\n\n", report.Message)
		fmt.Fprintf(&sb, "Error type: `%s`\n", report.ErrorType)
		return sb.String()
	}

	for i, s := range orchestrator.Stages() {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "## %s\n\n", s.Label())
		sb.WriteString(strings.TrimRight(StageOutput(report, s), "\n"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// StageOutput returns the part of a successful report produced by stage.
func StageOutput(report orchestrator.Report, s orchestrator.Stage) string {
	switch s {
	case orchestrator.StageVenue:
		return report.VenueRecommendation
	case orchestrator.StageLogistics:
		return report.LogisticsPlan
	case orchestrator.StageMarketing:
		return report.MarketingPlan
	default:
		return ""
	}
}

// WriteStageFiles writes one markdown file per stage into dir and returns
// their paths in stage order. Failed reports write nothing.
func WriteStageFiles(dir string, report orchestrator.Report) ([]string, error) {
	if !report.Succeeded() {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create %s: %w", dir, err)
	}

	var paths []string
	for _, s := range orchestrator.Stages() {
		path := filepath.Join(dir, status.StageFileName(s))
		content := fmt.Sprintf("# %s\n\n%s\n", s.Label(), strings.TrimRight(StageOutput(report, s), "\n"))
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return paths, fmt.Errorf("export: write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
