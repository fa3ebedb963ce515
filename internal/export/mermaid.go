package export

import (
	"fmt"
	"strings"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

// GenerateMermaid produces a Mermaid flowchart of the run's stages, each
// node styled by its status.
func GenerateMermaid(rec *archive.Record) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	stages := orchestrator.Stages()
	for _, s := range stages {
		sb.WriteString(fmt.Sprintf("  %s[\"%s\"]:::%s\n", nodeID(s), s.Label(), stageStatus(rec, s)))
	}
	for i := 1; i < len(stages); i++ {
		sb.WriteString(fmt.Sprintf("  %s --> %s\n", nodeID(stages[i-1]), nodeID(stages[i])))
	}

	sb.WriteString("  classDef complete fill:#d4edda,stroke:#28a745\n")
	sb.WriteString("  classDef failed fill:#f8d7da,stroke:#dc3545\n")
	sb.WriteString("  classDef pending fill:#e2e3e5,stroke:#6c757d\n")
	return sb.String()
}

func nodeID(s orchestrator.Stage) string {
	return "S" + s.String()
}
