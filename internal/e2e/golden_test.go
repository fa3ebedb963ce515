//go:build e2e

package e2e

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/eventplan/internal/export"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/status"
)

var update = flag.Bool("update", false, "update golden files")

// goldenDir returns the path to the testdata/golden directory.
func goldenDir() string {
	return filepath.Join("..", "..", "testdata", "golden")
}

// goldenFiles lists every file compared against testdata/golden.
func goldenFiles() []string {
	files := []string{"plan.md"}
	for _, s := range orchestrator.Stages() {
		files = append(files, status.StageFileName(s))
	}
	return files
}

// runForGolden plans the summit event and returns the run's stage directory
// with the full markdown export written beside the stage files.
func runForGolden(t *testing.T) string {
	t.Helper()

	h := newHarness(t, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rec, err := h.service.Plan(ctx, summit)
	require.NoError(t, err)
	h.finish()
	require.True(t, rec.Succeeded())

	doc := export.Markdown(rec.Params, rec.Report)
	require.NoError(t, os.WriteFile(filepath.Join(rec.OutputDir, "plan.md"), []byte(doc), 0o644))
	return rec.OutputDir
}

// TestGolden compares the exported plan against golden files. If golden files
// do not exist, the test is skipped with a message to run with -update.
func TestGolden(t *testing.T) {
	outputDir := runForGolden(t)
	gDir := goldenDir()

	for _, name := range goldenFiles() {
		t.Run(name, func(t *testing.T) {
			golden, err := os.ReadFile(filepath.Join(gDir, name))
			if os.IsNotExist(err) {
				t.Skipf("golden file %s not found; run with -update to generate", name)
				return
			}
			require.NoError(t, err)

			actual, err := os.ReadFile(filepath.Join(outputDir, name))
			require.NoError(t, err)

			assert.Equal(t, string(golden), string(actual),
				"output for %s does not match golden file", name)
		})
	}
}

// TestUpdateGolden regenerates golden files from the current pipeline output.
// Run with: go test -tags e2e -run TestUpdateGolden ./internal/e2e/ -update
func TestUpdateGolden(t *testing.T) {
	if !*update {
		t.Skip("skipping golden file update; run with -update flag")
	}

	outputDir := runForGolden(t)
	gDir := goldenDir()
	require.NoError(t, os.MkdirAll(gDir, 0o755))

	for _, name := range goldenFiles() {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(gDir, name), data, 0o644))
		t.Logf("updated %s", name)
	}
}
