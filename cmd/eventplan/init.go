package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// eventplanMCPEntry is the MCP server configuration for the eventplan binary.
var eventplanMCPEntry = json.RawMessage(`{
  "type": "stdio",
  "command": "eventplan",
  "args": ["serve-mcp"]
}`)

const starterConfig = `# eventplan project settings. Environment variables override these.
# provider: openai        # azure, openai or ollama; unset picks the first with credentials
# model: gpt-4o-mini
# temperature: 0.7
# stage_timeout: 2m       # 0 disables the per-stage timeout
archive_url: file://./.eventplan/archive?create_dir=true
archive_prefix: plans
output_dir: plans
log_level: info
# personas:
#   marketing:
#     goal: Create effective event marketing strategies
`

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite existing files")
	if err := fs.Parse(args); err != nil {
		return err
	}
	root := "."
	if fs.NArg() > 0 {
		root = fs.Arg(0)
	}
	if err := initProject(os.Stdout, root, *force); err != nil {
		return err
	}
	fmt.Println("\nSetup complete. Set OPENAI_API_KEY (or AZURE_API_KEY and AZURE_API_BASE) in .env to start planning.")
	return nil
}

// initProject writes a starter eventplan.yml and registers the MCP server in
// .mcp.json under root, reporting one line per file to w. Existing content is
// kept unless force is set.
func initProject(w io.Writer, root string, force bool) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return err
	}

	files := []struct {
		name   string
		render func(current []byte) ([]byte, error)
	}{
		{"eventplan.yml", func(current []byte) ([]byte, error) {
			if current != nil && !force {
				return nil, nil
			}
			return []byte(starterConfig), nil
		}},
		{".mcp.json", func(current []byte) ([]byte, error) {
			return mergeMCPServers(current, force)
		}},
	}

	for _, f := range files {
		action, err := scaffoldFile(filepath.Join(root, f.name), f.render)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %s ./%s", action, f.name)
		if action == "skipped" {
			line += " (exists, use -force to overwrite)"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// scaffoldFile hands render the file's current content (nil when missing) and
// writes what it returns. A nil result leaves the file untouched. The action
// is "created", "updated" or "skipped".
func scaffoldFile(path string, render func(current []byte) ([]byte, error)) (string, error) {
	current, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	out, err := render(current)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	if out == nil {
		return "skipped", nil
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if current == nil {
		return "created", nil
	}
	return "updated", nil
}

// mergeMCPServers adds the eventplan entry to the mcpServers object of an
// .mcp.json document, keeping every other key. It returns nil when the entry
// already exists and force is not set.
func mergeMCPServers(current []byte, force bool) ([]byte, error) {
	doc := map[string]json.RawMessage{}
	if len(current) > 0 {
		if err := json.Unmarshal(current, &doc); err != nil {
			return nil, fmt.Errorf("parsing: %w", err)
		}
	}

	servers := map[string]json.RawMessage{}
	if raw, ok := doc["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &servers); err != nil {
			return nil, fmt.Errorf("parsing mcpServers: %w", err)
		}
	}
	if _, exists := servers["eventplan"]; exists && !force {
		return nil, nil
	}
	servers["eventplan"] = eventplanMCPEntry

	raw, err := json.Marshal(servers)
	if err != nil {
		return nil, err
	}
	doc["mcpServers"] = raw

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
