package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/dusk-indust/eventplan/internal/export"
)

func runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory holding eventplan.yml and .env")
	format := fs.String("format", "json", "json, markdown or mermaid")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: eventplan export [-format json|markdown|mermaid] <id>")
	}

	cfg, err := loadConfig(*configDir)
	if err != nil {
		return err
	}
	store, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rec, err := store.Get(ctx, fs.Arg(0))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	switch *format {
	case "json":
		data, err := export.JSON(rec)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	case "markdown", "md":
		_, err := fmt.Print(export.Markdown(rec.Params, rec.Report))
		return err
	case "mermaid":
		_, err := fmt.Print(export.GenerateMermaid(rec))
		return err
	default:
		return fmt.Errorf("unknown export format %q", *format)
	}
}
