package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dusk-indust/eventplan/internal/export"
	"github.com/dusk-indust/eventplan/internal/status"
)

func runHistory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory holding eventplan.yml and .env")
	limit := fs.Int("limit", 0, "show at most this many plans")
	if err := fs.Parse(args); err != nil {
		return err
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

	recs, err := store.List(ctx)
	if err != nil {
		return err
	}
	if *limit > 0 && len(recs) > *limit {
		recs = recs[:*limit]
	}

	fmt.Print(status.FormatTable(status.Summarize(recs)))
	return nil
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory holding eventplan.yml and .env")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: eventplan show [-json] <id>")
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
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(rec.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}
	displayMarkdown(os.Stdout, export.Markdown(rec.Params, rec.Report), isStdoutTTY())
	return nil
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	configDir := fs.String("config-dir", ".", "directory holding eventplan.yml and .env")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: eventplan delete <id>")
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

	for _, id := range fs.Args() {
		if err := store.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", id)
	}
	return nil
}

func runStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: eventplan status <output-dir>")
	}

	printStageTable(os.Stdout, status.GetOutputStatus(fs.Arg(0)))
	return nil
}

func printStageTable(w io.Writer, st status.OutputStatus) {
	fmt.Fprintf(w, "Output: %s\n\n", st.Dir)
	for _, si := range st.Stages {
		marker := "  "
		label := "missing"
		if si.Complete {
			label = "written"
		}
		if int(si.Stage) == st.NextStage {
			marker = "->"
		}
		fmt.Fprintf(w, "  %s Stage %d: %-22s [%s]\n", marker, int(si.Stage)+1, si.Name, label)
	}

	if st.NextStage == -1 {
		fmt.Fprintln(w, "  All stage files present.")
	}
}
