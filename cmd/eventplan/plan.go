package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/eventplan/internal/archive"
	"github.com/dusk-indust/eventplan/internal/export"
	"github.com/dusk-indust/eventplan/internal/orchestrator"
	"github.com/dusk-indust/eventplan/internal/planner"
	"github.com/dusk-indust/eventplan/internal/status"
)

// planFlags are the flags of the plan command.
type planFlags struct {
	ConfigDir    string
	Topic        string
	City         string
	Participants int
	Date         string
	OutputDir    string
	Batch        string
	Concurrency  int
	JSON         bool
	Verbose      bool
}

// batchFile is the YAML document read by plan -batch.
type batchFile struct {
	Events []struct {
		Topic        string `yaml:"event_topic"`
		City         string `yaml:"event_city"`
		Participants int    `yaml:"expected_participants"`
		Date         string `yaml:"tentative_date"`
	} `yaml:"events"`
}

func parsePlanFlags(args []string) (planFlags, error) {
	var flags planFlags

	fs := flag.NewFlagSet("plan", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigDir, "config-dir", ".", "directory holding eventplan.yml and .env")
	fs.StringVar(&flags.Topic, "topic", "", "what the event is about")
	fs.StringVar(&flags.City, "city", "", "city the event takes place in")
	fs.IntVar(&flags.Participants, "participants", 100, "expected number of attendees")
	fs.StringVar(&flags.Date, "date", time.Now().Format("2006-01-02"), "tentative event date")
	fs.StringVar(&flags.OutputDir, "output-dir", "", "write stage markdown files under this directory")
	fs.StringVar(&flags.Batch, "batch", "", "plan every event in this YAML file")
	fs.IntVar(&flags.Concurrency, "concurrency", 1, "pipelines run at once with -batch")
	fs.BoolVar(&flags.JSON, "json", false, "print the report as JSON")
	fs.BoolVar(&flags.Verbose, "verbose", false, "print stage progress to stderr")

	if err := fs.Parse(args); err != nil {
		return planFlags{}, err
	}
	return flags, nil
}

func (f planFlags) params() orchestrator.EventParams {
	return orchestrator.EventParams{
		Topic:        f.Topic,
		City:         f.City,
		Participants: f.Participants,
		Date:         f.Date,
	}
}

func readBatchFile(path string) ([]orchestrator.EventParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}
	var doc batchFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse batch file %s: %w", path, err)
	}
	if len(doc.Events) == 0 {
		return nil, fmt.Errorf("batch file %s lists no events", path)
	}

	reqs := make([]orchestrator.EventParams, len(doc.Events))
	for i, ev := range doc.Events {
		reqs[i] = orchestrator.EventParams{
			Topic:        ev.Topic,
			City:         ev.City,
			Participants: ev.Participants,
			Date:         ev.Date,
		}
	}
	return reqs, nil
}

func runPlan(ctx context.Context, args []string) error {
	flags, err := parsePlanFlags(args)
	if err != nil {
		return err
	}

	var reqs []orchestrator.EventParams
	if flags.Batch != "" {
		if reqs, err = readBatchFile(flags.Batch); err != nil {
			return err
		}
	} else {
		reqs = []orchestrator.EventParams{flags.params()}
		if err := planner.Validate(reqs[0]); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(flags.ConfigDir)
	if err != nil {
		return err
	}
	if flags.OutputDir != "" {
		cfg.OutputDir = flags.OutputDir
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var wg sync.WaitGroup
	if flags.Verbose {
		wg.Add(1)
		go func() {
			defer wg.Done()
			printProgress(os.Stderr, a.pipeline.Progress(), isStderrTTY())
		}()
		fmt.Fprintln(os.Stderr, styled(headerStyle, "Planning with "+a.provider.String(), isStderrTTY()))
	}

	var recs []*archive.Record
	if flags.Batch != "" {
		results, err := a.planner.PlanBatch(ctx, reqs, flags.Concurrency)
		if err != nil {
			a.pipeline.Close()
			wg.Wait()
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				slog.Warn("batch request failed", "index", r.Index, "err", r.Err)
				continue
			}
			recs = append(recs, r.Record)
		}
	} else {
		rec, err := a.planner.Plan(ctx, reqs[0])
		if err != nil {
			a.pipeline.Close()
			wg.Wait()
			return err
		}
		recs = append(recs, rec)
	}

	a.pipeline.Close()
	wg.Wait()

	if flags.Batch != "" {
		return printBatch(os.Stdout, recs, flags.JSON)
	}
	return printPlan(os.Stdout, recs[0], flags.JSON, isStdoutTTY())
}

func printPlan(w io.Writer, rec *archive.Record, asJSON, tty bool) error {
	if asJSON {
		out, err := json.MarshalIndent(rec.Report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(out))
	} else {
		displayMarkdown(w, export.Markdown(rec.Params, rec.Report), tty)
		fmt.Fprintln(w)
		if rec.Succeeded() {
			fmt.Fprintln(w, styled(successStyle, "Event plan generated successfully!", tty))
		} else {
			fmt.Fprintln(w, styled(errorStyle, "✗ "+rec.Report.Message, tty))
		}
		fmt.Fprintln(w, styled(dimStyle, "plan id: "+rec.ID, tty))
		if rec.OutputDir != "" {
			fmt.Fprintln(w, styled(dimStyle, "stage files: "+rec.OutputDir, tty))
		}
	}

	if !rec.Succeeded() {
		return errPlanFailed
	}
	return nil
}

func printBatch(w io.Writer, recs []*archive.Record, asJSON bool) error {
	if asJSON {
		reports := make([]map[string]string, 0, len(recs))
		for _, rec := range recs {
			body := rec.Report.AsMap()
			body["id"] = rec.ID
			reports = append(reports, body)
		}
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(out))
	} else {
		fmt.Fprint(w, status.FormatTable(status.Summarize(recs)))
	}

	for _, rec := range recs {
		if !rec.Succeeded() {
			return errPlanFailed
		}
	}
	return nil
}
