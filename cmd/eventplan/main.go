package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set by goreleaser at build time.
var version = "dev"

// errPlanFailed marks a pipeline failure whose report was already printed.
var errPlanFailed = errors.New("event planning failed")

const usage = `usage: eventplan <command> [flags]

commands:
  plan       plan an event (or a batch with -batch)
  serve      run the HTTP API
  serve-mcp  run the MCP server (stdio, or HTTP with -addr)
  history    list archived plans
  show       print an archived plan
  delete     remove an archived plan
  export     export an archived plan as json, markdown or mermaid
  status     show which stage files exist in an output directory
  init       write a starter eventplan.yml and register the MCP server
  version    print version and exit

Run 'eventplan <command> -h' for command flags.`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil {
		if !errors.Is(err, errPlanFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "plan":
		return runPlan(ctx, rest)
	case "serve":
		return runServe(ctx, rest)
	case "serve-mcp":
		return runServeMCP(ctx, rest)
	case "history":
		return runHistory(ctx, rest)
	case "show":
		return runShow(ctx, rest)
	case "delete":
		return runDelete(ctx, rest)
	case "export":
		return runExport(ctx, rest)
	case "status":
		return runStatus(rest)
	case "init":
		return runInit(rest)
	case "version", "-version", "--version":
		fmt.Println(version)
		return nil
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}
