package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/dusk-indust/eventplan/internal/orchestrator"
)

var (
	brandPrimary = lipgloss.Color("#7C3AED")
	brandAccent  = lipgloss.Color("#10B981")
	brandError   = lipgloss.Color("#EF4444")
	textMuted    = lipgloss.Color("#6B7280")

	successStyle = lipgloss.NewStyle().
			Foreground(brandAccent).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)
)

func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func isStderrTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// renderMarkdown renders markdown for terminal display. Returns the
// original content if rendering fails.
func renderMarkdown(content string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayMarkdown writes rendered markdown on a TTY and plain markdown
// otherwise, so piped output stays clean.
func displayMarkdown(w io.Writer, content string, tty bool) {
	if tty {
		fmt.Fprint(w, renderMarkdown(content))
		return
	}
	fmt.Fprint(w, content)
}

// styled applies style only when writing to a terminal.
func styled(style lipgloss.Style, s string, tty bool) string {
	if !tty {
		return s
	}
	return style.Render(s)
}

// printProgress drains progress events to w until the channel closes.
func printProgress(w io.Writer, events <-chan orchestrator.ProgressEvent, tty bool) {
	for ev := range events {
		line := orchestrator.FormatProgress(ev)
		switch ev.Status {
		case orchestrator.ProgressFailed:
			line = styled(errorStyle, line, tty)
		case orchestrator.ProgressComplete:
			line = styled(successStyle, line, tty)
		case orchestrator.ProgressPending:
			line = styled(dimStyle, line, tty)
		}
		fmt.Fprintln(w, line)
	}
}
