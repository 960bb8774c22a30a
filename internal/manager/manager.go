// Package manager drives a conversion run from the command line: it builds
// the pending set, starts the worker, and relays status events to the
// terminal as a progress bar and summary.
package manager

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"codypdf/internal/config"
	"codypdf/internal/models"
	"codypdf/internal/worker"
)

// maxReportedFailures caps the per-file failure listing in the final report.
const maxReportedFailures = 10

// Manager owns the selection state and the progress relay for one process.
type Manager struct {
	cfg    *config.Config
	runner *worker.Runner
	out    io.Writer
}

// NewManager creates a manager writing its reports to out.
func NewManager(cfg *config.Config, runner *worker.Runner, out io.Writer) *Manager {
	return &Manager{cfg: cfg, runner: runner, out: out}
}

// Run converts the given paths and blocks until the terminal done event.
// It returns the run summary.
func (m *Manager) Run(paths []string) (*models.Summary, error) {
	pending := models.NewPendingSet()
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if _, err := os.Stat(abs); err != nil {
			fmt.Fprintf(m.out, "skipping %s: %v\n", p, err)
			continue
		}
		if !pending.Add(abs) {
			fmt.Fprintf(m.out, "duplicate selection ignored: %s\n", p)
		}
	}
	if pending.Len() == 0 {
		return nil, errors.New("no usable files selected")
	}

	opts := models.Options{
		OutputBesideSource: m.cfg.BesideSource,
		MergeOutputs:       m.cfg.Merge,
		OutputDir:          m.cfg.OutputDir,
		ScanSources:        m.cfg.Scan,
	}

	events, err := m.runner.Run(pending.Snapshot(), opts)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(pending.Len(),
		progressbar.OptionSetDescription("Converting"),
		progressbar.OptionSetWriter(m.out),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	var warnings, failures []string
	var mergeNote string
	var summary *models.Summary

	for ev := range events {
		switch ev.Kind {
		case models.EventProgress:
			bar.Add(1)
			if m.cfg.Verbose {
				fmt.Fprintf(m.out, "\n%s\n", ev.Message)
			}
		case models.EventWarning:
			bar.Add(1)
			warnings = append(warnings, ev.Message)
		case models.EventError:
			if ev.Index > 0 {
				bar.Add(1)
			}
			failures = append(failures, ev.Message)
		case models.EventInfo:
			mergeNote = ev.Message
		case models.EventDone:
			summary = ev.Summary
		}
	}
	fmt.Fprintln(m.out)

	if len(warnings) > 0 {
		fmt.Fprintf(m.out, "Skipped %d file(s):\n", len(warnings))
		for _, w := range warnings {
			fmt.Fprintf(m.out, "  - %s\n", w)
		}
	}

	if len(failures) > 0 {
		fmt.Fprintf(m.out, "Failed to convert %d file(s):\n", len(failures))
		for i, f := range failures {
			if i == maxReportedFailures {
				fmt.Fprintf(m.out, "  - ... and %d more\n", len(failures)-maxReportedFailures)
				break
			}
			fmt.Fprintf(m.out, "  - %s\n", f)
		}
	}

	if mergeNote != "" {
		fmt.Fprintln(m.out, mergeNote)
	}

	if summary != nil {
		fmt.Fprintf(m.out, "%d PDF(s) created in %s\n", summary.Produced, summary.OutputDir)
	}
	return summary, nil
}
