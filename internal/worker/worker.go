// Package worker runs the conversion pipeline: it iterates the selected
// files in order, routes each to its converter, optionally merges the
// results, and emits a sequential stream of status events.
package worker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"codypdf/internal/converter"
	"codypdf/internal/models"
	"codypdf/internal/security"
)

// State is the worker lifecycle: Idle → Running → Finalizing → Idle.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFinalizing
)

// Runner executes one conversion run at a time on a single background
// goroutine. Files are processed sequentially; one file's failure never
// aborts the run. There is no cancellation once a run starts.
type Runner struct {
	registry *converter.Registry
	scanner  *security.Scanner
	state    atomic.Int32
}

// NewRunner creates a runner over the given converter registry. scanner may
// be nil when source scanning is not wanted.
func NewRunner(registry *converter.Registry, scanner *security.Scanner) *Runner {
	return &Runner{registry: registry, scanner: scanner}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Run starts a conversion over a snapshot of the selected files and returns
// the event channel. It fails before starting when the file list is empty,
// when no destination directory is resolvable, or when a run is already in
// flight. The channel is closed after the terminal done event.
func (r *Runner) Run(files []string, opts models.Options) (<-chan models.Event, error) {
	if len(files) == 0 {
		return nil, errors.New("no files selected")
	}
	if !opts.OutputBesideSource {
		if opts.OutputDir == "" {
			return nil, errors.New("no output directory chosen")
		}
		info, err := os.Stat(opts.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("output directory unusable: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("output path %s is not a directory", opts.OutputDir)
		}
	}
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, errors.New("a conversion run is already in progress")
	}

	events := make(chan models.Event, len(files)+4)
	go r.run(files, opts, events)
	return events, nil
}

func (r *Runner) run(files []string, opts models.Options, events chan<- models.Event) {
	defer close(events)
	defer r.state.Store(int32(StateIdle))

	var produced []string
	var failed, skipped int

	for i, src := range files {
		idx := i + 1
		name := filepath.Base(src)

		destDir := opts.OutputDir
		if opts.OutputBesideSource {
			destDir = filepath.Dir(src)
		}

		if opts.ScanSources && r.scanner != nil && r.scanner.IsEnabled() {
			if res, err := r.scanner.ScanFile(src); err == nil && res.Infected {
				skipped++
				events <- models.Event{
					Kind: models.EventWarning, Index: idx, File: name,
					Message: fmt.Sprintf("threat detected in %s, file skipped", name),
				}
				continue
			}
			// A scan error is not a conversion error; proceed.
		}

		format, ok := converter.Detect(src)
		if !ok {
			skipped++
			events <- models.Event{
				Kind: models.EventWarning, Index: idx, File: name,
				Message: fmt.Sprintf("unsupported format: %s", name),
			}
			continue
		}

		conv, err := r.registry.For(format)
		if err != nil {
			skipped++
			events <- models.Event{
				Kind: models.EventWarning, Index: idx, File: name,
				Message: fmt.Sprintf("unsupported format: %s", name),
			}
			continue
		}

		out, err := conv.Convert(src, destDir)
		if err != nil {
			failed++
			events <- models.Event{
				Kind: models.EventError, Index: idx, File: name,
				Message: fmt.Sprintf("%s: %v", name, err), Err: err,
			}
			continue
		}

		produced = append(produced, out)
		events <- models.Event{
			Kind: models.EventProgress, Index: idx, File: name,
			Message: fmt.Sprintf("converted %s", name),
		}
	}

	r.state.Store(int32(StateFinalizing))

	var merged string
	if opts.MergeOutputs && len(produced) > 0 {
		var err error
		merged, err = mergeProduced(produced)
		if err != nil {
			events <- models.Event{
				Kind:    models.EventError,
				Message: fmt.Sprintf("merge failed: %v", err), Err: err,
			}
		} else {
			produced = append(produced, merged)
			events <- models.Event{
				Kind:    models.EventInfo,
				Message: fmt.Sprintf("merged into %s", filepath.Base(merged)),
			}
		}
	}

	outputDir := opts.OutputDir
	if len(produced) > 0 {
		outputDir = filepath.Dir(produced[0])
	} else if outputDir == "" {
		outputDir = "."
	}

	events <- models.Event{
		Kind:    models.EventDone,
		Message: fmt.Sprintf("%d PDF(s) created in %s", len(produced), outputDir),
		Summary: &models.Summary{
			Produced:  len(produced),
			Failed:    failed,
			Skipped:   skipped,
			OutputDir: outputDir,
			Outputs:   produced,
			MergedPDF: merged,
		},
	}
}
