// Package models defines the data types shared between the selection layer,
// the conversion worker, and the progress relay.
package models

// EventKind classifies a status event emitted by the conversion worker.
type EventKind string

const (
	EventProgress EventKind = "progress" // one file converted successfully
	EventWarning  EventKind = "warning"  // file skipped (unsupported, infected)
	EventInfo     EventKind = "info"     // merge result
	EventError    EventKind = "error"    // one file failed
	EventDone     EventKind = "done"     // terminal, exactly once per run
)

// Event is a single status message from the worker. Events for one run are
// totally ordered: one progress/warning/error per file in selection order,
// then at most one info (merge), then exactly one done.
type Event struct {
	Kind    EventKind
	Index   int    // 1-based position of the file that produced the event
	File    string // source file name, where applicable
	Message string
	Err     error    // set on error events
	Summary *Summary // set on the done event only
}

// Summary describes the outcome of a completed run.
type Summary struct {
	Produced  int      // PDFs written, merge output included
	Failed    int      // files that errored
	Skipped   int      // files skipped with a warning
	OutputDir string   // directory holding the first produced PDF
	Outputs   []string // produced paths, in processing order
	MergedPDF string   // empty when no merge happened
}

// Options is the per-run configuration, resolved once at start time.
type Options struct {
	// OutputBesideSource writes each PDF next to its source file instead of
	// into OutputDir.
	OutputBesideSource bool

	// MergeOutputs concatenates all produced PDFs, in processing order, into
	// one combined file after the individual conversions.
	MergeOutputs bool

	// OutputDir is the single destination directory. Required unless
	// OutputBesideSource is set.
	OutputDir string

	// ScanSources runs each source file through the virus scanner before
	// conversion; infected files are skipped with a warning.
	ScanSources bool
}

// PendingSet is the ordered list of files selected for conversion. Insertion
// order is preserved and duplicate paths are rejected. It is owned by the
// selection layer; the worker receives a Snapshot so later mutation cannot
// affect an in-flight run.
type PendingSet struct {
	paths []string
	seen  map[string]struct{}
}

// NewPendingSet returns an empty pending set.
func NewPendingSet() *PendingSet {
	return &PendingSet{seen: make(map[string]struct{})}
}

// Add appends a path, rejecting duplicates. Reports whether the path was added.
func (p *PendingSet) Add(path string) bool {
	if _, dup := p.seen[path]; dup {
		return false
	}
	p.seen[path] = struct{}{}
	p.paths = append(p.paths, path)
	return true
}

// Remove deletes a path from the set, preserving the order of the rest.
func (p *PendingSet) Remove(path string) {
	if _, ok := p.seen[path]; !ok {
		return
	}
	delete(p.seen, path)
	for i, existing := range p.paths {
		if existing == path {
			p.paths = append(p.paths[:i], p.paths[i+1:]...)
			break
		}
	}
}

// Clear empties the set.
func (p *PendingSet) Clear() {
	p.paths = nil
	p.seen = make(map[string]struct{})
}

// Len returns the number of pending files.
func (p *PendingSet) Len() int { return len(p.paths) }

// Snapshot returns a copy of the pending paths in insertion order.
func (p *PendingSet) Snapshot() []string {
	out := make([]string, len(p.paths))
	copy(out, p.paths)
	return out
}
