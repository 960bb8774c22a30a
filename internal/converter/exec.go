package converter

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// executor abstracts external-command execution so converter logic can be
// tested without the real programs present.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) error
}

// CommandError reports a non-zero exit from an external conversion command.
type CommandError struct {
	Command  string // the full command line that was run
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// osExecutor is the production executor backed by os/exec. Commands run
// synchronously with no timeout; a hung program stalls the run (known gap).
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		}
		return &CommandError{
			Command:  name + " " + strings.Join(args, " "),
			ExitCode: code,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      err,
		}
	}
	return nil
}

var defaultExec executor = &osExecutor{}

// runner bundles the executor shared by the suite-backed converters.
type runner struct {
	exec executor
}
