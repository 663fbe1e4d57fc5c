package ui

import (
	"fmt"

	"github.com/chriserin/specdown/internal/runner"
)

const (
	ExitSuccess       = 0
	ExitTestFailed    = 1
	ExitErrorOccurred = 2
)

// Tally derives the process exit code from the event stream alone.
type Tally struct {
	failed  bool
	errored bool
}

func (t *Tally) Handle(e runner.Event) {
	switch e := e.(type) {
	case runner.SpecFileCompleted:
		if !e.Success {
			t.failed = true
		}
	case runner.ErrorOccurred:
		t.errored = true
	}
}

func (t *Tally) ExitCode() int {
	switch {
	case t.errored:
		return ExitErrorOccurred
	case t.failed:
		return ExitTestFailed
	}
	return ExitSuccess
}

// ExitError carries a non-zero exit code out of a command whose output has
// already been printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
