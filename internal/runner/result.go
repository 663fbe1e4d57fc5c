package runner

import "github.com/chriserin/specdown/internal/parser"

// Result is the outcome of one executed action: ScriptResult, VerifyResult
// or FileResult.
type Result interface {
	Succeeded() bool
}

type ScriptResult struct {
	Name             string
	Code             string
	ExitCode         *int // nil when the process was killed by a signal
	ExpectedExitCode *int
	ExpectedOutput   parser.OutputExpectation
	Stdout           string
	Stderr           string
	Success          bool
}

type VerifyResult struct {
	ScriptName string
	Stream     parser.Stream
	Expected   string
	Got        string
	Success    bool
	Diff       []DiffSegment // only set on failure
}

type FileResult struct {
	Path string
}

func (r ScriptResult) Succeeded() bool { return r.Success }
func (r VerifyResult) Succeeded() bool { return r.Success }
func (r FileResult) Succeeded() bool { return true }

// Event is one of SpecFileStarted, ActionCompleted, SpecFileCompleted or
// ErrorOccurred. A file's events always open with SpecFileStarted and close
// with exactly one of SpecFileCompleted or ErrorOccurred.
type Event interface {
	event()
}

type SpecFileStarted struct {
	Path string
}

type ActionCompleted struct {
	Path   string
	Result Result
}

type SpecFileCompleted struct {
	Path    string
	Success bool
}

type ErrorOccurred struct {
	Path string
	Err  error
}

func (SpecFileStarted) event() {}
func (ActionCompleted) event() {}
func (SpecFileCompleted) event() {}
func (ErrorOccurred) event() {}

// Sink receives events as they happen.
type Sink func(Event)
