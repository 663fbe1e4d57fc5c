package runner

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/chriserin/specdown/internal/parser"
)

// Output is what an Executor captured from one script.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode *int // nil when the process was killed by a signal
}

// Executor runs a script's code and blocks until it finishes.
type Executor interface {
	Execute(ctx context.Context, code string) (Output, error)
}

// Runner executes spec files one after another, in document order.
type Runner struct {
	executor Executor
	logger   *zap.Logger
	goos     string
}

type Option func(*Runner)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithOS overrides the OS name target_os is matched against.
func WithOS(goos string) Option {
	return func(r *Runner) { r.goos = goos }
}

func New(executor Executor, opts ...Option) *Runner {
	r := &Runner{
		executor: executor,
		logger:   zap.NewNop(),
		goos:     CurrentOS(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes each spec file in turn. A fatal error in one file does not
// stop the files after it.
func (r *Runner) Run(ctx context.Context, paths []string, sink Sink) {
	for _, path := range paths {
		r.RunFile(ctx, path, sink)
	}
}

// RunFile reads, parses and executes a single Markdown spec file.
func (r *Runner) RunFile(ctx context.Context, path string, sink Sink) {
	sink(SpecFileStarted{Path: path})
	r.logger.Debug("running spec file", zap.String("path", path))

	content, err := os.ReadFile(path)
	if err != nil {
		sink(ErrorOccurred{Path: path, Err: fmt.Errorf("reading %s: %w", path, err)})
		return
	}

	actions, err := BuildActions(parser.ExtractCodeBlocks(content), r.goos)
	if err != nil {
		sink(ErrorOccurred{Path: path, Err: err})
		return
	}

	success, err := r.RunActions(ctx, path, actions, sink)
	if err != nil {
		sink(ErrorOccurred{Path: path, Err: err})
		return
	}
	sink(SpecFileCompleted{Path: path, Success: success})
}

// RunActions executes actions against a fresh State, emitting one
// ActionCompleted per action. It stops at the first fatal error; assertion
// failures only clear the returned success flag.
func (r *Runner) RunActions(ctx context.Context, path string, actions []Action, sink Sink) (bool, error) {
	state := NewState()
	for _, a := range actions {
		result, err := r.execute(ctx, state, a)
		if err != nil {
			return false, err
		}
		state.RecordResult(result.Succeeded())
		sink(ActionCompleted{Path: path, Result: result})
	}
	return state.Success(), nil
}

func (r *Runner) execute(ctx context.Context, state *State, a Action) (Result, error) {
	switch a := a.(type) {
	case ScriptAction:
		return r.runScript(ctx, state, a)
	case VerifyAction:
		return r.verify(state, a)
	case CreateFileAction:
		return r.createFile(a)
	}
	return nil, fmt.Errorf("unsupported action %T", a)
}

func (r *Runner) runScript(ctx context.Context, state *State, a ScriptAction) (Result, error) {
	r.logger.Debug("running script", zap.String("name", a.Name))

	out, err := r.executor.Execute(ctx, a.Code)
	if err != nil {
		return nil, err
	}
	state.AddScriptOutput(a.Name, out)

	return ScriptResult{
		Name:             a.Name,
		Code:             a.Code,
		ExitCode:         out.ExitCode,
		ExpectedExitCode: a.ExpectedExitCode,
		ExpectedOutput:   a.ExpectedOutput,
		Stdout:           out.Stdout,
		Stderr:           out.Stderr,
		Success:          scriptSucceeded(a, out),
	}, nil
}

func scriptSucceeded(a ScriptAction, out Output) bool {
	if a.ExpectedExitCode != nil {
		if out.ExitCode == nil || *out.ExitCode != *a.ExpectedExitCode {
			return false
		}
	}

	switch a.ExpectedOutput {
	case parser.StdOutOnly:
		return out.Stderr == ""
	case parser.StdErrOnly:
		return out.Stdout == ""
	case parser.NoOutput:
		return out.Stdout == "" && out.Stderr == ""
	}
	return true
}

func (r *Runner) verify(state *State, a VerifyAction) (Result, error) {
	r.logger.Debug("verifying",
		zap.String("script", a.Source.ScriptName),
		zap.Stringer("stream", a.Source.Stream))

	got, ok := state.StreamOutput(a.Source)
	if !ok {
		return nil, &ScriptOutputMissingError{Name: a.Source.ScriptName}
	}

	result := VerifyResult{
		ScriptName: a.Source.ScriptName,
		Stream:     a.Source.Stream,
		Expected:   a.Expected,
		Got:        got,
		Success:    a.Expected == got,
	}
	if !result.Success {
		result.Diff = Diff(a.Expected, got)
	}
	return result, nil
}

func (r *Runner) createFile(a CreateFileAction) (Result, error) {
	r.logger.Debug("creating file", zap.String("path", a.Path))

	if err := os.WriteFile(a.Path, []byte(a.Content), 0o644); err != nil {
		return nil, &FileWriteError{Path: a.Path, Err: err}
	}
	return FileResult{Path: a.Path}, nil
}
