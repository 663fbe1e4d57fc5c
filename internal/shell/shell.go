// Package shell runs script code through a configured shell command.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
	"go.uber.org/zap"

	"github.com/chriserin/specdown/internal/runner"
)

// Config describes how scripts are run. Command is split like a shell would
// split it and the script code is appended as the final argument, so the
// default "bash -c" runs `bash -c <code>`.
type Config struct {
	Command  string
	Env      []string // KEY=VALUE assignments
	UnsetEnv []string
	AddPath  []string // prepended to PATH, first entry first
}

type BadShellCommandError struct {
	Command string
	Reason  string
}

func (e *BadShellCommandError) Error() string {
	return fmt.Sprintf("bad shell command %q: %s", e.Command, e.Reason)
}

type CommandFailedError struct {
	Command string
	Err     error
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("running %s: %v", e.Command, e.Err)
}

func (e *CommandFailedError) Unwrap() error {
	return e.Err
}

// Executor implements runner.Executor by spawning one process per script in
// the current working directory.
type Executor struct {
	command string
	program string
	args    []string
	env     []string
	logger  *zap.Logger
}

// New validates cfg and builds the environment scripts will see. An
// unparseable shell command is reported here, before any script runs.
func New(cfg Config, logger *zap.Logger) (*Executor, error) {
	words, err := shlex.Split(cfg.Command)
	if err != nil {
		return nil, &BadShellCommandError{Command: cfg.Command, Reason: err.Error()}
	}
	if len(words) == 0 {
		return nil, &BadShellCommandError{Command: cfg.Command, Reason: "command is empty"}
	}

	env, err := BuildEnv(os.Environ(), cfg)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{
		command: cfg.Command,
		program: words[0],
		args:    words[1:],
		env:     env,
		logger:  logger,
	}, nil
}

func (e *Executor) Execute(ctx context.Context, code string) (runner.Output, error) {
	args := append(append([]string{}, e.args...), code)
	cmd := exec.CommandContext(ctx, e.program, args...)
	cmd.Env = e.env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("executing script", zap.String("shell", e.command), zap.Int("bytes", len(code)))

	err := cmd.Run()
	out := runner.Output{Stdout: stdout.String(), Stderr: stderr.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		n := 0
		out.ExitCode = &n
	case errors.As(err, &exitErr):
		// ExitCode is -1 when the process was terminated by a signal
		if n := exitErr.ExitCode(); n >= 0 {
			out.ExitCode = &n
		}
	default:
		return runner.Output{}, &CommandFailedError{Command: e.command, Err: err}
	}

	e.logger.Debug("script finished", zap.Intp("exit_code", out.ExitCode))
	return out, nil
}

// BuildEnv derives a script environment from base: unset names are removed,
// assignments are applied, then AddPath is prepended to PATH.
func BuildEnv(base []string, cfg Config) ([]string, error) {
	vars := map[string]string{}
	seen := map[string]bool{}
	var order []string
	set := func(key, value string) {
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
		vars[key] = value
	}

	for _, kv := range base {
		key, value, _ := strings.Cut(kv, "=")
		set(key, value)
	}

	for _, name := range cfg.UnsetEnv {
		delete(vars, name)
	}

	for _, kv := range cfg.Env {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment assignment %q, expected KEY=VALUE", kv)
		}
		set(key, value)
	}

	if len(cfg.AddPath) > 0 {
		parts := append([]string{}, cfg.AddPath...)
		if current, ok := vars["PATH"]; ok && current != "" {
			parts = append(parts, current)
		}
		set("PATH", strings.Join(parts, string(filepath.ListSeparator)))
	}

	env := make([]string, 0, len(vars))
	for _, key := range order {
		if value, ok := vars[key]; ok {
			env = append(env, key+"="+value)
		}
	}
	return env, nil
}
