// Package workspace prepares the directory spec files run in.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chriserin/specdown/internal/runner"
)

type Options struct {
	Dir         string // used as is, created when missing
	Temporary   bool   // create a fresh temporary directory instead
	InitCommand string // run once in the workspace root
	RunningDir  string // relative to the workspace root
}

type Workspace struct {
	Root        string
	RunningDir  string
	initCommand string
	temporary   bool
	logger      *zap.Logger
}

// Prepare creates the workspace described by opts and returns it. With
// neither Dir nor Temporary set, the current directory is the workspace.
func Prepare(opts Options, logger *zap.Logger) (*Workspace, error) {
	if opts.Dir != "" && opts.Temporary {
		return nil, fmt.Errorf("a workspace directory and a temporary workspace directory cannot both be used")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &Workspace{initCommand: opts.InitCommand, temporary: opts.Temporary, logger: logger}

	switch {
	case opts.Temporary:
		dir, err := os.MkdirTemp("", "specdown-")
		if err != nil {
			return nil, fmt.Errorf("creating temporary workspace: %w", err)
		}
		w.Root = dir
	case opts.Dir != "":
		dir, err := filepath.Abs(opts.Dir)
		if err != nil {
			return nil, fmt.Errorf("resolving workspace %s: %w", opts.Dir, err)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating workspace %s: %w", dir, err)
		}
		w.Root = dir
	default:
		dir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("reading working directory: %w", err)
		}
		w.Root = dir
	}

	w.RunningDir = w.Root
	if opts.RunningDir != "" {
		w.RunningDir = filepath.Join(w.Root, opts.RunningDir)
		if err := os.MkdirAll(w.RunningDir, 0o755); err != nil {
			w.Close()
			return nil, fmt.Errorf("creating running directory %s: %w", w.RunningDir, err)
		}
	}

	logger.Debug("workspace prepared",
		zap.String("root", w.Root),
		zap.String("running_dir", w.RunningDir),
		zap.Bool("temporary", w.temporary))
	return w, nil
}

// Init runs the init command, if any, in the workspace root through exec.
// A non-zero exit is an error.
func (w *Workspace) Init(ctx context.Context, exec runner.Executor) error {
	command := w.initCommand
	if strings.TrimSpace(command) == "" {
		return nil
	}
	if err := os.Chdir(w.Root); err != nil {
		return fmt.Errorf("entering workspace %s: %w", w.Root, err)
	}

	w.logger.Debug("running workspace init command", zap.String("command", command))
	out, err := exec.Execute(ctx, command)
	if err != nil {
		return fmt.Errorf("workspace init command: %w", err)
	}
	if out.ExitCode == nil || *out.ExitCode != 0 {
		return fmt.Errorf("workspace init command failed: %s", strings.TrimSpace(out.Stderr))
	}
	return nil
}

// Enter makes the running directory the current directory, which is where
// scripts run and files are created.
func (w *Workspace) Enter() error {
	if err := os.Chdir(w.RunningDir); err != nil {
		return fmt.Errorf("entering running directory %s: %w", w.RunningDir, err)
	}
	return nil
}

// Close removes a temporary workspace. Other workspaces are left in place.
func (w *Workspace) Close() error {
	if !w.temporary {
		return nil
	}
	w.logger.Debug("removing temporary workspace", zap.String("root", w.Root))
	return os.RemoveAll(w.Root)
}
