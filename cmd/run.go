package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chriserin/specdown/internal/config"
	"github.com/chriserin/specdown/internal/runner"
	"github.com/chriserin/specdown/internal/shell"
	"github.com/chriserin/specdown/internal/ui"
	"github.com/chriserin/specdown/internal/workspace"
)

type runOptions struct {
	configPath            string
	shellCommand          string
	env                   []string
	unsetEnv              []string
	addPath               []string
	workspaceDir          string
	temporaryWorkspaceDir bool
	workspaceInitCommand  string
	runningDir            string
	colour                bool
}

func newRunCmd(opts *runOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <spec-file>...",
		Short: "Run the code blocks of one or more Markdown spec files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			code, err := RunSpecs(cmd.Context(), cmd.OutOrStdout(), cfg, args)
			if err != nil {
				return err
			}
			if code != ui.ExitSuccess {
				return &ui.ExitError{Code: code}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default "+config.FileName+" if present)")
	f.StringVar(&opts.shellCommand, "shell-command", config.DefaultShellCommand, "command scripts are appended to and run with")
	f.StringArrayVar(&opts.env, "env", nil, "set an environment variable for scripts (KEY=VALUE, repeatable)")
	f.StringArrayVar(&opts.unsetEnv, "unset-env", nil, "remove an environment variable for scripts (repeatable)")
	f.StringArrayVar(&opts.addPath, "add-path", nil, "prepend a directory to PATH for scripts (repeatable)")
	f.StringVar(&opts.workspaceDir, "workspace-dir", "", "directory to run the specs in, created when missing")
	f.BoolVar(&opts.temporaryWorkspaceDir, "temporary-workspace-dir", false, "run the specs in a fresh temporary directory")
	f.StringVar(&opts.workspaceInitCommand, "workspace-init-command", "", "command run once in the workspace before any spec")
	f.StringVar(&opts.runningDir, "running-dir", "", "directory inside the workspace scripts run in")
	f.BoolVar(&opts.colour, "colour", false, "always colour the output")
	cmd.MarkFlagsMutuallyExclusive("workspace-dir", "temporary-workspace-dir")
	return cmd
}

func init() {
	rootCmd.AddCommand(newRunCmd(&runOptions{}))
}

// load reads the config file and overrides it with every flag set on cmd.
// Setting one workspace flag clears the other workspace setting from the
// file.
func (o *runOptions) load(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()

	path, required := config.FileName, false
	if f.Changed("config") {
		path, required = o.configPath, true
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return config.Config{}, err
	}

	if f.Changed("shell-command") {
		cfg.ShellCommand = o.shellCommand
	}
	cfg = config.Merge(cfg, config.Config{
		Env:      o.env,
		UnsetEnv: o.unsetEnv,
		AddPath:  o.addPath,
	})
	if f.Changed("workspace-dir") {
		cfg.WorkspaceDir = o.workspaceDir
		cfg.TemporaryWorkspaceDir = false
	}
	if f.Changed("temporary-workspace-dir") {
		cfg.TemporaryWorkspaceDir = o.temporaryWorkspaceDir
		if o.temporaryWorkspaceDir {
			cfg.WorkspaceDir = ""
		}
	}
	if f.Changed("workspace-init-command") {
		cfg.WorkspaceInitCommand = o.workspaceInitCommand
	}
	if f.Changed("running-dir") {
		cfg.RunningDir = o.runningDir
	}
	if f.Changed("colour") {
		cfg.Colour = o.colour
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// RunSpecs runs every spec file in order and returns the process exit code
// derived from the results. The returned error is only set when the run
// could not start at all.
func RunSpecs(ctx context.Context, w io.Writer, cfg config.Config, paths []string) (int, error) {
	log := logger.With(zap.String("run_id", uuid.NewString()))

	orig, err := os.Getwd()
	if err != nil {
		return ui.ExitErrorOccurred, fmt.Errorf("reading working directory: %w", err)
	}

	// Resolve paths before the working directory changes
	specs, err := absPaths(paths)
	if err != nil {
		return ui.ExitErrorOccurred, err
	}
	addPath, err := absPaths(cfg.AddPath)
	if err != nil {
		return ui.ExitErrorOccurred, err
	}

	executor, err := shell.New(shell.Config{
		Command:  cfg.ShellCommand,
		Env:      cfg.Env,
		UnsetEnv: cfg.UnsetEnv,
		AddPath:  addPath,
	}, log)
	if err != nil {
		return ui.ExitErrorOccurred, err
	}

	ws, err := workspace.Prepare(workspace.Options{
		Dir:         cfg.WorkspaceDir,
		Temporary:   cfg.TemporaryWorkspaceDir,
		InitCommand: cfg.WorkspaceInitCommand,
		RunningDir:  cfg.RunningDir,
	}, log)
	if err != nil {
		return ui.ExitErrorOccurred, err
	}
	defer leaveWorkspace(log, orig, ws)

	if err := ws.Init(ctx, executor); err != nil {
		return ui.ExitErrorOccurred, err
	}
	if err := ws.Enter(); err != nil {
		return ui.ExitErrorOccurred, err
	}

	printer := ui.NewPrinter(w, cfg.Colour)
	var tally ui.Tally
	runner.New(executor, runner.WithLogger(log)).Run(ctx, specs, func(e runner.Event) {
		printer.Handle(e)
		tally.Handle(e)
	})

	return tally.ExitCode(), nil
}

// leaveWorkspace returns to orig and removes a temporary workspace. Failures
// are logged since the run result is already decided.
func leaveWorkspace(log *zap.Logger, orig string, ws *workspace.Workspace) {
	if err := os.Chdir(orig); err != nil {
		log.Warn("restoring working directory", zap.String("dir", orig), zap.Error(err))
	}
	if err := ws.Close(); err != nil {
		log.Warn("removing workspace", zap.String("root", ws.Root), zap.Error(err))
	}
}

func absPaths(paths []string) ([]string, error) {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		abs = append(abs, a)
	}
	return abs, nil
}
