package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/chriserin/specdown/internal/config"
	"github.com/chriserin/specdown/internal/shell"
	"github.com/chriserin/specdown/internal/ui"
	"github.com/chriserin/specdown/internal/workspace"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.ShellCommand = "sh -c"
	return cfg
}

func runSpecs(t *testing.T, cfg config.Config, paths ...string) (int, string) {
	t.Helper()
	var buf bytes.Buffer
	code, err := RunSpecs(context.Background(), &buf, cfg, paths)
	require.NoError(t, err)
	return code, buf.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun_ScriptThenVerify(t *testing.T) {
	inTempDir(t)
	writeFile(t, "spec.md", "```shell,script(name=\"a\")\necho hi\n```\n\n"+
		"```,verify(script_name=\"a\", stream=stdout)\nhi\n```\n")

	code, out := runSpecs(t, testConfig(), "spec.md")

	assert.Equal(t, ui.ExitSuccess, code, out)
	assert.Contains(t, out, "✓ running script 'a' succeeded")
	assert.Contains(t, out, "✓ verifying stdout from 'a' succeeded")
}

func TestRun_ExpectedExitCode(t *testing.T) {
	inTempDir(t)
	writeFile(t, "pass.md", "```shell,script(expected_exit_code=2)\nexit 2\n```\n")
	writeFile(t, "fail.md", "```shell,script(expected_exit_code=2)\nexit 3\n```\n")

	code, _ := runSpecs(t, testConfig(), "pass.md")
	assert.Equal(t, ui.ExitSuccess, code)

	code, out := runSpecs(t, testConfig(), "fail.md")
	assert.Equal(t, ui.ExitTestFailed, code)
	assert.Contains(t, out, "expected exit code 2, got 3")
}

func TestRun_CreateFile(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, "spec.md", "```text,file(path=\"out.txt\")\ncontent\n```\n")

	code, out := runSpecs(t, testConfig(), "spec.md")
	assert.Equal(t, ui.ExitSuccess, code)
	assert.Contains(t, out, "creating file out.txt")

	data, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))
}

func TestRun_MissingFilePathIsError(t *testing.T) {
	inTempDir(t)
	writeFile(t, "spec.md", "```text,file()\ncontent\n```\n")

	code, out := runSpecs(t, testConfig(), "spec.md")
	assert.Equal(t, ui.ExitErrorOccurred, code)
	assert.Contains(t, out, "function file is missing required argument path")
}

func TestRun_VerifyBeforeScriptIsError(t *testing.T) {
	inTempDir(t)
	writeFile(t, "spec.md", "```,verify(script_name=\"s\")\nhi\n```\n")

	code, out := runSpecs(t, testConfig(), "spec.md")
	assert.Equal(t, ui.ExitErrorOccurred, code)
	assert.Contains(t, out, `no output recorded for script "s"`)
}

func TestRun_LaterFilesStillRun(t *testing.T) {
	inTempDir(t)
	writeFile(t, "bad.md", "```,verify(script_name=\"s\")\nhi\n```\n")
	writeFile(t, "good.md", "```shell,script(name=\"s\")\necho ok\n```\n")

	code, out := runSpecs(t, testConfig(), "bad.md", "good.md")
	assert.Equal(t, ui.ExitErrorOccurred, code)
	assert.Contains(t, out, "✓ running script 's' succeeded")
}

func TestRun_SkipAndTargetOS(t *testing.T) {
	inTempDir(t)
	writeFile(t, "spec.md", "```shell,skip()\nexit 1\n```\n\n"+
		"```shell,script(name=\"a\")\necho hi\n```\n\n"+
		"```,verify(script_name=\"a\", target_os=\"no-such-os\")\nwrong\n```\n\n"+
		"```,verify(script_name=\"a\", target_os=\"!no-such-os\")\nhi\n```\n")

	code, out := runSpecs(t, testConfig(), "spec.md")
	assert.Equal(t, ui.ExitSuccess, code, out)
	assert.Contains(t, out, "2 functions run (2 succeeded / 0 failed)")
}

func TestRun_EnvAndUnsetEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("SPECDOWN_TEST_UNSET", "still here")
	writeFile(t, "spec.md", "```shell,script(name=\"env\")\necho \"$GREETING ${SPECDOWN_TEST_UNSET:-gone}\"\n```\n\n"+
		"```,verify(script_name=\"env\")\nhello gone\n```\n")

	cfg := testConfig()
	cfg.Env = []string{"GREETING=hello"}
	cfg.UnsetEnv = []string{"SPECDOWN_TEST_UNSET"}

	code, out := runSpecs(t, cfg, "spec.md")
	assert.Equal(t, ui.ExitSuccess, code, out)
}

func TestRun_AddPath(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin", "greet"), []byte("#!/bin/sh\necho greetings\n"), 0o755))
	writeFile(t, "spec.md", "```shell,script(name=\"g\")\ngreet\n```\n\n```,verify(script_name=\"g\")\ngreetings\n```\n")

	cfg := testConfig()
	cfg.AddPath = []string{"bin"}

	code, out := runSpecs(t, cfg, "spec.md")
	assert.Equal(t, ui.ExitSuccess, code, out)
}

func TestRun_TemporaryWorkspace(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, "spec.md", "```text,file(path=\"out.txt\")\ncontent\n```\n")

	cfg := testConfig()
	cfg.TemporaryWorkspaceDir = true

	code, _ := runSpecs(t, cfg, "spec.md")
	assert.Equal(t, ui.ExitSuccess, code)

	_, err := os.Stat(filepath.Join(dir, "out.txt"))
	assert.True(t, os.IsNotExist(err))

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), filepath.Base(wd))
}

func TestRun_WorkspaceDirAndRunningDir(t *testing.T) {
	dir := inTempDir(t)
	writeFile(t, "spec.md", "```text,file(path=\"out.txt\")\ncontent\n```\n")

	cfg := testConfig()
	cfg.WorkspaceDir = "ws"
	cfg.RunningDir = "run"
	cfg.WorkspaceInitCommand = "touch initialized"

	code, out := runSpecs(t, cfg, "spec.md")
	assert.Equal(t, ui.ExitSuccess, code, out)

	_, err := os.Stat(filepath.Join(dir, "ws", "initialized"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ws", "run", "out.txt"))
	assert.NoError(t, err)
}

func TestRun_BadShellCommand(t *testing.T) {
	inTempDir(t)
	writeFile(t, "spec.md", "```shell,script()\ntrue\n```\n")

	cfg := testConfig()
	cfg.ShellCommand = `sh -c "unterminated`

	var buf bytes.Buffer
	code, err := RunSpecs(context.Background(), &buf, cfg, []string{"spec.md"})
	var bad *shell.BadShellCommandError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, ui.ExitErrorOccurred, code)
	assert.Empty(t, buf.String())
}

func loadRunConfig(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	opts := &runOptions{}
	cmd := newRunCmd(opts)
	require.NoError(t, cmd.ParseFlags(args))
	return opts.load(cmd)
}

func TestRunConfig_FileOnly(t *testing.T) {
	inTempDir(t)
	writeFile(t, config.FileName, "shell_command: \"zsh -c\"\nworkspace_dir: ws\ncolour: true\n")

	cfg, err := loadRunConfig(t)
	require.NoError(t, err)
	assert.Equal(t, "zsh -c", cfg.ShellCommand)
	assert.Equal(t, "ws", cfg.WorkspaceDir)
	assert.True(t, cfg.Colour)
}

func TestRunConfig_FlagsOverrideFile(t *testing.T) {
	inTempDir(t)
	writeFile(t, config.FileName, "shell_command: \"zsh -c\"\nenv:\n  - A=1\nworkspace_dir: ws\ncolour: true\n")

	cfg, err := loadRunConfig(t,
		"--shell-command", "sh -c",
		"--env", "B=2",
		"--temporary-workspace-dir",
		"--colour=false")
	require.NoError(t, err)
	assert.Equal(t, "sh -c", cfg.ShellCommand)
	assert.Equal(t, []string{"A=1", "B=2"}, cfg.Env)
	assert.True(t, cfg.TemporaryWorkspaceDir)
	assert.Empty(t, cfg.WorkspaceDir)
	assert.False(t, cfg.Colour)
}

func TestRunConfig_WorkspaceDirOverridesTemporary(t *testing.T) {
	inTempDir(t)
	writeFile(t, config.FileName, "temporary_workspace_dir: true\nrunning_dir: a\n")

	cfg, err := loadRunConfig(t, "--workspace-dir", "ws", "--running-dir", "b")
	require.NoError(t, err)
	assert.Equal(t, "ws", cfg.WorkspaceDir)
	assert.False(t, cfg.TemporaryWorkspaceDir)
	assert.Equal(t, "b", cfg.RunningDir)
}

func TestRunConfig_ExplicitConfigMustExist(t *testing.T) {
	inTempDir(t)

	_, err := loadRunConfig(t, "--config", "custom.yaml")
	assert.ErrorContains(t, err, "reading config custom.yaml")
}

func TestLeaveWorkspace_LogsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ws, err := workspace.Prepare(workspace.Options{Dir: t.TempDir()}, nil)
	require.NoError(t, err)

	leaveWorkspace(zap.New(core), filepath.Join(t.TempDir(), "gone"), ws)

	entries := logs.FilterMessage("restoring working directory").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "error")
}

func TestExecute_ReturnsRunExitCode(t *testing.T) {
	inTempDir(t)
	writeFile(t, "spec.md", "```shell,script(expected_exit_code=2)\nexit 3\n```\n")

	orig := logger
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"run", "--shell-command", "sh -c", "spec.md"})
	t.Cleanup(func() {
		logger = orig
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	assert.Equal(t, ui.ExitTestFailed, execute())
	assert.Contains(t, buf.String(), "expected exit code 2, got 3")
}
