package ui

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chriserin/specdown/internal/parser"
	"github.com/chriserin/specdown/internal/runner"
)

func exitCode(n int) *int { return &n }

func render(events ...runner.Event) string {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false)
	for _, e := range events {
		p.Handle(e)
	}
	return buf.String()
}

func TestPrinter_SuccessfulFile(t *testing.T) {
	out := render(
		runner.SpecFileStarted{Path: "spec.md"},
		runner.ActionCompleted{Result: runner.ScriptResult{Name: "a", ExitCode: exitCode(0), Success: true}},
		runner.ActionCompleted{Result: runner.VerifyResult{ScriptName: "a", Stream: parser.StdOut, Success: true}},
		runner.ActionCompleted{Result: runner.FileResult{Path: "out.txt"}},
		runner.SpecFileCompleted{Path: "spec.md", Success: true},
	)

	assert.Contains(t, out, "Running tests for spec.md:")
	assert.Contains(t, out, "✓ running script 'a' succeeded")
	assert.Contains(t, out, "✓ verifying stdout from 'a' succeeded")
	assert.Contains(t, out, "✓ creating file out.txt succeeded")
	assert.Contains(t, out, "3 functions run (3 succeeded / 0 failed)")
}

func TestPrinter_FailedScriptShowsDetail(t *testing.T) {
	out := render(
		runner.SpecFileStarted{Path: "spec.md"},
		runner.ActionCompleted{Result: runner.ScriptResult{
			Code:             "exit 3\n",
			ExitCode:         exitCode(3),
			ExpectedExitCode: exitCode(2),
			Stderr:           "bad\n",
		}},
		runner.SpecFileCompleted{Path: "spec.md", Success: false},
	)

	assert.Contains(t, out, "✗ running script (unnamed) failed")
	assert.Contains(t, out, "expected exit code 2, got 3")
	assert.Contains(t, out, "=== stderr ===\n    bad\n")
	assert.Contains(t, out, "1 functions run (0 succeeded / 1 failed)")
}

func TestPrinter_FailedVerifyShowsDiff(t *testing.T) {
	out := render(
		runner.SpecFileStarted{Path: "spec.md"},
		runner.ActionCompleted{Result: runner.VerifyResult{
			ScriptName: "a",
			Stream:     parser.StdErr,
			Expected:   "hello\n",
			Got:        "hi\n",
			Diff:       runner.Diff("hello\n", "hi\n"),
		}},
	)

	assert.Contains(t, out, "✗ verifying stderr from 'a' failed")
	assert.Contains(t, out, "- hello")
	assert.Contains(t, out, "+ hi")
}

func TestPrinter_Error(t *testing.T) {
	out := render(
		runner.SpecFileStarted{Path: "spec.md"},
		runner.ErrorOccurred{Path: "spec.md", Err: errors.New("boom")},
	)

	assert.Contains(t, out, "✗ Error: boom")
}

func TestPrinter_CountsResetPerFile(t *testing.T) {
	out := render(
		runner.SpecFileStarted{Path: "a.md"},
		runner.ActionCompleted{Result: runner.FileResult{Path: "x"}},
		runner.SpecFileCompleted{Path: "a.md", Success: true},
		runner.SpecFileStarted{Path: "b.md"},
		runner.SpecFileCompleted{Path: "b.md", Success: true},
	)

	assert.Contains(t, out, "1 functions run")
	assert.Contains(t, out, "0 functions run")
}
