package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/chriserin/specdown/internal/parser"
	"github.com/chriserin/specdown/internal/runner"
)

// Printer renders runner events as a human-readable report.
type Printer struct {
	w         io.Writer
	s         styles
	run       int
	succeeded int
}

func NewPrinter(w io.Writer, forceColour bool) *Printer {
	return &Printer{w: w, s: newStyles(w, forceColour)}
}

func (p *Printer) Handle(e runner.Event) {
	switch e := e.(type) {
	case runner.SpecFileStarted:
		p.run, p.succeeded = 0, 0
		fmt.Fprintln(p.w, p.s.heading.Render("Running tests for "+e.Path+":"))
		fmt.Fprintln(p.w)
	case runner.ActionCompleted:
		p.run++
		if e.Result.Succeeded() {
			p.succeeded++
		}
		p.result(e.Result)
	case runner.SpecFileCompleted:
		fmt.Fprintln(p.w)
		summary := fmt.Sprintf("  %d functions run (%d succeeded / %d failed)", p.run, p.succeeded, p.run-p.succeeded)
		if e.Success {
			fmt.Fprintln(p.w, p.s.pass.Render(summary))
		} else {
			fmt.Fprintln(p.w, p.s.fail.Render(summary))
		}
		fmt.Fprintln(p.w)
	case runner.ErrorOccurred:
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.s.fail.Render("  ✗ Error: "+e.Err.Error()))
		fmt.Fprintln(p.w)
	}
}

func (p *Printer) result(r runner.Result) {
	switch r := r.(type) {
	case runner.ScriptResult:
		p.mark(r.Success, "running script "+scriptLabel(r.Name))
		if !r.Success {
			p.scriptDetail(r)
		}
	case runner.VerifyResult:
		p.mark(r.Success, fmt.Sprintf("verifying %s from %s", r.Stream, scriptLabel(r.ScriptName)))
		if !r.Success {
			p.diff(r.Diff)
		}
	case runner.FileResult:
		p.mark(true, "creating file "+r.Path)
	}
}

func (p *Printer) mark(ok bool, what string) {
	if ok {
		fmt.Fprintln(p.w, "  "+p.s.pass.Render("✓ "+what+" succeeded"))
		return
	}
	fmt.Fprintln(p.w, "  "+p.s.fail.Render("✗ "+what+" failed"))
}

func scriptLabel(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return "'" + name + "'"
}

func (p *Printer) scriptDetail(r runner.ScriptResult) {
	if r.ExpectedExitCode != nil {
		got := "none (killed by signal)"
		if r.ExitCode != nil {
			got = fmt.Sprint(*r.ExitCode)
		}
		fmt.Fprintf(p.w, "    expected exit code %d, got %s\n", *r.ExpectedExitCode, got)
	}
	if r.ExpectedOutput != parser.AnyOutput {
		fmt.Fprintf(p.w, "    expected output: %s\n", r.ExpectedOutput)
	}
	p.block("script", r.Code)
	p.block("stdout", r.Stdout)
	p.block("stderr", r.Stderr)
}

func (p *Printer) block(title, content string) {
	fmt.Fprintln(p.w, p.s.faint.Render("    === "+title+" ==="))
	for _, line := range strings.SplitAfter(strings.TrimSuffix(content, "\n"), "\n") {
		fmt.Fprintln(p.w, "    "+strings.TrimSuffix(line, "\n"))
	}
}

func (p *Printer) diff(segments []runner.DiffSegment) {
	fmt.Fprintln(p.w, p.s.faint.Render("    === diff (- expected, + got) ==="))
	for _, seg := range segments {
		for _, line := range seg.Lines {
			text := strings.TrimSuffix(line, "\n")
			if !strings.HasSuffix(line, "\n") {
				text += " (no newline at end)"
			}
			switch seg.Kind {
			case runner.DiffInsert:
				fmt.Fprintln(p.w, "    "+p.s.insert.Render("+ "+text))
			case runner.DiffDelete:
				fmt.Fprintln(p.w, "    "+p.s.delete.Render("- "+text))
			default:
				fmt.Fprintln(p.w, "      "+text)
			}
		}
	}
}
