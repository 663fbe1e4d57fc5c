package runner

import (
	"runtime"
	"strings"

	"github.com/chriserin/specdown/internal/parser"
)

// Action is one of ScriptAction, VerifyAction or CreateFileAction.
type Action interface {
	action()
}

type ScriptAction struct {
	Name             string
	Code             string
	ExpectedExitCode *int
	ExpectedOutput   parser.OutputExpectation
}

// Source names the captured stream a verify compares against.
type Source struct {
	ScriptName string
	Stream     parser.Stream
}

type VerifyAction struct {
	Source   Source
	Expected string
}

type CreateFileAction struct {
	Path    string
	Content string
}

func (ScriptAction) action() {}
func (VerifyAction) action() {}
func (CreateFileAction) action() {}

// CurrentOS names the running operating system the way target_os values
// spell it.
func CurrentOS() string {
	if runtime.GOOS == "darwin" {
		return "macos"
	}
	return runtime.GOOS
}

// TargetOSMatches reports whether a verify restricted to target should run on
// goos. A leading "!" inverts the match.
func TargetOSMatches(target, goos string) bool {
	if target == goos {
		return true
	}
	return strings.HasPrefix(target, "!") && target != "!"+goos
}

// Build turns a classified code block and its body into an Action. It
// returns false for skipped blocks and for verifies aimed at another OS.
func Build(cbt parser.CodeBlockType, literal, goos string) (Action, bool) {
	switch b := cbt.(type) {
	case parser.ScriptBlock:
		return ScriptAction{
			Name:             b.Name,
			Code:             literal,
			ExpectedExitCode: b.ExpectedExitCode,
			ExpectedOutput:   b.ExpectedOutput,
		}, true
	case parser.VerifyBlock:
		if b.TargetOS != "" && !TargetOSMatches(b.TargetOS, goos) {
			return nil, false
		}
		return VerifyAction{
			Source:   Source{ScriptName: b.ScriptName, Stream: b.Stream},
			Expected: literal,
		}, true
	case parser.CreateFileBlock:
		return CreateFileAction{Path: b.Path, Content: literal}, true
	}
	return nil, false
}

// BuildActions parses and classifies every code block of a file. The first
// malformed block stops the whole file.
func BuildActions(blocks []parser.CodeBlock, goos string) ([]Action, error) {
	var actions []Action
	for _, block := range blocks {
		fn, err := parser.ParseFunction(block.Function)
		if err != nil {
			return nil, &parser.BlockError{Line: block.Line, Err: err}
		}
		cbt, err := parser.ParseCodeBlockType(fn)
		if err != nil {
			return nil, &parser.BlockError{Line: block.Line, Err: err}
		}
		if a, ok := Build(cbt, block.Literal, goos); ok {
			actions = append(actions, a)
		}
	}
	return actions, nil
}
