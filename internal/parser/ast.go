package parser

import (
	"fmt"
	"strconv"
)

// Layer 1: the function call written in a code block's info string

// ValueKind identifies which of the three argument forms a value was written in.
type ValueKind int

const (
	IntegerValue ValueKind = iota
	StringValue
	TokenValue
)

func (k ValueKind) String() string {
	switch k {
	case IntegerValue:
		return "integer"
	case StringValue:
		return "string"
	case TokenValue:
		return "token"
	}
	return "unknown"
}

// ArgumentValue is an integer, a quoted string or a bare token. Only the
// field matching Kind is meaningful.
type ArgumentValue struct {
	Kind    ValueKind
	Integer int32
	Text    string // string content or token identifier
}

func IntegerArg(n int32) ArgumentValue { return ArgumentValue{Kind: IntegerValue, Integer: n} }
func StringArg(s string) ArgumentValue { return ArgumentValue{Kind: StringValue, Text: s} }
func TokenArg(tok string) ArgumentValue { return ArgumentValue{Kind: TokenValue, Text: tok} }

func (v ArgumentValue) String() string {
	switch v.Kind {
	case IntegerValue:
		return strconv.Itoa(int(v.Integer))
	case StringValue:
		return strconv.Quote(v.Text)
	default:
		return v.Text
	}
}

// Function is a parsed `name(arg=value, ...)` call. Duplicate argument names
// collapse to the last one written.
type Function struct {
	Name      string
	Arguments map[string]ArgumentValue
}

// Layer 2: what the code block asks the runner to do

type OutputExpectation int

const (
	AnyOutput OutputExpectation = iota
	StdOutOnly
	StdErrOnly
	NoOutput
)

func (o OutputExpectation) String() string {
	switch o {
	case StdOutOnly:
		return "stdout"
	case StdErrOnly:
		return "stderr"
	case NoOutput:
		return "none"
	}
	return "any"
}

type Stream int

const (
	StdOut Stream = iota
	StdErr
)

func (s Stream) String() string {
	if s == StdErr {
		return "stderr"
	}
	return "stdout"
}

// CodeBlockType is one of ScriptBlock, VerifyBlock, CreateFileBlock or SkipBlock.
type CodeBlockType interface {
	codeBlockType()
}

type ScriptBlock struct {
	Name             string // empty when the script is unnamed
	ExpectedExitCode *int
	ExpectedOutput   OutputExpectation
}

type VerifyBlock struct {
	ScriptName string
	Stream     Stream
	TargetOS   string // may start with "!"
}

type CreateFileBlock struct {
	Path string
}

type SkipBlock struct{}

func (ScriptBlock) codeBlockType() {}
func (VerifyBlock) codeBlockType() {}
func (CreateFileBlock) codeBlockType() {}
func (SkipBlock) codeBlockType() {}

// ParseError reports a function string that does not match the grammar.
// Pos is the byte offset into Input where parsing stopped.
type ParseError struct {
	Input   string
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse function %q at position %d: %s", e.Input, e.Pos, e.Message)
}
