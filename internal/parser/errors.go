package parser

import (
	"fmt"
	"strings"
)

type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

type MissingArgumentError struct {
	Function string
	Argument string
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("function %s is missing required argument %s", e.Function, e.Argument)
}

type IncorrectArgumentTypeError struct {
	Function string
	Argument string
	Expected ValueKind
	Got      ArgumentValue
}

func (e *IncorrectArgumentTypeError) Error() string {
	return fmt.Sprintf("function %s expected argument %s to be a %s, but got the %s %s",
		e.Function, e.Argument, e.Expected, e.Got.Kind, e.Got)
}

type InvalidArgumentValueError struct {
	Function string
	Argument string
	Got      string
	Expected []string
}

func (e *InvalidArgumentValueError) Error() string {
	return fmt.Sprintf("function %s expected argument %s to be one of %s, but got %s",
		e.Function, e.Argument, strings.Join(e.Expected, ", "), e.Got)
}

// BlockError ties a parse or classification failure to the Markdown line of
// the code block that caused it.
type BlockError struct {
	Line int
	Err  error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("code block at line %d: %v", e.Line, e.Err)
}

func (e *BlockError) Unwrap() error {
	return e.Err
}
