package parser

import (
	"fmt"
	"strconv"
)

// ParseFunction parses a single `name(arg=value, ...)` call, the part of a
// code block's info string that follows the language tag and comma.
//
// Values are tried as integer, then quoted string, then bare token, so `123`
// is always an integer. Whitespace may appear at the start of the input,
// between the name and `(`, and around `=` and `,`.
func ParseFunction(input string) (*Function, error) {
	c := &cursor{input: input}

	c.skipSpace()
	name, ok := c.name()
	if !ok {
		return nil, c.fail("expected function name")
	}

	c.skipSpace()
	if !c.consume('(') {
		return nil, c.fail("expected '('")
	}

	fn := &Function{Name: name, Arguments: map[string]ArgumentValue{}}

	c.skipSpace()
	if !c.consume(')') {
		for {
			argName, value, err := c.argument()
			if err != nil {
				return nil, err
			}
			// Last write wins on duplicate names
			fn.Arguments[argName] = value

			c.skipSpace()
			if c.consume(',') {
				c.skipSpace()
				continue
			}
			if c.consume(')') {
				break
			}
			return nil, c.fail("expected ',' or ')'")
		}
	}

	c.skipSpace()
	if !c.eof() {
		return nil, c.fail("unexpected input after ')'")
	}

	return fn, nil
}

type cursor struct {
	input string
	pos   int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.input)
}

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.input[c.pos]
}

func (c *cursor) consume(b byte) bool {
	if !c.eof() && c.input[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

func (c *cursor) skipSpace() {
	for !c.eof() && isSpace(c.input[c.pos]) {
		c.pos++
	}
}

// name reads alpha (alnum | "_")*.
func (c *cursor) name() (string, bool) {
	if !isAlpha(c.peek()) {
		return "", false
	}
	start := c.pos
	c.pos++
	for !c.eof() && (isAlnum(c.input[c.pos]) || c.input[c.pos] == '_') {
		c.pos++
	}
	return c.input[start:c.pos], true
}

func (c *cursor) argument() (string, ArgumentValue, error) {
	name, ok := c.name()
	if !ok {
		return "", ArgumentValue{}, c.fail("expected argument name")
	}

	c.skipSpace()
	if !c.consume('=') {
		return "", ArgumentValue{}, c.fail("expected '=' after argument " + name)
	}
	c.skipSpace()

	value, err := c.value()
	if err != nil {
		return "", ArgumentValue{}, err
	}
	return name, value, nil
}

func (c *cursor) value() (ArgumentValue, error) {
	switch b := c.peek(); {
	case isDigit(b):
		return c.integer()
	case b == '"':
		return c.quoted()
	case isAlpha(b):
		start := c.pos
		for !c.eof() && isAlpha(c.input[c.pos]) {
			c.pos++
		}
		return TokenArg(c.input[start:c.pos]), nil
	}
	return ArgumentValue{}, c.fail("expected integer, string or token")
}

func (c *cursor) integer() (ArgumentValue, error) {
	start := c.pos
	for !c.eof() && isDigit(c.input[c.pos]) {
		c.pos++
	}
	n, err := strconv.ParseInt(c.input[start:c.pos], 10, 32)
	if err != nil {
		return ArgumentValue{}, &ParseError{Input: c.input, Pos: start, Message: "integer out of range"}
	}
	return IntegerArg(int32(n)), nil
}

// quoted reads a string literal. A backslash keeps the next character from
// closing the literal; the content is stored exactly as written.
func (c *cursor) quoted() (ArgumentValue, error) {
	open := c.pos
	c.pos++
	start := c.pos
	for !c.eof() {
		switch c.input[c.pos] {
		case '\\':
			c.pos += 2
			continue
		case '"':
			text := c.input[start:c.pos]
			c.pos++
			return StringArg(text), nil
		}
		c.pos++
	}
	return ArgumentValue{}, &ParseError{Input: c.input, Pos: open, Message: "unterminated string literal"}
}

func (c *cursor) fail(msg string) *ParseError {
	if c.eof() {
		msg += ", found end of input"
	} else {
		msg += fmt.Sprintf(", found %q", c.input[c.pos])
	}
	return &ParseError{Input: c.input, Pos: c.pos, Message: msg}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isAlpha(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isAlnum(b byte) bool {
	return isAlpha(b) || isDigit(b)
}
