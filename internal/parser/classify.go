package parser

// ParseCodeBlockType converts a Layer 1 Function into the Layer 2 block type
// it names, checking argument types and applying defaults.
func ParseCodeBlockType(fn *Function) (CodeBlockType, error) {
	args := arguments{function: fn.Name, values: fn.Arguments}

	switch fn.Name {
	case "script":
		return scriptBlock(args)
	case "verify":
		return verifyBlock(args)
	case "file":
		return fileBlock(args)
	case "skip":
		return SkipBlock{}, nil
	}
	return nil, &UnknownFunctionError{Name: fn.Name}
}

func scriptBlock(args arguments) (CodeBlockType, error) {
	name, _, err := args.optionalString("name")
	if err != nil {
		return nil, err
	}

	var expectedExitCode *int
	code, ok, err := args.optionalInteger("expected_exit_code")
	if err != nil {
		return nil, err
	}
	if ok {
		n := int(code)
		expectedExitCode = &n
	}

	expectedOutput := AnyOutput
	tok, ok, err := args.optionalToken("expected_output")
	if err != nil {
		return nil, err
	}
	if ok {
		switch tok {
		case "any":
			expectedOutput = AnyOutput
		case "stdout":
			expectedOutput = StdOutOnly
		case "stderr":
			expectedOutput = StdErrOnly
		case "none":
			expectedOutput = NoOutput
		default:
			return nil, &InvalidArgumentValueError{
				Function: args.function,
				Argument: "expected_output",
				Got:      tok,
				Expected: []string{"any", "stdout", "stderr", "none"},
			}
		}
	}

	return ScriptBlock{
		Name:             name,
		ExpectedExitCode: expectedExitCode,
		ExpectedOutput:   expectedOutput,
	}, nil
}

func verifyBlock(args arguments) (CodeBlockType, error) {
	scriptName, _, err := args.optionalString("script_name")
	if err != nil {
		return nil, err
	}

	stream := StdOut
	tok, ok, err := args.optionalToken("stream")
	if err != nil {
		return nil, err
	}
	if ok {
		switch tok {
		case "stdout":
			stream = StdOut
		case "stderr":
			stream = StdErr
		default:
			return nil, &InvalidArgumentValueError{
				Function: args.function,
				Argument: "stream",
				Got:      tok,
				Expected: []string{"stdout", "stderr"},
			}
		}
	}

	targetOS, _, err := args.optionalString("target_os")
	if err != nil {
		return nil, err
	}

	return VerifyBlock{ScriptName: scriptName, Stream: stream, TargetOS: targetOS}, nil
}

func fileBlock(args arguments) (CodeBlockType, error) {
	path, err := args.requiredString("path")
	if err != nil {
		return nil, err
	}
	return CreateFileBlock{Path: path}, nil
}

// arguments fetches typed values out of a function's argument map.
type arguments struct {
	function string
	values   map[string]ArgumentValue
}

func (a arguments) lookup(name string, kind ValueKind) (ArgumentValue, bool, error) {
	v, ok := a.values[name]
	if !ok {
		return ArgumentValue{}, false, nil
	}
	if v.Kind != kind {
		return ArgumentValue{}, false, &IncorrectArgumentTypeError{
			Function: a.function,
			Argument: name,
			Expected: kind,
			Got:      v,
		}
	}
	return v, true, nil
}

func (a arguments) optionalString(name string) (string, bool, error) {
	v, ok, err := a.lookup(name, StringValue)
	return v.Text, ok, err
}

func (a arguments) optionalToken(name string) (string, bool, error) {
	v, ok, err := a.lookup(name, TokenValue)
	return v.Text, ok, err
}

func (a arguments) optionalInteger(name string) (int32, bool, error) {
	v, ok, err := a.lookup(name, IntegerValue)
	return v.Integer, ok, err
}

func (a arguments) requiredString(name string) (string, error) {
	s, ok, err := a.optionalString(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &MissingArgumentError{Function: a.function, Argument: name}
	}
	return s, nil
}
