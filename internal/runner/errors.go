package runner

import "fmt"

// ScriptOutputMissingError is raised when a verify names a script that has
// not run earlier in the same file.
type ScriptOutputMissingError struct {
	Name string
}

func (e *ScriptOutputMissingError) Error() string {
	if e.Name == "" {
		return "verify has no script_name, and unnamed script output cannot be verified"
	}
	return fmt.Sprintf("no output recorded for script %q; it must run earlier in the same file", e.Name)
}

type FileWriteError struct {
	Path string
	Err  error
}

func (e *FileWriteError) Error() string {
	return fmt.Sprintf("writing file %s: %v", e.Path, e.Err)
}

func (e *FileWriteError) Unwrap() error {
	return e.Err
}
