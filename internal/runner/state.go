package runner

import "github.com/chriserin/specdown/internal/parser"

// State is the per-file record of named script outputs. A fresh State is
// created for every spec file.
type State struct {
	outputs map[string]Output
	success bool
}

func NewState() *State {
	return &State{outputs: map[string]Output{}, success: true}
}

// AddScriptOutput stores the output of a named script, replacing any earlier
// run under the same name. Unnamed scripts are not stored.
func (s *State) AddScriptOutput(name string, out Output) {
	if name == "" {
		return
	}
	s.outputs[name] = out
}

// StreamOutput returns the captured text for src.
func (s *State) StreamOutput(src Source) (string, bool) {
	if src.ScriptName == "" {
		return "", false
	}
	out, ok := s.outputs[src.ScriptName]
	if !ok {
		return "", false
	}
	if src.Stream == parser.StdErr {
		return out.Stderr, true
	}
	return out.Stdout, true
}

func (s *State) RecordResult(ok bool) {
	s.success = s.success && ok
}

func (s *State) Success() bool {
	return s.success
}
