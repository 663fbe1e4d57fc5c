package runner

import "github.com/pmezard/go-difflib/difflib"

type DiffKind int

const (
	DiffEqual DiffKind = iota
	DiffDelete
	DiffInsert
)

// DiffSegment is a run of lines that are equal in both texts, only in the
// expected text (delete), or only in the actual text (insert).
type DiffSegment struct {
	Kind  DiffKind
	Lines []string
}

// Diff compares expected and got line by line. It is for display only and
// has no bearing on whether a verify passed.
func Diff(expected, got string) []DiffSegment {
	a := splitLines(expected)
	b := splitLines(got)

	var segments []DiffSegment
	for _, op := range difflib.NewMatcher(a, b).GetOpCodes() {
		switch op.Tag {
		case 'e':
			segments = append(segments, DiffSegment{Kind: DiffEqual, Lines: a[op.I1:op.I2]})
		case 'd':
			segments = append(segments, DiffSegment{Kind: DiffDelete, Lines: a[op.I1:op.I2]})
		case 'i':
			segments = append(segments, DiffSegment{Kind: DiffInsert, Lines: b[op.J1:op.J2]})
		case 'r':
			segments = append(segments,
				DiffSegment{Kind: DiffDelete, Lines: a[op.I1:op.I2]},
				DiffSegment{Kind: DiffInsert, Lines: b[op.J1:op.J2]},
			)
		}
	}
	return segments
}

// splitLines keeps line endings so a missing trailing newline shows up as
// a changed line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i+1])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
