package parser

import (
	"bytes"
	"strings"
)

// Strip returns the document with every fenced code block's info string
// reduced to its language tag. Block contents and all other bytes are
// left as they were.
func Strip(source []byte) []byte {
	out := bytes.Clone(source)

	// Replace from the end so earlier offsets stay valid
	fs := fences(source)
	for i := len(fs) - 1; i >= 0; i-- {
		seg := fs[i].info
		info := string(seg.Value(source))
		language, _, ok := strings.Cut(info, ",")
		if !ok {
			continue
		}

		var buf bytes.Buffer
		buf.Write(out[:seg.Start])
		buf.WriteString(language)
		buf.Write(out[seg.Stop:])
		out = buf.Bytes()
	}
	return out
}
