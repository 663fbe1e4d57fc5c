package parser

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// CodeBlock is a fenced code block whose info string carries a function
// call after the language tag, e.g. ```shell,script(name="x").
type CodeBlock struct {
	Info     string
	Language string
	Function string // info string tail after the first comma
	Literal  string
	Line     int // 1-based line of the opening fence
}

// fence is a fenced code block together with the byte range of its info string.
type fence struct {
	node *ast.FencedCodeBlock
	info text.Segment
}

// ExtractCodeBlocks returns, in document order, every fenced code block in
// a Markdown document whose info string contains a comma. Other code blocks
// are ordinary documentation and are left out.
func ExtractCodeBlocks(source []byte) []CodeBlock {
	var blocks []CodeBlock
	for _, f := range fences(source) {
		info := string(f.info.Value(source))
		language, function, ok := strings.Cut(info, ",")
		if !ok {
			continue
		}

		var literal bytes.Buffer
		lines := f.node.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			literal.Write(seg.Value(source))
		}

		blocks = append(blocks, CodeBlock{
			Info:     info,
			Language: language,
			Function: function,
			Literal:  literal.String(),
			Line:     lineOf(source, f.info.Start),
		})
	}
	return blocks
}

func fences(source []byte) []fence {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var found []fence
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		found = append(found, fence{node: fcb, info: fcb.Info.Segment})
		return ast.WalkSkipChildren, nil
	})
	return found
}

func lineOf(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte("\n")) + 1
}
