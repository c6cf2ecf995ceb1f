package parser

import (
	"fmt"

	"github.com/inferlang/infc/internal/ast"
)

// SyntaxError is a single parse failure, formatted the same way the
// teacher's parseError renders: "<path>:<loc>: <message>", where <loc>
// is ast.Loc's "<line>.<col>-<line>.<col>" span ("<line>.<col>" when
// the span is empty).
// It does not carry a generated-grammar failure tree, since this
// parser has no generated grammar to produce one (see DESIGN.md).
type SyntaxError struct {
	Path string
	Loc  ast.Loc
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%s: %s", e.Path, e.Loc, e.Msg)
}

func posLoc(startLine, startCol, endLine, endCol int) ast.Loc {
	return ast.Loc{StartLine: startLine, StartCol: startCol, EndLine: endLine, EndCol: endCol}
}
