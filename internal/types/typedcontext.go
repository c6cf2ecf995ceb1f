package types

import "github.com/inferlang/infc/internal/ast"

// TypedContext is the read-only bundle produced by a successful check:
// the arena, the node-id → TypeInfo map (exactly the set of value
// expression node ids), and the symbol table. It is the only handle
// downstream consumers need.
type TypedContext struct {
	Arena       *ast.Arena
	NodeTypes   map[ast.NodeID]*TypeInfo
	SymbolTable *SymbolTable
}

// valueExpressionKinds are the node kinds FindUntypedExpressions and
// phase 5 treat as "value expressions" requiring a NodeTypes entry.
// Nondeterministic blocks are excluded: spec.md §9 calls them
// statements, not expressions, since they never synthesize a type.
var valueExpressionKinds = map[ast.NodeKind]bool{
	ast.KindLiteralExpr:          true,
	ast.KindIdentExpr:            true,
	ast.KindBinaryExpr:           true,
	ast.KindUnaryExpr:            true,
	ast.KindCallExpr:             true,
	ast.KindMethodCallExpr:       true,
	ast.KindFieldAccessExpr:      true,
	ast.KindIndexExpr:            true,
	ast.KindArrayLiteralExpr:     true,
	ast.KindStructLiteralExpr:    true,
	ast.KindTypeMemberAccessExpr: true,
	ast.KindUzumakiExpr:          true,
	ast.KindBlockExpr:            true,
	ast.KindIfExpr:               true,
	ast.KindCastExpr:             true,
	ast.KindNumberLit:            true,
	ast.KindBoolLit:              true,
	ast.KindStringLit:            true,
	ast.KindUnitLit:              true,
}

// FindUntypedExpressions is a debug-time invariant check, supplemented
// from the original implementation's typed-context consistency pass:
// it walks the whole arena and reports every value-expression node
// that lacks a NodeTypes entry. A clean TypedContext returns an empty
// slice.
func (tc *TypedContext) FindUntypedExpressions() []Diagnostic {
	var out []Diagnostic
	for _, n := range tc.Arena.FilterNodes(func(n ast.Node) bool { return valueExpressionKinds[n.Kind()] }) {
		if _, ok := tc.NodeTypes[n.ID()]; !ok {
			out = append(out, MissingExpressionType(kindName(n.Kind()), n.Loc()))
		}
	}
	return out
}

func kindName(k ast.NodeKind) string {
	names := map[ast.NodeKind]string{
		ast.KindLiteralExpr: "literal", ast.KindIdentExpr: "identifier",
		ast.KindBinaryExpr: "binary expression", ast.KindUnaryExpr: "unary expression",
		ast.KindCallExpr: "call", ast.KindMethodCallExpr: "method call",
		ast.KindFieldAccessExpr: "field access", ast.KindIndexExpr: "index expression",
		ast.KindArrayLiteralExpr: "array literal", ast.KindStructLiteralExpr: "struct literal",
		ast.KindTypeMemberAccessExpr: "enum variant access", ast.KindUzumakiExpr: "uzumaki expression",
		ast.KindBlockExpr: "block expression", ast.KindIfExpr: "if expression", ast.KindCastExpr: "cast",
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "node"
}
