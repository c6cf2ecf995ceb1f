package parser

import (
	"testing"

	"github.com/inferlang/infc/internal/ast"
)

func TestParseTrivialFunction(t *testing.T) {
	arena, errs := Parse("t.pea", []byte("fn main() -> i32 { return 42; }"))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	fns := arena.Functions()
	if len(fns) != 1 {
		t.Fatalf("got %d functions, want 1", len(fns))
	}
	if fns[0].Name != "main" {
		t.Fatalf("got function named %q, want %q", fns[0].Name, "main")
	}
	if err := arena.CheckIntegrity(); err != nil {
		t.Fatalf("arena integrity violated: %v", err)
	}
}

func TestParseStructAndVisibility(t *testing.T) {
	src := `struct P { x: i32, y: i32 }
pub fn leak(p: P) -> i32 { return p.x; }`
	arena, errs := Parse("t.pea", []byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	defs := arena.ListTypeDefinitions()
	if len(defs) != 1 {
		t.Fatalf("got %d type definitions, want 1", len(defs))
	}
	sd, ok := defs[0].(*ast.StructDef)
	if !ok {
		t.Fatalf("type definition is %T, want *ast.StructDef", defs[0])
	}
	if len(sd.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(sd.Fields))
	}
	field, ok := arena.FindNode(sd.Fields[0])
	if !ok {
		t.Fatalf("field node not found")
	}
	f := field.(*ast.Field)
	if f.Visibility != ast.Private {
		t.Fatalf("field %q should default to private visibility", f.Name)
	}
}

func TestParseGenericFunction(t *testing.T) {
	src := "fn id<T>(x: T) -> T { return x; } fn use_it() -> i32 { return id(7); }"
	arena, errs := Parse("t.pea", []byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	fns := arena.Functions()
	if len(fns) != 2 {
		t.Fatalf("got %d functions, want 2", len(fns))
	}
}

func TestParseAmbiguousImports(t *testing.T) {
	src := "use a::Foo;\nuse b::Foo;\n"
	arena, errs := Parse("t.pea", []byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	sfs := arena.SourceFiles()
	if len(sfs) != 1 || len(sfs[0].Uses) != 2 {
		t.Fatalf("expected one source file with two use directives")
	}
}

// TestIfConditionWithCapitalizedIdentifierIsNotAStructLiteral exercises
// the disambiguation parseCondExpr exists for: a capitalized identifier
// immediately followed by `{` in condition position is the start of the
// then-block, not a struct literal, regardless of casing.
func TestIfConditionWithCapitalizedIdentifierIsNotAStructLiteral(t *testing.T) {
	src := `fn f(Flag: bool) -> i32 {
    if Flag {
        return 1;
    }
    return 0;
}`
	arena, errs := Parse("t.pea", []byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	ifs := arena.FilterNodes(func(n ast.Node) bool { return n.Kind() == ast.KindIfStmt })
	if len(ifs) != 1 {
		t.Fatalf("got %d if statements, want 1", len(ifs))
	}
	is := ifs[0].(*ast.IfStmt)
	cond, ok := arena.FindNode(is.Cond)
	if !ok {
		t.Fatalf("condition node not found")
	}
	if _, ok := cond.(*ast.IdentExpr); !ok {
		t.Fatalf("condition is %T, want *ast.IdentExpr", cond)
	}
	then, ok := arena.FindNode(is.Then)
	if !ok {
		t.Fatalf("then-block node not found")
	}
	blk := then.(*ast.Block)
	if len(blk.Stmts) != 1 {
		t.Fatalf("got %d statements in then-block, want 1", len(blk.Stmts))
	}
}

// TestWhileConditionWithCapitalizedCallIsNotAStructLiteral exercises the
// same disambiguation for a while loop whose condition is a call to a
// capitalized function name, immediately followed by the loop body's
// `{`.
func TestWhileConditionWithCapitalizedCallIsNotAStructLiteral(t *testing.T) {
	src := `fn Done() -> bool { return true; }
fn f() -> i32 {
    while Done() {
        break;
    }
    return 0;
}`
	arena, errs := Parse("t.pea", []byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	whiles := arena.FilterNodes(func(n ast.Node) bool { return n.Kind() == ast.KindWhileStmt })
	if len(whiles) != 1 {
		t.Fatalf("got %d while statements, want 1", len(whiles))
	}
	ws := whiles[0].(*ast.WhileStmt)
	cond, ok := arena.FindNode(ws.Cond)
	if !ok {
		t.Fatalf("condition node not found")
	}
	if _, ok := cond.(*ast.CallExpr); !ok {
		t.Fatalf("condition is %T, want *ast.CallExpr", cond)
	}
}

func TestSyntaxErrorOnBadInput(t *testing.T) {
	_, errs := Parse("t.pea", []byte("fn main( -> i32 { }"))
	if len(errs) == 0 {
		t.Fatalf("expected a syntax error, got none")
	}
	if _, ok := errs[0].(*SyntaxError); !ok {
		t.Fatalf("error is %T, want *SyntaxError", errs[0])
	}
}
