package types

import (
	"strings"
	"testing"

	"github.com/inferlang/infc/internal/ast"
	"github.com/inferlang/infc/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Arena {
	t.Helper()
	arena, errs := parser.Parse("t.pea", []byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return arena
}

func numberLits(arena *ast.Arena) []ast.Node {
	return arena.FilterNodes(func(n ast.Node) bool { return n.Kind() == ast.KindNumberLit })
}

// TestTrivialFunctionChecks exercises scenario S1: a one-function
// program checks cleanly, its literal return value synthesizes
// Number(I32), and its name resolves in the root scope with the
// declared return type.
func TestTrivialFunctionChecks(t *testing.T) {
	arena := mustParse(t, "fn main() -> i32 { return 42; }")
	ctx, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	fns := arena.Functions()
	if len(fns) != 1 || fns[0].Name != "main" {
		t.Fatalf("got functions %v, want one named main", fns)
	}

	lits := numberLits(arena)
	if len(lits) != 1 {
		t.Fatalf("got %d number literals, want 1", len(lits))
	}
	got := ctx.NodeTypes[lits[0].ID()]
	if got == nil || !got.Equal(Number(I32)) {
		t.Fatalf("literal 42 has type %v, want i32", got)
	}

	sym, scope, ok := ctx.SymbolTable.Lookup(ctx.SymbolTable.Root(), "main")
	if !ok {
		t.Fatalf("main not found in root scope")
	}
	if scope != ctx.SymbolTable.Root() {
		t.Fatalf("main resolved from scope %v, want root", scope)
	}
	fsym, ok := sym.(*FunctionSymbol)
	if !ok {
		t.Fatalf("main resolved to %T, want *FunctionSymbol", sym)
	}
	if !fsym.Return.Equal(Number(I32)) {
		t.Fatalf("main return type = %v, want i32", fsym.Return)
	}

	if untyped := ctx.FindUntypedExpressions(); len(untyped) != 0 {
		t.Fatalf("untyped expressions remain: %v", untyped)
	}
}

// TestReturnTypeMismatch exercises scenario S2: returning a bool where
// i32 is declared raises exactly one CtxReturn TypeMismatch.
func TestReturnTypeMismatch(t *testing.T) {
	arena := mustParse(t, "fn f() -> i32 { return true; }")
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected a type-mismatch error, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(diags), diags)
	}
	mismatch, ok := diags[0].(*TypeMismatch)
	if !ok {
		t.Fatalf("diagnostic is %T, want *TypeMismatch", diags[0])
	}
	if mismatch.Context != CtxReturn {
		t.Fatalf("context = %v, want CtxReturn", mismatch.Context)
	}
	if !mismatch.Expected.Equal(Number(I32)) {
		t.Fatalf("expected type = %v, want i32", mismatch.Expected)
	}
	if !mismatch.Found.Equal(Bool()) {
		t.Fatalf("found type = %v, want bool", mismatch.Found)
	}
}

// TestPrivateFieldAccessOutsideModule exercises scenario S3: a struct
// declared inside a module defaults its fields to private, and a free
// function outside that module reading one of them raises a single
// VisField VisibilityViolation naming the struct and field.
func TestPrivateFieldAccessOutsideModule(t *testing.T) {
	src := `mod m {
    pub struct P { x: i32, y: i32 }
}
pub fn leak(p: P) -> i32 { return p.x; }`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected a visibility violation, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	var found *VisibilityViolation
	for _, d := range diags {
		if v, ok := d.(*VisibilityViolation); ok {
			found = v
			break
		}
	}
	if found == nil {
		t.Fatalf("no VisibilityViolation among diagnostics: %v", diags)
	}
	if found.Ctx != VisField {
		t.Fatalf("Ctx = %v, want VisField", found.Ctx)
	}
	if found.StructName != "P" || found.FieldName != "x" {
		t.Fatalf("violation names %q.%q, want P.x", found.StructName, found.FieldName)
	}
}

// TestPrivateFieldAccessWithinModule is the mirror of S3: a method
// defined on P within the same module m may read its own private
// fields without triggering a violation.
func TestPrivateFieldAccessWithinModule(t *testing.T) {
	src := `mod m {
    pub struct P { x: i32, y: i32 }
    impl P {
        pub fn sum(self) -> i32 { return self.x; }
    }
}`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error for same-module field access: %v", err)
	}
}

// TestAssociatedFunctionCallViaTypeSyntax exercises a method with no
// self parameter (an associated function, spec.md's has_self=false):
// it is only reachable via qualified P::make(...) syntax, and carries
// no implicit self binding.
func TestAssociatedFunctionCallViaTypeSyntax(t *testing.T) {
	src := `struct P { x: i32 }
impl P {
    pub fn make(v: i32) -> P { return P { x: v }; }
}
fn use_it() -> i32 { return P::make(7).x; }`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error for associated-function call: %v", err)
	}
}

// TestInstanceMethodCalledAsAssociatedFunctionErrors exercises the
// reverse of TestAssociatedFunctionCallViaTypeSyntax: a method that
// does take self cannot be called via the qualified P::method(...)
// syntax with no receiver supplied.
func TestInstanceMethodCalledAsAssociatedFunctionErrors(t *testing.T) {
	src := `struct P { x: i32 }
impl P {
    pub fn get_x(self) -> i32 { return self.x; }
}
fn use_it() -> i32 { return P::get_x(); }`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected an AssociatedCallOnInstanceMethod error, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	found := false
	for _, d := range diags {
		dg, ok := d.(Diagnostic)
		if ok && strings.HasPrefix(dg.Key(), "AssociatedCallOnInstanceMethod:P::get_x:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no AssociatedCallOnInstanceMethod diagnostic among: %v", diags)
	}
}

// TestAssociatedFunctionCalledAsInstanceMethodErrors exercises the
// mirror case: a method with no self parameter cannot be called via
// receiver syntax value.method(...), since there is no self to bind
// the receiver to.
func TestAssociatedFunctionCalledAsInstanceMethodErrors(t *testing.T) {
	src := `struct P { x: i32 }
impl P {
    pub fn make(v: i32) -> P { return P { x: v }; }
}
fn use_it() -> i32 {
    let p: P = P { x: 1 };
    return p.make(2).x;
}`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected an InstanceCallOnAssociatedFunction error, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	found := false
	for _, d := range diags {
		dg, ok := d.(Diagnostic)
		if ok && strings.HasPrefix(dg.Key(), "InstanceCallOnAssociatedFunction:P.make:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no InstanceCallOnAssociatedFunction diagnostic among: %v", diags)
	}
}

// TestMixedInstanceAndAssociatedFunctions exercises a struct whose
// impl block carries both kinds of method, each reachable only
// through its own call syntax.
func TestMixedInstanceAndAssociatedFunctions(t *testing.T) {
	src := `struct P { x: i32 }
impl P {
    pub fn make(v: i32) -> P { return P { x: v }; }
    pub fn get_x(self) -> i32 { return self.x; }
}
fn use_it() -> i32 {
    let p: P = P::make(5);
    return p.get_x();
}`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error for mixed instance/associated methods: %v", err)
	}
}

// TestSelfOutsideMethod exercises spec.md §4.3's requirement that a
// bare `self` reference in a free function (one with no receiver, so
// nothing ever binds "self" in its scope) is reported as
// InvalidSelfReference rather than a generic UnknownIdentifier.
func TestSelfOutsideMethod(t *testing.T) {
	src := "fn f() -> i32 { return self.x; }"
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected an invalid-self-reference error, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	found := false
	for _, d := range diags {
		dg, ok := d.(Diagnostic)
		if ok && strings.HasPrefix(dg.Key(), "InvalidSelfReference:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no InvalidSelfReference diagnostic among: %v", diags)
	}
}

// TestGenericInstantiation exercises scenario S4: calling a generic
// identity function with an i32 argument synthesizes Number(I32) at
// the call site, with no unresolved type parameter left in the result.
func TestGenericInstantiation(t *testing.T) {
	src := "fn id<T>(x: T) -> T { return x; } fn use_it() -> i32 { return id(7); }"
	arena := mustParse(t, src)
	ctx, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	var call *ast.CallExpr
	for _, n := range arena.FilterNodes(func(n ast.Node) bool { return n.Kind() == ast.KindCallExpr }) {
		call = n.(*ast.CallExpr)
	}
	if call == nil {
		t.Fatalf("no call expression found")
	}
	got := ctx.NodeTypes[call.ID()]
	if got == nil {
		t.Fatalf("call expression has no recorded type")
	}
	if got.HasUnresolvedParams() {
		t.Fatalf("call result %v still has an unresolved generic parameter", got)
	}
	if !got.Equal(Number(I32)) {
		t.Fatalf("id(7) synthesized %v, want i32", got)
	}
}

// TestUnresolvedTypeParameterAtCallSite exercises spec.md §4.3's
// requirement that substituting into a generic function's return type
// and finding a type parameter still unbound (here, a parameter that
// appears only in the return type, so no argument ever fixes it) is
// reported at the call site.
func TestUnresolvedTypeParameterAtCallSite(t *testing.T) {
	src := "fn zero<T>() -> T { return 0; } fn use_it() -> i32 { return zero(); }"
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected an unresolved-type-parameter error, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	found := false
	for _, d := range diags {
		dg, ok := d.(Diagnostic)
		if ok && strings.HasPrefix(dg.Key(), "UnresolvedTypeParameter:zero:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no UnresolvedTypeParameter diagnostic for zero() among: %v", diags)
	}
}

// TestAmbiguousImport exercises scenario S5: importing the same final
// name from two distinct paths raises exactly one AmbiguousImport
// diagnostic.
func TestAmbiguousImport(t *testing.T) {
	src := `mod a {
    pub struct Foo { z: i32 }
}
mod b {
    pub struct Foo { z: i32 }
}
use a::Foo;
use b::Foo;
`
	arena := mustParse(t, src)
	_, err := Check(arena, Config{IntSize: 32, WordSize: 64})
	if err == nil {
		t.Fatalf("expected an ambiguous-import error, got nil")
	}
	diags, ok := err.(Diagnostics)
	if !ok {
		t.Fatalf("error is %T, want Diagnostics", err)
	}
	count := 0
	for _, d := range diags {
		dg, ok := d.(Diagnostic)
		if !ok {
			continue
		}
		if strings.HasPrefix(dg.Key(), "AmbiguousImport:Foo:") {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("got %d AmbiguousImport diagnostics, want 1: %v", count, diags)
	}
}

// TestCheckIsDeterministic exercises universal invariant 8: running
// the checker twice over freshly parsed copies of the same source
// yields the same diagnostics in the same order.
func TestCheckIsDeterministic(t *testing.T) {
	src := "fn f() -> i32 { return true; }"
	a1 := mustParse(t, src)
	a2 := mustParse(t, src)

	_, err1 := Check(a1, Config{IntSize: 32, WordSize: 64})
	_, err2 := Check(a2, Config{IntSize: 32, WordSize: 64})
	d1, ok1 := err1.(Diagnostics)
	d2, ok2 := err2.(Diagnostics)
	if !ok1 || !ok2 {
		t.Fatalf("expected Diagnostics errors, got %v / %v", err1, err2)
	}
	if len(d1) != len(d2) {
		t.Fatalf("diagnostic counts differ: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if d1[i].Error() != d2[i].Error() {
			t.Fatalf("diagnostic %d differs: %q vs %q", i, d1[i].Error(), d2[i].Error())
		}
	}
}

// TestSubstituteClearsGenericParams exercises universal invariant 6
// directly against TypeInfo.Substitute: binding a type parameter
// removes every trace of it, including inside an array element type.
func TestSubstituteClearsGenericParams(t *testing.T) {
	g := Array(Generic("T"), 3)
	if !g.HasUnresolvedParams() {
		t.Fatalf("Array(Generic(T), 3) should report unresolved params")
	}
	bound := g.Substitute(map[string]*TypeInfo{"T": Number(I32)})
	if bound.HasUnresolvedParams() {
		t.Fatalf("Substitute left an unresolved param in %v", bound)
	}
	if !bound.Equal(Array(Number(I32), 3)) {
		t.Fatalf("Substitute produced %v, want [i32; 3]", bound)
	}
}
