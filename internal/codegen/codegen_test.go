package codegen

import (
	"strings"
	"testing"

	"github.com/inferlang/infc/internal/parser"
	"github.com/inferlang/infc/internal/types"
	"github.com/inferlang/infc/internal/wasmtov"
)

func TestFixtureBackendRoundTripsThroughWasmtov(t *testing.T) {
	arena, errs := parser.Parse("t.pea", []byte("fn f() -> i32 { return 1; } fn g() -> i32 { return 2; }"))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	ctx, err := types.Check(arena, types.Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	wasm, err := FixtureBackend{}.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}

	m, err := wasmtov.ParseModule(wasm)
	if err != nil {
		t.Fatalf("fixture module failed to parse back: %v", err)
	}
	if len(m.Funcs) != 2 {
		t.Fatalf("got %d functions, want 2", len(m.Funcs))
	}

	rocq, err := wasmtov.Translate("t", wasm)
	if err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	if n := strings.Count(rocq, "BI_unreachable ::"); n != 2 {
		t.Fatalf("got %d BI_unreachable instructions in %s, want 2", n, rocq)
	}
}

func TestFixtureBackendEmptyProgram(t *testing.T) {
	arena, errs := parser.Parse("t.pea", []byte(""))
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	ctx, err := types.Check(arena, types.Config{IntSize: 32, WordSize: 64})
	if err != nil {
		t.Fatalf("unexpected check error: %v", err)
	}

	wasm, err := FixtureBackend{}.Generate(ctx)
	if err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}
	m, err := wasmtov.ParseModule(wasm)
	if err != nil {
		t.Fatalf("empty fixture module failed to parse back: %v", err)
	}
	if len(m.Funcs) != 0 {
		t.Fatalf("got %d functions, want 0", len(m.Funcs))
	}
}
