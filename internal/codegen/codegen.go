// Package codegen defines the boundary between the checked, typed
// program this repo produces and the WASM-emitting backend that
// consumes it. The real backend (an LLVM-based WASM emitter) is an
// external collaborator per spec.md §1/§6; this package only defines
// the interface it must satisfy and a single in-repo fixture used by
// tests and by cmd/infc when no real backend is wired in.
package codegen

import (
	"github.com/inferlang/infc/internal/ast"
	"github.com/inferlang/infc/internal/types"
)

// Backend turns a successfully checked program into a WASM binary.
// Real implementations live outside this repo; Generate must be safe
// to call concurrently for distinct TypedContexts, mirroring the
// teacher's gengo.WriteMod taking its Mod by value-ish read-only access.
type Backend interface {
	Generate(ctx *types.TypedContext) ([]byte, error)
}

// FixtureBackend is the in-repo stand-in used by tests and by cmd/infc:
// it does not compile anything, it only emits a minimal valid WASM
// module (one `() -> ()` function per function definition that has a
// body, public or not, each body `unreachable`, and no export section)
// so that the rest of the pipeline — wasmtov in particular — has
// something real to run against without requiring the external LLVM
// backend spec.md §6 places out of scope.
type FixtureBackend struct{}

func (FixtureBackend) Generate(ctx *types.TypedContext) ([]byte, error) {
	var funcs []ast.Node
	for _, fn := range ctx.Arena.Functions() {
		if fn.Body != 0 {
			funcs = append(funcs, fn)
		}
	}
	return buildFixtureModule(len(funcs)), nil
}

// buildFixtureModule hand-assembles the smallest legal WASM binary
// with n functions of type ()->(), each body a single `unreachable`
// followed by `end`, matching the byte-level shapes internal/wasmtov's
// parser already round-trips.
func buildFixtureModule(n int) []byte {
	var b []byte
	b = append(b, 0x00, 0x61, 0x73, 0x6D) // magic
	b = append(b, 0x01, 0x00, 0x00, 0x00) // version 1

	if n == 0 {
		return b
	}

	// type section: one func type () -> ()
	typeSec := []byte{0x01, 0x60, 0x00, 0x00}
	b = append(b, 0x01, byte(len(typeSec)))
	b = append(b, typeSec...)

	// function section: n functions, all type index 0
	funcSec := []byte{byte(n)}
	for i := 0; i < n; i++ {
		funcSec = append(funcSec, 0x00)
	}
	b = append(b, 0x03, byte(len(funcSec)))
	b = append(b, funcSec...)

	// code section: n bodies, each `unreachable end`
	var codeSec []byte
	codeSec = append(codeSec, byte(n))
	for i := 0; i < n; i++ {
		body := []byte{0x00, 0x00, 0x0B} // 0 locals, unreachable, end
		codeSec = append(codeSec, byte(len(body)))
		codeSec = append(codeSec, body...)
	}
	b = append(b, 0x0A, byte(len(codeSec)))
	b = append(b, codeSec...)

	return b
}
