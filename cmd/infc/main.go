// Command infc drives the parse → check → codegen → translate
// pipeline: parse a single source file into an arena, run the
// five-phase checker, hand the typed context to the in-repo fixture
// WASM backend (codegen.FixtureBackend), and print the resulting
// module's Rocq translation.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/eaburns/pretty"
	"github.com/inferlang/infc/internal/ast"
	"github.com/inferlang/infc/internal/codegen"
	"github.com/inferlang/infc/internal/parser"
	"github.com/inferlang/infc/internal/types"
	"github.com/inferlang/infc/internal/wasmtov"
)

var (
	intSize      = flag.Int("int-size", 32, "bit width of the default integer type")
	wordSize     = flag.Int("word-size", 64, "value for types.Config.WordSize (not read by the checker)")
	trace        = flag.Bool("trace", false, "value for types.Config.Trace (not read by the checker)")
	moduleName   = flag.String("module", "main", "Rocq module name for the translated output")
	dumpAST      = flag.Bool("dump-ast", false, "print the parsed AST arena and exit")
	dumpTypes    = flag.Bool("dump-types", false, "print the checked TypedContext and exit")
	dumpWasmView = flag.Bool("dump-wasmview", false, "print the WASM structural view and exit")
)

func main() {
	pretty.Indent = "    "
	flag.Usage = usage
	flag.Parse()
	if len(flag.Args()) != 1 {
		usage()
		os.Exit(1)
	}
	path := flag.Args()[0]

	src, err := os.ReadFile(path)
	if err != nil {
		die("failed to read source", err)
	}

	arena, errs := parser.Parse(path, src)
	if len(errs) > 0 {
		printErrs(errs)
		os.Exit(1)
	}
	if *dumpAST {
		dumpArena(arena)
		return
	}

	ctx, err := types.Check(arena, types.Config{IntSize: *intSize, WordSize: *wordSize, Trace: *trace})
	if err != nil {
		if diags, ok := err.(types.Diagnostics); ok {
			printDiags(path, diags)
		} else {
			fmt.Fprintln(flag.CommandLine.Output(), err)
		}
		os.Exit(1)
	}
	if *dumpTypes {
		pretty.Print(ctx)
		fmt.Println()
		return
	}

	wasm, err := codegen.FixtureBackend{}.Generate(ctx)
	if err != nil {
		die("codegen failed", err)
	}

	if *dumpWasmView {
		m, err := wasmtov.ParseModule(wasm)
		if err != nil {
			die("failed to parse generated WASM", err)
		}
		pretty.Print(m)
		fmt.Println()
		return
	}

	rocq, err := wasmtov.TranslateWithConfig(*moduleName, wasm, wasmtov.Config{ModuleDocPreamble: true})
	if err != nil {
		die("WASM→Rocq translation failed", err)
	}
	fmt.Print(rocq)
}

func dumpArena(arena *ast.Arena) {
	for _, sf := range arena.SourceFiles() {
		pretty.Print(sf)
		fmt.Println()
	}
}

func printErrs(errs []error) {
	for _, e := range errs {
		fmt.Fprintln(flag.CommandLine.Output(), e)
	}
}

func printDiags(path string, diags []error) {
	for _, e := range diags {
		if d, ok := e.(types.Diagnostic); ok {
			fmt.Fprintln(flag.CommandLine.Output(), types.FormatDiagnostic(path, d))
			continue
		}
		fmt.Fprintln(flag.CommandLine.Output(), e)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
	fmt.Fprintf(out, "  %s [flags] <source file>\n", os.Args[0])
	flag.PrintDefaults()
}

func die(msg string, err error) {
	fmt.Fprintf(flag.CommandLine.Output(), "%s: %s\n", msg, err)
	os.Exit(1)
}
