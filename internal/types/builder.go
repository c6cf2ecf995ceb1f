package types

import "github.com/inferlang/infc/internal/ast"

// Config configures the checker's entry point, the same way the
// teacher's types.Config parameterizes its own Check.
type Config struct {
	// IntSize mirrors the teacher's IntSize knob: 64 gives a bare
	// integer literal the default type i64, any other value i32.
	// WordSize is carried alongside it; no phase reads it.
	IntSize  int
	WordSize int
	// Trace is carried in the config; no phase reads it.
	Trace bool
}

// checkerCore holds the state shared by both halves of the typestate
// split below. It is never exported and never embedded with a shared
// method set, so PendingChecker and CompleteChecker stay two distinct
// named types with disjoint method sets rather than one generic type
// whose receiver merely rebinds a type parameter (a generic method
// declared on Checker[S CheckerState] would stay generic over every S
// regardless of which instantiation it's written against, since the
// receiver's type-parameter name is a fresh declaration, not a
// specialization — so Run and Context would both remain callable on
// either state and the "cannot query before Run, cannot Run twice"
// guarantee spec.md §4.3 requires would only be documentation).
type checkerCore struct {
	cfg     Config
	arena   *ast.Arena
	symbols *SymbolTable
	errs    []error
	ctx     *TypedContext
}

// PendingChecker is a Checker that has not run yet; it exposes only Run.
type PendingChecker struct {
	core checkerCore
}

// CompleteChecker is a Checker that has run; it exposes only Context
// and Diagnostics. There is no method on either type that accepts the
// other, so the two phases genuinely cannot be confused at compile time.
type CompleteChecker struct {
	core checkerCore
}

// NewChecker returns a Checker ready to run over arena.
func NewChecker(arena *ast.Arena, cfg Config) *PendingChecker {
	return &PendingChecker{core: checkerCore{cfg: cfg, arena: arena, symbols: NewSymbolTable()}}
}

// Run executes the five ordered phases unconditionally and returns the
// checker in its complete form. Errors in an earlier phase do not abort
// later ones.
func (c *PendingChecker) Run() *CompleteChecker {
	cfg, arena, symbols := c.core.cfg, c.core.arena, c.core.symbols
	sess := newSession(arena, symbols)
	var errs []error
	errs = append(errs, sess.processDirectives()...)
	errs = append(errs, sess.registerTypes()...)
	errs = append(errs, sess.resolveImports()...)
	errs = append(errs, sess.collectFunctionsAndConstants()...)
	nodeTypes, inferErrs := sess.inferVariables(cfg)
	errs = append(errs, inferErrs...)
	errs = dedup(errs)
	ctx := &TypedContext{Arena: arena, NodeTypes: nodeTypes, SymbolTable: symbols}
	return &CompleteChecker{core: checkerCore{cfg: cfg, arena: arena, symbols: symbols, errs: errs, ctx: ctx}}
}

// Context extracts the TypedContext and any accumulated diagnostics.
// If the diagnostic list is non-empty, the check is considered failed
// and the joined diagnostics are returned as the error.
func (c *CompleteChecker) Context() (*TypedContext, error) {
	if len(c.core.errs) > 0 {
		return nil, Diagnostics(c.core.errs)
	}
	return c.core.ctx, nil
}

// Diagnostics always returns the accumulated list, even on success
// (which returns it empty), for callers that want every diagnostic
// regardless of overall pass/fail.
func (c *CompleteChecker) Diagnostics() []error { return c.core.errs }

// Check is the convenience one-shot entry point most callers want:
// build, run, and extract in one call.
func Check(arena *ast.Arena, cfg Config) (*TypedContext, error) {
	return NewChecker(arena, cfg).Run().Context()
}
