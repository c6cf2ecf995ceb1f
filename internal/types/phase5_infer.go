package types

import (
	"github.com/inferlang/infc/internal/ast"
)

// exprCtx threads the bidirectional checker's ambient state through one
// function body: the scope currently in effect, the type parameters
// visible on the enclosing definition, the enclosing function's
// declared return type (for ReturnStmt), and whether the current
// position is lexically inside a nondeterministic block (the only
// place an UzumakiExpr is legal).
type exprCtx struct {
	scope      ScopeID
	typeParams map[string]bool
	ret        *TypeInfo
	inNondet   bool
	recvType   string
}

// inferVariables is phase 5: it type-checks every function and method
// body, populating nodeTypes with a TypeInfo for every value
// expression it visits, bidirectionally: an expected type flows down
// (propagated through let/return/argument/array-element/struct-field
// positions) while a synthesized type flows up from literals,
// identifiers, and operator results.
func (s *session) inferVariables(cfg Config) (map[ast.NodeID]*TypeInfo, []error) {
	nodeTypes := map[ast.NodeID]*TypeInfo{}
	inf := &inferer{s: s, cfg: cfg, types: nodeTypes}

	for _, fn := range s.arena.Functions() {
		if fn.Body == 0 {
			continue // spec signature only (e.g. a SpecDef method)
		}
		scope := s.symbols.NewScope(funcScope(s, fn), fn.Name)
		s.scopeOf[fn.ID()] = scope
		c := exprCtx{scope: scope, typeParams: s.typeParamsOf[fn.ID()], ret: funcReturnType(s, fn), recvType: fn.RecvType}
		if fn.HasSelf {
			s.symbols.Define(scope, "self", &LocalSymbol{Name: "self", Scope: scope, Type: Struct(fn.RecvType)})
		}
		sym := s.funcByName[fn.Name]
		if sym == nil && fn.RecvType != "" {
			if m, ok := s.methodsOf[fn.RecvType]; ok {
				if ms, ok := m[fn.Name]; ok {
					sym = &ms.FunctionSymbol
				}
			}
		}
		if sym != nil {
			for i, pid := range fn.Params {
				p := mustNode(s.arena, pid).(*ast.Argument)
				var pt *TypeInfo
				if i < len(sym.Params) {
					pt = sym.Params[i]
				}
				s.symbols.Define(scope, p.Name, &LocalSymbol{Name: p.Name, Scope: scope, Type: pt})
			}
		}
		inf.errs = append(inf.errs, inf.checkBlock(fn.Body, c)...)
	}
	return nodeTypes, inf.errs
}

// funcScope and funcReturnType recover, for a given FunctionDef node,
// the scope it was registered in and its resolved return type, both
// computed by phase 4 and stored on its FunctionSymbol/MethodSymbol.
// The AST itself carries no back-pointer to its checker-side symbol.
func funcScope(s *session, fn *ast.FunctionDef) ScopeID {
	if sym, ok := s.funcByName[fn.Name]; ok && sym.Node == fn.ID() {
		return sym.Scope
	}
	if m, ok := s.methodsOf[fn.RecvType]; ok {
		if ms, ok := m[fn.Name]; ok {
			return ms.Scope
		}
	}
	return s.symbols.Root()
}

func funcReturnType(s *session, fn *ast.FunctionDef) *TypeInfo {
	if sym, ok := s.funcByName[fn.Name]; ok && sym.Node == fn.ID() {
		return sym.Return
	}
	if m, ok := s.methodsOf[fn.RecvType]; ok {
		if ms, ok := m[fn.Name]; ok {
			return ms.Return
		}
	}
	return Unit()
}

type inferer struct {
	s     *session
	cfg   Config
	types map[ast.NodeID]*TypeInfo
	errs  []error
}

// defaultIntType is the width a bare integer literal receives when no
// expected type flows down to it, controlled by Config.IntSize the
// same way the teacher's types.Config.IntSize picks a default width.
func (inf *inferer) defaultIntType() NumberType {
	if inf.cfg.IntSize == 64 {
		return I64
	}
	return I32
}

func (inf *inferer) set(id ast.NodeID, t *TypeInfo) *TypeInfo {
	inf.types[id] = t
	return t
}

func (inf *inferer) checkBlock(id ast.NodeID, c exprCtx) []error {
	b := mustNode(inf.s.arena, id).(*ast.Block)
	inner := c
	inner.scope = inf.s.symbols.NewScope(c.scope, "")
	inf.s.scopeOf[id] = inner.scope
	switch b.Kind() {
	case ast.KindForallBlock, ast.KindExistsBlock, ast.KindAssumeBlock, ast.KindUniqueBlock:
		inner.inNondet = true
	}
	var errs []error
	for _, stmtID := range b.Stmts {
		errs = append(errs, inf.checkStmt(stmtID, inner)...)
	}
	return errs
}

func (inf *inferer) checkStmt(id ast.NodeID, c exprCtx) []error {
	switch n := mustNode(inf.s.arena, id).(type) {
	case *ast.LetStmt:
		var hint *TypeInfo
		var errs []error
		if n.Type != 0 {
			hint, errs = inf.s.resolveType(n.Type, c.typeParams)
		}
		vt, verrs := inf.checkExpr(n.Value, c, hint)
		errs = append(errs, verrs...)
		declType := hint
		if declType == nil {
			declType = vt
		} else if vt != nil && !declType.Equal(vt) {
			errs = append(errs, &TypeMismatch{Context: CtxVariableDefinition, Expected: declType, Found: vt, L: n.Loc()})
		}
		inf.s.symbols.Define(c.scope, n.Name, &LocalSymbol{Name: n.Name, Scope: c.scope, Type: declType})
		return errs
	case *ast.AssignStmt:
		targetType, errs := inf.checkExpr(n.Target, c, nil)
		vt, verrs := inf.checkExpr(n.Value, c, targetType)
		errs = append(errs, verrs...)
		if targetType != nil && vt != nil && !targetType.Equal(vt) {
			errs = append(errs, &TypeMismatch{Context: CtxAssignment, Expected: targetType, Found: vt, L: n.Loc()})
		}
		return errs
	case *ast.ReturnStmt:
		if n.Value == 0 {
			if c.ret != nil && c.ret.Kind != KindUnit {
				return []error{&TypeMismatch{Context: CtxReturn, Expected: c.ret, Found: Unit(), L: n.Loc()}}
			}
			return nil
		}
		vt, errs := inf.checkExpr(n.Value, c, c.ret)
		if c.ret != nil && vt != nil && !c.ret.Equal(vt) {
			errs = append(errs, &TypeMismatch{Context: CtxReturn, Expected: c.ret, Found: vt, L: n.Loc()})
		}
		return errs
	case *ast.IfStmt:
		_, errs := inf.checkExpr(n.Cond, c, Bool())
		errs = append(errs, inf.requireBool(n.Cond, c)...)
		errs = append(errs, inf.checkBlock(n.Then, c)...)
		if n.Else != 0 {
			if mustNode(inf.s.arena, n.Else).Kind() == ast.KindIfStmt {
				errs = append(errs, inf.checkStmt(n.Else, c)...)
			} else {
				errs = append(errs, inf.checkBlock(n.Else, c)...)
			}
		}
		return errs
	case *ast.WhileStmt:
		_, errs := inf.checkExpr(n.Cond, c, Bool())
		errs = append(errs, inf.requireBool(n.Cond, c)...)
		errs = append(errs, inf.checkBlock(n.Body, c)...)
		return errs
	case *ast.LoopStmt:
		return inf.checkBlock(n.Body, c)
	case *ast.BreakStmt:
		return nil
	case *ast.ExprStmt:
		_, errs := inf.checkExpr(n.Expr, c, nil)
		return errs
	default:
		if b, ok := mustNode(inf.s.arena, id).(*ast.Block); ok {
			_ = b
			return inf.checkBlock(id, c)
		}
		return nil
	}
}

func (inf *inferer) requireBool(id ast.NodeID, c exprCtx) []error {
	t := inf.types[id]
	if t != nil && !isBool(t) {
		return []error{ConditionMustBeBool(mustNode(inf.s.arena, id).Loc())}
	}
	return nil
}

// checkExpr synthesizes (and, where expected is non-nil, checks) a
// type for the expression at id, recording it in inf.types.
func (inf *inferer) checkExpr(id ast.NodeID, c exprCtx, expected *TypeInfo) (*TypeInfo, []error) {
	n := mustNode(inf.s.arena, id)
	switch e := n.(type) {
	case *ast.LiteralExpr:
		t, errs := inf.checkExpr(e.Literal, c, expected)
		return inf.set(id, t), errs

	case *ast.NumberLit:
		t := expected
		if t == nil || t.Kind != KindNumber {
			t = Number(inf.defaultIntType())
		}
		return inf.set(id, t), nil

	case *ast.BoolLit:
		return inf.set(id, Bool()), nil

	case *ast.StringLit:
		return inf.set(id, String()), nil

	case *ast.UnitLit:
		return inf.set(id, Unit()), nil

	case *ast.IdentExpr:
		sym, _, ok := inf.s.symbols.Lookup(c.scope, e.Name)
		if !ok {
			if e.Name == "self" {
				return inf.set(id, Unit()), []error{InvalidSelfReference(e.Loc())}
			}
			return inf.set(id, Unit()), []error{UnknownIdentifier(e.Name, e.Loc())}
		}
		return inf.set(id, symbolType(sym)), nil

	case *ast.BinaryExpr:
		return inf.checkBinary(id, e, c)

	case *ast.UnaryExpr:
		return inf.checkUnary(id, e, c)

	case *ast.CallExpr:
		return inf.checkCall(id, e, c)

	case *ast.MethodCallExpr:
		return inf.checkMethodCall(id, e, c)

	case *ast.FieldAccessExpr:
		return inf.checkFieldAccess(id, e, c)

	case *ast.IndexExpr:
		return inf.checkIndex(id, e, c)

	case *ast.ArrayLiteralExpr:
		return inf.checkArrayLiteral(id, e, c, expected)

	case *ast.StructLiteralExpr:
		return inf.checkStructLiteral(id, e, c)

	case *ast.TypeMemberAccessExpr:
		if _, ok := inf.s.enumByName[e.EnumName]; !ok {
			return inf.set(id, Unit()), []error{TypeMemberAccessOnNonEnum(e.EnumName, e.Loc())}
		}
		if !inf.s.enumByName[e.EnumName].Variants[e.Variant] {
			return inf.set(id, Enum(e.EnumName)), []error{InvalidEnumVariant(e.EnumName, e.Variant, e.Loc())}
		}
		return inf.set(id, Enum(e.EnumName)), nil

	case *ast.UzumakiExpr:
		t := expected
		if t == nil {
			t = Unit()
		}
		var errs []error
		if !c.inNondet {
			errs = append(errs, newDiag("UzumakiOutsideNondetBlock", "", e.Loc(), "@ is only valid inside a forall/exists/assume/unique block"))
		}
		return inf.set(id, t), errs

	case *ast.BlockExpr:
		errs := inf.checkBlock(e.Block, c)
		return inf.set(id, Unit()), errs

	case *ast.IfExpr:
		return inf.checkIfExpr(id, e, c)

	case *ast.CastExpr:
		_, verrs := inf.checkExpr(e.Value, c, nil)
		t, terrs := inf.s.resolveType(e.Type, c.typeParams)
		errs := append(verrs, terrs...)
		return inf.set(id, t), errs

	default:
		return inf.set(id, Unit()), nil
	}
}

func symbolType(sym Symbol) *TypeInfo {
	switch s := sym.(type) {
	case *LocalSymbol:
		return s.Type
	case *ConstSymbol:
		return s.Type
	case *FunctionSymbol:
		return Function(s.Name)
	default:
		return Unit()
	}
}

var arithOps = map[ast.BinaryOp]bool{ast.OpAdd: true, ast.OpSub: true, ast.OpMul: true, ast.OpDiv: true, ast.OpMod: true, ast.OpPow: true}
var cmpOps = map[ast.BinaryOp]bool{ast.OpLt: true, ast.OpLe: true, ast.OpGt: true, ast.OpGe: true}
var eqOps = map[ast.BinaryOp]bool{ast.OpEq: true, ast.OpNe: true}
var logicOps = map[ast.BinaryOp]bool{ast.OpAnd: true, ast.OpOr: true}
var bitOps = map[ast.BinaryOp]bool{ast.OpBitAnd: true, ast.OpBitOr: true, ast.OpBitXor: true, ast.OpShl: true, ast.OpShr: true}

func (inf *inferer) checkBinary(id ast.NodeID, e *ast.BinaryExpr, c exprCtx) (*TypeInfo, []error) {
	lt, errs := inf.checkExpr(e.Left, c, nil)
	rt, rerrs := inf.checkExpr(e.Right, c, lt)
	errs = append(errs, rerrs...)

	switch {
	case arithOps[e.Op] || bitOps[e.Op]:
		if !isNumber(lt) || !isNumber(rt) || !lt.Equal(rt) {
			errs = append(errs, BinaryOperatorTypeMismatch(e.Op.String(), e.Loc()))
			return inf.set(id, Number(I32)), errs
		}
		if e.Op == ast.OpDiv || e.Op == ast.OpMod {
			right := mustNode(inf.s.arena, e.Right)
			if le, ok := right.(*ast.LiteralExpr); ok {
				right = mustNode(inf.s.arena, le.Literal)
			}
			if lit, ok := right.(*ast.NumberLit); ok && lit.Text == "0" {
				errs = append(errs, DivisionByZero(e.Loc()))
			}
		}
		return inf.set(id, lt), errs
	case cmpOps[e.Op]:
		if !isNumber(lt) || !isNumber(rt) || !lt.Equal(rt) {
			errs = append(errs, BinaryOperatorTypeMismatch(e.Op.String(), e.Loc()))
		}
		return inf.set(id, Bool()), errs
	case eqOps[e.Op]:
		if lt != nil && rt != nil && !lt.Equal(rt) {
			errs = append(errs, BinaryOperatorTypeMismatch(e.Op.String(), e.Loc()))
		}
		return inf.set(id, Bool()), errs
	case logicOps[e.Op]:
		if !isBool(lt) || !isBool(rt) {
			errs = append(errs, BinaryOperatorTypeMismatch(e.Op.String(), e.Loc()))
		}
		return inf.set(id, Bool()), errs
	default:
		return inf.set(id, lt), errs
	}
}

func (inf *inferer) checkUnary(id ast.NodeID, e *ast.UnaryExpr, c exprCtx) (*TypeInfo, []error) {
	ot, errs := inf.checkExpr(e.Operand, c, nil)
	switch e.Op {
	case ast.OpNot:
		if !isBool(ot) {
			errs = append(errs, UnsupportedUnaryOperator("!", ot, e.Loc()))
		}
		return inf.set(id, Bool()), errs
	case ast.OpNeg:
		if !isNumber(ot) || !ot.Number.Signed() {
			errs = append(errs, UnsupportedUnaryOperator("-", ot, e.Loc()))
		}
		return inf.set(id, ot), errs
	case ast.OpBitNot:
		if !isNumber(ot) {
			errs = append(errs, UnsupportedUnaryOperator("~", ot, e.Loc()))
		}
		return inf.set(id, ot), errs
	default:
		return inf.set(id, ot), errs
	}
}

// checkCall resolves a call expression's callee, which is either a bare
// identifier naming a free function, or a qualified `Type::method`
// access naming an associated function (a method with no self
// receiver, spec.md's has_self=false; see parseFunctionDef). Anything
// else is not callable.
func (inf *inferer) checkCall(id ast.NodeID, e *ast.CallExpr, c exprCtx) (*TypeInfo, []error) {
	switch callee := mustNode(inf.s.arena, e.Callee).(type) {
	case *ast.IdentExpr:
		return inf.checkFreeCall(id, e, callee, c)
	case *ast.TypeMemberAccessExpr:
		return inf.checkAssociatedCall(id, e, callee, c)
	default:
		return inf.set(id, Unit()), []error{UndefinedFunction("<expr>", e.Loc())}
	}
}

func (inf *inferer) checkFreeCall(id ast.NodeID, e *ast.CallExpr, callee *ast.IdentExpr, c exprCtx) (*TypeInfo, []error) {
	sym, _, ok := inf.s.symbols.Lookup(c.scope, callee.Name)
	fsym, isFn := sym.(*FunctionSymbol)
	if !ok || !isFn {
		return inf.set(id, Unit()), []error{UndefinedFunction(callee.Name, e.Loc())}
	}
	inf.set(e.Callee, Function(fsym.Name))

	if len(e.Args) != len(fsym.Params) {
		return inf.set(id, fsym.Return), []error{ArgumentCountMismatch(callee.Name, len(fsym.Params), len(e.Args), e.Loc())}
	}
	var errs []error
	sigma := map[string]*TypeInfo{}
	for i, argID := range e.Args {
		want := fsym.Params[i]
		at, aerrs := inf.checkExpr(argID, c, want)
		errs = append(errs, aerrs...)
		if want != nil && want.Kind == KindGeneric {
			if bound, ok := sigma[want.Name]; ok {
				if at != nil && !bound.Equal(at) {
					errs = append(errs, &TypeMismatch{Context: CtxFunctionArgument, FnName: callee.Name, ArgIdx: i, Expected: bound, Found: at, L: mustNode(inf.s.arena, argID).Loc()})
				}
			} else if at != nil {
				sigma[want.Name] = at
			}
			continue
		}
		if want != nil && at != nil && !want.Equal(at) {
			errs = append(errs, &TypeMismatch{Context: CtxFunctionArgument, FnName: callee.Name, ArgIdx: i, Expected: want, Found: at, L: mustNode(inf.s.arena, argID).Loc()})
		}
	}
	result := fsym.Return.Substitute(sigma)
	if result.HasUnresolvedParams() {
		errs = append(errs, UnresolvedTypeParameter(callee.Name, result, e.Loc()))
	}
	return inf.set(id, result), errs
}

// checkAssociatedCall resolves callee, a `TypeName::method` access used
// as a call's callee, against methodsOf[TypeName] — the same table
// checkMethodCall consults for `value.method(...)` — requiring
// HasSelf=false. A method that does take self exists but isn't callable
// this way; it is reported distinctly from "no such method" so the
// diagnostic points at the actual mistake.
func (inf *inferer) checkAssociatedCall(id ast.NodeID, e *ast.CallExpr, callee *ast.TypeMemberAccessExpr, c exprCtx) (*TypeInfo, []error) {
	typeName, methodName := callee.EnumName, callee.Variant
	m, ok := inf.s.methodsOf[typeName]
	if !ok {
		return inf.set(id, Unit()), []error{UndefinedFunction(typeName+"::"+methodName, e.Loc())}
	}
	msym, ok := m[methodName]
	if !ok {
		return inf.set(id, Unit()), []error{UndefinedFunction(typeName+"::"+methodName, e.Loc())}
	}
	inf.set(e.Callee, Function(typeName+"::"+methodName))
	if msym.HasSelf {
		return inf.set(id, msym.Return), []error{AssociatedCallOnInstanceMethod(typeName, methodName, e.Loc())}
	}
	var errs []error
	if !Accessible(msym.Vis, msym.Scope, c.scope, inf.s.symbols) {
		errs = append(errs, &VisibilityViolation{Ctx: VisMethod, StructName: typeName, Name: methodName, L: e.Loc()})
	}
	if len(e.Args) != len(msym.Params) {
		return inf.set(id, msym.Return), append(errs, ArgumentCountMismatch(typeName+"::"+methodName, len(msym.Params), len(e.Args), e.Loc()))
	}
	for i, argID := range e.Args {
		want := msym.Params[i]
		at, aerrs := inf.checkExpr(argID, c, want)
		errs = append(errs, aerrs...)
		if want != nil && at != nil && !want.Equal(at) {
			errs = append(errs, &TypeMismatch{Context: CtxMethodArgument, TypeName: typeName, Method: methodName, ArgIdx: i, Expected: want, Found: at, L: mustNode(inf.s.arena, argID).Loc()})
		}
	}
	return inf.set(id, msym.Return), errs
}

func (inf *inferer) checkMethodCall(id ast.NodeID, e *ast.MethodCallExpr, c exprCtx) (*TypeInfo, []error) {
	rt, errs := inf.checkExpr(e.Receiver, c, nil)
	if rt == nil || rt.Kind != KindStruct {
		return inf.set(id, Unit()), append(errs, MethodCallOnNonStruct(e.Loc()))
	}
	structSym, ok := inf.s.structByName[rt.Name]
	if !ok {
		return inf.set(id, Unit()), append(errs, MethodCallOnNonStruct(e.Loc()))
	}
	msym, ok := structSym.Methods[e.Method]
	if !ok {
		return inf.set(id, Unit()), append(errs, UndefinedMethod(rt.Name, e.Method, e.Loc()))
	}
	if !msym.HasSelf {
		return inf.set(id, msym.Return), append(errs, InstanceCallOnAssociatedFunction(rt.Name, e.Method, e.Loc()))
	}
	if !Accessible(msym.Vis, msym.Scope, c.scope, inf.s.symbols) {
		errs = append(errs, &VisibilityViolation{Ctx: VisMethod, StructName: rt.Name, Name: e.Method, L: e.Loc()})
	}
	if len(e.Args) != len(msym.Params) {
		return inf.set(id, msym.Return), append(errs, ArgumentCountMismatch(rt.Name+"."+e.Method, len(msym.Params), len(e.Args), e.Loc()))
	}
	for i, argID := range e.Args {
		want := msym.Params[i]
		at, aerrs := inf.checkExpr(argID, c, want)
		errs = append(errs, aerrs...)
		if want != nil && at != nil && !want.Equal(at) {
			errs = append(errs, &TypeMismatch{Context: CtxMethodArgument, TypeName: rt.Name, Method: e.Method, ArgIdx: i, Expected: want, Found: at, L: mustNode(inf.s.arena, argID).Loc()})
		}
	}
	return inf.set(id, msym.Return), errs
}

func (inf *inferer) checkFieldAccess(id ast.NodeID, e *ast.FieldAccessExpr, c exprCtx) (*TypeInfo, []error) {
	rt, errs := inf.checkExpr(e.Receiver, c, nil)
	if rt == nil || rt.Kind != KindStruct {
		return inf.set(id, Unit()), append(errs, MemberAccessOnNonStruct(e.Loc()))
	}
	structSym, ok := inf.s.structByName[rt.Name]
	if !ok {
		return inf.set(id, Unit()), append(errs, MemberAccessOnNonStruct(e.Loc()))
	}
	field, ok := structSym.Field(e.Field)
	if !ok {
		return inf.set(id, Unit()), append(errs, FieldNotFound(rt.Name, e.Field, e.Loc()))
	}
	if !Accessible(field.Vis, structSym.Scope, c.scope, inf.s.symbols) {
		errs = append(errs, &VisibilityViolation{Ctx: VisField, StructName: rt.Name, FieldName: e.Field, L: e.Loc()})
	}
	return inf.set(id, field.Type), errs
}

func (inf *inferer) checkIndex(id ast.NodeID, e *ast.IndexExpr, c exprCtx) (*TypeInfo, []error) {
	at, errs := inf.checkExpr(e.Array, c, nil)
	it, ierrs := inf.checkExpr(e.Index, c, nil)
	errs = append(errs, ierrs...)
	if at == nil || at.Kind != KindArray {
		return inf.set(id, Unit()), append(errs, ArrayIndexOnNonArray(e.Loc()))
	}
	if !isNumber(it) {
		errs = append(errs, ArrayIndexTypeMismatch(e.Loc()))
	}
	return inf.set(id, at.Elem), errs
}

func (inf *inferer) checkArrayLiteral(id ast.NodeID, e *ast.ArrayLiteralExpr, c exprCtx, expected *TypeInfo) (*TypeInfo, []error) {
	var elemHint *TypeInfo
	if expected != nil && expected.Kind == KindArray {
		elemHint = expected.Elem
	}
	if len(e.Elements) == 0 {
		if elemHint == nil {
			return inf.set(id, Unit()), []error{EmptyArrayWithoutType(e.Loc())}
		}
		return inf.set(id, Array(elemHint, 0)), nil
	}
	var errs []error
	first, ferrs := inf.checkExpr(e.Elements[0], c, elemHint)
	errs = append(errs, ferrs...)
	elem := first
	if elemHint != nil {
		elem = elemHint
	}
	for _, el := range e.Elements[1:] {
		t, eerrs := inf.checkExpr(el, c, elem)
		errs = append(errs, eerrs...)
		if elem != nil && t != nil && !elem.Equal(t) {
			errs = append(errs, &TypeMismatch{Context: CtxArrayElement, Expected: elem, Found: t, L: mustNode(inf.s.arena, el).Loc()})
		}
	}
	size := uint32(len(e.Elements))
	if expected != nil && expected.Kind == KindArray && expected.Size != size {
		errs = append(errs, ArraySizeMismatch(int(expected.Size), int(size), e.Loc()))
	}
	return inf.set(id, Array(elem, size)), errs
}

func (inf *inferer) checkStructLiteral(id ast.NodeID, e *ast.StructLiteralExpr, c exprCtx) (*TypeInfo, []error) {
	structSym, ok := inf.s.structByName[e.TypeName]
	if !ok {
		return inf.set(id, Unit()), []error{UnknownType(e.TypeName, e.Loc())}
	}
	var errs []error
	seen := map[string]bool{}
	for _, name := range e.FieldOrder {
		valID := e.Fields[name]
		field, ok := structSym.Field(name)
		if !ok {
			errs = append(errs, FieldNotFound(e.TypeName, name, mustNode(inf.s.arena, valID).Loc()))
			continue
		}
		seen[name] = true
		vt, verrs := inf.checkExpr(valID, c, field.Type)
		errs = append(errs, verrs...)
		if field.Type != nil && vt != nil && !field.Type.Equal(vt) {
			errs = append(errs, &TypeMismatch{Context: CtxVariableDefinition, Expected: field.Type, Found: vt, L: mustNode(inf.s.arena, valID).Loc()})
		}
	}
	for _, f := range structSym.Fields {
		if !seen[f.Name] {
			errs = append(errs, FieldNotFound(e.TypeName, f.Name, e.Loc()))
		}
	}
	return inf.set(id, Struct(e.TypeName)), errs
}

func (inf *inferer) checkIfExpr(id ast.NodeID, e *ast.IfExpr, c exprCtx) (*TypeInfo, []error) {
	_, errs := inf.checkExpr(e.Cond, c, Bool())
	errs = append(errs, inf.requireBool(e.Cond, c)...)
	tt, terrs := inf.checkExpr(e.Then, c, nil)
	errs = append(errs, terrs...)
	var et *TypeInfo
	if e.Else != 0 {
		var eerrs []error
		et, eerrs = inf.checkExpr(e.Else, c, tt)
		errs = append(errs, eerrs...)
	}
	if et != nil && tt != nil && !tt.Equal(et) {
		errs = append(errs, &TypeMismatch{Context: CtxAssignment, Expected: tt, Found: et, L: e.Loc()})
	}
	return inf.set(id, tt), errs
}
