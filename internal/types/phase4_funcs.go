package types

import "github.com/inferlang/infc/internal/ast"

// collectFunctionsAndConstants is phase 4: it registers every
// top-level function, impl-block method, and constant declaration.
// Function and method signatures are fully resolved here (so phase 5
// can type-check a call before it has visited the callee's body);
// a constant gets its annotated type, or a nil Type when it has no
// annotation. Phase 5 does not visit constant initializers, so no type
// is inferred for an unannotated constant.
func (s *session) collectFunctionsAndConstants() []error {
	var errs []error
	for _, file := range s.arena.SourceFiles() {
		errs = append(errs, s.collectDefs(file.Defs, s.scopeOf[file.ID()])...)
	}
	return errs
}

func (s *session) collectDefs(defs []ast.NodeID, scope ScopeID) []error {
	var errs []error
	for _, id := range defs {
		switch d := mustNode(s.arena, id).(type) {
		case *ast.FunctionDef:
			sym, ferrs := s.buildFunctionSymbol(d, scope)
			errs = append(errs, ferrs...)
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			s.symbols.Define(scope, d.Name, sym)
			s.funcByName[d.Name] = sym
		case *ast.ConstDef:
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			var ct *TypeInfo
			if d.Type != 0 {
				var cerrs []error
				ct, cerrs = s.resolveType(d.Type, nil)
				errs = append(errs, cerrs...)
			}
			s.symbols.Define(scope, d.Name, &ConstSymbol{Name: d.Name, Vis: d.Visibility, Scope: scope, Type: ct, Value: d.Value})
		case *ast.ModuleDef:
			errs = append(errs, s.collectDefs(d.Defs, s.scopeOf[d.ID()])...)
		case *ast.ImplDef:
			errs = append(errs, s.collectImpl(d, scope)...)
		}
	}
	return errs
}

func (s *session) collectImpl(d *ast.ImplDef, scope ScopeID) []error {
	var errs []error
	structSym, ok := s.structByName[d.TypeName]
	if !ok {
		errs = append(errs, UnknownType(d.TypeName, d.Loc()))
		return errs
	}
	if s.methodsOf[d.TypeName] == nil {
		s.methodsOf[d.TypeName] = map[string]*MethodSymbol{}
	}
	for _, mid := range d.Methods {
		m := mustNode(s.arena, mid).(*ast.FunctionDef)
		fsym, ferrs := s.buildFunctionSymbol(m, scope)
		errs = append(errs, ferrs...)
		msym := &MethodSymbol{FunctionSymbol: *fsym, HasSelf: m.HasSelf, RecvType: d.TypeName}
		if _, dup := s.methodsOf[d.TypeName][m.Name]; dup {
			errs = append(errs, DuplicateSymbol(d.TypeName+"."+m.Name, m.Loc()))
			continue
		}
		s.methodsOf[d.TypeName][m.Name] = msym
		structSym.Methods[m.Name] = msym
	}
	return errs
}

func (s *session) buildFunctionSymbol(d *ast.FunctionDef, scope ScopeID) (*FunctionSymbol, []error) {
	var errs []error
	tp := setOf(d.TypeParams)
	s.typeParamsOf[d.ID()] = tp

	sym := &FunctionSymbol{Name: d.Name, Vis: d.Visibility, Scope: scope, TypeParams: d.TypeParams, Node: d.ID()}
	for _, pid := range d.Params {
		p := mustNode(s.arena, pid).(*ast.Argument)
		pt, perrs := s.resolveType(p.Type, tp)
		errs = append(errs, perrs...)
		sym.Params = append(sym.Params, pt)
		sym.ParamNames = append(sym.ParamNames, p.Name)
	}
	if d.ReturnType != 0 {
		rt, rerrs := s.resolveType(d.ReturnType, tp)
		errs = append(errs, rerrs...)
		sym.Return = rt
	} else {
		sym.Return = Unit()
	}
	return sym, errs
}
