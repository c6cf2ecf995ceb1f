package types

import "github.com/inferlang/infc/internal/ast"

// registerTypes is phase 2: it walks every source file's top-level
// definitions (recursing into modules) and registers every type-shaped
// definition — struct, enum, spec, type alias — in its enclosing
// scope, detecting duplicate names as it goes. Function bodies are not
// visited here; that is phase 4/5's job. Field and variant types are
// resolved in a second pass, once every type name is registered, so a
// struct may refer to a struct or enum declared earlier or later in
// the same file (order-independence, spec.md §8 invariant 3).
func (s *session) registerTypes() []error {
	var errs []error
	for _, file := range s.arena.SourceFiles() {
		scope := s.scopeOf[file.ID()]
		errs = append(errs, s.registerDefs(file.Defs, scope)...)
	}
	// Field/variant types reference other structs/enums, which may be
	// declared later in source order, so resolve bodies in a second
	// pass after every name is registered.
	errs = append(errs, s.resolveTypeBodies()...)
	return errs
}

func (s *session) registerDefs(defs []ast.NodeID, scope ScopeID) []error {
	var errs []error
	for _, id := range defs {
		n := mustNode(s.arena, id)
		switch d := n.(type) {
		case *ast.StructDef:
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			sym := &StructSymbol{Name: d.Name, Vis: d.Visibility, Scope: scope, TypeParams: d.TypeParams, Methods: map[string]*MethodSymbol{}}
			s.symbols.Define(scope, d.Name, sym)
			s.structByName[d.Name] = sym
			s.typeParamsOf[d.ID()] = setOf(d.TypeParams)
			s.pendingStructs = append(s.pendingStructs, d)
		case *ast.EnumDef:
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			sym := &EnumSymbol{Name: d.Name, Vis: d.Visibility, Scope: scope, Variants: map[string]bool{}}
			variantErrs := s.registerEnumVariants(d, sym)
			errs = append(errs, variantErrs...)
			s.symbols.Define(scope, d.Name, sym)
			s.enumByName[d.Name] = sym
		case *ast.SpecDef:
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			s.symbols.Define(scope, d.Name, &SpecSymbol{Name: d.Name, Vis: d.Visibility, Scope: scope})
		case *ast.TypeAliasDef:
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			s.pendingAliases = append(s.pendingAliases, pendingAlias{d, scope})
		case *ast.ModuleDef:
			if _, dup := s.symbols.LookupLocal(scope, d.Name); dup {
				errs = append(errs, DuplicateSymbol(d.Name, d.Loc()))
				continue
			}
			modScope := s.symbols.NewScope(scope, d.Name)
			s.scopeOf[d.ID()] = modScope
			s.symbols.Define(scope, d.Name, &ModuleSymbol{Name: d.Name, Vis: d.Visibility, Scope: scope, ContentsScope: modScope})
			errs = append(errs, s.registerDefs(d.Defs, modScope)...)
		}
	}
	return errs
}

func (s *session) registerEnumVariants(d *ast.EnumDef, sym *EnumSymbol) []error {
	var errs []error
	for _, vid := range d.Variants {
		v := mustNode(s.arena, vid).(*ast.EnumVariant)
		if sym.Variants[v.Name] {
			errs = append(errs, DuplicateEnumVariant(d.Name, v.Name, v.Loc()))
			continue
		}
		sym.Variants[v.Name] = true
	}
	return errs
}

type pendingAlias struct {
	def   *ast.TypeAliasDef
	scope ScopeID
}

// resolveTypeBodies fills in struct fields and alias targets once every
// struct/enum name in the compilation unit is registered.
func (s *session) resolveTypeBodies() []error {
	var errs []error
	for _, d := range s.pendingStructs {
		sym := s.structByName[d.Name]
		seen := map[string]bool{}
		for _, fid := range d.Fields {
			f := mustNode(s.arena, fid).(*ast.Field)
			if seen[f.Name] {
				errs = append(errs, DuplicateField(d.Name, f.Name, f.Loc()))
				continue
			}
			seen[f.Name] = true
			ft, ferrs := s.resolveType(f.Type, s.typeParamsOf[d.ID()])
			errs = append(errs, ferrs...)
			sym.Fields = append(sym.Fields, StructFieldInfo{Name: f.Name, Type: ft, Vis: f.Visibility})
		}
	}
	for _, pa := range s.pendingAliases {
		aliased, aerrs := s.resolveType(pa.def.Aliased, nil)
		errs = append(errs, aerrs...)
		s.symbols.Define(pa.scope, pa.def.Name, &TypeAliasSymbol{Name: pa.def.Name, Vis: pa.def.Visibility, Scope: pa.scope, Aliased: aliased})
	}
	return errs
}

func setOf(names []string) map[string]bool {
	m := map[string]bool{}
	for _, n := range names {
		m[n] = true
	}
	return m
}
