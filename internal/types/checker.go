package types

import "github.com/inferlang/infc/internal/ast"

// session carries the bookkeeping shared across all five phases: the
// arena and symbol table being built, plus the lookup tables that let
// a later phase find the scope a given definition or block introduced
// in an earlier phase.
type session struct {
	arena   *ast.Arena
	symbols *SymbolTable

	// scopeOf maps a scope-introducing node to the ScopeID allocated
	// for it: a SourceFile (phase 1), a ModuleDef (phase 2), or a
	// FunctionDef with a body or any Block (phase 5). StructDef,
	// ImplDef and SpecDef get no entry.
	scopeOf map[ast.NodeID]ScopeID

	// structByName and enumByName let field/variant/method resolution
	// in phase 5 find a definition's symbol without re-walking the
	// arena. Cross-module visibility is out of scope (spec.md §9), so
	// one flat name space per check is consistent with the Non-goals.
	structByName map[string]*StructSymbol
	enumByName   map[string]*EnumSymbol
	funcByName   map[string]*FunctionSymbol

	// typeParamsOf records, for every FunctionDef/StructDef node, the
	// set of type-parameter names declared on it, so phase 5 can tell
	// Generic("T") apart from an unresolved reference to a type T.
	typeParamsOf map[ast.NodeID]map[string]bool

	// pendingStructs/pendingAliases defer field and alias-target
	// resolution to the second half of phase 2, so a struct can name
	// a type declared later in the same file.
	pendingStructs []*ast.StructDef
	pendingAliases []pendingAlias

	// methodsOf maps a StructDef name to the ImplDef-declared methods
	// collected in phase 4.
	methodsOf map[string]map[string]*MethodSymbol
}

func newSession(arena *ast.Arena, symbols *SymbolTable) *session {
	return &session{
		arena: arena, symbols: symbols,
		scopeOf:      map[ast.NodeID]ScopeID{},
		structByName: map[string]*StructSymbol{},
		enumByName:   map[string]*EnumSymbol{},
		funcByName:   map[string]*FunctionSymbol{},
		typeParamsOf: map[ast.NodeID]map[string]bool{},
		methodsOf:    map[string]map[string]*MethodSymbol{},
	}
}

// scopeFor returns the innermost scope enclosing node, by walking up
// the arena's parent chain until a node with a recorded scope is
// found. The root scope is the fallback.
func (s *session) scopeFor(node ast.NodeID) ScopeID {
	cur := node
	for {
		if sc, ok := s.scopeOf[cur]; ok {
			return sc
		}
		parent, ok := s.arena.FindParent(cur)
		if !ok {
			return s.symbols.Root()
		}
		cur = parent
	}
}

// resolveType turns an AST type-reference node into a TypeInfo. typeParams
// is the set of type-parameter names visible at this point (so a bare
// NamedTypeRef naming one of them resolves to Generic, per spec.md §4.3's
// "Type parameter names are recorded on each definition").
func (s *session) resolveType(id ast.NodeID, typeParams map[string]bool) (*TypeInfo, []error) {
	n, ok := s.arena.FindNode(id)
	if !ok {
		return Unit(), nil
	}
	switch t := n.(type) {
	case *ast.SimpleTypeRef:
		return s.simpleType(t.TypeKind), nil
	case *ast.ArrayTypeRef:
		elem, errs := s.resolveType(t.Elem, typeParams)
		return Array(elem, t.Size), errs
	case *ast.NamedTypeRef:
		if typeParams[t.Name] {
			return Generic(t.Name), nil
		}
		if _, ok := s.structByName[t.Name]; ok {
			return Struct(t.Name), nil
		}
		if _, ok := s.enumByName[t.Name]; ok {
			return Enum(t.Name), nil
		}
		return nil, []error{UnknownType(t.Name, t.Loc())}
	case *ast.QualifiedTypeRef:
		return QualifiedName(t.Path), nil
	case *ast.FunctionTypeRef:
		return Function(funcTypeKey(t)), nil
	default:
		return nil, []error{UnknownType("?", n.Loc())}
	}
}

func (s *session) simpleType(k ast.SimpleTypeKind) *TypeInfo {
	switch k {
	case ast.Unit:
		return Unit()
	case ast.Bool:
		return Bool()
	case ast.I8:
		return Number(I8)
	case ast.I16:
		return Number(I16)
	case ast.I32:
		return Number(I32)
	case ast.I64:
		return Number(I64)
	case ast.U8:
		return Number(U8)
	case ast.U16:
		return Number(U16)
	case ast.U32:
		return Number(U32)
	case ast.U64:
		return Number(U64)
	default:
		return Unit()
	}
}

func funcTypeKey(t *ast.FunctionTypeRef) string {
	key := "fn("
	for i, p := range t.Params {
		if i > 0 {
			key += ","
		}
		key += itoa(int(p))
	}
	key += ")"
	if t.Result != 0 {
		key += "->" + itoa(int(t.Result))
	}
	return key
}

func isNumber(t *TypeInfo) bool { return t != nil && t.Kind == KindNumber }
func isBool(t *TypeInfo) bool   { return t != nil && t.Kind == KindBool }
