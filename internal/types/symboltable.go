package types

import "github.com/inferlang/infc/internal/ast"

// ScopeID addresses one scope in a SymbolTable, the same way a NodeID
// addresses one node in an ast.Arena (see the design note on treating
// scopes as an index-based arena rather than reference-counted
// objects).
type ScopeID int

// A ResolvedImport is the outcome of resolving one raw import record:
// the local name it's bound under, the symbol it refers to, and the
// scope that defines that symbol.
type ResolvedImport struct {
	LocalName        string
	ReferencedSymbol Symbol
	DefinitionScope  ScopeID
}

// RawImport is an unresolved "use" record written during phase 1.
type RawImport struct {
	Path  []string
	Glob  bool
	Alias string // set for a partial import item; empty otherwise
	Loc   ast.Loc
}

// A Scope is one node in the symbol-table tree.
type Scope struct {
	ID       ScopeID
	Parent   ScopeID // -1 for the root scope
	Name     string  // "" for an anonymous scope (see FullPath)
	Children []ScopeID

	Names          map[string]Symbol
	RawImports     []RawImport
	ResolvedByName map[string]ResolvedImport
}

// FullPath joins this scope's name with its ancestors', separated by
// "::", using "anonymous_<id>" for unnamed scopes.
func (st *SymbolTable) FullPath(id ScopeID) string {
	s := st.scopes[id]
	name := s.Name
	if name == "" {
		name = anonymousName(id)
	}
	if s.Parent < 0 {
		return name
	}
	parent := st.FullPath(s.Parent)
	if parent == "" {
		return name
	}
	return parent + "::" + name
}

func anonymousName(id ScopeID) string {
	return "anonymous_" + itoa(int(id))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Symbol is the union of everything a scope's name map can bind.
type Symbol interface {
	SymbolName() string
	SymbolVisibility() ast.Visibility
	DefiningScope() ScopeID
}

type TypeAliasSymbol struct {
	Name    string
	Vis     ast.Visibility
	Scope   ScopeID
	Aliased *TypeInfo
}

func (s *TypeAliasSymbol) SymbolName() string             { return s.Name }
func (s *TypeAliasSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *TypeAliasSymbol) DefiningScope() ScopeID          { return s.Scope }

type StructFieldInfo struct {
	Name string
	Type *TypeInfo
	Vis  ast.Visibility
}

type StructSymbol struct {
	Name       string
	Vis        ast.Visibility
	Scope      ScopeID
	Fields     []StructFieldInfo
	TypeParams []string
	Methods    map[string]*MethodSymbol
}

func (s *StructSymbol) SymbolName() string             { return s.Name }
func (s *StructSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *StructSymbol) DefiningScope() ScopeID          { return s.Scope }

func (s *StructSymbol) Field(name string) (StructFieldInfo, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructFieldInfo{}, false
}

type EnumSymbol struct {
	Name     string
	Vis      ast.Visibility
	Scope    ScopeID
	Variants map[string]bool
}

func (s *EnumSymbol) SymbolName() string             { return s.Name }
func (s *EnumSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *EnumSymbol) DefiningScope() ScopeID          { return s.Scope }

// ModuleSymbol binds a module's name in its enclosing scope and points
// at the scope holding the module's own contents, so that a
// qualified-path lookup ("a::b::c") can step from one scope into the
// next by name.
type ModuleSymbol struct {
	Name          string
	Vis           ast.Visibility
	Scope         ScopeID
	ContentsScope ScopeID
}

func (s *ModuleSymbol) SymbolName() string              { return s.Name }
func (s *ModuleSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *ModuleSymbol) DefiningScope() ScopeID           { return s.Scope }

type SpecSymbol struct {
	Name  string
	Vis   ast.Visibility
	Scope ScopeID
}

func (s *SpecSymbol) SymbolName() string             { return s.Name }
func (s *SpecSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *SpecSymbol) DefiningScope() ScopeID          { return s.Scope }

type FunctionSymbol struct {
	Name       string
	Vis        ast.Visibility
	Scope      ScopeID
	TypeParams []string
	Params     []*TypeInfo
	ParamNames []string
	Return     *TypeInfo
	Node       ast.NodeID
}

func (s *FunctionSymbol) SymbolName() string             { return s.Name }
func (s *FunctionSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *FunctionSymbol) DefiningScope() ScopeID          { return s.Scope }

// MethodSymbol is a FunctionSymbol plus the has_self flag distinguishing
// instance methods from associated (static) functions, and the name of
// the type it is defined on.
type MethodSymbol struct {
	FunctionSymbol
	HasSelf  bool
	RecvType string
}

type ConstSymbol struct {
	Name  string
	Vis   ast.Visibility
	Scope ScopeID
	Type  *TypeInfo
	Value ast.NodeID // the initializer expression; phase 5 does not check it, so Type stays nil when unannotated
}

func (s *ConstSymbol) SymbolName() string             { return s.Name }
func (s *ConstSymbol) SymbolVisibility() ast.Visibility { return s.Vis }
func (s *ConstSymbol) DefiningScope() ScopeID          { return s.Scope }

type LocalSymbol struct {
	Name  string
	Scope ScopeID
	Type  *TypeInfo
}

func (s *LocalSymbol) SymbolName() string             { return s.Name }
func (s *LocalSymbol) SymbolVisibility() ast.Visibility { return ast.Private }
func (s *LocalSymbol) DefiningScope() ScopeID          { return s.Scope }

// SymbolTable is a tree of scopes, addressed by ScopeID, supporting
// upward lookup and visibility checks. Phases 1-4 create the file and
// module scopes; phase 5 adds one child scope per function body and
// per block, and binds local variables in those scopes' Names maps.
type SymbolTable struct {
	scopes []*Scope
}

// NewSymbolTable returns a table containing just the root scope.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{}
	st.scopes = append(st.scopes, &Scope{
		ID: 0, Parent: -1,
		Names:          map[string]Symbol{},
		ResolvedByName: map[string]ResolvedImport{},
	})
	return st
}

// Root returns the table's root scope id.
func (st *SymbolTable) Root() ScopeID { return 0 }

// NewScope creates a child scope of parent and returns its id.
func (st *SymbolTable) NewScope(parent ScopeID, name string) ScopeID {
	id := ScopeID(len(st.scopes))
	st.scopes = append(st.scopes, &Scope{
		ID: id, Parent: parent, Name: name,
		Names:          map[string]Symbol{},
		ResolvedByName: map[string]ResolvedImport{},
	})
	st.scopes[parent].Children = append(st.scopes[parent].Children, id)
	return id
}

func (st *SymbolTable) Scope(id ScopeID) *Scope { return st.scopes[id] }

// Define binds name to sym in scope id's name map.
func (st *SymbolTable) Define(id ScopeID, name string, sym Symbol) {
	st.scopes[id].Names[name] = sym
}

// Lookup walks the scope chain upward from id looking for name, and
// also consults resolved imports at each level.
func (st *SymbolTable) Lookup(id ScopeID, name string) (Symbol, ScopeID, bool) {
	for cur := id; cur >= 0; cur = st.scopes[cur].Parent {
		s := st.scopes[cur]
		if sym, ok := s.Names[name]; ok {
			return sym, cur, true
		}
		if imp, ok := s.ResolvedByName[name]; ok {
			return imp.ReferencedSymbol, imp.DefinitionScope, true
		}
	}
	return nil, -1, false
}

// LookupLocal looks only in scope id itself, not its ancestors.
func (st *SymbolTable) LookupLocal(id ScopeID, name string) (Symbol, bool) {
	sym, ok := st.scopes[id].Names[name]
	return sym, ok
}

// IsDescendant reports whether a is id itself or a descendant of id.
func (st *SymbolTable) IsDescendant(a, id ScopeID) bool {
	for cur := a; cur >= 0; cur = st.scopes[cur].Parent {
		if cur == id {
			return true
		}
	}
	return false
}

// Accessible implements the visibility-monotonicity rule: a symbol
// defined in scope s is accessible from scope a iff it is Public, or
// a == s, or a is a descendant of s.
func Accessible(vis ast.Visibility, s, a ScopeID, st *SymbolTable) bool {
	if vis == ast.Public {
		return true
	}
	if a == s {
		return true
	}
	return st.IsDescendant(a, s)
}
