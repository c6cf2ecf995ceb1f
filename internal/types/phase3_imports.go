package types

import "github.com/inferlang/infc/internal/ast"

// resolveImports is phase 3: it walks every scope's RawImports,
// resolves each path against the scope tree built in phase 2, and
// records the outcome in that scope's ResolvedByName map. A path is
// resolved by walking its segments from the root scope, stepping into
// a ModuleSymbol's contents scope for every segment but the last, then
// looking the final segment up (or, for a glob import, binding every
// public name in the target scope). Visibility is checked only on the
// final symbol of a non-glob import; the module segments walked to
// reach it are not visibility-checked.
func (s *session) resolveImports() []error {
	var errs []error
	for _, scope := range s.symbols.scopes {
		for _, raw := range scope.RawImports {
			errs = append(errs, s.resolveOneImport(scope.ID, raw)...)
		}
	}
	return errs
}

func (s *session) resolveOneImport(into ScopeID, raw RawImport) []error {
	if raw.Glob {
		targetScope, ok := s.walkModulePath(raw.Path)
		if !ok {
			return []error{ImportPathNotFound(joinPath(raw.Path), raw.Loc)}
		}
		bound := 0
		for name, member := range s.symbols.Scope(targetScope).Names {
			if member.SymbolVisibility() != ast.Public {
				continue
			}
			if _, exists := s.symbols.Scope(into).ResolvedByName[name]; exists {
				continue
			}
			s.symbols.Scope(into).ResolvedByName[name] = ResolvedImport{LocalName: name, ReferencedSymbol: member, DefinitionScope: targetScope}
			bound++
		}
		if bound == 0 {
			return []error{GlobImportFailure(joinPath(raw.Path), raw.Loc)}
		}
		return nil
	}

	parentPath := raw.Path[:len(raw.Path)-1]
	last := raw.Path[len(raw.Path)-1]
	localName := raw.Alias
	if localName == "" {
		localName = last
	}

	scope := s.symbols.Root()
	if len(parentPath) > 0 {
		targetScope, ok := s.walkModulePath(parentPath)
		if !ok {
			return []error{ImportPathNotFound(joinPath(raw.Path), raw.Loc)}
		}
		scope = targetScope
	}

	sym, ok := s.symbols.LookupLocal(scope, last)
	if !ok {
		return []error{ImportPathNotFound(joinPath(raw.Path), raw.Loc)}
	}
	if !Accessible(sym.SymbolVisibility(), scope, into, s.symbols) {
		return []error{&VisibilityViolation{Ctx: VisImport, Name: last, L: raw.Loc}}
	}
	if _, exists := s.symbols.Scope(into).ResolvedByName[localName]; exists {
		return []error{AmbiguousImport(localName, raw.Loc)}
	}
	s.symbols.Scope(into).ResolvedByName[localName] = ResolvedImport{LocalName: localName, ReferencedSymbol: sym, DefinitionScope: scope}
	return nil
}

// walkModulePath steps from the symbol-table root through each named
// segment of path, requiring every segment to name an already
// registered ModuleSymbol, and returns the final segment's contents
// scope.
func (s *session) walkModulePath(path []string) (ScopeID, bool) {
	cur := s.symbols.Root()
	for _, seg := range path {
		found, ok := s.symbols.LookupLocal(cur, seg)
		if !ok {
			return 0, false
		}
		mod, ok := found.(*ModuleSymbol)
		if !ok {
			return 0, false
		}
		cur = mod.ContentsScope
	}
	return cur, true
}

func joinPath(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "::"
		}
		out += seg
	}
	return out
}
