package types

import "github.com/inferlang/infc/internal/ast"

// processDirectives is phase 1: it walks every source file and
// records each "use" directive as a RawImport on that file's top-level
// scope. Multi-file compilation is out of scope (spec.md §1 Non-goals),
// so every source file's top-level definitions share the symbol
// table's single root scope directly — matching scenario S1, which
// places a top-level function's symbol in the root scope itself, and
// letting a `mod` path walked from the root find sibling modules
// declared earlier in the same file. Nothing is resolved yet and no
// diagnostics are possible here — an import only fails once phase 3
// tries to find what it names.
func (s *session) processDirectives() []error {
	for _, file := range s.arena.SourceFiles() {
		fileScope := s.symbols.Root()
		s.scopeOf[file.ID()] = fileScope

		for _, useID := range file.Uses {
			u := mustNode(s.arena, useID).(*ast.UseDirective)
			switch u.ImportKind {
			case ast.ImportPlain:
				s.symbols.Scope(fileScope).RawImports = append(s.symbols.Scope(fileScope).RawImports, RawImport{
					Path: u.Path, Loc: u.Loc(),
				})
			case ast.ImportGlob:
				s.symbols.Scope(fileScope).RawImports = append(s.symbols.Scope(fileScope).RawImports, RawImport{
					Path: u.Path, Glob: true, Loc: u.Loc(),
				})
			case ast.ImportPartial:
				for _, item := range u.Partial {
					alias := item.Alias
					if alias == "" {
						alias = item.Name
					}
					path := append(append([]string{}, u.Path...), item.Name)
					s.symbols.Scope(fileScope).RawImports = append(s.symbols.Scope(fileScope).RawImports, RawImport{
						Path: path, Alias: alias, Loc: u.Loc(),
					})
				}
			}
		}
	}
	return nil
}

func mustNode(arena *ast.Arena, id ast.NodeID) ast.Node {
	n, _ := arena.FindNode(id)
	return n
}
