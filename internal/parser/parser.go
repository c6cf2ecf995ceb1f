package parser

import (
	"fmt"

	"github.com/inferlang/infc/internal/ast"
)

// Parse lexes and parses src, building an *ast.Arena rooted at one
// SourceFile node. A non-empty error list means the returned arena (if
// any) should not be trusted for type checking.
func Parse(path string, src []byte) (*ast.Arena, []error) {
	p := &parser{path: path, lex: newLexer(string(src)), arena: ast.NewArena()}
	p.advance()
	return p.parseFile(), p.errs
}

type parser struct {
	path  string
	lex   *lexer
	cur   token
	arena *ast.Arena
	errs  []error

	// noStructLiteral suppresses parsePrimary's `Name { ... }`
	// struct-literal heuristic while parsing an if/while condition, so
	// the brace that follows a capitalized condition identifier is
	// never mistaken for a struct literal's opening brace instead of the
	// body's. Any parenthesized, bracketed, or argument-list
	// subexpression inside a condition clears it again, since those
	// contexts have their own closing delimiter and can't be confused
	// with the body brace.
	noStructLiteral bool
}

func (p *parser) advance() {
	tok, err := p.lex.next()
	if err != nil {
		if se, ok := err.(*SyntaxError); ok {
			se.Path = p.path
		}
		p.errs = append(p.errs, err)
		p.cur = token{kind: tokEOF}
		return
	}
	p.cur = tok
}

func (p *parser) errorf(loc ast.Loc, format string, args ...interface{}) {
	p.errs = append(p.errs, &SyntaxError{Path: p.path, Loc: loc, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) isPunct(s string) bool  { return p.cur.kind == tokPunct && p.cur.text == s }
func (p *parser) isKeyword(s string) bool { return p.cur.kind == tokKeyword && p.cur.text == s }

func (p *parser) expectPunct(s string) bool {
	if p.isPunct(s) {
		p.advance()
		return true
	}
	p.errorf(p.curLoc(), "expected %q, found %q", s, p.cur.text)
	return false
}

func (p *parser) expectKeyword(s string) bool {
	if p.isKeyword(s) {
		p.advance()
		return true
	}
	p.errorf(p.curLoc(), "expected %q, found %q", s, p.cur.text)
	return false
}

func (p *parser) expectIdent() (string, ast.Loc, bool) {
	if p.cur.kind == tokIdent {
		text, loc := p.cur.text, p.curLoc()
		p.advance()
		return text, loc, true
	}
	p.errorf(p.curLoc(), "expected identifier, found %q", p.cur.text)
	return "", p.curLoc(), false
}

func (p *parser) curLoc() ast.Loc {
	return ast.Loc{
		OffsetStart: p.cur.offStart, OffsetEnd: p.cur.offEnd,
		StartLine: p.cur.line, StartCol: p.cur.col,
		EndLine: p.cur.endLine, EndCol: p.cur.endCol,
	}
}

func locSpan(start, end ast.Loc) ast.Loc {
	return ast.Loc{
		OffsetStart: start.OffsetStart, OffsetEnd: end.OffsetEnd,
		StartLine: start.StartLine, StartCol: start.StartCol,
		EndLine: end.EndLine, EndCol: end.EndCol,
	}
}

// insert stamps n with a fresh id and loc/kind, and records it in the
// arena under parent.
func (p *parser) insert(n ast.NodeSetter, parent ast.NodeID, kind ast.NodeKind, loc ast.Loc) ast.NodeID {
	return p.insertWithID(n, parent, ast.NextID(), kind, loc)
}

// insertWithID is like insert but the id was already reserved (used
// when children need to be parsed with the parent id before the
// parent's own final location is known).
func (p *parser) insertWithID(n ast.NodeSetter, parent, id ast.NodeID, kind ast.NodeKind, loc ast.Loc) ast.NodeID {
	n.SetNode(id, loc, kind)
	p.arena.Insert(n, parent)
	return id
}

// --- top level ---

func (p *parser) parseFile() *ast.Arena {
	id := ast.NextID()
	sf := &ast.SourceFile{Path: p.path, Text: p.lex.src}
	sf.SetNode(id, ast.Loc{}, ast.KindSourceFile)
	p.arena.Insert(sf, 0)

	for p.cur.kind != tokEOF {
		if p.isKeyword("use") {
			if u := p.parseUse(id); u != 0 {
				sf.Uses = append(sf.Uses, u)
			}
			continue
		}
		before := p.cur
		if d := p.parseDefinition(id); d != 0 {
			sf.Defs = append(sf.Defs, d)
		}
		if p.cur == before && p.cur.kind != tokEOF {
			p.advance()
		}
	}
	full := ast.Loc{OffsetStart: 0, OffsetEnd: len(sf.Text), StartLine: 1, StartCol: 1, EndLine: p.lex.line, EndCol: p.lex.col}
	sf.SetNode(id, full, ast.KindSourceFile)
	return p.arena
}

func (p *parser) parseUse(parent ast.NodeID) ast.NodeID {
	start := p.curLoc()
	p.expectKeyword("use")
	var path []string
	for {
		name, _, ok := p.expectIdent()
		if !ok {
			break
		}
		path = append(path, name)
		if p.isPunct("::") {
			p.advance()
			if p.isPunct("*") {
				p.advance()
				end := p.curLoc()
				p.expectPunct(";")
				u := &ast.UseDirective{ImportKind: ast.ImportGlob, Path: path}
				return p.insert(u, parent, ast.KindUseDirective, locSpan(start, end))
			}
			if p.isPunct("{") {
				p.advance()
				var items []ast.PartialItem
				for !p.isPunct("}") && p.cur.kind != tokEOF {
					itemName, _, ok := p.expectIdent()
					if !ok {
						break
					}
					alias := ""
					if p.isKeyword("as") {
						p.advance()
						alias, _, _ = p.expectIdent()
					}
					items = append(items, ast.PartialItem{Name: itemName, Alias: alias})
					if p.isPunct(",") {
						p.advance()
						continue
					}
					break
				}
				p.expectPunct("}")
				end := p.curLoc()
				p.expectPunct(";")
				u := &ast.UseDirective{ImportKind: ast.ImportPartial, Path: path, Partial: items}
				return p.insert(u, parent, ast.KindUseDirective, locSpan(start, end))
			}
			continue
		}
		break
	}
	end := p.curLoc()
	p.expectPunct(";")
	u := &ast.UseDirective{ImportKind: ast.ImportPlain, Path: path}
	return p.insert(u, parent, ast.KindUseDirective, locSpan(start, end))
}

func (p *parser) parseVisibility() ast.Visibility {
	if p.isKeyword("pub") {
		p.advance()
		return ast.Public
	}
	return ast.Private
}

func (p *parser) parseDefinition(parent ast.NodeID) ast.NodeID {
	start := p.curLoc()
	vis := p.parseVisibility()
	switch {
	case p.isKeyword("fn"):
		return p.parseFunctionDef(parent, start, vis, "")
	case p.isKeyword("struct"):
		return p.parseStructDef(parent, start, vis)
	case p.isKeyword("enum"):
		return p.parseEnumDef(parent, start, vis)
	case p.isKeyword("const"):
		return p.parseConstDef(parent, start, vis)
	case p.isKeyword("type"):
		return p.parseTypeAliasDef(parent, start, vis)
	case p.isKeyword("mod"):
		return p.parseModDef(parent, start, vis)
	case p.isKeyword("spec"):
		return p.parseSpecDef(parent, start, vis)
	case p.isKeyword("impl"):
		return p.parseImplDef(parent, start)
	default:
		p.errorf(p.curLoc(), "expected a definition, found %q", p.cur.text)
		return 0
	}
}

// parseCondExpr parses an if/while condition with struct literals
// suppressed at the top level (see parser.noStructLiteral).
func (p *parser) parseCondExpr(parent ast.NodeID) ast.NodeID {
	prev := p.noStructLiteral
	p.noStructLiteral = true
	e := p.parseExpr(parent)
	p.noStructLiteral = prev
	return e
}

// allowStructLiterals parses a subexpression with any enclosing
// condition's struct-literal suppression lifted: parens, brackets, and
// argument lists have their own closing delimiter, so a struct literal
// inside one of them can never be confused with an if/while body brace.
func (p *parser) allowStructLiterals(parse func() ast.NodeID) ast.NodeID {
	prev := p.noStructLiteral
	p.noStructLiteral = false
	e := parse()
	p.noStructLiteral = prev
	return e
}

func (p *parser) parseTypeParams() []string {
	var names []string
	if p.isPunct("<") {
		p.advance()
		for !p.isPunct(">") && p.cur.kind != tokEOF {
			name, _, ok := p.expectIdent()
			if ok {
				names = append(names, name)
			}
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		p.expectPunct(">")
	}
	return names
}

// parseFunctionDef parses a function or method definition. recvType is
// the enclosing spec/impl's type name for a method, or "" for a
// free-standing function. A method's parameter list may open with a
// bare `self` token, which is consumed as the receiver and sets
// fn.HasSelf rather than becoming an ordinary Argument; a method
// without it is an associated function (spec.md's has_self=false),
// called as `Type::method(...)` rather than `value.method(...)`.
func (p *parser) parseFunctionDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility, recvType string) ast.NodeID {
	p.expectKeyword("fn")
	name, _, _ := p.expectIdent()
	typeParams := p.parseTypeParams()
	id := ast.NextID()
	fn := &ast.FunctionDef{Name: name, Visibility: vis, TypeParams: typeParams, RecvType: recvType}
	p.expectPunct("(")
	if recvType != "" && p.cur.kind == tokIdent && p.cur.text == "self" {
		p.advance()
		fn.HasSelf = true
		if p.isPunct(",") {
			p.advance()
		}
	}
	for !p.isPunct(")") && p.cur.kind != tokEOF {
		argStart := p.curLoc()
		argName, _, ok := p.expectIdent()
		if !ok {
			break
		}
		p.expectPunct(":")
		typ := p.parseType(id)
		arg := &ast.Argument{Name: argName, Type: typ}
		argID := p.insert(arg, id, ast.KindArgument, argStart)
		fn.Params = append(fn.Params, argID)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	p.expectPunct(")")
	if p.isPunct("->") {
		p.advance()
		fn.ReturnType = p.parseType(id)
	}
	end := p.curLoc()
	if p.isPunct("{") {
		fn.Body = p.parseBlock(id, ast.KindPlainBlock)
		if b, ok := p.arena.FindNode(fn.Body); ok {
			end = b.Loc()
		}
	} else {
		p.expectPunct(";")
	}
	return p.insertWithID(fn, parent, id, ast.KindFunctionDef, locSpan(start, end))
}

func (p *parser) parseStructDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility) ast.NodeID {
	p.expectKeyword("struct")
	name, _, _ := p.expectIdent()
	typeParams := p.parseTypeParams()
	id := ast.NextID()
	sd := &ast.StructDef{Name: name, Visibility: vis, TypeParams: typeParams}
	p.expectPunct("{")
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		fStart := p.curLoc()
		fVis := p.parseVisibility()
		fName, _, ok := p.expectIdent()
		if !ok {
			break
		}
		p.expectPunct(":")
		typ := p.parseType(id)
		f := &ast.Field{Name: fName, Type: typ, Visibility: fVis}
		fID := p.insert(f, id, ast.KindField, fStart)
		sd.Fields = append(sd.Fields, fID)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insertWithID(sd, parent, id, ast.KindStructDef, locSpan(start, end))
}

func (p *parser) parseEnumDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility) ast.NodeID {
	p.expectKeyword("enum")
	name, _, _ := p.expectIdent()
	id := ast.NextID()
	ed := &ast.EnumDef{Name: name, Visibility: vis}
	p.expectPunct("{")
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		vStart := p.curLoc()
		vName, _, ok := p.expectIdent()
		if !ok {
			break
		}
		v := &ast.EnumVariant{Name: vName}
		vID := p.insert(v, id, ast.KindEnumVariant, vStart)
		ed.Variants = append(ed.Variants, vID)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insertWithID(ed, parent, id, ast.KindEnumDef, locSpan(start, end))
}

func (p *parser) parseConstDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility) ast.NodeID {
	p.expectKeyword("const")
	name, _, _ := p.expectIdent()
	id := ast.NextID()
	cd := &ast.ConstDef{Name: name, Visibility: vis}
	if p.isPunct(":") {
		p.advance()
		cd.Type = p.parseType(id)
	}
	p.expectPunct("=")
	cd.Value = p.parseExpr(id)
	end := p.curLoc()
	p.expectPunct(";")
	return p.insertWithID(cd, parent, id, ast.KindConstDef, locSpan(start, end))
}

func (p *parser) parseTypeAliasDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility) ast.NodeID {
	p.expectKeyword("type")
	name, _, _ := p.expectIdent()
	id := ast.NextID()
	td := &ast.TypeAliasDef{Name: name, Visibility: vis}
	p.expectPunct("=")
	td.Aliased = p.parseType(id)
	end := p.curLoc()
	p.expectPunct(";")
	return p.insertWithID(td, parent, id, ast.KindTypeAliasDef, locSpan(start, end))
}

func (p *parser) parseModDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility) ast.NodeID {
	p.expectKeyword("mod")
	name, _, _ := p.expectIdent()
	id := ast.NextID()
	md := &ast.ModuleDef{Name: name, Visibility: vis}
	p.expectPunct("{")
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		if p.isKeyword("use") {
			if u := p.parseUse(id); u != 0 {
				md.Defs = append(md.Defs, u)
			}
			continue
		}
		before := p.cur
		if d := p.parseDefinition(id); d != 0 {
			md.Defs = append(md.Defs, d)
		}
		if p.cur == before {
			break
		}
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insertWithID(md, parent, id, ast.KindModuleDef, locSpan(start, end))
}

func (p *parser) parseSpecDef(parent ast.NodeID, start ast.Loc, vis ast.Visibility) ast.NodeID {
	p.expectKeyword("spec")
	name, _, _ := p.expectIdent()
	id := ast.NextID()
	sd := &ast.SpecDef{Name: name, Visibility: vis}
	p.expectPunct("{")
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		mStart := p.curLoc()
		m := p.parseFunctionDef(id, mStart, ast.Public, name)
		sd.Methods = append(sd.Methods, m)
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insertWithID(sd, parent, id, ast.KindSpecDef, locSpan(start, end))
}

func (p *parser) parseImplDef(parent ast.NodeID, start ast.Loc) ast.NodeID {
	p.expectKeyword("impl")
	first, _, _ := p.expectIdent()
	typeName := first
	specName := ""
	if p.isKeyword("for") {
		p.advance()
		specName = first
		typeName, _, _ = p.expectIdent()
	}
	id := ast.NextID()
	impl := &ast.ImplDef{TypeName: typeName, SpecName: specName}
	p.expectPunct("{")
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		mStart := p.curLoc()
		vis := p.parseVisibility()
		m := p.parseFunctionDef(id, mStart, vis, typeName)
		impl.Methods = append(impl.Methods, m)
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insertWithID(impl, parent, id, ast.KindImplDef, locSpan(start, end))
}
