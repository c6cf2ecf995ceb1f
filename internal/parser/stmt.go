package parser

import "github.com/inferlang/infc/internal/ast"

// parseBlock parses a `{ ... }` statement list and returns the id of the
// Block node (kind is PlainBlock for ordinary bodies, or one of the
// four nondeterministic block kinds for forall/exists/assume/unique).
func (p *parser) parseBlock(parent ast.NodeID, kind ast.NodeKind) ast.NodeID {
	start := p.curLoc()
	id := ast.NextID()
	blk := &ast.Block{}
	p.expectPunct("{")
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		before := p.cur
		s := p.parseStatement(id)
		if s != 0 {
			blk.Stmts = append(blk.Stmts, s)
		}
		if p.cur == before {
			p.advance()
		}
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insertWithID(blk, parent, id, kind, locSpan(start, end))
}

func nondetKind(keyword string) (ast.NodeKind, bool) {
	switch keyword {
	case "forall":
		return ast.KindForallBlock, true
	case "exists":
		return ast.KindExistsBlock, true
	case "assume":
		return ast.KindAssumeBlock, true
	case "unique":
		return ast.KindUniqueBlock, true
	}
	return 0, false
}

func (p *parser) parseStatement(parent ast.NodeID) ast.NodeID {
	start := p.curLoc()
	switch {
	case p.isKeyword("let"):
		return p.parseLetStmt(parent, start)
	case p.isKeyword("return"):
		return p.parseReturnStmt(parent, start)
	case p.isKeyword("if"):
		return p.parseIfStmt(parent, start)
	case p.isKeyword("while"):
		return p.parseWhileStmt(parent, start)
	case p.isKeyword("loop"):
		p.advance()
		body := p.parseBlock(parent, ast.KindPlainBlock)
		ls := &ast.LoopStmt{Body: body}
		end := p.nodeLoc(body)
		return p.insert(ls, parent, ast.KindLoopStmt, locSpan(start, end))
	case p.isKeyword("break"):
		p.advance()
		end := p.curLoc()
		p.expectPunct(";")
		return p.insert(&ast.BreakStmt{}, parent, ast.KindBreakStmt, locSpan(start, end))
	default:
		if kind, ok := nondetKind(p.cur.text); ok && p.cur.kind == tokKeyword {
			p.advance()
			return p.parseBlock(parent, kind)
		}
		return p.parseAssignOrExprStmt(parent, start)
	}
}

func (p *parser) nodeLoc(id ast.NodeID) ast.Loc {
	if n, ok := p.arena.FindNode(id); ok {
		return n.Loc()
	}
	return ast.Loc{}
}

func (p *parser) parseLetStmt(parent ast.NodeID, start ast.Loc) ast.NodeID {
	p.expectKeyword("let")
	name, _, _ := p.expectIdent()
	ls := &ast.LetStmt{Name: name}
	id := ast.NextID()
	if p.isPunct(":") {
		p.advance()
		ls.Type = p.parseType(id)
	}
	p.expectPunct("=")
	ls.Value = p.parseExpr(id)
	end := p.curLoc()
	p.expectPunct(";")
	return p.insertWithID(ls, parent, id, ast.KindLetStmt, locSpan(start, end))
}

func (p *parser) parseReturnStmt(parent ast.NodeID, start ast.Loc) ast.NodeID {
	p.expectKeyword("return")
	rs := &ast.ReturnStmt{}
	if !p.isPunct(";") {
		rs.Value = p.parseExpr(parent)
	}
	end := p.curLoc()
	p.expectPunct(";")
	return p.insert(rs, parent, ast.KindReturnStmt, locSpan(start, end))
}

func (p *parser) parseIfStmt(parent ast.NodeID, start ast.Loc) ast.NodeID {
	p.expectKeyword("if")
	is := &ast.IfStmt{}
	is.Cond = p.parseCondExpr(parent)
	is.Then = p.parseBlock(parent, ast.KindPlainBlock)
	end := p.nodeLoc(is.Then)
	if p.isKeyword("else") {
		p.advance()
		if p.isKeyword("if") {
			elseStart := p.curLoc()
			is.Else = p.parseIfStmt(parent, elseStart)
		} else {
			is.Else = p.parseBlock(parent, ast.KindPlainBlock)
		}
		end = p.nodeLoc(is.Else)
	}
	return p.insert(is, parent, ast.KindIfStmt, locSpan(start, end))
}

func (p *parser) parseWhileStmt(parent ast.NodeID, start ast.Loc) ast.NodeID {
	p.expectKeyword("while")
	ws := &ast.WhileStmt{}
	ws.Cond = p.parseCondExpr(parent)
	ws.Body = p.parseBlock(parent, ast.KindPlainBlock)
	end := p.nodeLoc(ws.Body)
	return p.insert(ws, parent, ast.KindWhileStmt, locSpan(start, end))
}

// parseAssignOrExprStmt parses either `target = value;` or a bare
// expression statement `expr;`, disambiguating by looking for a `=`
// that isn't part of `==` after a parsed expression.
func (p *parser) parseAssignOrExprStmt(parent ast.NodeID, start ast.Loc) ast.NodeID {
	e := p.parseExpr(parent)
	if p.isPunct("=") {
		p.advance()
		value := p.parseExpr(parent)
		end := p.curLoc()
		p.expectPunct(";")
		as := &ast.AssignStmt{Target: e, Value: value}
		return p.insert(as, parent, ast.KindAssignStmt, locSpan(start, end))
	}
	end := p.curLoc()
	p.expectPunct(";")
	es := &ast.ExprStmt{Expr: e}
	return p.insert(es, parent, ast.KindExprStmt, locSpan(start, end))
}
