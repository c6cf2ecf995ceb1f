package parser

import "github.com/inferlang/infc/internal/ast"

// Binary operator precedence, lowest to highest. Matches the table in
// the type checker's binary-operator-typing rules.
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"|": 5, "^": 5,
	"&": 6,
	"<<": 7, ">>": 7,
	"+": 8, "-": 8,
	"*": 9, "/": 9, "%": 9,
	"**": 10,
}

var binOps = map[string]ast.BinaryOp{
	"+": ast.OpAdd, "-": ast.OpSub, "*": ast.OpMul, "/": ast.OpDiv, "%": ast.OpMod, "**": ast.OpPow,
	"<": ast.OpLt, "<=": ast.OpLe, ">": ast.OpGt, ">=": ast.OpGe, "==": ast.OpEq, "!=": ast.OpNe,
	"&&": ast.OpAnd, "||": ast.OpOr, "&": ast.OpBitAnd, "|": ast.OpBitOr, "^": ast.OpBitXor,
	"<<": ast.OpShl, ">>": ast.OpShr,
}

func (p *parser) parseExpr(parent ast.NodeID) ast.NodeID {
	return p.parseBinary(parent, 0)
}

func (p *parser) parseBinary(parent ast.NodeID, minPrec int) ast.NodeID {
	left := p.parseCastExpr(parent)
	for {
		if p.cur.kind != tokPunct {
			return left
		}
		prec, ok := binPrec[p.cur.text]
		if !ok || prec < minPrec {
			return left
		}
		op := p.cur.text
		p.advance()
		right := p.parseBinary(parent, prec+1)
		startLoc, endLoc := p.nodeLoc(left), p.nodeLoc(right)
		be := &ast.BinaryExpr{Op: binOps[op], Left: left, Right: right}
		left = p.insert(be, parent, ast.KindBinaryExpr, locSpan(startLoc, endLoc))
	}
}

func (p *parser) parseCastExpr(parent ast.NodeID) ast.NodeID {
	e := p.parseUnary(parent)
	for p.isKeyword("as") {
		p.advance()
		id := ast.NextID()
		startLoc := p.nodeLoc(e)
		typ := p.parseType(id)
		ce := &ast.CastExpr{Value: e, Type: typ}
		endLoc := p.nodeLoc(typ)
		e = p.insertWithID(ce, parent, id, ast.KindCastExpr, locSpan(startLoc, endLoc))
	}
	return e
}

func (p *parser) parseUnary(parent ast.NodeID) ast.NodeID {
	start := p.curLoc()
	switch {
	case p.isPunct("!"):
		p.advance()
		operand := p.parseUnary(parent)
		end := p.nodeLoc(operand)
		return p.insert(&ast.UnaryExpr{Op: ast.OpNot, Operand: operand}, parent, ast.KindUnaryExpr, locSpan(start, end))
	case p.isPunct("-"):
		p.advance()
		operand := p.parseUnary(parent)
		end := p.nodeLoc(operand)
		return p.insert(&ast.UnaryExpr{Op: ast.OpNeg, Operand: operand}, parent, ast.KindUnaryExpr, locSpan(start, end))
	case p.isPunct("~"):
		p.advance()
		operand := p.parseUnary(parent)
		end := p.nodeLoc(operand)
		return p.insert(&ast.UnaryExpr{Op: ast.OpBitNot, Operand: operand}, parent, ast.KindUnaryExpr, locSpan(start, end))
	default:
		return p.parsePostfix(parent)
	}
}

func (p *parser) parsePostfix(parent ast.NodeID) ast.NodeID {
	e := p.parsePrimary(parent)
	for {
		start := p.nodeLoc(e)
		switch {
		case p.isPunct("."):
			p.advance()
			name, _, ok := p.expectIdent()
			if !ok {
				return e
			}
			if p.isPunct("(") {
				args, endLoc := p.parseArgList(parent)
				e = p.insert(&ast.MethodCallExpr{Receiver: e, Method: name, Args: args}, parent, ast.KindMethodCallExpr, locSpan(start, endLoc))
			} else {
				end := p.curLoc()
				e = p.insert(&ast.FieldAccessExpr{Receiver: e, Field: name}, parent, ast.KindFieldAccessExpr, locSpan(start, end))
			}
		case p.isPunct("::"):
			p.advance()
			name, _, ok := p.expectIdent()
			if !ok {
				return e
			}
			end := p.curLoc()
			if ident, ok := p.arena.FindNode(e); ok {
				if ie, ok := ident.(*ast.IdentExpr); ok {
					e = p.insert(&ast.TypeMemberAccessExpr{EnumName: ie.Name, Variant: name}, parent, ast.KindTypeMemberAccessExpr, locSpan(start, end))
					continue
				}
			}
			e = p.insert(&ast.TypeMemberAccessExpr{EnumName: "", Variant: name}, parent, ast.KindTypeMemberAccessExpr, locSpan(start, end))
		case p.isPunct("["):
			p.advance()
			idx := p.allowStructLiterals(func() ast.NodeID { return p.parseExpr(parent) })
			end := p.curLoc()
			p.expectPunct("]")
			e = p.insert(&ast.IndexExpr{Array: e, Index: idx}, parent, ast.KindIndexExpr, locSpan(start, end))
		case p.isPunct("("):
			args, endLoc := p.parseArgList(parent)
			e = p.insert(&ast.CallExpr{Callee: e, Args: args}, parent, ast.KindCallExpr, locSpan(start, endLoc))
		default:
			return e
		}
	}
}

func (p *parser) parseArgList(parent ast.NodeID) ([]ast.NodeID, ast.Loc) {
	p.expectPunct("(")
	var args []ast.NodeID
	for !p.isPunct(")") && p.cur.kind != tokEOF {
		args = append(args, p.allowStructLiterals(func() ast.NodeID { return p.parseExpr(parent) }))
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.curLoc()
	p.expectPunct(")")
	return args, end
}

func (p *parser) parsePrimary(parent ast.NodeID) ast.NodeID {
	start := p.curLoc()
	switch {
	case p.cur.kind == tokNumber:
		text := p.cur.text
		p.advance()
		end := start
		return p.insertLiteral(parent, &ast.NumberLit{Text: text}, ast.KindNumberLit, locSpan(start, end))
	case p.isKeyword("true"), p.isKeyword("false"):
		v := p.cur.text == "true"
		p.advance()
		return p.insertLiteral(parent, &ast.BoolLit{Value: v}, ast.KindBoolLit, start)
	case p.cur.kind == tokString:
		text := p.cur.text
		p.advance()
		return p.insertLiteral(parent, &ast.StringLit{Value: text}, ast.KindStringLit, start)
	case p.isPunct("@"):
		p.advance()
		return p.insert(&ast.UzumakiExpr{}, parent, ast.KindUzumakiExpr, start)
	case p.isPunct("("):
		p.advance()
		if p.isPunct(")") {
			end := p.curLoc()
			p.advance()
			return p.insertLiteral(parent, &ast.UnitLit{}, ast.KindUnitLit, locSpan(start, end))
		}
		e := p.allowStructLiterals(func() ast.NodeID { return p.parseExpr(parent) })
		p.expectPunct(")")
		return e
	case p.isPunct("["):
		p.advance()
		var elems []ast.NodeID
		for !p.isPunct("]") && p.cur.kind != tokEOF {
			elems = append(elems, p.allowStructLiterals(func() ast.NodeID { return p.parseExpr(parent) }))
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		end := p.curLoc()
		p.expectPunct("]")
		return p.insert(&ast.ArrayLiteralExpr{Elements: elems}, parent, ast.KindArrayLiteralExpr, locSpan(start, end))
	case p.isKeyword("if"):
		return p.parseIfExpr(parent, start)
	case p.isKeyword("forall") || p.isKeyword("exists") || p.isKeyword("assume") || p.isKeyword("unique"):
		kind, _ := nondetKind(p.cur.text)
		p.advance()
		blk := p.parseBlock(parent, kind)
		return p.insert(&ast.BlockExpr{Block: blk}, parent, ast.KindBlockExpr, locSpan(start, p.nodeLoc(blk)))
	case p.cur.kind == tokIdent:
		name, _, _ := p.expectIdent()
		if p.isPunct("{") && !p.noStructLiteral && structLiteralLikely(name) {
			return p.parseStructLiteral(parent, start, name)
		}
		return p.insert(&ast.IdentExpr{Name: name}, parent, ast.KindIdentExpr, start)
	default:
		p.errorf(start, "unexpected token %q in expression", p.cur.text)
		p.advance()
		return p.insert(&ast.IdentExpr{Name: "<error>"}, parent, ast.KindIdentExpr, start)
	}
}

// structLiteralLikely distinguishes `Name { ... }` struct literals from
// a bare capitalized identifier used as a value. The real disambiguator
// for `if`/`while` conditions is parser.noStructLiteral, set by
// parseCondExpr: a capitalized constant or variable immediately
// followed by `{` in a condition must not be parsed as a struct literal
// whose `{` swallows the if/while body's own opening brace. This
// capitalization check only narrows which identifiers even attempt a
// struct literal outside a suppressed context; it is not itself what
// keeps conditions safe.
func structLiteralLikely(name string) bool {
	if name == "" {
		return false
	}
	r := name[0]
	return r >= 'A' && r <= 'Z'
}

func (p *parser) parseStructLiteral(parent ast.NodeID, start ast.Loc, typeName string) ast.NodeID {
	p.expectPunct("{")
	sl := &ast.StructLiteralExpr{TypeName: typeName, Fields: map[string]ast.NodeID{}}
	for !p.isPunct("}") && p.cur.kind != tokEOF {
		fname, _, ok := p.expectIdent()
		if !ok {
			break
		}
		p.expectPunct(":")
		v := p.parseExpr(parent)
		sl.Fields[fname] = v
		sl.FieldOrder = append(sl.FieldOrder, fname)
		if p.isPunct(",") {
			p.advance()
			continue
		}
		break
	}
	end := p.curLoc()
	p.expectPunct("}")
	return p.insert(sl, parent, ast.KindStructLiteralExpr, locSpan(start, end))
}

func (p *parser) parseIfExpr(parent ast.NodeID, start ast.Loc) ast.NodeID {
	p.expectKeyword("if")
	cond := p.parseCondExpr(parent)
	then := p.parseBlock(parent, ast.KindPlainBlock)
	thenExpr := p.insert(&ast.BlockExpr{Block: then}, parent, ast.KindBlockExpr, p.nodeLoc(then))
	ie := &ast.IfExpr{Cond: cond, Then: thenExpr}
	end := p.nodeLoc(then)
	if p.isKeyword("else") {
		p.advance()
		if p.isKeyword("if") {
			ie.Else = p.parseIfExpr(parent, p.curLoc())
		} else {
			elseBlk := p.parseBlock(parent, ast.KindPlainBlock)
			ie.Else = p.insert(&ast.BlockExpr{Block: elseBlk}, parent, ast.KindBlockExpr, p.nodeLoc(elseBlk))
		}
		end = p.nodeLoc(ie.Else)
	}
	return p.insert(ie, parent, ast.KindIfExpr, locSpan(start, end))
}

func (p *parser) insertLiteral(parent ast.NodeID, lit ast.NodeSetter, kind ast.NodeKind, loc ast.Loc) ast.NodeID {
	litID := p.insert(lit, parent, kind, loc)
	return p.insert(&ast.LiteralExpr{Literal: litID}, parent, ast.KindLiteralExpr, loc)
}

// --- types ---

var simpleTypeKinds = map[string]ast.SimpleTypeKind{
	"unit": ast.Unit, "bool": ast.Bool,
	"i8": ast.I8, "i16": ast.I16, "i32": ast.I32, "i64": ast.I64,
	"u8": ast.U8, "u16": ast.U16, "u32": ast.U32, "u64": ast.U64,
}

func (p *parser) parseType(parent ast.NodeID) ast.NodeID {
	start := p.curLoc()
	if p.cur.kind == tokKeyword {
		if k, ok := simpleTypeKinds[p.cur.text]; ok {
			p.advance()
			return p.insert(&ast.SimpleTypeRef{TypeKind: k}, parent, ast.KindSimpleTypeRef, start)
		}
	}
	if p.isPunct("[") {
		p.advance()
		id := ast.NextID()
		elem := p.parseType(id)
		p.expectPunct(";")
		sizeTok := p.cur
		size := uint32(0)
		if sizeTok.kind == tokNumber {
			if n, err := parseIntText(sizeTok.text); err == nil {
				size = uint32(n)
			}
			p.advance()
		}
		end := p.curLoc()
		p.expectPunct("]")
		return p.insertWithID(&ast.ArrayTypeRef{Elem: elem, Size: size}, parent, id, ast.KindArrayTypeRef, locSpan(start, end))
	}
	if p.isPunct("(") {
		p.advance()
		id := ast.NextID()
		var params []ast.NodeID
		for !p.isPunct(")") && p.cur.kind != tokEOF {
			params = append(params, p.parseType(id))
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		end := p.curLoc()
		p.expectPunct(")")
		var result ast.NodeID
		if p.isPunct("->") {
			p.advance()
			result = p.parseType(id)
			end = p.nodeLoc(result)
		}
		return p.insertWithID(&ast.FunctionTypeRef{Params: params, Result: result}, parent, id, ast.KindFunctionTypeRef, locSpan(start, end))
	}
	name, _, ok := p.expectIdent()
	if !ok {
		return p.insert(&ast.NamedTypeRef{Name: "<error>"}, parent, ast.KindNamedTypeRef, start)
	}
	path := []string{name}
	for p.isPunct("::") {
		p.advance()
		seg, _, ok := p.expectIdent()
		if !ok {
			break
		}
		path = append(path, seg)
	}
	if len(path) > 1 {
		end := p.curLoc()
		return p.insert(&ast.QualifiedTypeRef{Path: path}, parent, ast.KindQualifiedTypeRef, locSpan(start, end))
	}
	id := ast.NextID()
	var typeArgs []ast.NodeID
	end := start
	if p.isPunct("<") {
		p.advance()
		for !p.isPunct(">") && p.cur.kind != tokEOF {
			typeArgs = append(typeArgs, p.parseType(id))
			if p.isPunct(",") {
				p.advance()
				continue
			}
			break
		}
		end = p.curLoc()
		p.expectPunct(">")
	}
	return p.insertWithID(&ast.NamedTypeRef{Name: name, TypeArgs: typeArgs}, parent, id, ast.KindNamedTypeRef, locSpan(start, end))
}
