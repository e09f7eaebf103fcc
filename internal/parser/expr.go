package parser

import (
	"basil/internal/syntax"
	"basil/internal/token"
)

// Приоритеты бинарных операторов (больше — связывает сильнее).
const (
	precXor = 1 + iota
	precOr
	precAnd
	precNot
	precCompare
	precConcat
	precAdd
	precMod
	precIntDiv
	precMul
	precUnary
	precPow
)

func binaryPrec(k token.Kind) (int, bool) {
	switch k {
	case token.KwXor:
		return precXor, true
	case token.KwOr:
		return precOr, true
	case token.KwAnd:
		return precAnd, true
	case token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.KwLike, token.KwIs:
		return precCompare, true
	case token.Amp:
		return precConcat, true
	case token.Plus, token.Minus:
		return precAdd, true
	case token.KwMod:
		return precMod, true
	case token.Backslash:
		return precIntDiv, true
	case token.Star, token.Slash:
		return precMul, true
	case token.Caret:
		return precPow, true
	}
	return 0, false
}

// parseExpr разбирает выражение и прикрепляет его к parent.
func (p *Parser) parseExpr(parent *syntax.Node) *syntax.Node {
	e := p.parseBinary(1)
	if e == nil {
		p.errorHere("expected expression")
		return nil
	}
	p.attach(parent, e)
	return e
}

func (p *Parser) parseBinary(minPrec int) *syntax.Node {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for {
		prec, ok := binaryPrec(p.peek().Kind)
		if !ok || prec < minPrec {
			return left
		}
		n := p.newNode(syntax.BinaryExpr)
		p.attach(n, left)
		p.bump(n)
		if right := p.parseBinary(prec + 1); right != nil {
			p.attach(n, right)
		} else {
			p.errorHere("expected expression")
		}
		left = n
	}
}

func (p *Parser) parseUnary() *syntax.Node {
	var operandPrec int
	switch p.peek().Kind {
	case token.KwNot:
		operandPrec = precCompare
	case token.Minus, token.Plus:
		operandPrec = precPow
	default:
		return p.parsePostfix(nil)
	}
	n := p.newNode(syntax.UnaryExpr)
	p.bump(n)
	if operand := p.parseBinary(operandPrec); operand != nil {
		p.attach(n, operand)
	} else {
		p.errorHere("expected expression")
	}
	return n
}

// parsePostfix: primary { .name | !name | (args) }.
// Если parent не nil — результат прикрепляется к нему.
func (p *Parser) parsePostfix(parent *syntax.Node) *syntax.Node {
	left := p.parsePrimary()
	if left == nil {
		if parent != nil {
			p.errorHere("expected expression")
		}
		return nil
	}
	for {
		switch {
		case (p.at(token.Dot) || p.at(token.Bang)) && p.peekN(1).IsWord():
			n := p.newNode(syntax.MemberExpr)
			p.attach(n, left)
			p.bump(n)
			p.bump(n)
			left = n
		case p.at(token.LParen):
			n := p.newNode(syntax.CallExpr)
			p.attach(n, left)
			p.parseArgs(n)
			left = n
		default:
			p.attach(parent, left)
			return left
		}
	}
}

func (p *Parser) parsePrimary() *syntax.Node {
	tok := p.peek()
	switch {
	case tok.Is("TypeOf"):
		// TypeOf x Is T
		n := p.newNode(syntax.TypeOfExpr)
		p.bump(n)
		p.parsePostfix(n)
		if p.expect(n, token.KwIs, "'Is'") {
			p.parseTypeName(n)
		}
		return n
	case tok.Kind == token.Ident:
		n := p.newNode(syntax.NameExpr)
		p.bump(n)
		return n
	case tok.IsLiteral() || tok.Kind == token.KwMe:
		n := p.newNode(syntax.LiteralExpr)
		p.bump(n)
		return n
	case (tok.Kind == token.Dot || tok.Kind == token.Bang) && p.peekN(1).IsWord():
		// .Member внутри With
		n := p.newNode(syntax.MemberExpr)
		p.bump(n)
		p.bump(n)
		return n
	case tok.Kind == token.LParen:
		n := p.newNode(syntax.ParenExpr)
		p.bump(n)
		p.parseExpr(n)
		p.expect(n, token.RParen, "')'")
		return n
	case tok.Kind == token.KwNew:
		n := p.newNode(syntax.NewExpr)
		p.bump(n)
		p.parseTypeName(n)
		return n
	}
	return nil
}

// (a, , name:=b, 1 To 5)
func (p *Parser) parseArgs(parent *syntax.Node) {
	args := p.newNode(syntax.ArgList)
	p.bump(args) // '('
	for !p.at(token.RParen) && !p.at(token.Newline) && !p.at(token.EOF) {
		if p.eat(args, token.Comma) {
			continue
		}
		if p.parseArg(args) == nil {
			break
		}
		if p.eat(args, token.KwTo) {
			p.parseExpr(args)
		}
		if !p.eat(args, token.Comma) {
			break
		}
	}
	p.expect(args, token.RParen, "')'")
	p.attach(parent, args)
}

// parseArg — один аргумент, возможно именованный (name:=value) или ByVal.
func (p *Parser) parseArg(args *syntax.Node) *syntax.Node {
	if p.at(token.Ident) && p.peekN(1).Kind == token.ColonEq {
		p.bump(args)
		p.bump(args)
	}
	p.eat(args, token.KwByVal)
	return p.parseExpr(args)
}
