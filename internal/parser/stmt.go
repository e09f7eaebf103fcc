package parser

import (
	"fmt"

	"basil/internal/syntax"
	"basil/internal/token"
)

// closer — токен(ы), на которых блок заканчивается. next == Invalid означает «любой».
type closer struct {
	kind token.Kind
	next token.Kind
}

func (p *Parser) atCloser(cs []closer) bool {
	for _, c := range cs {
		if p.at(c.kind) && (c.next == token.Invalid || p.peekN(1).Kind == c.next) {
			return true
		}
	}
	return false
}

// parseBlock разбирает операторы до одного из closers или границы процедуры.
func (p *Parser) parseBlock(parent *syntax.Node, closers ...closer) *syntax.Node {
	b := p.newNode(syntax.Block)
	for !p.at(token.EOF) {
		if p.at(token.Newline) || p.at(token.Colon) {
			p.bump(b)
			continue
		}
		if p.atCloser(closers) || p.atProcedureBoundary() {
			break
		}
		before := p.pos
		p.parseDeclOrStatement(b)
		p.ensureProgress(b, before)
	}
	p.attach(parent, b)
	return b
}

func (p *Parser) parseStatement(parent *syntax.Node) {
	tok := p.peek()
	switch tok.Kind {
	case token.KwIf:
		p.parseIf(parent)
	case token.KwFor:
		if p.peekN(1).Kind == token.KwEach {
			p.parseForEach(parent)
		} else {
			p.parseFor(parent)
		}
	case token.KwDo:
		p.parseDo(parent)
	case token.KwWhile:
		p.parseWhile(parent)
	case token.KwSelect:
		p.parseSelect(parent)
	case token.KwWith:
		p.parseWith(parent)
	case token.KwCall:
		n := p.newNode(syntax.CallStmt)
		p.bump(n)
		p.parsePostfix(n)
		p.endStatement(n)
		p.attach(parent, n)
	case token.KwSet, token.KwLet:
		kind := syntax.LetStmt
		if tok.Kind == token.KwSet {
			kind = syntax.SetStmt
		}
		n := p.newNode(kind)
		p.bump(n)
		p.parsePostfix(n)
		if p.expect(n, token.Eq, "'='") {
			p.parseExpr(n)
		}
		p.endStatement(n)
		p.attach(parent, n)
	case token.KwExit:
		n := p.newNode(syntax.ExitStmt)
		p.bump(n)
		switch p.peek().Kind {
		case token.KwSub, token.KwFunction, token.KwProperty, token.KwFor, token.KwDo:
			p.bump(n)
		default:
			p.errorHere("expected Sub, Function, Property, For or Do after Exit")
		}
		p.endStatement(n)
		p.attach(parent, n)
	case token.KwGoTo:
		n := p.newNode(syntax.GoToStmt)
		p.bump(n)
		if !p.eat(n, token.Ident) {
			p.expect(n, token.IntLit, "label")
		}
		p.endStatement(n)
		p.attach(parent, n)
	case token.KwOn:
		p.parseOnError(parent)
	case token.KwResume:
		n := p.newNode(syntax.ResumeStmt)
		p.bump(n)
		if p.at(token.KwNext) || p.at(token.Ident) || p.at(token.IntLit) {
			p.bump(n)
		}
		p.endStatement(n)
		p.attach(parent, n)
	case token.KwReDim:
		p.parseReDim(parent)
	case token.KwAttribute:
		// атрибуты членов класса внутри процедуры
		p.parseAttribute(parent)
	case token.KwEnd:
		n := p.newNode(syntax.EndStmt)
		p.bump(n)
		p.endStatement(n)
		p.attach(parent, n)
	case token.KwDim:
		p.parseVariableStmt(parent)
	case token.Ident:
		if p.peekN(1).Kind == token.Colon && p.atLineStart() {
			n := p.newNode(syntax.LabelStmt)
			p.bump(n)
			p.bump(n)
			p.attach(parent, n)
			return
		}
		p.parseExprStatement(parent)
	case token.KwMe, token.Dot, token.Bang:
		p.parseExprStatement(parent)
	default:
		p.skipToEOL(parent, fmt.Sprintf("unexpected '%s'", tok.Text))
		if p.inline == 0 {
			p.eat(parent, token.Newline)
		}
	}
}

// target = expr | target args
func (p *Parser) parseExprStatement(parent *syntax.Node) {
	target := p.parsePostfix(nil)
	if target == nil {
		p.skipToEOL(parent, "expected statement")
		return
	}
	if p.at(token.Eq) {
		n := p.newNode(syntax.LetStmt)
		p.attach(n, target)
		p.bump(n)
		p.parseExpr(n)
		p.endStatement(n)
		p.attach(parent, n)
		return
	}
	n := p.newNode(syntax.ExprStmt)
	p.attach(n, target)
	if !p.atEOS() {
		args := p.newNode(syntax.ArgList)
		for !p.atEOS() {
			if p.eat(args, token.Comma) || p.eat(args, token.Semicolon) {
				continue
			}
			if p.parseArg(args) == nil {
				break
			}
			if !p.at(token.Comma) && !p.at(token.Semicolon) {
				break
			}
		}
		p.attach(n, args)
	}
	p.endStatement(n)
	p.attach(parent, n)
}

func (p *Parser) parseIf(parent *syntax.Node) {
	n := p.newNode(syntax.IfStmt)
	p.bump(n)
	p.parseExpr(n)
	p.expect(n, token.KwThen, "'Then'")

	if !p.at(token.Newline) && !p.at(token.EOF) {
		// однострочный If: If c Then a: b Else c
		p.inline++
		p.parseInlineBlock(n)
		if p.at(token.KwElse) {
			ec := p.newNode(syntax.ElseClause)
			p.bump(ec)
			p.parseInlineBlock(ec)
			p.attach(n, ec)
		}
		p.inline--
		p.endStatement(n)
		p.attach(parent, n)
		return
	}

	p.endStatement(n)
	branch := []closer{{token.KwElseIf, token.Invalid}, {token.KwElse, token.Invalid}, {token.KwEnd, token.KwIf}}
	p.parseBlock(n, branch...)
	for p.at(token.KwElseIf) {
		c := p.newNode(syntax.ElseIfClause)
		p.bump(c)
		p.parseExpr(c)
		p.expect(c, token.KwThen, "'Then'")
		p.endStatement(c)
		p.parseBlock(c, branch...)
		p.attach(n, c)
	}
	if p.at(token.KwElse) {
		c := p.newNode(syntax.ElseClause)
		p.bump(c)
		p.endStatement(c)
		p.parseBlock(c, closer{token.KwEnd, token.KwIf})
		p.attach(n, c)
	}
	if p.expectEnd(n, token.KwIf) {
		p.endStatement(n)
	}
	p.attach(parent, n)
}

func (p *Parser) parseInlineBlock(parent *syntax.Node) {
	b := p.newNode(syntax.Block)
	for !p.at(token.Newline) && !p.at(token.EOF) && !p.at(token.KwElse) {
		if p.eat(b, token.Colon) {
			continue
		}
		before := p.pos
		p.parseStatement(b)
		if p.pos == before {
			break
		}
	}
	p.attach(parent, b)
}

// For i = a To b [Step c] ... Next [i]
func (p *Parser) parseFor(parent *syntax.Node) {
	n := p.newNode(syntax.ForStmt)
	p.bump(n)
	p.parsePostfix(n)
	if p.expect(n, token.Eq, "'='") {
		p.parseExpr(n)
	}
	if p.expect(n, token.KwTo, "'To'") {
		p.parseExpr(n)
	}
	if p.eatWord(n, "Step") {
		p.parseExpr(n)
	}
	p.endStatement(n)
	p.parseBlock(n, closer{token.KwNext, token.Invalid})
	p.parseNext(n)
	p.attach(parent, n)
}

// For Each x In coll ... Next [x]
func (p *Parser) parseForEach(parent *syntax.Node) {
	n := p.newNode(syntax.ForEachStmt)
	p.bump(n)
	p.bump(n)
	p.parsePostfix(n)
	if p.expect(n, token.KwIn, "'In'") {
		p.parseExpr(n)
	}
	p.endStatement(n)
	p.parseBlock(n, closer{token.KwNext, token.Invalid})
	p.parseNext(n)
	p.attach(parent, n)
}

func (p *Parser) parseNext(n *syntax.Node) {
	if !p.expect(n, token.KwNext, "'Next'") {
		return
	}
	for p.at(token.Ident) || p.at(token.Comma) {
		p.bump(n)
	}
	p.endStatement(n)
}

// Do [While|Until c] ... Loop [While|Until c]
func (p *Parser) parseDo(parent *syntax.Node) {
	n := p.newNode(syntax.DoStmt)
	p.bump(n)
	if p.eat(n, token.KwWhile) || p.eat(n, token.KwUntil) {
		p.parseExpr(n)
	}
	p.endStatement(n)
	p.parseBlock(n, closer{token.KwLoop, token.Invalid})
	if p.expect(n, token.KwLoop, "'Loop'") {
		if p.eat(n, token.KwWhile) || p.eat(n, token.KwUntil) {
			p.parseExpr(n)
		}
		p.endStatement(n)
	}
	p.attach(parent, n)
}

// While c ... Wend
func (p *Parser) parseWhile(parent *syntax.Node) {
	n := p.newNode(syntax.WhileStmt)
	p.bump(n)
	p.parseExpr(n)
	p.endStatement(n)
	p.parseBlock(n, closer{token.KwWend, token.Invalid})
	if p.expect(n, token.KwWend, "'Wend'") {
		p.endStatement(n)
	}
	p.attach(parent, n)
}

// Select Case x / Case 1, 2 To 5, Is > 7 / Case Else / End Select
func (p *Parser) parseSelect(parent *syntax.Node) {
	n := p.newNode(syntax.SelectStmt)
	p.bump(n)
	p.expect(n, token.KwCase, "'Case'")
	p.parseExpr(n)
	p.endStatement(n)
	for !p.at(token.EOF) {
		if p.eat(n, token.Newline) || p.eat(n, token.Colon) {
			continue
		}
		if !p.at(token.KwCase) {
			break
		}
		c := p.newNode(syntax.CaseClause)
		p.bump(c)
		if !p.eat(c, token.KwElse) {
			p.parseCaseList(c)
		}
		p.endStatement(c)
		p.parseBlock(c, closer{token.KwCase, token.Invalid}, closer{token.KwEnd, token.KwSelect})
		p.attach(n, c)
	}
	if p.expectEnd(n, token.KwSelect) {
		p.endStatement(n)
	}
	p.attach(parent, n)
}

func (p *Parser) parseCaseList(c *syntax.Node) {
	for {
		if p.eat(c, token.KwIs) {
			switch p.peek().Kind {
			case token.Eq, token.NotEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
				p.bump(c)
			default:
				p.errorHere("expected comparison operator")
			}
			p.parseExpr(c)
		} else {
			p.parseExpr(c)
			if p.eat(c, token.KwTo) {
				p.parseExpr(c)
			}
		}
		if !p.eat(c, token.Comma) {
			return
		}
	}
}

// With obj ... End With
func (p *Parser) parseWith(parent *syntax.Node) {
	n := p.newNode(syntax.WithStmt)
	p.bump(n)
	p.parseExpr(n)
	p.endStatement(n)
	p.parseBlock(n, closer{token.KwEnd, token.KwWith})
	if p.expectEnd(n, token.KwWith) {
		p.endStatement(n)
	}
	p.attach(parent, n)
}

// On Error GoTo label | On Error Resume Next
func (p *Parser) parseOnError(parent *syntax.Node) {
	n := p.newNode(syntax.OnErrorStmt)
	p.bump(n)
	p.eatWord(n, "Local")
	if !p.eatWord(n, "Error") {
		p.skipToEOL(n, "expected 'Error'")
		p.endStatement(n)
		p.attach(parent, n)
		return
	}
	switch {
	case p.eat(n, token.KwGoTo):
		p.eat(n, token.Minus)
		if !p.eat(n, token.Ident) {
			p.expect(n, token.IntLit, "label")
		}
	case p.eat(n, token.KwResume):
		p.expect(n, token.KwNext, "'Next'")
	default:
		p.errorHere("expected GoTo or Resume")
	}
	p.endStatement(n)
	p.attach(parent, n)
}

// ReDim [Preserve] arr(bounds) [As T] {, ...}
func (p *Parser) parseReDim(parent *syntax.Node) {
	n := p.newNode(syntax.ReDimStmt)
	p.bump(n)
	p.eat(n, token.KwPreserve)
	for {
		p.parsePostfix(n)
		if p.at(token.KwAs) {
			p.parseAsClause(n)
		}
		if !p.eat(n, token.Comma) {
			break
		}
	}
	p.endStatement(n)
	p.attach(parent, n)
}
