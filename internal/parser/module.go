package parser

import (
	"basil/internal/syntax"
	"basil/internal/token"
)

// parseModule — основной цикл верхнего уровня: пока не EOF — parseModuleItem.
func (p *Parser) parseModule() *syntax.Node {
	mod := p.newNode(syntax.Module)
	for !p.at(token.EOF) {
		if p.at(token.Newline) || p.at(token.Colon) {
			p.bump(mod)
			continue
		}
		before := p.pos
		p.parseModuleItem(mod)
		p.ensureProgress(mod, before)
	}
	return mod
}

// ensureProgress гарантирует, что цикл сдвинулся хотя бы на один токен.
func (p *Parser) ensureProgress(parent *syntax.Node, before int) {
	if p.pos != before || p.at(token.EOF) {
		return
	}
	p.reportAt(p.pos, "unexpected token")
	errNode := p.newNode(syntax.Error)
	p.bump(errNode)
	p.attach(parent, errNode)
}

func (p *Parser) parseModuleItem(parent *syntax.Node) {
	switch {
	case p.atWord("VERSION") && p.atLineStart() && p.peekN(1).Kind == token.FloatLit:
		p.parseHeaderLine(parent)
	case p.atWord("BEGIN") && p.atLineStart():
		p.parseHeaderBlock(parent)
	case p.at(token.KwAttribute):
		p.parseAttribute(parent)
	case p.at(token.KwOption):
		p.parseOption(parent)
	case p.at(token.KwImplements):
		n := p.newNode(syntax.ImplementsStmt)
		p.bump(n)
		p.parseTypeName(n)
		p.endStatement(n)
		p.attach(parent, n)
	default:
		p.parseDeclOrStatement(parent)
	}
}

// VERSION 1.0 CLASS
func (p *Parser) parseHeaderLine(parent *syntax.Node) {
	n := p.newNode(syntax.HeaderStmt)
	for !p.at(token.Newline) && !p.at(token.EOF) {
		p.bump(n)
	}
	p.eat(n, token.Newline)
	p.attach(parent, n)
}

// BEGIN ... END — свойства формы/класса, содержимое не разбираем.
func (p *Parser) parseHeaderBlock(parent *syntax.Node) {
	n := p.newNode(syntax.HeaderStmt)
	depth := 0
	for !p.at(token.EOF) {
		if p.atLineStart() {
			switch {
			case p.atWord("BEGIN") || p.atWord("BeginProperty"):
				depth++
			case p.at(token.KwEnd) || p.atWord("EndProperty"):
				depth--
			}
		}
		p.bump(n)
		if depth == 0 && (p.at(token.Newline) || p.at(token.EOF)) {
			break
		}
	}
	p.eat(n, token.Newline)
	p.attach(parent, n)
}

// Attribute VB_Name = "Module1"
func (p *Parser) parseAttribute(parent *syntax.Node) {
	n := p.newNode(syntax.AttributeStmt)
	p.bump(n)
	p.parsePostfix(n)
	if p.expect(n, token.Eq, "'='") {
		for {
			p.parseExpr(n)
			if !p.eat(n, token.Comma) {
				break
			}
		}
	}
	p.endStatement(n)
	p.attach(parent, n)
}

// Option Explicit | Option Base 1 | Option Compare Text | Option Private Module
func (p *Parser) parseOption(parent *syntax.Node) {
	n := p.newNode(syntax.OptionStmt)
	p.bump(n)
	if p.atEOS() {
		p.errorHere("expected option name")
	}
	for !p.atEOS() {
		p.bump(n)
	}
	p.endStatement(n)
	p.attach(parent, n)
}

func isModifier(k token.Kind) bool {
	switch k {
	case token.KwPrivate, token.KwPublic, token.KwFriend, token.KwGlobal, token.KwStatic:
		return true
	}
	return false
}

// afterModifiers возвращает вид токена, следующего за модификаторами видимости.
func (p *Parser) afterModifiers() (token.Kind, int) {
	i := 0
	for isModifier(p.peekN(i).Kind) {
		i++
	}
	return p.peekN(i).Kind, i
}

// parseDeclOrStatement — объявления с модификаторами либо обычный оператор.
func (p *Parser) parseDeclOrStatement(parent *syntax.Node) {
	kind, mods := p.afterModifiers()
	if p.peekN(mods).Is("Declare") {
		p.parseDeclare(parent)
		return
	}
	switch kind {
	case token.KwSub, token.KwFunction, token.KwProperty:
		p.parseProcedure(parent)
		return
	case token.KwType:
		p.parseTypeDecl(parent)
		return
	case token.KwEnum:
		p.parseEnumDecl(parent)
		return
	case token.KwConst:
		p.parseConst(parent)
		return
	}
	if mods > 0 || p.at(token.KwDim) {
		p.parseVariableStmt(parent)
		return
	}
	p.parseStatement(parent)
}

// atProcedureBoundary — начало или конец процедуры; блоки внутри процедуры здесь останавливаются.
func (p *Parser) atProcedureBoundary() bool {
	if p.at(token.KwEnd) {
		switch p.peekN(1).Kind {
		case token.KwSub, token.KwFunction, token.KwProperty:
			return true
		}
		return false
	}
	switch kind, _ := p.afterModifiers(); kind {
	case token.KwSub, token.KwFunction, token.KwProperty:
		return true
	}
	return false
}

var procKinds = map[token.Kind]syntax.Kind{
	token.KwSub:      syntax.SubDecl,
	token.KwFunction: syntax.FunctionDecl,
	token.KwProperty: syntax.PropertyDecl,
}

// [Public|Private|Friend] [Static] (Sub|Function|Property Get|Let|Set) name [(params)] [As T]
func (p *Parser) parseProcedure(parent *syntax.Node) {
	kw, _ := p.afterModifiers()
	n := p.newNode(procKinds[kw])
	for isModifier(p.peek().Kind) {
		p.bump(n)
	}
	p.bump(n)
	if kw == token.KwProperty {
		if p.atWord("Get") || p.at(token.KwLet) || p.at(token.KwSet) {
			p.bump(n)
		} else {
			p.errorHere("expected Get, Let or Set")
		}
	}
	p.expectIdent(n, "procedure name")
	if p.at(token.LParen) {
		p.parseParams(n)
	}
	if kw != token.KwSub && p.at(token.KwAs) {
		p.parseAsClause(n)
	}
	p.endStatement(n)

	p.parseBlock(n, closer{token.KwEnd, kw})
	if p.expectEnd(n, kw) {
		p.endStatement(n)
	}
	p.attach(parent, n)
}

// [Public|Private] Declare [PtrSafe] (Sub|Function) name Lib "dll" [Alias "x"] (params) [As T]
// Внешняя процедура без тела.
func (p *Parser) parseDeclare(parent *syntax.Node) {
	_, mods := p.afterModifiers()
	kind := syntax.SubDecl
	for i := mods + 1; i < mods+3; i++ {
		if p.peekN(i).Kind == token.KwFunction {
			kind = syntax.FunctionDecl
		}
	}
	n := p.newNode(kind)
	for isModifier(p.peek().Kind) {
		p.bump(n)
	}
	p.bump(n) // Declare
	p.eatWord(n, "PtrSafe")
	if !p.eat(n, token.KwSub) && !p.eat(n, token.KwFunction) {
		p.errorHere("expected Sub or Function")
	}
	p.expectIdent(n, "procedure name")
	for !p.at(token.LParen) && !p.atEOS() {
		p.bump(n) // Lib "x" Alias "y"
	}
	if p.at(token.LParen) {
		p.parseParams(n)
	}
	if kind == syntax.FunctionDecl && p.at(token.KwAs) {
		p.parseAsClause(n)
	}
	p.endStatement(n)
	p.attach(parent, n)
}

func (p *Parser) parseParams(parent *syntax.Node) {
	list := p.newNode(syntax.ParamList)
	p.bump(list) // '('
	for !p.at(token.RParen) && !p.atEOS() {
		p.parseParam(list)
		if !p.eat(list, token.Comma) {
			break
		}
	}
	p.expect(list, token.RParen, "')'")
	p.attach(parent, list)
}

// [Optional] [ByVal|ByRef] [ParamArray] name [()] [As T] [= default]
func (p *Parser) parseParam(parent *syntax.Node) {
	n := p.newNode(syntax.Param)
	p.eat(n, token.KwOptional)
	if !p.eat(n, token.KwByVal) {
		p.eat(n, token.KwByRef)
	}
	p.eat(n, token.KwParamArray)
	p.expectIdent(n, "parameter name")
	if p.at(token.LParen) {
		p.bump(n)
		p.expect(n, token.RParen, "')'")
	}
	if p.at(token.KwAs) {
		p.parseAsClause(n)
	}
	if p.eat(n, token.Eq) {
		p.parseExpr(n)
	}
	p.attach(parent, n)
}

// As [New] Type[.Name] [* len]
func (p *Parser) parseAsClause(parent *syntax.Node) {
	n := p.newNode(syntax.AsClause)
	p.bump(n) // As
	p.eat(n, token.KwNew)
	p.parseTypeName(n)
	if p.eat(n, token.Star) {
		p.parseExpr(n)
	}
	p.attach(parent, n)
}

func (p *Parser) parseTypeName(parent *syntax.Node) {
	n := p.newNode(syntax.TypeName)
	if !p.expectIdent(n, "type name") {
		return
	}
	for p.at(token.Dot) && p.peekN(1).IsWord() {
		p.bump(n)
		p.bump(n)
	}
	p.attach(parent, n)
}

// Dim|Private|Public|Global|Static item {, item}
func (p *Parser) parseVariableStmt(parent *syntax.Node) {
	n := p.newNode(syntax.VariableStmt)
	for isModifier(p.peek().Kind) || p.at(token.KwDim) {
		p.bump(n)
	}
	for {
		p.parseVariableItem(n)
		if !p.eat(n, token.Comma) {
			break
		}
	}
	p.endStatement(n)
	p.attach(parent, n)
}

// [WithEvents] name [(bounds)] [As [New] T]
func (p *Parser) parseVariableItem(parent *syntax.Node) {
	n := p.newNode(syntax.VariableItem)
	p.eatWord(n, "WithEvents")
	if !p.expectIdent(n, "variable name") {
		p.attach(parent, n)
		return
	}
	if p.at(token.LParen) {
		p.parseBounds(n)
	}
	if p.at(token.KwAs) {
		p.parseAsClause(n)
	}
	p.attach(parent, n)
}

// (1 To 10, 5) — границы массива
func (p *Parser) parseBounds(parent *syntax.Node) {
	p.bump(parent) // '('
	for !p.at(token.RParen) && !p.atEOS() {
		p.parseExpr(parent)
		if p.eat(parent, token.KwTo) {
			p.parseExpr(parent)
		}
		if !p.eat(parent, token.Comma) {
			break
		}
	}
	p.expect(parent, token.RParen, "')'")
}

// [Public|Private] Const name [As T] = expr {, ...}
func (p *Parser) parseConst(parent *syntax.Node) {
	n := p.newNode(syntax.ConstStmt)
	for isModifier(p.peek().Kind) {
		p.bump(n)
	}
	p.bump(n) // Const
	for {
		item := p.newNode(syntax.ConstItem)
		if p.expectIdent(item, "constant name") {
			if p.at(token.KwAs) {
				p.parseAsClause(item)
			}
			if p.expect(item, token.Eq, "'='") {
				p.parseExpr(item)
			}
		}
		p.attach(n, item)
		if !p.eat(n, token.Comma) {
			break
		}
	}
	p.endStatement(n)
	p.attach(parent, n)
}

// [Public|Private] Type name ... End Type
func (p *Parser) parseTypeDecl(parent *syntax.Node) {
	n := p.newNode(syntax.TypeDecl)
	for isModifier(p.peek().Kind) {
		p.bump(n)
	}
	p.bump(n) // Type
	p.expectIdent(n, "type name")
	p.endStatement(n)
	for !p.at(token.EOF) {
		if p.eat(n, token.Newline) || p.eat(n, token.Colon) {
			continue
		}
		if (p.at(token.KwEnd) && p.peekN(1).Kind == token.KwType) || p.atProcedureBoundary() {
			break
		}
		member := p.newNode(syntax.TypeMember)
		if p.expectIdent(member, "member name") {
			if p.at(token.LParen) {
				p.parseBounds(member)
			}
			if p.at(token.KwAs) {
				p.parseAsClause(member)
			} else {
				p.errorHere("expected 'As'")
			}
		}
		p.endStatement(member)
		p.attach(n, member)
	}
	if p.expectEnd(n, token.KwType) {
		p.endStatement(n)
	}
	p.attach(parent, n)
}

// [Public|Private] Enum name ... End Enum
func (p *Parser) parseEnumDecl(parent *syntax.Node) {
	n := p.newNode(syntax.EnumDecl)
	for isModifier(p.peek().Kind) {
		p.bump(n)
	}
	p.bump(n) // Enum
	p.expectIdent(n, "enum name")
	p.endStatement(n)
	for !p.at(token.EOF) {
		if p.eat(n, token.Newline) || p.eat(n, token.Colon) {
			continue
		}
		if (p.at(token.KwEnd) && p.peekN(1).Kind == token.KwEnum) || p.atProcedureBoundary() {
			break
		}
		member := p.newNode(syntax.EnumMember)
		if p.expectIdent(member, "enum member name") && p.eat(member, token.Eq) {
			p.parseExpr(member)
		}
		p.endStatement(member)
		p.attach(n, member)
	}
	if p.expectEnd(n, token.KwEnum) {
		p.endStatement(n)
	}
	p.attach(parent, n)
}
