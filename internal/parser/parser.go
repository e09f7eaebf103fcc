package parser

import (
	"fmt"

	"basil/internal/lexer"
	"basil/internal/source"
	"basil/internal/syntax"
	"basil/internal/token"
)

type Options struct {
	MaxErrors uint // 0 — без ограничения
}

// Parser — состояние парсера на один файл
type Parser struct {
	tree       *syntax.Tree
	toks       []token.Token
	pos        int
	opts       Options
	inline     int // >0 внутри однострочного If
	lastErrTok int
}

// Parse lexes and parses one file. It never fails: structural problems become
// Error nodes plus Tree.Errors entries.
func Parse(file *source.File, opts Options) *syntax.Tree {
	tree := &syntax.Tree{File: file}
	rep := &lexReporter{tree: tree}
	tree.Tokens = lexer.New(file, lexer.Options{Reporter: rep}).All()

	p := &Parser{
		tree:       tree,
		toks:       tree.Tokens,
		opts:       opts,
		lastErrTok: -1,
	}
	tree.Root = p.parseModule()
	return tree
}

// lexReporter переносит ошибки лексера в Tree.Errors.
type lexReporter struct {
	tree *syntax.Tree
}

func (r *lexReporter) Report(span source.Span, msg string) {
	text := ""
	if r.tree.File != nil {
		text = r.tree.File.Text(span)
	}
	r.tree.Errors = append(r.tree.Errors, syntax.ParseError{Span: span, Msg: msg, Text: text})
}

// ===== Токены =====

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	return p.toks[i]
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) atWord(w string) bool { return p.peek().Is(w) }

// atEOS — конец оператора: перевод строки, ':' или EOF (и Else в однострочном If).
func (p *Parser) atEOS() bool {
	switch p.peek().Kind {
	case token.Newline, token.Colon, token.EOF:
		return true
	case token.KwElse:
		return p.inline > 0
	}
	return false
}

// atLineStart — текущий токен первый на своей строке.
func (p *Parser) atLineStart() bool {
	return p.pos == 0 || p.toks[p.pos-1].Kind == token.Newline
}

// ===== Построение узлов =====

func (p *Parser) newNode(kind syntax.Kind) *syntax.Node {
	return &syntax.Node{Kind: kind, Start: p.pos, Stop: p.pos - 1}
}

// attach добавляет child в parent и расширяет диапазон parent.
func (p *Parser) attach(parent, child *syntax.Node) {
	if parent == nil || child == nil {
		return
	}
	child.Parent = parent
	parent.Children = append(parent.Children, child)
	if child.IsEmpty() {
		return
	}
	if parent.IsEmpty() {
		parent.Start, parent.Stop = child.Start, child.Stop
		return
	}
	if child.Start < parent.Start {
		parent.Start = child.Start
	}
	if child.Stop > parent.Stop {
		parent.Stop = child.Stop
	}
}

// bump съедает текущий токен как Terminal внутри parent.
func (p *Parser) bump(parent *syntax.Node) *syntax.Node {
	if p.at(token.EOF) {
		return nil
	}
	n := &syntax.Node{Kind: syntax.Terminal, Start: p.pos, Stop: p.pos, Tok: &p.toks[p.pos]}
	p.pos++
	p.attach(parent, n)
	return n
}

func (p *Parser) eat(parent *syntax.Node, k token.Kind) bool {
	if p.at(k) {
		p.bump(parent)
		return true
	}
	return false
}

func (p *Parser) eatWord(parent *syntax.Node, w string) bool {
	if p.atWord(w) {
		p.bump(parent)
		return true
	}
	return false
}

// expect — ожидаем конкретный токен. Если нет — репортим и ничего не съедаем.
func (p *Parser) expect(parent *syntax.Node, k token.Kind, what string) bool {
	if p.eat(parent, k) {
		return true
	}
	p.errorHere("expected " + what)
	return false
}

func (p *Parser) expectIdent(parent *syntax.Node, what string) bool {
	return p.expect(parent, token.Ident, what)
}

// expectEnd ожидает пару `End <kw>`.
func (p *Parser) expectEnd(parent *syntax.Node, kw token.Kind) bool {
	if p.at(token.KwEnd) && p.peekN(1).Kind == kw {
		p.bump(parent)
		p.bump(parent)
		return true
	}
	p.errorHere(fmt.Sprintf("expected 'End %s'", kw))
	return false
}

// endStatement съедает ':' или перевод строки; мусор до конца строки уходит в Error-узел.
func (p *Parser) endStatement(parent *syntax.Node) {
	switch {
	case p.at(token.Colon):
		p.bump(parent)
	case p.at(token.Newline):
		if p.inline == 0 {
			p.bump(parent)
		}
	case p.at(token.EOF):
	case p.inline > 0 && p.at(token.KwElse):
	default:
		p.skipToEOL(parent, "expected end of statement")
		if p.inline == 0 {
			p.eat(parent, token.Newline)
		}
	}
}

// ===== Ошибки =====

func (p *Parser) errorHere(msg string) {
	p.reportAt(p.pos, msg)
}

func (p *Parser) reportAt(idx int, msg string) {
	if idx == p.lastErrTok {
		return
	}
	if p.opts.MaxErrors != 0 && uint(len(p.tree.Errors)) >= p.opts.MaxErrors {
		return
	}
	tok := p.toks[idx]
	p.lastErrTok = idx
	if tok.Kind == token.Invalid {
		// лексер уже сообщил
		return
	}
	text := tok.Text
	if tok.Kind == token.Newline {
		text = "end of line"
	} else if tok.Kind == token.EOF {
		text = "end of file"
	}
	p.tree.Errors = append(p.tree.Errors, syntax.ParseError{
		Span: tok.Span,
		Msg:  fmt.Sprintf("%s, found '%s'", msg, text),
		Text: text,
	})
}

// skipToEOL заворачивает токены до конца строки в Error-узел.
func (p *Parser) skipToEOL(parent *syntax.Node, msg string) {
	if p.at(token.Newline) || p.at(token.EOF) {
		return
	}
	p.errorHere(msg)
	errNode := p.newNode(syntax.Error)
	for !p.at(token.Newline) && !p.at(token.EOF) {
		if p.inline > 0 && p.at(token.KwElse) {
			break
		}
		p.bump(errNode)
	}
	p.attach(parent, errNode)
}
