package conditional

import (
	"fmt"
	"strconv"
)

// The grammar is the minimal boolean-expression subset the rows need:
//
//	expr    = or
//	or      = and { "or" and }
//	and     = unaryNot { "and" unaryNot }
//	unaryNot = "not" unaryNot | cmp
//	cmp     = sum [ ("=="|"!="|"<"|"<="|">"|">="|"in"|"not in") sum ]
//	sum     = term { ("+"|"-") term }
//	term    = unary { ("*"|"/"|"%") unary }
//	unary   = "-" unary | postfix
//	postfix = primary { "." ident | "[" expr "]" }
//	primary = literal | ident | ident "(" args ")" | "(" expr ")"
//
// Calls attach to bare identifiers only, which is what keeps the function
// namespace a closed allow-list: there is no way to reach a method or an
// arbitrary callable through attribute access.
type node interface {
	eval(sc *scope) (any, error)
}

type literalNode struct{ val any }

type identNode struct {
	name string
	pos  int
}

type attrNode struct {
	recv node
	name string
	pos  int
}

type indexNode struct {
	recv node
	idx  node
	pos  int
}

type callNode struct {
	fn   string
	args []node
	pos  int
}

type unaryNode struct {
	op   string // "not" or "-"
	expr node
	pos  int
}

type binaryNode struct {
	op       string
	lhs, rhs node
	pos      int
}

type parser struct {
	toks []token
	pos  int
}

// compile parses the expression to an evaluable tree.
func compile(src string) (node, error) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.peek().text, p.peek().pos)
	}
	return root, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token { t := p.toks[p.pos]; p.pos++; return t }

func (p *parser) accept(kind tokenKind) bool {
	if p.peek().kind == kind {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	if p.peek().kind != kind {
		return token{}, fmt.Errorf("expected %s at offset %d, found %q", what, p.peek().pos, p.peek().text)
	}
	return p.next(), nil
}

func (p *parser) parseOr() (node, error) {
	lhs, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		pos := p.next().pos
		rhs, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		lhs = &binaryNode{op: "or", lhs: lhs, rhs: rhs, pos: pos}
	}
	return lhs, nil
}

func (p *parser) parseAnd() (node, error) {
	lhs, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		pos := p.next().pos
		rhs, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		lhs = &binaryNode{op: "and", lhs: lhs, rhs: rhs, pos: pos}
	}
	return lhs, nil
}

func (p *parser) parseNot() (node, error) {
	if p.peek().kind == tokNot {
		pos := p.next().pos
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: "not", expr: expr, pos: pos}, nil
	}
	return p.parseCmp()
}

func (p *parser) parseCmp() (node, error) {
	lhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	switch p.peek().kind {
	case tokCmp:
		op := p.next()
		rhs, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: op.text, lhs: lhs, rhs: rhs, pos: op.pos}, nil
	case tokIn:
		pos := p.next().pos
		rhs, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return &binaryNode{op: "in", lhs: lhs, rhs: rhs, pos: pos}, nil
	case tokNot:
		// "x not in y" is the only postfix use of "not".
		pos := p.next().pos
		if _, err := p.expect(tokIn, `"in"`); err != nil {
			return nil, err
		}
		rhs, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: "not", pos: pos, expr: &binaryNode{op: "in", lhs: lhs, rhs: rhs, pos: pos}}, nil
	}
	return lhs, nil
}

func (p *parser) parseSum() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &binaryNode{op: op.text, lhs: lhs, rhs: rhs, pos: op.pos}
	}
	return lhs, nil
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "*" || p.peek().text == "/" || p.peek().text == "%") {
		op := p.next()
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &binaryNode{op: op.text, lhs: lhs, rhs: rhs, pos: op.pos}
	}
	return lhs, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.peek().kind == tokOp && p.peek().text == "-" {
		pos := p.next().pos
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryNode{op: "-", expr: expr, pos: pos}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (node, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.peek().kind == tokDot:
			pos := p.next().pos
			name, err := p.expect(tokIdent, "attribute name")
			if err != nil {
				return nil, err
			}
			expr = &attrNode{recv: expr, name: name.text, pos: pos}
		case p.peek().kind == tokLBrack:
			pos := p.next().pos
			idx, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBrack, `"]"`); err != nil {
				return nil, err
			}
			expr = &indexNode{recv: expr, idx: idx, pos: pos}
		default:
			return expr, nil
		}
	}
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.peek()
	switch tok.kind {
	case tokNumber:
		p.next()
		if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
			return &literalNode{val: i}, nil
		}
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q at offset %d", tok.text, tok.pos)
		}
		return &literalNode{val: f}, nil
	case tokString:
		p.next()
		return &literalNode{val: tok.text}, nil
	case tokIdent:
		p.next()
		switch tok.text {
		case "True", "true":
			return &literalNode{val: true}, nil
		case "False", "false":
			return &literalNode{val: false}, nil
		case "None", "none", "null":
			return &literalNode{val: nil}, nil
		}
		if p.peek().kind == tokLParen {
			p.next()
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &callNode{fn: tok.text, args: args, pos: tok.pos}, nil
		}
		return &identNode{name: tok.text, pos: tok.pos}, nil
	case tokLParen:
		p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, fmt.Errorf("unexpected %q at offset %d", tok.text, tok.pos)
}

func (p *parser) parseArgs() ([]node, error) {
	var args []node
	if p.accept(tokRParen) {
		return args, nil
	}
	for {
		arg, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.accept(tokComma) {
			continue
		}
		if _, err := p.expect(tokRParen, `")"`); err != nil {
			return nil, err
		}
		return args, nil
	}
}
