package plain

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// parsePyLiteral parses the literal subset older clipboard text was written
// in: dicts, lists, tuples, single- or double-quoted strings, numbers, and
// the True/False/None keywords. The result uses the same Go shapes the JSON
// decoder produces.
func parsePyLiteral(src string) (any, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	value, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("trailing text at offset %d", p.pos)
	}
	return value, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of text")
	}
	switch c := p.src[p.pos]; {
	case c == '{':
		return p.dict()
	case c == '[':
		return p.list(']')
	case c == '(':
		return p.list(')')
	case c == '\'' || c == '"':
		return p.quoted()
	case c == '-' || c >= '0' && c <= '9':
		return p.number()
	default:
		return p.keyword()
	}
}

func (p *literalParser) dict() (any, error) {
	p.pos++ // '{'
	out := map[string]any{}
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		key, err := p.value()
		if err != nil {
			return nil, err
		}
		name, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("dict key must be a string, got %T", key)
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, fmt.Errorf("expected ':' at offset %d", p.pos)
		}
		p.pos++
		p.skipSpace()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out[name] = val
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == '}' {
				p.pos++
				return out, nil
			}
		case '}':
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

func (p *literalParser) list(close byte) (any, error) {
	p.pos++ // '[' or '('
	out := []any{}
	p.skipSpace()
	if p.peek() == close {
		p.pos++
		return out, nil
	}
	for {
		p.skipSpace()
		val, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, val)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			p.skipSpace()
			if p.peek() == close {
				p.pos++
				return out, nil
			}
		case close:
			p.pos++
			return out, nil
		default:
			return nil, fmt.Errorf("expected ',' or %q at offset %d", string(close), p.pos)
		}
	}
}

func (p *literalParser) quoted() (any, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return nil, fmt.Errorf("unterminated escape")
			}
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(e)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		// Exponent sign.
		if (c == '+' || c == '-') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", text)
	}
	return f, nil
}

func (p *literalParser) keyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsLetter(rune(p.src[p.pos])) || p.src[p.pos] == '_') {
		p.pos++
	}
	switch word := p.src[start:p.pos]; word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %q at offset %d", word, start)
	}
}

func (p *literalParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}
