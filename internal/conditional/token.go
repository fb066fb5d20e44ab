package conditional

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokOp     // + - * / %
	tokCmp    // == != < <= > >=
	tokLParen // (
	tokRParen // )
	tokLBrack // [
	tokRBrack // ]
	tokDot
	tokComma
	tokAnd
	tokOr
	tokNot
	tokIn
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type scanner struct {
	src  string
	pos  int
	toks []token
}

// scan tokenizes the whole expression up front; a parse never touches the
// raw source again.
func scan(src string) ([]token, error) {
	s := &scanner{src: src}
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			s.pos++
		case ch == '(':
			s.push(tokLParen, "(")
		case ch == ')':
			s.push(tokRParen, ")")
		case ch == '[':
			s.push(tokLBrack, "[")
		case ch == ']':
			s.push(tokRBrack, "]")
		case ch == '.':
			s.push(tokDot, ".")
		case ch == ',':
			s.push(tokComma, ",")
		case ch == '+' || ch == '-' || ch == '*' || ch == '/' || ch == '%':
			s.push(tokOp, string(ch))
		case ch == '=' || ch == '!' || ch == '<' || ch == '>':
			if err := s.scanCmp(); err != nil {
				return nil, err
			}
		case ch == '"' || ch == '\'':
			if err := s.scanString(ch); err != nil {
				return nil, err
			}
		case unicode.IsDigit(rune(ch)):
			s.scanNumber()
		case unicode.IsLetter(rune(ch)) || ch == '_':
			s.scanIdent()
		default:
			return nil, fmt.Errorf("unexpected character %q at offset %d", ch, s.pos)
		}
	}
	s.toks = append(s.toks, token{kind: tokEOF, pos: len(src)})
	return s.toks, nil
}

func (s *scanner) push(kind tokenKind, text string) {
	s.toks = append(s.toks, token{kind: kind, text: text, pos: s.pos})
	s.pos += len(text)
}

func (s *scanner) scanCmp() error {
	start := s.pos
	ch := s.src[s.pos]
	two := s.pos+1 < len(s.src) && s.src[s.pos+1] == '='
	switch {
	case ch == '=' && two:
		s.push(tokCmp, "==")
	case ch == '!' && two:
		s.push(tokCmp, "!=")
	case ch == '<':
		if two {
			s.push(tokCmp, "<=")
		} else {
			s.push(tokCmp, "<")
		}
	case ch == '>':
		if two {
			s.push(tokCmp, ">=")
		} else {
			s.push(tokCmp, ">")
		}
	default:
		return fmt.Errorf("unexpected character %q at offset %d", ch, start)
	}
	return nil
}

func (s *scanner) scanString(quote byte) error {
	start := s.pos
	s.pos++
	var sb strings.Builder
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if ch == '\\' && s.pos+1 < len(s.src) {
			next := s.src[s.pos+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				sb.WriteByte(next)
			}
			s.pos += 2
			continue
		}
		if ch == quote {
			s.pos++
			s.toks = append(s.toks, token{kind: tokString, text: sb.String(), pos: start})
			return nil
		}
		sb.WriteByte(ch)
		s.pos++
	}
	return fmt.Errorf("unterminated string at offset %d", start)
}

func (s *scanner) scanNumber() {
	start := s.pos
	seenDot := false
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if ch == '.' && !seenDot {
			// A trailing attribute access after a digit run is ambiguous in
			// principle, but conditional expressions never attribute off a
			// numeric literal, so the dot always belongs to the number.
			seenDot = true
			s.pos++
			continue
		}
		if !unicode.IsDigit(rune(ch)) {
			break
		}
		s.pos++
	}
	s.toks = append(s.toks, token{kind: tokNumber, text: s.src[start:s.pos], pos: start})
}

func (s *scanner) scanIdent() {
	start := s.pos
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if !unicode.IsLetter(rune(ch)) && !unicode.IsDigit(rune(ch)) && ch != '_' {
			break
		}
		s.pos++
	}
	text := s.src[start:s.pos]
	kind := tokIdent
	switch text {
	case "and":
		kind = tokAnd
	case "or":
		kind = tokOr
	case "not":
		kind = tokNot
	case "in":
		kind = tokIn
	}
	s.toks = append(s.toks, token{kind: kind, text: text, pos: start})
}
