package formula

import (
	"fmt"
	"strconv"
	"unicode"
)

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokIdent
	tokOp // + - * /
	tokLParen
	tokRParen
	tokBad
)

type token struct {
	kind tokKind
	text string
}

func lex(src string) []token {
	var toks []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case r == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/':
			toks = append(toks, token{tokOp, string(r)})
			i++
		case r == '`':
			j := i + 1
			for j < len(runes) && runes[j] != '`' {
				j++
			}
			if j >= len(runes) {
				toks = append(toks, token{tokBad, "unterminated `"})
				return toks
			}
			toks = append(toks, token{tokIdent, string(runes[i+1 : j])})
			i = j + 1
		case unicode.IsDigit(r) || r == '.':
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.' || runes[j] == 'e' || runes[j] == 'E') {
				j++
			}
			toks = append(toks, token{tokNum, string(runes[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			toks = append(toks, token{tokIdent, string(runes[i:j])})
			i = j
		default:
			toks = append(toks, token{tokBad, string(r)})
			return toks
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEnd() bool { return p.peek().kind == tokEOF }

// parseExpr handles + and - (lowest precedence).
func (p *parser) parseExpr() (node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "+" || p.peek().text == "-") {
		op := p.next().text[0]
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseTerm handles * and /.
func (p *parser) parseTerm() (node, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOp && (p.peek().text == "*" || p.peek().text == "/") {
		op := p.next().text[0]
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = binNode{op: op, left: left, right: right}
	}
	return left, nil
}

// parseFactor handles literals, column refs, parens, and unary minus.
func (p *parser) parseFactor() (node, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		v, err := strconv.ParseFloat(t.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrParse, t.text)
		}
		return numNode(v), nil
	case tokIdent:
		return colNode(t.text), nil
	case tokLParen:
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRParen {
			return nil, fmt.Errorf("%w: missing closing parenthesis", ErrParse)
		}
		return inner, nil
	case tokOp:
		if t.text == "-" {
			child, err := p.parseFactor()
			if err != nil {
				return nil, err
			}
			return unaryNode{child: child}, nil
		}
		if t.text == "+" {
			return p.parseFactor()
		}
		return nil, fmt.Errorf("%w: unexpected operator %q", ErrParse, t.text)
	case tokBad:
		return nil, fmt.Errorf("%w: %s", ErrParse, t.text)
	default:
		return nil, fmt.Errorf("%w: unexpected end of expression", ErrParse)
	}
}
