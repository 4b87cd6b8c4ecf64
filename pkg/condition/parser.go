package condition

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SyntaxError reports a malformed expression.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("condition: %s at offset %d", e.Msg, e.Pos)
}

// Expr is a compiled condition. The zero value and an empty source are
// always true.
type Expr struct {
	src    string
	root   node
	fields []string
}

// Parse compiles src.
func Parse(src string) (*Expr, error) {
	expr := &Expr{src: src}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return expr, nil
	}

	p := &parser{tokens: tokens, end: len(src)}
	root, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		tok := p.tokens[p.pos]
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %q", tok.text)}
	}
	expr.root = root
	expr.fields = p.sortedFields()
	return expr, nil
}

// MustParse is Parse that panics on error. Useful for tests and constants.
func MustParse(src string) *Expr {
	expr, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return expr
}

// String returns the source text.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	return e.src
}

// Fields returns the distinct root identifiers the expression reads, sorted.
// For a dotted path only the first segment is reported.
func (e *Expr) Fields() []string {
	if e == nil {
		return nil
	}
	return append([]string(nil), e.fields...)
}

// Eval evaluates the expression against values keyed by field identifier.
// Missing fields read as null.
func (e *Expr) Eval(values map[string]any) bool {
	if e == nil || e.root == nil {
		return true
	}
	return e.root.eval(values)
}

type parser struct {
	tokens []token
	pos    int
	end    int
	seen   map[string]struct{}
}

func (p *parser) sortedFields() []string {
	out := make([]string, 0, len(p.seen))
	for name := range p.seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (p *parser) peek(kind tokenKind) bool {
	return p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind
}

func (p *parser) accept(kind tokenKind) (token, bool) {
	if !p.peek(kind) {
		return token{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

func (p *parser) errorf(format string, args ...any) error {
	pos := p.end
	if p.pos < len(p.tokens) {
		pos = p.tokens[p.pos].pos
	}
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(tokOr); !ok {
			return left, nil
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left, right}
	}
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		if _, ok := p.accept(tokAnd); !ok {
			return left, nil
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left, right}
	}
}

func (p *parser) unary() (node, error) {
	if _, ok := p.accept(tokNot); ok {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if _, ok := p.accept(tokLParen); ok {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(tokRParen); !ok {
			return nil, p.errorf("missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := p.accept(tokIdent)
	if !ok {
		if p.pos >= len(p.tokens) {
			return nil, p.errorf("expected a field name")
		}
		return nil, p.errorf("expected a field name, got %q", p.tokens[p.pos].text)
	}
	p.record(ident.text)

	for _, kind := range []tokenKind{tokEq, tokNeq} {
		if _, ok := p.accept(kind); ok {
			lit, err := p.literal()
			if err != nil {
				return nil, err
			}
			return compareNode{path: ident.text, negate: kind == tokNeq, want: lit}, nil
		}
	}
	return truthNode{path: ident.text}, nil
}

func (p *parser) literal() (value, error) {
	if p.pos >= len(p.tokens) {
		return value{}, p.errorf("missing value after comparison")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokString, tokIdent:
		return value{kind: kindString, s: tok.text}, nil
	case tokNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return value{}, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("invalid number %q", tok.text)}
		}
		return value{kind: kindNumber, n: n}, nil
	case tokBool:
		return value{kind: kindBool, b: tok.text == "true"}, nil
	case tokNull:
		return value{kind: kindNull}, nil
	default:
		return value{}, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected a value, got %q", tok.text)}
	}
}

func (p *parser) record(path string) {
	if p.seen == nil {
		p.seen = make(map[string]struct{})
	}
	root := path
	if idx := strings.IndexByte(path, '.'); idx > 0 {
		root = path[:idx]
	}
	p.seen[root] = struct{}{}
}
