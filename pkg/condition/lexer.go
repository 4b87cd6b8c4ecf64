package condition

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokNull
	tokEq
	tokNeq
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits src into tokens. Positions are byte offsets used in errors.
func lex(src string) ([]token, error) {
	var out []token
	for i := 0; i < len(src); {
		ch := src[i]
		switch {
		case isSpace(ch):
			i++
		case ch == '(':
			out = append(out, token{tokLParen, "(", i})
			i++
		case ch == ')':
			out = append(out, token{tokRParen, ")", i})
			i++
		case ch == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				out = append(out, token{tokNeq, "!=", i})
				i += 2
			} else {
				out = append(out, token{tokNot, "!", i})
				i++
			}
		case ch == '=' || ch == '&' || ch == '|':
			if i+1 >= len(src) || src[i+1] != ch {
				return nil, &SyntaxError{Pos: i, Msg: fmt.Sprintf("unexpected %q, use %q", ch, string([]byte{ch, ch}))}
			}
			kind := map[byte]tokenKind{'=': tokEq, '&': tokAnd, '|': tokOr}[ch]
			out = append(out, token{kind, src[i : i+2], i})
			i += 2
		case ch == '"' || ch == '\'':
			text, n, err := readString(src[i:])
			if err != nil {
				return nil, &SyntaxError{Pos: i, Msg: err.Error()}
			}
			out = append(out, token{tokString, text, i})
			i += n
		default:
			start := i
			for i < len(src) && !isSpace(src[i]) && !strings.ContainsRune("()!=&|\"'", rune(src[i])) {
				i++
			}
			word := src[start:i]
			out = append(out, classify(word, start))
		}
	}
	return out, nil
}

func classify(word string, pos int) token {
	switch strings.ToLower(word) {
	case "true", "false":
		return token{tokBool, strings.ToLower(word), pos}
	case "null", "nil":
		return token{tokNull, "null", pos}
	}
	if c := word[0]; (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.' {
		return token{tokNumber, word, pos}
	}
	return token{tokIdent, word, pos}
}

// readString consumes a quoted literal at the start of s and returns its
// unescaped value and the number of bytes consumed.
func readString(s string) (string, int, error) {
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && i+1 < len(s):
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(s[i])
			}
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
