package manifest

import (
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokInt
	tokString
	tokSymbol
	tokComment
)

// token is one lexical unit of a source line. For comments, text holds the
// body after the leading "//".
type token struct {
	kind tokenKind
	text string
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

// line is a lexed source line split into code tokens and an optional
// trailing comment.
type line struct {
	code       []token
	comment    string
	hasComment bool
}

// lexLine tokenizes a single line. Identifiers, decimal integers, string and
// character literals and "//" comments are recognized; every other non-space
// rune becomes a one-rune symbol. A comment runs to the end of the line.
func lexLine(src string) line {
	var out line
	i := 0
	for i < len(src) {
		r, size := utf8.DecodeRuneInString(src[i:])

		switch {
		case unicode.IsSpace(r):
			i += size

		case r == '/' && i+1 < len(src) && src[i+1] == '/':
			out.comment = src[i+2:]
			out.hasComment = true
			return out

		case r == '\\' && i+1 < len(src) && src[i+1] == '\\':
			// Zig multiline string literal: the rest of the line is string content.
			out.code = append(out.code, token{kind: tokString, text: src[i+2:]})
			return out

		case r == '"' || r == '\'':
			end := scanQuoted(src, i+1, byte(r))
			out.code = append(out.code, token{kind: tokString, text: src[i:end]})
			i = end

		case isIdentStart(r):
			start := i
			i += size
			for i < len(src) {
				r, size = utf8.DecodeRuneInString(src[i:])
				if !isIdentStart(r) && !unicode.IsDigit(r) {
					break
				}
				i += size
			}
			out.code = append(out.code, token{kind: tokIdent, text: src[start:i]})

		case r >= '0' && r <= '9':
			start := i
			for i < len(src) && src[i] >= '0' && src[i] <= '9' {
				i++
			}
			out.code = append(out.code, token{kind: tokInt, text: src[start:i]})

		default:
			out.code = append(out.code, token{kind: tokSymbol, text: src[i : i+size]})
			i += size
		}
	}
	return out
}

// scanQuoted returns the index just past the closing quote, or len(src) when
// the literal is unterminated.
func scanQuoted(src string, i int, quote byte) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		}
		i++
	}
	return len(src)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
