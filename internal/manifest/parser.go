package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1 << 20

// ScanFile reads a component file and returns its declaration. It returns
// (nil, nil) when the file declares no public struct. Errors are prefixed
// with the file path.
func ScanFile(path string) (*Declaration, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	defer f.Close()

	decl, err := Scan(f, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return decl, nil
}

// Scan reads component source from r. The first public struct declaration
// names the component and the first capacity comment sets its capacity.
// Every line containing the update marker must match the update signature
// grammar; its parameters are appended to the requirements in order.
func Scan(r io.Reader, path string) (*Declaration, error) {
	var (
		name     string
		capacity int
		reqs     []Requirement
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		lx := lexLine(text)

		if name == "" {
			if n, ok := matchRecord(lx.code); ok {
				name = n
			}
		}

		if capacity == 0 && lx.hasComment {
			c, ok, err := matchCapacity(text, lx.comment)
			if err != nil {
				return nil, &LineError{Line: lineNo, Err: err}
			}
			if ok {
				capacity = c
			}
		}

		if fnIdx, ok := findUpdateMarker(lx.code); ok {
			params, err := parseUpdate(text, lx.code, fnIdx)
			if err != nil {
				return nil, &LineError{Line: lineNo, Err: err}
			}
			reqs = append(reqs, params...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	if name == "" {
		return nil, nil
	}
	return &Declaration{
		Name:         name,
		Capacity:     capacity,
		Requirements: reqs,
		Path:         path,
	}, nil
}

// matchRecord finds "pub const <Name> = struct" anywhere in the code tokens.
func matchRecord(code []token) (string, bool) {
	for i := 0; i+4 < len(code); i++ {
		if code[i].is(tokIdent, KeywordPublic) &&
			code[i+1].is(tokIdent, "const") &&
			code[i+2].kind == tokIdent &&
			code[i+3].is(tokSymbol, "=") &&
			code[i+4].is(tokIdent, "struct") {
			return code[i+2].text, true
		}
	}
	return "", false
}

// matchCapacity recognizes a comment whose body starts with "capacity = N".
// Doc comment markers ("///", "//!") are skipped. A zero capacity is an
// error; anything else that does not fit is ignored.
func matchCapacity(text, comment string) (int, bool, error) {
	body := lexLine(strings.TrimLeft(comment, "/!")).code
	if len(body) < 3 ||
		!body[0].is(tokIdent, "capacity") ||
		!body[1].is(tokSymbol, "=") ||
		body[2].kind != tokInt {
		return 0, false, nil
	}
	n, err := strconv.Atoi(body[2].text)
	if err != nil || n <= 0 {
		return 0, false, &CapacityError{Line: text, Value: body[2].text}
	}
	return n, true, nil
}

// findUpdateMarker returns the index of "fn" in a "fn update (" sequence.
func findUpdateMarker(code []token) (int, bool) {
	for i := 0; i+2 < len(code); i++ {
		if code[i].is(tokIdent, "fn") &&
			code[i+1].is(tokIdent, UpdateFunc) &&
			code[i+2].is(tokSymbol, "(") {
			return i, true
		}
	}
	return 0, false
}

// parseUpdate applies the signature grammar
//
//	[vis] fn update ( session [: type] , name : type {, name : type} ) ret
//
// to a line that carries the update marker at fnIdx. The grammar is checked
// first, then visibility, then the return type.
func parseUpdate(text string, code []token, fnIdx int) ([]Requirement, error) {
	c := &cursor{toks: code, pos: fnIdx + 3}
	fail := func(reason string) error {
		return &SignatureError{Line: text, Reason: reason}
	}

	if _, ok := c.ident(); !ok {
		return nil, fail("missing session parameter")
	}
	if c.symbol(":") {
		if _, ok := c.typeName(); !ok {
			return nil, fail("malformed session parameter type")
		}
	}
	if !c.symbol(",") {
		return nil, fail("missing requirement parameters")
	}

	var reqs []Requirement
	for {
		field, ok := c.ident()
		if !ok {
			return nil, fail("missing parameter name")
		}
		if !c.symbol(":") {
			return nil, fail(fmt.Sprintf("parameter %q has no type", field))
		}
		typ, ok := c.typeName()
		if !ok {
			return nil, fail(fmt.Sprintf("parameter %q has a malformed type", field))
		}
		reqs = append(reqs, Requirement{Field: field, Type: typ})

		if c.symbol(",") {
			continue
		}
		if c.symbol(")") {
			break
		}
		return nil, fail("expected ',' or ')'")
	}

	ret, ok := c.ident()
	if !ok {
		return nil, fail("missing return type")
	}

	visibility := ""
	if fnIdx > 0 && code[fnIdx-1].kind == tokIdent {
		visibility = code[fnIdx-1].text
	}
	if visibility != KeywordPublic {
		return nil, ErrNotPublic
	}
	if ret != BoolType {
		return nil, ErrReturnType
	}
	return reqs, nil
}

type cursor struct {
	toks []token
	pos  int
}

func (c *cursor) ident() (string, bool) {
	if c.pos < len(c.toks) && c.toks[c.pos].kind == tokIdent {
		c.pos++
		return c.toks[c.pos-1].text, true
	}
	return "", false
}

func (c *cursor) symbol(s string) bool {
	if c.pos < len(c.toks) && c.toks[c.pos].is(tokSymbol, s) {
		c.pos++
		return true
	}
	return false
}

// typeName accepts an identifier optionally prefixed by the optional marker,
// the indirection marker and a const qualifier, e.g. "?*const Position".
func (c *cursor) typeName() (string, bool) {
	var prefix strings.Builder
	if c.symbol(OptionalMarker) {
		prefix.WriteString(OptionalMarker)
	}
	if c.symbol(IndirectionMarker) {
		prefix.WriteString(IndirectionMarker)
		if c.peekIdent(ConstQualifier) && c.pos+1 < len(c.toks) && c.toks[c.pos+1].kind == tokIdent {
			c.pos++
			prefix.WriteString(ConstQualifier + " ")
		}
	}
	name, ok := c.ident()
	if !ok || name == ConstQualifier {
		return "", false
	}
	return prefix.String() + name, true
}

func (c *cursor) peekIdent(text string) bool {
	return c.pos < len(c.toks) && c.toks[c.pos].is(tokIdent, text)
}
