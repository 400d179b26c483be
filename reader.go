package shi

import (
	"errors"
	"strconv"
	"strings"
)

// errReaderEOF signals "no more forms", distinct from a genuine
// reader error (malformed input).
var errReaderEOF = errors.New("shi: reader: eof")

const (
	maxSymbolLen = 200
	maxStringLen = 1000
)

// reader is a character-cursor recursive-descent reader, grounded on
// the teacher's BaseParser/GrammarParser pair (base_parser.go,
// grammar_parser.go): a []rune input with an integer cursor, a
// Peek/Any/Backtrack discipline, and line/column position tracking
// for error messages.
type reader struct {
	rt     *Runtime
	input  []rune
	cursor int
	line   int
	col    int
}

func newReader(rt *Runtime, src string) *reader {
	return &reader{rt: rt, input: []rune(src), line: 1, col: 1}
}

func (r *reader) pos() Pos { return Pos{Line: r.line, Col: r.col} }

func (r *reader) eof() bool { return r.cursor >= len(r.input) }

func (r *reader) peek() rune {
	if r.eof() {
		return 0
	}
	return r.input[r.cursor]
}

func (r *reader) peekAt(off int) rune {
	if r.cursor+off >= len(r.input) {
		return 0
	}
	return r.input[r.cursor+off]
}

func (r *reader) advance() rune {
	c := r.input[r.cursor]
	r.cursor++
	if c == '\n' {
		r.line++
		r.col = 1
	} else {
		r.col++
	}
	return c
}

func (r *reader) readerErrorf(format string, args ...any) error {
	e := newError(ErrReader, format, args...)
	e.Pos = r.pos()
	return e
}

// skipAtmosphere consumes whitespace, `;` line comments, and — only
// at the very first character of the whole input — a `#`-prefixed
// shebang line (spec.md §4.4).
func (r *reader) skipAtmosphere() {
	first := r.cursor == 0
	for {
		if first && !r.eof() && r.peek() == '#' {
			for !r.eof() && r.peek() != '\n' {
				r.advance()
			}
			first = false
			continue
		}
		first = false
		switch {
		case !r.eof() && isSpace(r.peek()):
			r.advance()
		case !r.eof() && r.peek() == ';':
			for !r.eof() && r.peek() != '\n' {
				r.advance()
			}
		default:
			return
		}
	}
}

func isSpace(c rune) bool { return c == ' ' || c == '\t' || c == '\r' || c == '\n' }

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

func isSymbolRune(c rune) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '~', '!', '#', '$', '%', '^', '&', '*', '_', '=', '+', ':', '/', '?', '<', '>', '-':
		return true
	}
	return false
}

// readForm reads one top-level value, or errReaderEOF if input is
// exhausted.
func (r *reader) readForm() (Ref, error) {
	r.skipAtmosphere()
	if r.eof() {
		return RefNil, errReaderEOF
	}
	return r.readExpr()
}

func (r *reader) readExpr() (Ref, error) {
	r.skipAtmosphere()
	if r.eof() {
		return RefNil, r.readerErrorf("unexpected end of input")
	}
	c := r.peek()
	switch {
	case c == '(':
		return r.readList('(', ')')
	case c == ')':
		return RefNil, r.readerErrorf("stray )")
	case c == '{':
		return r.readObjLiteral()
	case c == '}':
		return RefNil, r.readerErrorf("stray }")
	case c == '\'':
		r.advance()
		return r.readWrapped("quote")
	case c == '`':
		r.advance()
		return r.readWrapped("quasiquote")
	case c == ',':
		r.advance()
		if r.peek() == '@' {
			r.advance()
			return r.readWrapped("unquote-splicing")
		}
		return r.readWrapped("unquote")
	case c == '@':
		r.advance()
		return r.readWrapped("unbox")
	case c == '"':
		return r.readString()
	case c == '-' && isDigit(r.peekAt(1)):
		return r.readInt()
	case isDigit(c):
		return r.readInt()
	case isSymbolRune(c):
		return r.readSymbolOrColon()
	default:
		return RefNil, r.readerErrorf("unknown character: %q", c)
	}
}

func (r *reader) readWrapped(head string) (Ref, error) {
	f := r.rt.PushFrame()
	defer r.rt.PopFrame(f)
	inner, err := r.readExpr()
	if err != nil {
		return RefNil, err
	}
	f.Add(&inner)
	sym := r.rt.internSym(head)
	f.Add(&sym)
	tail := r.rt.Cons(inner, RefNil)
	f.Add(&tail)
	return r.rt.Cons(sym, tail), nil
}

// readList parses `(` ... `)`, a proper or dotted list, where `.`
// introduces the tail.
func (r *reader) readList(open, close rune) (Ref, error) {
	r.advance() // consume open
	f := r.rt.PushFrame()
	defer r.rt.PopFrame(f)

	// Each item gets its own heap-escaped variable registered in f, so
	// a GC triggered by reading a LATER item still rewrites EARLIER
	// items in place. A slice of plain Refs would only hold stale
	// snapshots once the frame updates the original variables.
	var itemSlots []*Ref
	tail := RefNil
	f.Add(&tail)
	for {
		r.skipAtmosphere()
		if r.eof() {
			return RefNil, r.readerErrorf("unclosed list")
		}
		if r.peek() == close {
			r.advance()
			break
		}
		if r.peek() == '.' && isSpace(r.peekAt(1)) {
			r.advance()
			t, err := r.readExpr()
			if err != nil {
				return RefNil, err
			}
			tail = t
			r.skipAtmosphere()
			if r.eof() || r.peek() != close {
				return RefNil, r.readerErrorf("malformed dotted list")
			}
			r.advance()
			break
		}
		item, err := r.readExpr()
		if err != nil {
			return RefNil, err
		}
		slot := new(Ref)
		*slot = item
		f.Add(slot)
		itemSlots = append(itemSlots, slot)
	}
	result := tail
	f.Add(&result)
	for i := len(itemSlots) - 1; i >= 0; i-- {
		result = r.rt.Cons(*itemSlots[i], result)
	}
	return result, nil
}

func (r *reader) readObjLiteral() (Ref, error) {
	r.advance() // consume '{'
	f := r.rt.PushFrame()
	defer r.rt.PopFrame(f)

	var itemSlots []*Ref
	for {
		r.skipAtmosphere()
		if r.eof() {
			return RefNil, r.readerErrorf("unclosed {")
		}
		if r.peek() == '}' {
			r.advance()
			break
		}
		item, err := r.readExpr()
		if err != nil {
			return RefNil, err
		}
		slot := new(Ref)
		*slot = item
		f.Add(slot)
		itemSlots = append(itemSlots, slot)
	}
	if len(itemSlots)%2 != 0 {
		return RefNil, r.readerErrorf("{} literal needs an even number of key/value forms")
	}
	// Desugar to (list (cons k1 v1) (cons k2 v2) ...).
	listSym := r.rt.internSym("list")
	consSym := r.rt.internSym("cons")
	f.Add(&listSym)
	f.Add(&consSym)
	callArgs := RefNil
	f.Add(&callArgs)
	for i := len(itemSlots) - 2; i >= 0; i -= 2 {
		k, v := *itemSlots[i], *itemSlots[i+1]
		pairForm := r.rt.Cons(v, RefNil)
		f.Add(&pairForm)
		pairForm = r.rt.Cons(k, pairForm)
		f.Add(&pairForm)
		call := r.rt.Cons(consSym, pairForm)
		f.Add(&call)
		callArgs = r.rt.Cons(call, callArgs)
	}
	return r.rt.Cons(listSym, callArgs), nil
}

// readSymbolOrColon reads a bare symbol, applying colon desugaring
// (spec.md §4.4): a symbol containing exactly one `:` splits into
// `(: obj 'key)`.
func (r *reader) readSymbolOrColon() (Ref, error) {
	start := r.cursor
	for !r.eof() && isSymbolRune(r.peek()) {
		r.advance()
	}
	text := string(r.input[start:r.cursor])
	if len(text) > maxSymbolLen {
		return RefNil, r.readerErrorf("symbol too long: %d > %d", len(text), maxSymbolLen)
	}
	switch text {
	case "nil":
		return RefNil, nil
	case "t":
		return RefTrue, nil
	}
	idx := strings.IndexByte(text, ':')
	if idx < 0 || strings.Count(text, ":") != 1 || idx == 0 || idx == len(text)-1 {
		return r.rt.internSym(text), nil
	}
	objName, keyName := text[:idx], text[idx+1:]
	f := r.rt.PushFrame()
	defer r.rt.PopFrame(f)
	objSym := r.rt.internSym(objName)
	f.Add(&objSym)
	keySym := r.rt.internSym(keyName)
	f.Add(&keySym)
	quoteSym := r.rt.internSym("quote")
	f.Add(&quoteSym)
	colonSym := r.rt.internSym(":")
	f.Add(&colonSym)
	quotedKey := r.rt.Cons(keySym, RefNil)
	f.Add(&quotedKey)
	quotedKey = r.rt.Cons(quoteSym, quotedKey)
	f.Add(&quotedKey)
	args := r.rt.Cons(quotedKey, RefNil)
	f.Add(&args)
	args = r.rt.Cons(objSym, args)
	f.Add(&args)
	return r.rt.Cons(colonSym, args), nil
}

func (r *reader) readInt() (Ref, error) {
	start := r.cursor
	if r.peek() == '-' {
		r.advance()
	}
	for !r.eof() && isDigit(r.peek()) {
		r.advance()
	}
	text := string(r.input[start:r.cursor])
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return RefNil, r.readerErrorf("malformed integer: %s", text)
	}
	return r.rt.NewInt(v), nil
}

// readString reads a "..." literal, processing \n \r \t \" \\ and
// UTF-8-aware \xHH / \uHHHH escapes via strconv.UnquoteChar — the
// out-of-scope "UTF-8 escape processing" collaborator from spec.md §1,
// satisfied with the standard library's own escape decoder rather
// than a hand-rolled one (see SPEC_FULL.md DOMAIN STACK).
func (r *reader) readString() (Ref, error) {
	r.advance() // consume opening quote
	var sb strings.Builder
	for {
		if r.eof() {
			return RefNil, r.readerErrorf("unclosed string")
		}
		if r.peek() == '"' {
			r.advance()
			break
		}
		if sb.Len() > maxStringLen {
			return RefNil, r.readerErrorf("string too long: > %d", maxStringLen)
		}
		if r.peek() == '\\' {
			rest := string(r.input[r.cursor:])
			value, _, tail, err := strconv.UnquoteChar(rest, '"')
			if err != nil {
				return RefNil, r.readerErrorf("bad escape sequence")
			}
			consumed := len(rest) - len(tail)
			for i := 0; i < consumed; i++ {
				r.advance()
			}
			sb.WriteRune(value)
			continue
		}
		sb.WriteRune(r.advance())
	}
	if sb.Len() > maxStringLen {
		return RefNil, r.readerErrorf("string too long: > %d", maxStringLen)
	}
	return r.rt.NewStr(sb.String()), nil
}
