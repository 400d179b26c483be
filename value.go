package shi

import "fmt"

// Tag discriminates the variant a cell holds. The zero value is never
// assigned to a live cell so a stray zeroed cell is easy to spot.
type Tag byte

const (
	tagInvalid Tag = iota
	TagInt
	TagStr
	TagSym
	TagCell
	TagObj
	TagPrim
	TagFn
	TagMac
	TagMoved
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "int"
	case TagStr:
		return "str"
	case TagSym:
		return "sym"
	case TagCell:
		return "cons"
	case TagObj:
		return "obj"
	case TagPrim:
		return "prim"
	case TagFn:
		return "fn"
	case TagMac:
		return "macro"
	case TagMoved:
		return "<moved>"
	default:
		return "<invalid>"
	}
}

// Ref addresses a value. Non-negative values index the active
// semispace; negative values name one of the static singletons, which
// are never allocated, scanned, or relocated by the collector.
type Ref int32

const (
	RefNil    Ref = -1
	RefTrue   Ref = -2
	RefDot    Ref = -3
	RefCparen Ref = -4
	RefCcurly Ref = -5
)

func (r Ref) IsSingleton() bool { return r < 0 }

// PrimFunc is a host-implemented primitive. It receives the raw,
// unevaluated argument list: the primitive itself decides which (if
// any) arguments to evaluate, per spec.md §4.7.
type PrimFunc func(rt *Runtime, env Ref, args Ref) (Ref, error)

// Primitive is the payload of a TagPrim cell. The evaluator never
// introspects it beyond invoking Fn.
type Primitive struct {
	Name string
	Fn   PrimFunc
}

// cell is the flat, tagged union backing every heap value. Only the
// fields relevant to Tag are meaningful; the others are zero. This
// mirrors spec.md §4.1's "header (tag + total size)" bump-allocated
// record: a single fixed-layout struct that the collector can memcpy
// wholesale when relocating (see gc.go).
type cell struct {
	tag Tag

	i int64  // TagInt
	s string // TagStr, TagSym (symbol name)

	car, cdr Ref // TagCell
	next     Ref // TagSym: intern-list link

	proto   Ref   // TagObj
	buckets []Ref // TagObj: each a Ref to an alist head (RefNil or TagCell)

	params, body, env Ref // TagFn, TagMac

	prim *Primitive // TagPrim

	fwd Ref // TagMoved: forwarding address in the to-space
}

func (rt *Runtime) cellAt(r Ref) *cell {
	if r.IsSingleton() {
		panic("shi: cellAt called on a singleton ref")
	}
	return &rt.heap.active.cells[r]
}

// Type returns the interned symbol naming r's dynamic type, per
// spec.md §4.8 ("type returns one of the symbols
// true|nil|int|str|sym|obj|prim|fn|macro|cons|list").
func (rt *Runtime) Type(r Ref) Ref {
	switch r {
	case RefNil:
		return rt.internSym("nil")
	case RefTrue:
		return rt.internSym("true")
	}
	switch rt.cellAt(r).tag {
	case TagInt:
		return rt.internSym("int")
	case TagStr:
		return rt.internSym("str")
	case TagSym:
		return rt.internSym("sym")
	case TagObj:
		return rt.internSym("obj")
	case TagPrim:
		return rt.internSym("prim")
	case TagFn:
		return rt.internSym("fn")
	case TagMac:
		return rt.internSym("macro")
	case TagCell:
		if rt.isProperList(r) {
			return rt.internSym("list")
		}
		return rt.internSym("cons")
	default:
		panic(fmt.Sprintf("shi: Type: unexpected tag %v", rt.cellAt(r).tag))
	}
}

func (rt *Runtime) isProperList(r Ref) bool {
	for r != RefNil {
		if r.IsSingleton() || rt.cellAt(r).tag != TagCell {
			return false
		}
		r = rt.cellAt(r).cdr
	}
	return true
}

// Cons allocates a fresh TagCell cell. It protects car/cdr in their
// own root frame for the duration of the allocation, so callers may
// pass values that are not reachable from any other root at the call
// site (spec.md §4.3: the allocating helper, not the caller, is on the
// hook for anything it needs to survive its own allocation).
func (rt *Runtime) Cons(car, cdr Ref) Ref {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&car)
	f.Add(&cdr)
	r, c := rt.alloc(TagCell)
	c.car, c.cdr = car, cdr
	return r
}

func (rt *Runtime) Car(r Ref) Ref {
	if r == RefNil {
		return RefNil
	}
	c := rt.cellAt(r)
	if c.tag != TagCell {
		panic(rt.typeErrorf(r, "cons", "car"))
	}
	return c.car
}

func (rt *Runtime) Cdr(r Ref) Ref {
	if r == RefNil {
		return RefNil
	}
	c := rt.cellAt(r)
	if c.tag != TagCell {
		panic(rt.typeErrorf(r, "cons", "cdr"))
	}
	return c.cdr
}

// NewInt allocates a TagInt cell.
func (rt *Runtime) NewInt(v int64) Ref {
	r, c := rt.alloc(TagInt)
	c.i = v
	return r
}

func (rt *Runtime) IntVal(r Ref) int64 {
	c := rt.cellAt(r)
	if c.tag != TagInt {
		panic(rt.typeErrorf(r, "int", "arithmetic"))
	}
	return c.i
}

// NewStr allocates a TagStr cell. Strings are not interned: two
// separately-built strings with equal content are distinct by eq?
// (spec.md §8 property 3).
func (rt *Runtime) NewStr(v string) Ref {
	r, c := rt.alloc(TagStr)
	c.s = v
	return r
}

func (rt *Runtime) StrVal(r Ref) string {
	c := rt.cellAt(r)
	if c.tag != TagStr {
		panic(rt.typeErrorf(r, "str", "string op"))
	}
	return c.s
}

func (rt *Runtime) SymName(r Ref) string {
	c := rt.cellAt(r)
	if c.tag != TagSym {
		panic(rt.typeErrorf(r, "sym", "symbol op"))
	}
	return c.s
}

// IsTruthy follows Lisp convention: everything but Nil is true.
func IsTruthy(r Ref) bool { return r != RefNil }

func BoolRef(b bool) Ref {
	if b {
		return RefTrue
	}
	return RefNil
}

// Eq implements eq? identity comparison: addresses (and, for Int,
// values) compare equal; strings never do (spec.md §8 property 3).
func (rt *Runtime) Eq(a, b Ref) bool {
	if a == b {
		return true
	}
	if a.IsSingleton() || b.IsSingleton() {
		return false
	}
	ca, cb := rt.cellAt(a), rt.cellAt(b)
	if ca.tag != cb.tag {
		return false
	}
	if ca.tag == TagInt {
		return ca.i == cb.i
	}
	return false
}
