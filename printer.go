package shi

import "strconv"

// printRef renders r as Shi source text. Every variant has its own
// case, mirroring the teacher's per-Value String(input []byte) string
// methods in go/value.go. This backs both the `pr-str` primitive and
// error messages that need to show a value.
func (rt *Runtime) printRef(r Ref) string {
	switch r {
	case RefNil:
		return "nil"
	case RefTrue:
		return "t"
	}
	c := rt.cellAt(r)
	switch c.tag {
	case TagInt:
		return strconv.FormatInt(c.i, 10)
	case TagStr:
		return strconv.Quote(c.s)
	case TagSym:
		return c.s
	case TagCell:
		return rt.printList(r)
	case TagObj:
		return "#<obj>"
	case TagPrim:
		return "#<prim:" + c.prim.Name + ">"
	case TagFn:
		return "#<fn>"
	case TagMac:
		return "#<macro>"
	default:
		return "#<?>"
	}
}

func (rt *Runtime) printList(r Ref) string {
	out := "("
	first := true
	cur := r
	for {
		c := rt.cellAt(cur)
		if !first {
			out += " "
		}
		first = false
		out += rt.printRef(c.car)
		cur = c.cdr
		if cur == RefNil {
			break
		}
		if cur.IsSingleton() || rt.cellAt(cur).tag != TagCell {
			out += " . " + rt.printRef(cur)
			break
		}
	}
	return out + ")"
}
