package shi

// internSym returns the unique Sym cell for name, allocating one and
// prepending it to the intern list if this is the first sighting.
// Interning guarantees spec.md §8 property 3: two symbols with equal
// text share one address, so eq? reduces to address comparison.
func (rt *Runtime) internSym(name string) Ref {
	for cur := rt.symHead; cur != RefNil; cur = rt.cellAt(cur).next {
		if rt.cellAt(cur).s == name {
			return cur
		}
	}
	r, c := rt.alloc(TagSym)
	c.s = name
	c.next = rt.symHead
	rt.symHead = r
	return r
}

// Sym is the public entry point used by the `sym` primitive and by
// internal code that needs a symbol for a literal name.
func (rt *Runtime) Sym(name string) Ref { return rt.internSym(name) }

// gensym produces a fresh, never-before-seen symbol of the form
// G__<n>. Unlike internSym it never looks the name up or reuses an
// existing cell — the counter alone guarantees freshness, and the
// resulting symbol is deliberately NOT added to the intern list, so a
// user who later constructs the same literal name behaves as if it
// were a coincidence, not an alias (spec.md §8 property 5: "not eq?
// to any literal symbol in the program").
func (rt *Runtime) gensym() Ref {
	name := gensymName(rt.gensymCounter)
	rt.gensymCounter++
	r, c := rt.alloc(TagSym)
	c.s = name
	c.next = RefNil
	return r
}

func gensymName(n int64) string {
	// Manual base-10 rendering avoids pulling in strconv just for
	// this; kept trivial on purpose.
	if n == 0 {
		return "G__0"
	}
	digits := [20]byte{}
	i := len(digits)
	v := n
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return "G__" + string(digits[i:])
}
