package shi

// newObj allocates an Obj with the given prototype and bucket count.
// Environments are exactly Obj values whose proto is the enclosing
// frame (spec.md §4.6).
func (rt *Runtime) newObj(proto Ref, buckets int) Ref {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&proto)
	r, c := rt.alloc(TagObj)
	c.proto = proto
	c.buckets = make([]Ref, buckets)
	for i := range c.buckets {
		c.buckets[i] = RefNil
	}
	return r
}

func (rt *Runtime) objBucketCount(o Ref) int {
	return len(rt.cellAt(o).buckets)
}

// jenkinsOneAtATime is the hash function spec.md §4.6 names
// explicitly, run over the UTF-8 bytes of a symbol/string key or the
// decimal digits of an integer key.
func jenkinsOneAtATime(data []byte) uint32 {
	var h uint32
	for _, b := range data {
		h += uint32(b)
		h += h << 10
		h ^= h >> 6
	}
	h += h << 3
	h ^= h >> 11
	h += h << 15
	return h
}

func intDecimalDigits(n int64) []byte {
	neg := n < 0
	if neg {
		n = -n
	}
	buf := make([]byte, 0, 20)
	if n == 0 {
		buf = append(buf, '0')
	}
	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return buf
}

// keyHash returns the bucket hash for key k, which must be a Sym,
// Str, or Int cell.
func (rt *Runtime) keyHash(k Ref) uint32 {
	c := rt.cellAt(k)
	switch c.tag {
	case TagSym, TagStr:
		return jenkinsOneAtATime([]byte(c.s))
	case TagInt:
		return jenkinsOneAtATime(intDecimalDigits(c.i))
	default:
		panic(rt.typeErrorf(k, "sym|str|int", "object key"))
	}
}

// keyEqual implements the mixed-type key comparison from spec.md
// §4.6: symbol↔symbol by identity, integer↔integer by value,
// string↔string by byte content, mixed types never equal.
func (rt *Runtime) keyEqual(a, b Ref) bool {
	ca, cb := rt.cellAt(a), rt.cellAt(b)
	if ca.tag != cb.tag {
		return false
	}
	switch ca.tag {
	case TagSym:
		return a == b
	case TagInt:
		return ca.i == cb.i
	case TagStr:
		return ca.s == cb.s
	default:
		return false
	}
}

// objGet looks up k in o's own bucket only, returning the (key . value)
// pair cell or (RefNil, false).
func (rt *Runtime) objGet(o, k Ref) (Ref, bool) {
	c := rt.cellAt(o)
	idx := int(rt.keyHash(k)) % len(c.buckets)
	for node := c.buckets[idx]; node != RefNil; node = rt.cellAt(node).cdr {
		pair := rt.cellAt(node).car
		if rt.keyEqual(rt.cellAt(pair).car, k) {
			return pair, true
		}
	}
	return RefNil, false
}

// objFind walks the prototype chain from o upward until it finds k,
// returning the owning pair cell or (RefNil, false).
func (rt *Runtime) objFind(o, k Ref) (Ref, bool) {
	for o != RefNil {
		if pair, ok := rt.objGet(o, k); ok {
			return pair, true
		}
		o = rt.cellAt(o).proto
	}
	return RefNil, false
}

// objSet mutates the existing pair's cdr if k is already present in
// o's own bucket, else prepends a fresh pair.
func (rt *Runtime) objSet(o, k, v Ref) {
	if pair, ok := rt.objGet(o, k); ok {
		rt.cellAt(pair).cdr = v
		return
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&o)
	f.Add(&k)
	f.Add(&v)
	pair := rt.Cons(k, v)
	f.Add(&pair)
	c := rt.cellAt(o)
	idx := int(rt.keyHash(k)) % len(c.buckets)
	node := rt.Cons(pair, c.buckets[idx])
	// re-fetch: Cons above may have triggered GC, invalidating c.
	c = rt.cellAt(o)
	c.buckets[idx] = node
}

// objDel removes k's pair from o's own bucket if present.
func (rt *Runtime) objDel(o, k Ref) {
	c := rt.cellAt(o)
	idx := int(rt.keyHash(k)) % len(c.buckets)
	var prev Ref = RefNil
	node := c.buckets[idx]
	for node != RefNil {
		nc := rt.cellAt(node)
		pair := rt.cellAt(nc.car)
		if rt.keyEqual(pair.car, k) {
			if prev == RefNil {
				c.buckets[idx] = nc.cdr
			} else {
				rt.cellAt(prev).cdr = nc.cdr
			}
			return
		}
		prev = node
		node = nc.cdr
	}
}

// ObjToAlist builds an ordinary alist from o's own bindings, walking
// buckets in index order and, within a bucket, in most-recently-set
// order (since objSet prepends) — matching the original interpreter's
// iteration order (see SPEC_FULL.md "obj->alist ordering").
func (rt *Runtime) ObjToAlist(o Ref) Ref {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	result := RefNil
	f.Add(&result)
	c := rt.cellAt(o)
	// Collect in forward order first so the final list preserves
	// bucket-then-chain order once reversed onto result.
	var pairs []Ref
	for _, head := range c.buckets {
		for node := head; node != RefNil; node = rt.cellAt(node).cdr {
			pairs = append(pairs, rt.cellAt(node).car)
		}
	}
	for i := len(pairs) - 1; i >= 0; i-- {
		p := pairs[i]
		f.Add(&p)
		result = rt.Cons(p, result)
	}
	return result
}

// envLookup is find() specialised for variable lookup: absent is an
// error, per spec.md §4.7.
func (rt *Runtime) envLookup(env, sym Ref) (Ref, error) {
	if pair, ok := rt.objFind(env, sym); ok {
		return rt.cellAt(pair).cdr, nil
	}
	return RefNil, newError(ErrBinding, "eval: undefined symbol: %s", rt.SymName(sym))
}

// envDef binds sym in the current frame env (spec.md §4.6 "def").
func (rt *Runtime) envDef(env, sym, val Ref) {
	rt.objSet(env, sym, val)
}

// envDefGlobal climbs the chain to the root frame and binds there.
func (rt *Runtime) envDefGlobal(env, sym, val Ref) {
	root := env
	for rt.cellAt(root).proto != RefNil {
		root = rt.cellAt(root).proto
	}
	rt.objSet(root, sym, val)
}

// envSet rebinds an existing binding wherever it is found in the
// chain; it is an error if sym is unbound anywhere in the chain.
func (rt *Runtime) envSet(env, sym, val Ref) error {
	if pair, ok := rt.objFind(env, sym); ok {
		rt.cellAt(pair).cdr = val
		return nil
	}
	return newError(ErrBinding, "set: unbound symbol: %s", rt.SymName(sym))
}
