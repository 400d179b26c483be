package shi

import "fmt"

// collect runs one Cheney copying-collection cycle: allocate a fresh
// to-space, forward every root, then scan the to-space forwarding
// outgoing references until the scan cursor catches the free cursor.
// Not reentrant — a nested invocation (an allocation occurring while
// a collection is in progress) is a bug, per spec.md §4.2/§5.
func (rt *Runtime) collect() {
	if rt.gcInProgress {
		panic("shi: garbage collector invoked re-entrantly")
	}
	rt.gcInProgress = true
	defer func() { rt.gcInProgress = false }()

	h := rt.heap
	fromSpace := h.active
	toSpace := h.other
	toSpace.used = 0

	rt.fromSpace = fromSpace
	h.active = toSpace

	// Forward roots first.
	rt.symHead = rt.forward(rt.symHead)
	rt.globalEnv = rt.forward(rt.globalEnv)
	rt.forwardFrames()
	rt.forwardWatchers()

	// Cheney scan: advance through the to-space, forwarding every
	// outgoing reference the cell at `scan` holds, until the scan
	// cursor reaches the allocation (free) cursor.
	scan := 0
	for scan < h.active.used {
		c := &h.active.cells[scan]
		switch c.tag {
		case TagInt, TagStr, TagSym, TagPrim:
			// no interior references (TagSym's `next` link is part
			// of the symbol-table root chain and is forwarded via
			// rt.symHead/rt.forwardSymChain below, not per-cell).
		case TagCell:
			c.car = rt.forward(c.car)
			c.cdr = rt.forward(c.cdr)
		case TagFn, TagMac:
			c.params = rt.forward(c.params)
			c.body = rt.forward(c.body)
			c.env = rt.forward(c.env)
		case TagObj:
			c.proto = rt.forward(c.proto)
			for i := range c.buckets {
				c.buckets[i] = rt.forward(c.buckets[i])
			}
		default:
			panic("shi: GC: unexpected tag in to-space: " + c.tag.String())
		}
		scan++
	}
	rt.forwardSymChain()

	h.gcCount++
	h.bytesGC += int64(h.active.used) * int64(cellSize)
	if h.debugGC {
		fmt.Fprintf(rt.Stderr, "shi: gc #%d: %d bytes live\n", h.gcCount, int64(h.active.used)*int64(cellSize))
	}

	clear(fromSpace.cells)
	fromSpace.used = 0
	h.other = fromSpace
	rt.fromSpace = nil
}

// forwardSymChain rewrites the `next` intern-list link of every
// already-forwarded TagSym cell now living in the to-space. Symbols
// are linked independently of the car/cdr/env relationships the main
// scan loop understands, so the chain is walked separately from
// rt.symHead (already forwarded in collect).
func (rt *Runtime) forwardSymChain() {
	cur := rt.symHead
	for cur != RefNil {
		c := rt.cellAt(cur)
		c.next = rt.forward(c.next)
		cur = c.next
	}
}

// forward relocates a single from-space reference: singletons and
// indices beyond the from-space array are returned unchanged; a
// TagMoved cell yields its stored forwarding address; otherwise the
// cell is copied to the to-space's free cursor and the from-space cell
// is turned into a tombstone pointing at the copy. Both semispaces
// have the same size, so a to-space index cannot be told apart from a
// from-space one: each reference is forwarded at most once per cycle.
func (rt *Runtime) forward(r Ref) Ref {
	if r.IsSingleton() {
		return r
	}
	from := rt.fromSpace
	if from == nil || int(r) >= len(from.cells) {
		// No collection in progress, or an index outside the
		// from-space; nothing to do.
		return r
	}
	c := &from.cells[r]
	if c.tag == TagMoved {
		return c.fwd
	}
	to := rt.heap.active
	newRef := Ref(to.used)
	to.cells[to.used] = *c
	to.used++
	*c = cell{tag: TagMoved, fwd: newRef}
	return newRef
}

// cellSize approximates a cell's footprint for SHI_DEBUG_GC reporting.
const cellSize = 96
