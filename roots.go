package shi

// Frame is a stack-discipline sequence of handle slots: pointers to
// Ref-typed local variables that the collector is allowed to rewrite
// in place while those variables are still in scope. This is the
// idiomatic-Go rendition of spec.md §4.3/§9's "indirection through
// index-based handles into a runtime-owned vector" — each slot is a
// Go variable that has escaped to the heap by having its address
// taken, not an index into a growable buffer, so no slot ever moves
// once registered.
type Frame struct {
	slots []*Ref
}

// Add registers ptr so the next collection rewrites *ptr in place.
// The caller must keep ptr alive (i.e. keep its Frame on the stack)
// for as long as the referenced value must survive collection.
func (f *Frame) Add(ptr *Ref) *Ref {
	f.slots = append(f.slots, ptr)
	return ptr
}

// roots is the registry of currently-live frames, one per nested
// scope that holds references across an operation that might
// allocate. It is itself a GC root.
type roots struct {
	stack []*Frame
}

// PushFrame opens a new root-holding scope. Callers must pair every
// PushFrame with a deferred PopFrame so the frame is released on every
// exit path, including a panic-driven error escape (spec.md §4.3,
// §4.9, §7):
//
//	f := rt.PushFrame()
//	defer rt.PopFrame(f)
//	f.Add(&someRef)
func (rt *Runtime) PushFrame() *Frame {
	f := &Frame{}
	rt.roots.stack = append(rt.roots.stack, f)
	return f
}

// PopFrame releases f. f must be the most recently pushed, still-open
// frame; releasing out of order is a programming error (a bug per
// spec.md §5's "all acquisitions of the root-frame scope must be
// released on every exit path").
func (rt *Runtime) PopFrame(f *Frame) {
	n := len(rt.roots.stack)
	if n == 0 || rt.roots.stack[n-1] != f {
		panic("shi: root frame released out of order")
	}
	rt.roots.stack = rt.roots.stack[:n-1]
}

// forwardFrames rewrites every live slot across every open frame,
// once per slot even when the same slot is registered more than once.
// Called by the collector after relocating the symbol table and global
// env; the watcher registry is forwarded after it.
func (rt *Runtime) forwardFrames() {
	seen := make(map[*Ref]bool)
	for _, f := range rt.roots.stack {
		for _, ptr := range f.slots {
			if seen[ptr] {
				continue
			}
			seen[ptr] = true
			*ptr = rt.forward(*ptr)
		}
	}
}
