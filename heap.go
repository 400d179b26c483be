package shi

import "fmt"

// DefaultSemispaceCells sizes a semispace by cell count rather than
// raw bytes: spec.md §4.1's "64 MiB each" reference configuration,
// translated to a cell-array capacity. At roughly 96 bytes per cell
// (the flat struct in value.go) this lands in the same ballpark.
const DefaultSemispaceCells = 700_000

// semispace is one of the two equal-size heap regions the allocator
// bump-allocates into. Only one is ever "active" at a time; the other
// sits dormant until the next collection.
type semispace struct {
	cells []cell
	used  int
}

func newSemispace(capacity int) *semispace {
	return &semispace{cells: make([]cell, capacity)}
}

func (s *semispace) cap() int { return len(s.cells) }

// Heap owns the two semispaces and the bump pointer into the active
// one. debugGC and alwaysGC mirror SHI_DEBUG_GC/SHI_ALWAYS_GC.
type Heap struct {
	active *semispace
	other  *semispace

	alwaysGC bool
	debugGC  bool
	gcCount  int
	bytesGC  int64
}

func newHeap(cellsPerSpace int, alwaysGC, debugGC bool) *Heap {
	return &Heap{
		active:   newSemispace(cellsPerSpace),
		other:    newSemispace(cellsPerSpace),
		alwaysGC: alwaysGC,
		debugGC:  debugGC,
	}
}

// ErrMemoryExhausted is returned (and, at the top level, fatal) when
// an allocation cannot be satisfied even after a collection, per
// spec.md §4.1.
var ErrMemoryExhausted = fmt.Errorf("Memory exhausted")

// alloc bump-allocates a single cell of the given tag in the active
// semispace, running a collection first if alwaysGC is set or if the
// space is full. It panics with ErrMemoryExhausted if the request
// still cannot be satisfied after collecting — spec.md marks this
// condition unrecoverable.
func (rt *Runtime) alloc(tag Tag) (Ref, *cell) {
	h := rt.heap
	if h.alwaysGC || h.active.used >= h.active.cap() {
		rt.collect()
	}
	if h.active.used >= h.active.cap() {
		panic(ErrMemoryExhausted)
	}
	idx := h.active.used
	h.active.used++
	c := &h.active.cells[idx]
	*c = cell{tag: tag}
	return Ref(idx), c
}
