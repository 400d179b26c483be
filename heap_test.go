package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSemispace(t *testing.T) {
	s := newSemispace(16)
	assert.Equal(t, 16, s.cap())
	assert.Equal(t, 0, s.used)
}

func TestAlloc_BumpsUsed(t *testing.T) {
	rt := newTestRuntime(t)
	before := rt.heap.active.used
	ref, c := rt.alloc(TagInt)
	assert.Equal(t, before+1, rt.heap.active.used)
	assert.Equal(t, TagInt, c.tag)
	assert.Equal(t, Ref(before), ref)
}

func TestAlloc_CollectsWhenFull(t *testing.T) {
	// 256 cells comfortably covers NewRuntime's own footprint (the
	// interned primitive names and the global environment), leaving
	// headroom for the unrooted allocations below to force at least
	// one collection.
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	rt := NewRuntime(cfg)

	gcCountBefore := rt.heap.gcCount
	// Nothing is rooted here, so every allocation past capacity is
	// immediately reclaimable: collect() should run without exhausting
	// memory.
	for i := 0; i < 1000; i++ {
		rt.NewInt(int64(i))
	}
	assert.Greater(t, rt.heap.gcCount, gcCountBefore)
}

func TestAlloc_MemoryExhaustedWhenEverythingIsRooted(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	rt := NewRuntime(cfg)

	f := rt.PushFrame()
	defer rt.PopFrame(f)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic once the rooted heap fills up")
		assert.Equal(t, ErrMemoryExhausted, r)
	}()
	for i := 0; i < 10000; i++ {
		v := rt.NewInt(int64(i))
		f.Add(&v)
	}
}

func TestAlwaysGC(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	cfg.SetBool("gc.always", true)
	rt := NewRuntime(cfg)

	gcCountBefore := rt.heap.gcCount
	rt.NewInt(1)
	assert.Greater(t, rt.heap.gcCount, gcCountBefore)
}
