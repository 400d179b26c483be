package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGC_PreservesRootedValues exercises spec.md §8's GC-preserves-
// liveness property directly: a value kept alive only through a root
// frame slot must read back unchanged after a collection is forced,
// even though its underlying Ref may have been relocated.
func TestGC_PreservesRootedValues(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	rt := NewRuntime(cfg)

	f := rt.PushFrame()
	defer rt.PopFrame(f)

	str := rt.NewStr("still here")
	num := rt.NewInt(123)
	pair := rt.Cons(rt.NewInt(1), rt.NewInt(2))
	f.Add(&str)
	f.Add(&num)
	f.Add(&pair)

	rt.collect()

	assert.Equal(t, "still here", rt.StrVal(str))
	assert.Equal(t, int64(123), rt.IntVal(num))
	assert.Equal(t, int64(1), rt.IntVal(rt.Car(pair)))
	assert.Equal(t, int64(2), rt.IntVal(rt.Cdr(pair)))
}

// TestGC_ReclaimsUnrootedValues shows that an unrooted allocation's
// cell slot is reused by subsequent allocations once nothing
// references it anymore.
func TestGC_ReclaimsUnrootedValues(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	rt := NewRuntime(cfg)

	usedBefore := rt.heap.active.used
	rt.NewInt(999) // immediately garbage: nothing roots it
	rt.collect()
	assert.Equal(t, usedBefore, rt.heap.active.used, "unrooted cell should not survive a collection")
}

// TestGC_PreservesObjectGraph checks that a live object's proto chain
// and bucket contents survive relocation, not just flat scalar values.
func TestGC_PreservesObjectGraph(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	rt := NewRuntime(cfg)

	f := rt.PushFrame()
	defer rt.PopFrame(f)

	proto := rt.newObj(RefNil, 4)
	f.Add(&proto)
	key := rt.internSym("color")
	f.Add(&key)
	val := rt.NewStr("blue")
	f.Add(&val)
	rt.objSet(proto, key, val)

	child := rt.newObj(proto, 4)
	f.Add(&child)

	rt.collect()
	rt.collect() // a second cycle ensures forwarding addresses don't linger

	pair, ok := rt.objFind(child, key)
	require.True(t, ok)
	assert.Equal(t, "blue", rt.StrVal(rt.cellAt(pair).cdr))
}

// TestGC_PreservesSymbolInterning ensures the intern table's identity
// guarantee (spec.md §8 property 3) survives relocation: the same
// name, interned before and after a collection, must still yield eq?
// symbols.
func TestGC_PreservesSymbolInterning(t *testing.T) {
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 256)
	rt := NewRuntime(cfg)

	before := rt.internSym("persistent")
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&before)

	rt.collect()

	after := rt.internSym("persistent")
	assert.True(t, rt.Eq(before, after))
	assert.Equal(t, "persistent", rt.SymName(after))
}

func TestForward_SingletonsAreUnchanged(t *testing.T) {
	rt := newTestRuntime(t)
	assert.Equal(t, RefNil, rt.forward(RefNil))
	assert.Equal(t, RefTrue, rt.forward(RefTrue))
}

func TestCollect_PanicsOnReentry(t *testing.T) {
	rt := newTestRuntime(t)
	rt.gcInProgress = true
	defer func() { rt.gcInProgress = false }()
	assert.Panics(t, func() { rt.collect() })
}
