package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInternSym_SameNameYieldsSameRef(t *testing.T) {
	rt := newTestRuntime(t)
	a := rt.internSym("widget")
	b := rt.internSym("widget")
	assert.Equal(t, a, b)
}

func TestInternSym_DifferentNamesYieldDifferentRefs(t *testing.T) {
	rt := newTestRuntime(t)
	a := rt.internSym("foo")
	b := rt.internSym("bar")
	assert.NotEqual(t, a, b)
}

func TestSym_IsInternSym(t *testing.T) {
	rt := newTestRuntime(t)
	assert.Equal(t, rt.internSym("x"), rt.Sym("x"))
}

// TestGensym_Distinctness is spec.md §8 property 5: repeated gensym
// calls never collide, even with each other.
func TestGensym_Distinctness(t *testing.T) {
	rt := newTestRuntime(t)
	seen := make(map[Ref]bool)
	for i := 0; i < 50; i++ {
		g := rt.gensym()
		assert.False(t, seen[g], "gensym produced a repeat ref")
		seen[g] = true
	}
}

// TestGensym_NotInterned: a gensym'd symbol must not alias a later
// literal symbol of the same rendered name.
func TestGensym_NotInterned(t *testing.T) {
	rt := newTestRuntime(t)
	g := rt.gensym()
	name := rt.SymName(g)
	literal := rt.internSym(name)
	assert.False(t, rt.Eq(g, literal))
}

func TestGensymName(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "G__0"},
		{1, "G__1"},
		{42, "G__42"},
		{1000, "G__1000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, gensymName(tt.n))
	}
}
