package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag_String(t *testing.T) {
	tests := []struct {
		name     string
		tag      Tag
		expected string
	}{
		{"int", TagInt, "int"},
		{"str", TagStr, "str"},
		{"sym", TagSym, "sym"},
		{"cell", TagCell, "cons"},
		{"obj", TagObj, "obj"},
		{"prim", TagPrim, "prim"},
		{"fn", TagFn, "fn"},
		{"mac", TagMac, "macro"},
		{"moved", TagMoved, "<moved>"},
		{"invalid", tagInvalid, "<invalid>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.tag.String())
		})
	}
}

func TestRef_IsSingleton(t *testing.T) {
	assert.True(t, RefNil.IsSingleton())
	assert.True(t, RefTrue.IsSingleton())
	assert.False(t, Ref(0).IsSingleton())
	assert.False(t, Ref(41).IsSingleton())
}

func TestConsCarCdr(t *testing.T) {
	rt := newTestRuntime(t)
	a := rt.NewInt(1)
	b := rt.NewInt(2)
	pair := rt.Cons(a, b)
	assert.Equal(t, int64(1), rt.IntVal(rt.Car(pair)))
	assert.Equal(t, int64(2), rt.IntVal(rt.Cdr(pair)))
}

func TestCarCdr_Nil(t *testing.T) {
	rt := newTestRuntime(t)
	assert.Equal(t, RefNil, rt.Car(RefNil))
	assert.Equal(t, RefNil, rt.Cdr(RefNil))
}

func TestNewIntIntVal(t *testing.T) {
	rt := newTestRuntime(t)
	r := rt.NewInt(-42)
	assert.Equal(t, int64(-42), rt.IntVal(r))
}

func TestNewStrStrVal(t *testing.T) {
	rt := newTestRuntime(t)
	r := rt.NewStr("hello")
	assert.Equal(t, "hello", rt.StrVal(r))
}

func TestNewStr_NotInterned(t *testing.T) {
	// spec.md §8 property 3: strings are never eq? even with equal
	// content, unlike symbols.
	rt := newTestRuntime(t)
	a := rt.NewStr("same")
	b := rt.NewStr("same")
	assert.NotEqual(t, a, b)
	assert.False(t, rt.Eq(a, b))
}

func TestEq(t *testing.T) {
	rt := newTestRuntime(t)

	t.Run("same ref is eq", func(t *testing.T) {
		r := rt.NewInt(7)
		assert.True(t, rt.Eq(r, r))
	})
	t.Run("equal ints are eq", func(t *testing.T) {
		a := rt.NewInt(7)
		b := rt.NewInt(7)
		assert.True(t, rt.Eq(a, b))
	})
	t.Run("different ints are not eq", func(t *testing.T) {
		a := rt.NewInt(7)
		b := rt.NewInt(8)
		assert.False(t, rt.Eq(a, b))
	})
	t.Run("singletons compare by value", func(t *testing.T) {
		assert.True(t, rt.Eq(RefNil, RefNil))
		assert.False(t, rt.Eq(RefNil, RefTrue))
	})
	t.Run("interned symbols are eq", func(t *testing.T) {
		a := rt.internSym("foo")
		b := rt.internSym("foo")
		assert.True(t, rt.Eq(a, b))
	})
	t.Run("distinct conses are not eq even with equal contents", func(t *testing.T) {
		a := rt.Cons(rt.NewInt(1), RefNil)
		b := rt.Cons(rt.NewInt(1), RefNil)
		assert.False(t, rt.Eq(a, b))
	})
}

func TestType(t *testing.T) {
	rt := newTestRuntime(t)
	tests := []struct {
		name     string
		ref      Ref
		expected string
	}{
		{"nil", RefNil, "nil"},
		{"true", RefTrue, "true"},
		{"int", rt.NewInt(1), "int"},
		{"str", rt.NewStr("x"), "str"},
		{"sym", rt.internSym("x"), "sym"},
		{"proper list", rt.Cons(rt.NewInt(1), RefNil), "list"},
		{"dotted cons", rt.Cons(rt.NewInt(1), rt.NewInt(2)), "cons"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typeRef := rt.Type(tt.ref)
			require.Equal(t, TagSym, rt.cellAt(typeRef).tag)
			assert.Equal(t, tt.expected, rt.SymName(typeRef))
		})
	}
}

func TestIsTruthyAndBoolRef(t *testing.T) {
	assert.False(t, IsTruthy(RefNil))
	assert.True(t, IsTruthy(RefTrue))
	assert.True(t, IsTruthy(Ref(0)))

	assert.Equal(t, RefTrue, BoolRef(true))
	assert.Equal(t, RefNil, BoolRef(false))
}
