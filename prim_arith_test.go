package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrim_Plus_NAry(t *testing.T) {
	rt := newTestRuntime(t)
	assert.Equal(t, int64(0), rt.IntVal(mustEval(t, rt, "(+)")))
	assert.Equal(t, int64(5), rt.IntVal(mustEval(t, rt, "(+ 5)")))
	assert.Equal(t, int64(10), rt.IntVal(mustEval(t, rt, "(+ 1 2 3 4)")))
}

func TestPrim_Plus_TypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(+ 1 "x")`)
	assert.Error(t, err)
}

func TestPrim_Minus_UnaryNegates(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, "(- 5)")
	assert.Equal(t, int64(-5), rt.IntVal(v))
}

func TestPrim_Minus_NAryFoldsLeft(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, "(- 10 1 2)")
	assert.Equal(t, int64(7), rt.IntVal(v))
}

func TestPrim_Minus_NoArgsIsArityError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource("(-)")
	assert.Error(t, err)
}

func TestPrim_Lt(t *testing.T) {
	rt := newTestRuntime(t)
	assert.Equal(t, RefTrue, mustEval(t, rt, "(< 1 2)"))
	assert.Equal(t, RefNil, mustEval(t, rt, "(< 2 1)"))
	assert.Equal(t, RefNil, mustEval(t, rt, "(< 1 1)"))
}

func TestPrim_Lt_TypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(< 1 "x")`)
	assert.Error(t, err)
}

func TestPrim_NumEq(t *testing.T) {
	rt := newTestRuntime(t)
	assert.Equal(t, RefTrue, mustEval(t, rt, "(= 3 3)"))
	assert.Equal(t, RefNil, mustEval(t, rt, "(= 3 4)"))
}

func TestPrim_Rand_WithinBound(t *testing.T) {
	rt := newTestRuntime(t)
	for i := 0; i < 20; i++ {
		v := mustEval(t, rt, "(rand 10)")
		n := rt.IntVal(v)
		assert.True(t, n >= 0 && n < 10)
	}
}

func TestPrim_Rand_NonPositiveBoundIsError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource("(rand 0)")
	assert.Error(t, err)
	_, err = rt.EvalSource("(rand -3)")
	assert.Error(t, err)
}

func TestPrim_Rand_TypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(rand "x")`)
	assert.Error(t, err)
}
