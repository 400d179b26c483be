package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrim_Str_Concat(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(str "foo" "bar" "baz")`)
	assert.Equal(t, "foobarbaz", rt.StrVal(v))
}

func TestPrim_Str_NoArgsIsEmpty(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(str)`)
	assert.Equal(t, "", rt.StrVal(v))
}

func TestPrim_Str_TypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(str "ok" 5)`)
	assert.Error(t, err)
}

func TestPrim_StrLen(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(str-len "hello")`)
	assert.Equal(t, int64(5), rt.IntVal(v))
}

func TestPrim_StrLen_Empty(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(str-len "")`)
	assert.Equal(t, int64(0), rt.IntVal(v))
}
