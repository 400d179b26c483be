package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrim_Obj_SeedsFromAlist(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(do (def o (obj nil (list (cons 'a 1) (cons 'b 2)))) (obj-get o 'a))`)
	assert.Equal(t, int64(1), rt.IntVal(v))
}

func TestPrim_Obj_NilProtoIsAllowed(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(obj nil nil)`)
	require := assert.New(t)
	require.NotEqual(RefNil, v)
}

func TestPrim_Obj_BadProtoIsTypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(obj 5 nil)`)
	assert.Error(t, err)
}

func TestPrim_Obj_BadAlistIsTypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(obj nil (list 1 2))`)
	assert.Error(t, err)
}

func TestPrim_ObjGet_Unbound(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(obj-get (obj nil nil) 'missing)`)
	assert.Error(t, err)
}

func TestPrim_ObjSet_OverwritesAndReturnsObj(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `
(do
  (def o (obj nil (list (cons 'a 1))))
  (obj-set o 'a 99)
  (obj-get o 'a))
`)
	assert.Equal(t, int64(99), rt.IntVal(v))
}

func TestPrim_ObjSet_TypeError(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(obj-set 5 'a 1)`)
	assert.Error(t, err)
}

func TestPrim_ObjDel_RemovesKey(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`
(do
  (def o (obj nil (list (cons 'a 1))))
  (obj-del o 'a)
  (obj-get o 'a))
`)
	assert.Error(t, err)
}

func TestPrim_ObjProto_GetAndSet(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `
(do
  (def base (obj nil (list (cons 'x 1))))
  (def child (obj nil nil))
  (obj-proto-set! child base)
  (obj-get child 'x))
`)
	assert.Equal(t, int64(1), rt.IntVal(v))

	proto := mustEval(t, rt, `(obj-proto (obj nil nil))`)
	assert.Equal(t, RefNil, proto)
}

func TestPrim_ObjToAlist(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `
(do
  (def o (obj nil nil))
  (obj-set o 'a 1)
  (obj-set o 'b 2)
  (obj-set o 'c 3)
  (obj->alist o))
`)
	assert.Equal(t, "((a . 1) (c . 3) (b . 2))", rt.printRef(v))
}
