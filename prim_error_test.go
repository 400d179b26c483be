package shi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrim_Error_TypeErrorOnNonString(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource("(error 5)")
	assert.Error(t, err)
}

func TestPrim_Error_UncaughtPropagates(t *testing.T) {
	rt := newTestRuntime(t)
	_, err := rt.EvalSource(`(error "uncaught")`)
	assert.Error(t, err)
}

func TestPrim_TrapError_HandlerReceivesMessage(t *testing.T) {
	rt := newTestRuntime(t)
	v := mustEval(t, rt, `(trap-error (fn () (error "oops")) (fn (msg) (str "handled:" msg)))`)
	assert.Equal(t, "handled:oops", rt.StrVal(v))
}

func TestPrim_TrapError_ArgsAreEvaluatedNotCalled(t *testing.T) {
	rt := newTestRuntime(t)
	// fn and err-fn are evaluated into closures but not invoked until
	// control actually needs them; a protected fn that never errors
	// never touches the handler.
	v := mustEval(t, rt, `
(do
  (def handler-called nil)
  (def result
    (trap-error
      (fn () 1)
      (fn (msg) (do (set handler-called t) -1))))
  (list result handler-called))
`)
	assert.Equal(t, "(1 nil)", rt.printRef(v))
}
