package shi

import "testing"

// newTestRuntime builds a Runtime with a small heap (so GC tests don't
// need millions of allocations to force a collection) and the prelude
// loaded, the way cmd/shi wires one up before running any user code.
func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	cfg := NewConfig()
	cfg.SetInt("heap.semispace_cells", 4096)
	rt := NewRuntime(cfg)
	if err := rt.LoadPrelude(); err != nil {
		t.Fatalf("LoadPrelude: %v", err)
	}
	return rt
}

// mustEval evaluates src against rt's global environment and fails the
// test on any error, returning the last form's result.
func mustEval(t *testing.T, rt *Runtime, src string) Ref {
	t.Helper()
	ref, err := rt.EvalSource(src)
	if err != nil {
		t.Fatalf("EvalSource(%q): %v", src, err)
	}
	return ref
}
