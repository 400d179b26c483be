package shi

import _ "embed"

//go:embed prelude.shi
var preludeSource string

// LoadPrelude evaluates the embedded language-level prelude against
// the global environment. NewRuntime does not call this automatically
// — cmd/shi calls it once, right after constructing the Runtime and
// before running a script or the REPL, the same way the original interpreter loads its prelude
// before handing control to user code (spec.md §4.11).
func (rt *Runtime) LoadPrelude() error {
	_, err := rt.EvalSource(preludeSource)
	return err
}
