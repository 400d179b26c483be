package shi

import "golang.org/x/term"

// termRawState remembers the terminal's prior mode so it can be
// restored, both by a second `term-raw` call and by the fatal-error
// path in trap.go.
type termRawState struct {
	fd    int
	state *term.State
}

// restoreTerminal undoes a pending raw-mode switch, if any. Called
// before the process exits through the `exit` primitive or an
// unhandled error (Fatalf), per spec.md §4.9 ("disabling terminal raw
// mode").
func (rt *Runtime) restoreTerminal() {
	if rt.termState == nil {
		return
	}
	_ = term.Restore(rt.termState.fd, rt.termState.state)
	rt.termState = nil
}

// termRaw implements the `term-raw` primitive: (term-raw on?) toggles
// stdin raw mode. Grounded on golang.org/x/term, the pack's ecosystem
// answer to POSIX termios (spec.md §1 lists terminal raw-mode as an
// out-of-scope external collaborator; x/term is that collaborator's
// interface).
func termRaw(rt *Runtime, env, args Ref) (Ref, error) {
	arg, err := rt.evalOneArg(env, args, "term-raw")
	if err != nil {
		return RefNil, err
	}
	fd := int(rt.Stdin.Fd())
	if !IsTruthy(arg) {
		rt.restoreTerminal()
		return RefNil, nil
	}
	if rt.termState != nil {
		return RefTrue, nil
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return RefNil, newError(ErrResource, "term-raw: %s", err)
	}
	rt.termState = &termRawState{fd: fd, state: state}
	return RefTrue, nil
}

// isatty implements `isatty`: (isatty fd) — t if fd refers to a
// terminal.
func isattyPrim(rt *Runtime, env, args Ref) (Ref, error) {
	arg, err := rt.evalOneArg(env, args, "isatty")
	if err != nil {
		return RefNil, err
	}
	fd := rt.IntVal(arg)
	return BoolRef(term.IsTerminal(int(fd))), nil
}

func installTermPrims(rt *Runtime) {
	rt.registerPrim("term-raw", termRaw)
	rt.registerPrim("isatty", isattyPrim)
}
