package shi

// errorPrim implements `(error msg)`: raises msg as a non-local escape
// to the nearest trap-error (spec.md §4.9). Raise panics; it only
// returns if something downstream recovers and replays control, which
// never happens for this primitive's own call frame.
func errorPrim(rt *Runtime, env, args Ref) (Ref, error) {
	msgVal, err := rt.evalOneArg(env, args, "error")
	if err != nil {
		return RefNil, err
	}
	if msgVal.IsSingleton() || rt.cellAt(msgVal).tag != TagStr {
		return RefNil, rt.typeErrorf(msgVal, "str", "error")
	}
	rt.Raise(rt.StrVal(msgVal))
	panic("unreachable")
}

// trapErrorPrim implements `(trap-error fn err-fn)`: fn and err-fn are
// evaluated to closures (not called yet); TrapError does the actual
// push/call/recover dance.
func trapErrorPrim(rt *Runtime, env, args Ref) (Ref, error) {
	fn, errFn, err := rt.evalTwoArgs(env, args, "trap-error")
	if err != nil {
		return RefNil, err
	}
	return rt.TrapError(env, fn, errFn)
}

func installErrorPrims(rt *Runtime) {
	rt.registerPrim("error", errorPrim)
	rt.registerPrim("trap-error", trapErrorPrim)
}
