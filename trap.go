package shi

// Raise implements the `error` primitive's underlying mechanism: it
// unwinds to the nearest open trap-error via panic/recover, carrying
// msg as the escape payload (spec.md §4.9, §7). Go's panic/recover is
// the idiomatic vehicle for this "non-local transfer across nested
// traps" — it already skips arbitrarily many intervening frames and,
// because every PushFrame is paired with a deferred PopFrame, root
// frames are released correctly during the unwind without any extra
// bookkeeping (spec.md §7: "Root-frame acquisition MUST survive this
// escape").
func (rt *Runtime) Raise(msg string) {
	panic(shiEscape{Message: msg})
}

// TrapError implements `trap-error`: it pushes a new trap entry (bumping
// the depth counter), calls fn with no arguments, and if fn (or
// anything it calls, however deep) raises via Raise, the resulting
// shiEscape is recovered here and errFn is invoked with the message
// string. A depth overflow is fatal, per spec.md §4.9.
func (rt *Runtime) TrapError(env, fn, errFn Ref) (result Ref, err error) {
	if rt.trapDepth+1 > rt.maxTrap {
		rt.Fatalf("trap-error: trap stack exhausted (max depth %d)", rt.maxTrap)
	}
	rt.trapDepth++
	defer func() { rt.trapDepth-- }()

	result, err = rt.callProtected(fn)
	if err == nil {
		return result, nil
	}
	escape, ok := err.(shiEscape)
	if !ok {
		// A Go-level error (e.g. a type error) surfaces as a trapped
		// error too: its message is what the handler sees, matching
		// "every error is a single message string" (spec.md §7).
		escape = shiEscape{Message: err.Error()}
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&errFn)
	msgRef := rt.NewStr(escape.Message)
	f.Add(&msgRef)
	argList := rt.Cons(msgRef, RefNil)
	f.Add(&argList)
	return rt.Apply(errFn, argList)
}

// callProtected invokes fn with zero arguments, converting a Raise
// panic into a returned shiEscape error so ordinary Go error-handling
// can carry it back up to TrapError's recover point. A ShiError panic
// (car/cdr/IntVal/StrVal/... rejecting a value of the wrong type) is
// caught the same way: per spec.md §7 every error, however it
// originates, propagates to the nearest trap-error as a single message
// string. Anything else (programming bugs, ErrMemoryExhausted, ...) is
// not intercepted and continues unwinding past trap-error.
func (rt *Runtime) callProtected(fn Ref) (ret Ref, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch esc := r.(type) {
			case shiEscape:
				err = esc
			case ShiError:
				err = esc
			default:
				panic(r)
			}
		}
	}()
	return rt.Apply(fn, RefNil)
}

// guardTopLevel runs fn, converting a panic that would otherwise
// escape as a raw Go panic (an unrecovered Raise, a ShiError from a
// type/arity check, or ErrMemoryExhausted) into a returned error.
// EvalSource, the REPL, runMainAndPump, and the event loop all run
// outside of any trap-error, so this is their equivalent of
// callProtected: it is what lets the "unhandled error" path in Fatalf
// ever run instead of a bare goroutine stack trace (spec.md §4.9, §6).
func (rt *Runtime) guardTopLevel(fn func() (Ref, error)) (ret Ref, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case shiEscape:
				err = v
			case ShiError:
				err = v
			default:
				if r == ErrMemoryExhausted {
					err = ErrMemoryExhausted
				} else {
					panic(r)
				}
			}
		}
	}()
	return fn()
}

// Fatalf reports an unhandled/fatal runtime condition the way the
// top-level runner does for an untrapped `error` call: print to
// stderr and terminate the process with status 1 (spec.md §4.9, §6).
// Raw terminal mode, if the REPL had enabled it, is restored first.
func (rt *Runtime) Fatalf(format string, args ...any) {
	rt.restoreTerminal()
	e := newError(ErrResource, format, args...)
	rt.Stderr.WriteString("unhandled error: " + e.Message + "\n")
	rt.exit(1)
}
