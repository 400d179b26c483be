package shi

// withEvaledArgs evaluates every form in the raw args list left to
// right and hands use() live pointers into root-frame-tracked slots:
// dereferencing slots[i] inside use always yields the current
// (possibly GC-relocated) value, even if use() itself allocates. A
// plain []Ref snapshot would go stale the moment use() triggers a
// collection; this is the shared building block every prim_*.go file
// uses instead of rolling that logic per primitive.
func (rt *Runtime) withEvaledArgs(env, args Ref, use func(slots []*Ref) (Ref, error)) (Ref, error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&args)
	cur := args
	f.Add(&cur)

	var slots []*Ref
	for cur != RefNil {
		form := rt.Car(cur)
		f.Add(&form)
		val, err := rt.Eval(env, form)
		if err != nil {
			return RefNil, err
		}
		slot := new(Ref)
		*slot = val
		f.Add(slot)
		slots = append(slots, slot)
		cur = rt.Cdr(cur)
	}
	return use(slots)
}

func arityErrorf(name string, format string, args ...any) error {
	e := newError(ErrArity, name+": "+format, args...)
	return e
}

// evalOneArg evaluates args, requiring exactly one form, and returns
// its value.
func (rt *Runtime) evalOneArg(env, args Ref, name string) (Ref, error) {
	var result Ref
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		if len(slots) != 1 {
			return RefNil, arityErrorf(name, "expected 1 argument, got %d", len(slots))
		}
		result = *slots[0]
		return RefNil, nil
	})
	return result, err
}

// evalTwoArgs evaluates args, requiring exactly two forms.
func (rt *Runtime) evalTwoArgs(env, args Ref, name string) (Ref, Ref, error) {
	var a, b Ref
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		if len(slots) != 2 {
			return RefNil, arityErrorf(name, "expected 2 arguments, got %d", len(slots))
		}
		a, b = *slots[0], *slots[1]
		return RefNil, nil
	})
	return a, b, err
}

// listToSlice flattens a proper list into a Go slice without
// evaluating its elements.
func (rt *Runtime) listToSlice(lst Ref) []Ref {
	var out []Ref
	for lst != RefNil {
		out = append(out, rt.Car(lst))
		lst = rt.Cdr(lst)
	}
	return out
}

// sliceToList conses vals into a proper list, right to left.
func (rt *Runtime) sliceToList(vals []Ref) Ref {
	result := RefNil
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&result)
	for i := len(vals) - 1; i >= 0; i-- {
		v := vals[i]
		f.Add(&v)
		result = rt.Cons(v, result)
	}
	return result
}

func (rt *Runtime) registerPrim(name string, fn PrimFunc) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	r, c := rt.alloc(TagPrim)
	c.prim = &Primitive{Name: name, Fn: fn}
	ref := r
	f.Add(&ref)
	sym := rt.internSym(name)
	f.Add(&sym)
	rt.envDef(rt.globalEnv, sym, ref)
}
