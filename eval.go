package shi

// Eval is the evaluator's entry point (spec.md §4.7). It dispatches on
// the dynamic tag of expr:
//
//   - self-evaluating tags return themselves unchanged;
//   - a Sym is looked up in env (the literal *env* returns env itself);
//   - a Cell is macro-expanded first, then — if the expansion changed
//     the form — re-evaluated; otherwise its head is applied to its
//     tail, evaluated or not depending on whether the head is a Prim
//     or an Fn.
func (rt *Runtime) Eval(env, expr Ref) (ret Ref, err error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&expr)

	if expr == RefTrue || expr == RefNil {
		return expr, nil
	}
	c := rt.cellAt(expr)
	switch c.tag {
	case TagInt, TagStr, TagObj, TagPrim, TagFn, TagMac:
		return expr, nil
	case TagSym:
		if c.s == "*env*" {
			return env, nil
		}
		return rt.envLookup(env, expr)
	case TagCell:
		return rt.evalCell(env, expr, f)
	default:
		panic("shi: Eval: unexpected tag " + c.tag.String())
	}
}

func (rt *Runtime) evalCell(env, expr Ref, f *Frame) (Ref, error) {
	expanded, changed, err := rt.macroexpand1(env, expr)
	if err != nil {
		return RefNil, err
	}
	if changed {
		f.Add(&expanded)
		return rt.Eval(env, expanded)
	}

	head := rt.Car(expr)
	args := rt.Cdr(expr)
	f.Add(&head)
	f.Add(&args)

	headVal, err := rt.Eval(env, head)
	if err != nil {
		return RefNil, err
	}
	f.Add(&headVal)

	if headVal.IsSingleton() {
		return RefNil, newError(ErrType, "eval: %s is not callable", rt.printRef(headVal))
	}
	switch rt.cellAt(headVal).tag {
	case TagPrim:
		prim := rt.cellAt(headVal).prim
		return prim.Fn(rt, env, args)
	case TagFn:
		evaledArgs, err := rt.evalList(env, args)
		if err != nil {
			return RefNil, err
		}
		f.Add(&evaledArgs)
		return rt.Apply(headVal, evaledArgs)
	default:
		return RefNil, newError(ErrType, "eval: %s is not callable", rt.printRef(headVal))
	}
}

// evalList evaluates each element of a (possibly improper-free) list
// of forms left to right, returning a freshly consed list of results.
func (rt *Runtime) evalList(env, forms Ref) (Ref, error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&forms)

	if forms == RefNil {
		return RefNil, nil
	}
	headForm := rt.Car(forms)
	f.Add(&headForm)
	restForms := rt.Cdr(forms)
	f.Add(&restForms)

	headVal, err := rt.Eval(env, headForm)
	if err != nil {
		return RefNil, err
	}
	f.Add(&headVal)
	restVals, err := rt.evalList(env, restForms)
	if err != nil {
		return RefNil, err
	}
	f.Add(&restVals)
	return rt.Cons(headVal, restVals), nil
}

// macroexpand1 expands form exactly once if its head names (or is) a
// Mac value, returning the expansion and whether anything changed.
func (rt *Runtime) macroexpand1(env, form Ref) (Ref, bool, error) {
	if form.IsSingleton() || rt.cellAt(form).tag != TagCell {
		return form, false, nil
	}
	head := rt.Car(form)
	var macVal Ref
	if !head.IsSingleton() && rt.cellAt(head).tag == TagMac {
		macVal = head
	} else if !head.IsSingleton() && rt.cellAt(head).tag == TagSym {
		if pair, ok := rt.objFind(env, head); ok {
			v := rt.cellAt(pair).cdr
			if !v.IsSingleton() && rt.cellAt(v).tag == TagMac {
				macVal = v
			}
		}
	}
	if macVal == RefNil {
		return form, false, nil
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&macVal)
	args := rt.Cdr(form)
	f.Add(&args)
	expanded, err := rt.Apply(macVal, args)
	if err != nil {
		return RefNil, false, err
	}
	return expanded, true, nil
}

// MacroExpand is the `macro-expand` primitive's worker: like
// macroexpand1 but returns the raw form unchanged (not re-evaluated)
// when there is nothing to expand.
func (rt *Runtime) MacroExpand(env, form Ref) (Ref, error) {
	expanded, _, err := rt.macroexpand1(env, form)
	return expanded, err
}

// makeFn allocates a Fn (or, if isMacro, a Mac) closure, protecting
// params/body/env across its own allocation.
func (rt *Runtime) makeFn(params, body, env Ref, isMacro bool) Ref {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&params)
	f.Add(&body)
	f.Add(&env)
	tag := TagFn
	if isMacro {
		tag = TagMac
	}
	r, c := rt.alloc(tag)
	c.params, c.body, c.env = params, body, env
	return r
}

// Apply applies fn (an Fn or Mac) to a list of already-built argument
// values; it does not evaluate them — that is the evaluator's job for
// ordinary calls, and precisely what distinguishes the `apply`
// primitive from an ordinary call (spec.md §4.7 "apply primitive").
func (rt *Runtime) Apply(fn, args Ref) (Ref, error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&fn)
	f.Add(&args)

	c := rt.cellAt(fn)
	if c.tag != TagFn && c.tag != TagMac {
		return RefNil, newError(ErrType, "apply: %s is not a function", rt.printRef(fn))
	}
	params, body, capturedEnv := c.params, c.body, c.env
	f.Add(&params)
	f.Add(&body)
	f.Add(&capturedEnv)

	callEnv := rt.newObj(capturedEnv, rt.objBucketCount(capturedEnv))
	f.Add(&callEnv)

	if err := rt.bindParams(callEnv, params, args); err != nil {
		return RefNil, err
	}
	return rt.evalSequence(callEnv, body)
}

// bindParams destructures params against args in parallel, per
// spec.md §4.7: a single Sym param binds the whole list; otherwise
// positions line up and a dotted tail symbol soaks up the remainder;
// a length mismatch is an arity error.
func (rt *Runtime) bindParams(env, params, args Ref) error {
	if !params.IsSingleton() && rt.cellAt(params).tag == TagSym {
		rt.envDef(env, params, args)
		return nil
	}
	p, a := params, args
	for {
		if p == RefNil {
			if a != RefNil {
				return newError(ErrArity, "fn: too many arguments")
			}
			return nil
		}
		if p.IsSingleton() || rt.cellAt(p).tag != TagCell {
			// dotted tail: p itself is the remainder-binding symbol
			rt.envDef(env, p, a)
			return nil
		}
		if a == RefNil {
			return newError(ErrArity, "fn: too few arguments")
		}
		sym := rt.Car(p)
		val := rt.Car(a)
		rt.envDef(env, sym, val)
		p = rt.Cdr(p)
		a = rt.Cdr(a)
	}
}

// evalSequence evaluates forms as an implicit progn, returning the
// last value (or Nil for an empty sequence).
func (rt *Runtime) evalSequence(env, forms Ref) (Ref, error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&forms)

	result := RefNil
	f.Add(&result)
	cur := forms
	f.Add(&cur)
	for cur != RefNil {
		form := rt.Car(cur)
		f.Add(&form)
		var err error
		result, err = rt.Eval(env, form)
		if err != nil {
			return RefNil, err
		}
		cur = rt.Cdr(cur)
	}
	return result, nil
}
