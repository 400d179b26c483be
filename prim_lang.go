package shi

// Core language-group primitives: special forms and reflective
// operations that the evaluator's Prim dispatch hands raw, unevaluated
// argument lists (spec.md §4.7, §4.8 "Language").

func quotePrim(rt *Runtime, env, args Ref) (Ref, error) {
	return rt.Car(args), nil
}

// ifPrim implements arbitrary-arity `if`: (if c1 t1 c2 t2 ... else?).
// Conditions are evaluated left to right; the first non-Nil one picks
// its branch. An odd trailing form is the else branch; if none
// remains, the result is Nil.
func ifPrim(rt *Runtime, env, args Ref) (Ref, error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&args)
	cur := args
	f.Add(&cur)
	for cur != RefNil {
		cond := rt.Car(cur)
		rest := rt.Cdr(cur)
		f.Add(&cond)
		f.Add(&rest)
		if rest == RefNil {
			// cond is the trailing else form.
			return rt.Eval(env, cond)
		}
		v, err := rt.Eval(env, cond)
		if err != nil {
			return RefNil, err
		}
		branch := rt.Car(rest)
		if IsTruthy(v) {
			return rt.Eval(env, branch)
		}
		cur = rt.Cdr(rest)
	}
	return RefNil, nil
}

// doPrim evaluates every form as an implicit progn.
func doPrim(rt *Runtime, env, args Ref) (Ref, error) {
	return rt.evalSequence(env, args)
}

// whilePrim implements `(while cond body...)`. Per the original
// interpreter's behaviour (not the distilled spec, which is silent
// here), the value of the LAST executed body form on the LAST
// iteration is returned, not always Nil.
func whilePrim(rt *Runtime, env, args Ref) (Ref, error) {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&args)
	cond := rt.Car(args)
	body := rt.Cdr(args)
	f.Add(&cond)
	f.Add(&body)
	result := RefNil
	f.Add(&result)
	for {
		v, err := rt.Eval(env, cond)
		if err != nil {
			return RefNil, err
		}
		if !IsTruthy(v) {
			return result, nil
		}
		result, err = rt.evalSequence(env, body)
		if err != nil {
			return RefNil, err
		}
	}
}

// defPrim binds sym to val in the CURRENT frame, per spec.md §4.6.
func defPrim(rt *Runtime, env, args Ref) (Ref, error) {
	sym, valExpr, err := rt.twoRawArgs(args, "def")
	if err != nil {
		return RefNil, err
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&sym)
	val, err := rt.Eval(env, valExpr)
	if err != nil {
		return RefNil, err
	}
	f.Add(&val)
	rt.envDef(env, sym, val)
	return val, nil
}

// defGlobalPrim binds in the root frame regardless of how deeply
// nested env is.
func defGlobalPrim(rt *Runtime, env, args Ref) (Ref, error) {
	sym, valExpr, err := rt.twoRawArgs(args, "def-global")
	if err != nil {
		return RefNil, err
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&sym)
	val, err := rt.Eval(env, valExpr)
	if err != nil {
		return RefNil, err
	}
	f.Add(&val)
	rt.envDefGlobal(env, sym, val)
	return val, nil
}

func setPrim(rt *Runtime, env, args Ref) (Ref, error) {
	sym, valExpr, err := rt.twoRawArgs(args, "set")
	if err != nil {
		return RefNil, err
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&env)
	f.Add(&sym)
	val, err := rt.Eval(env, valExpr)
	if err != nil {
		return RefNil, err
	}
	f.Add(&val)
	if err := rt.envSet(env, sym, val); err != nil {
		return RefNil, err
	}
	return val, nil
}

func fnPrim(rt *Runtime, env, args Ref) (Ref, error) {
	params := rt.Car(args)
	body := rt.Cdr(args)
	return rt.makeFn(params, body, env, false), nil
}

func macroPrim(rt *Runtime, env, args Ref) (Ref, error) {
	params := rt.Car(args)
	body := rt.Cdr(args)
	return rt.makeFn(params, body, env, true), nil
}

func eqPrim(rt *Runtime, env, args Ref) (Ref, error) {
	a, b, err := rt.evalTwoArgs(env, args, "eq?")
	if err != nil {
		return RefNil, err
	}
	return BoolRef(rt.Eq(a, b)), nil
}

// applyPrim: (apply fn args) — evaluates both fn and the list-valued
// args expression but does NOT re-evaluate the elements of that list
// (spec.md §4.7 "apply primitive").
func applyPrim(rt *Runtime, env, args Ref) (Ref, error) {
	fn, argList, err := rt.evalTwoArgs(env, args, "apply")
	if err != nil {
		return RefNil, err
	}
	return rt.Apply(fn, argList)
}

func typePrim(rt *Runtime, env, args Ref) (Ref, error) {
	v, err := rt.evalOneArg(env, args, "type")
	if err != nil {
		return RefNil, err
	}
	return rt.Type(v), nil
}

// evalPrim: (eval form env?) evaluates its form argument twice — once
// to produce the form being asked about, once more to run it — per
// spec.md §4.7.
func evalPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var form, targetEnv Ref
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		switch len(slots) {
		case 1:
			form = *slots[0]
			targetEnv = env
		case 2:
			form = *slots[0]
			targetEnv = *slots[1]
		default:
			return RefNil, arityErrorf("eval", "expected 1 or 2 arguments, got %d", len(slots))
		}
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	return rt.Eval(targetEnv, form)
}

// readSexpPrim: (read-sexp str) reads one form from str, or Nil if str
// holds no further forms.
func readSexpPrim(rt *Runtime, env, args Ref) (Ref, error) {
	strVal, err := rt.evalOneArg(env, args, "read-sexp")
	if err != nil {
		return RefNil, err
	}
	src := rt.StrVal(strVal)
	rd := newReader(rt, src)
	form, err := rd.readForm()
	if err == errReaderEOF {
		return RefNil, nil
	}
	if err != nil {
		return RefNil, err
	}
	return form, nil
}

func symPrim(rt *Runtime, env, args Ref) (Ref, error) {
	strVal, err := rt.evalOneArg(env, args, "sym")
	if err != nil {
		return RefNil, err
	}
	return rt.internSym(rt.StrVal(strVal)), nil
}

func prStrPrim(rt *Runtime, env, args Ref) (Ref, error) {
	v, err := rt.evalOneArg(env, args, "pr-str")
	if err != nil {
		return RefNil, err
	}
	return rt.NewStr(rt.printRef(v)), nil
}

func macroExpandPrim(rt *Runtime, env, args Ref) (Ref, error) {
	form := rt.Car(args)
	return rt.MacroExpand(env, form)
}

func gensymPrim(rt *Runtime, env, args Ref) (Ref, error) {
	return rt.gensym(), nil
}

// twoRawArgs pulls the first two raw (unevaluated) forms out of args,
// the shape def/def-global/set all share: a symbol followed by a
// value expression.
func (rt *Runtime) twoRawArgs(args Ref, name string) (Ref, Ref, error) {
	if args == RefNil || rt.Cdr(args) == RefNil {
		return RefNil, RefNil, arityErrorf(name, "expected 2 arguments")
	}
	return rt.Car(args), rt.Car(rt.Cdr(args)), nil
}

func installLangPrims(rt *Runtime) {
	rt.registerPrim("quote", quotePrim)
	rt.registerPrim("if", ifPrim)
	rt.registerPrim("do", doPrim)
	rt.registerPrim("while", whilePrim)
	rt.registerPrim("def", defPrim)
	rt.registerPrim("def-global", defGlobalPrim)
	rt.registerPrim("set", setPrim)
	rt.registerPrim("fn", fnPrim)
	rt.registerPrim("macro", macroPrim)
	rt.registerPrim("eq?", eqPrim)
	rt.registerPrim("apply", applyPrim)
	rt.registerPrim("type", typePrim)
	rt.registerPrim("eval", evalPrim)
	rt.registerPrim("read-sexp", readSexpPrim)
	rt.registerPrim("sym", symPrim)
	rt.registerPrim("pr-str", prStrPrim)
	rt.registerPrim("macro-expand", macroExpandPrim)
	rt.registerPrim("gensym", gensymPrim)
}
