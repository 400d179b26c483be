package shi

func consPrim(rt *Runtime, env, args Ref) (Ref, error) {
	a, b, err := rt.evalTwoArgs(env, args, "cons")
	if err != nil {
		return RefNil, err
	}
	return rt.Cons(a, b), nil
}

func carPrim(rt *Runtime, env, args Ref) (Ref, error) {
	v, err := rt.evalOneArg(env, args, "car")
	if err != nil {
		return RefNil, err
	}
	return rt.Car(v), nil
}

func cdrPrim(rt *Runtime, env, args Ref) (Ref, error) {
	v, err := rt.evalOneArg(env, args, "cdr")
	if err != nil {
		return RefNil, err
	}
	return rt.Cdr(v), nil
}

// setCarPrim implements `set-car!`: (set-car! cell val) mutates cell
// in place and returns val.
func setCarPrim(rt *Runtime, env, args Ref) (Ref, error) {
	cellRef, val, err := rt.evalTwoArgs(env, args, "set-car!")
	if err != nil {
		return RefNil, err
	}
	c := rt.cellAt(cellRef)
	if c.tag != TagCell {
		return RefNil, rt.typeErrorf(cellRef, "cons", "set-car!")
	}
	c.car = val
	return val, nil
}

func installListPrims(rt *Runtime) {
	rt.registerPrim("cons", consPrim)
	rt.registerPrim("car", carPrim)
	rt.registerPrim("cdr", cdrPrim)
	rt.registerPrim("set-car!", setCarPrim)
}
