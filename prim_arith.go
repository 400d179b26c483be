package shi

import "math/rand"

func requireInts(rt *Runtime, name string, slots []*Ref) ([]int64, error) {
	out := make([]int64, len(slots))
	for i, s := range slots {
		v := *s
		if v.IsSingleton() || rt.cellAt(v).tag != TagInt {
			return nil, rt.typeErrorf(v, "int", name)
		}
		out[i] = rt.cellAt(v).i
	}
	return out, nil
}

func plusPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var sum int64
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		vals, err := requireInts(rt, "+", slots)
		if err != nil {
			return RefNil, err
		}
		for _, v := range vals {
			sum += v
		}
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	return rt.NewInt(sum), nil
}

// minusPrim: a lone argument negates; two or more fold left by
// subtraction (original_source/src/shi.c prim_minus).
func minusPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var result int64
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		vals, err := requireInts(rt, "-", slots)
		if err != nil {
			return RefNil, err
		}
		if len(vals) == 0 {
			return RefNil, arityErrorf("-", "expected at least 1 argument")
		}
		if len(vals) == 1 {
			result = -vals[0]
			return RefNil, nil
		}
		result = vals[0]
		for _, v := range vals[1:] {
			result -= v
		}
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	return rt.NewInt(result), nil
}

func ltPrim(rt *Runtime, env, args Ref) (Ref, error) {
	a, b, err := rt.evalTwoArgs(env, args, "<")
	if err != nil {
		return RefNil, err
	}
	if a.IsSingleton() || rt.cellAt(a).tag != TagInt || b.IsSingleton() || rt.cellAt(b).tag != TagInt {
		return RefNil, newError(ErrType, "<: takes only numbers")
	}
	return BoolRef(rt.cellAt(a).i < rt.cellAt(b).i), nil
}

func numEqPrim(rt *Runtime, env, args Ref) (Ref, error) {
	a, b, err := rt.evalTwoArgs(env, args, "=")
	if err != nil {
		return RefNil, err
	}
	if a.IsSingleton() || rt.cellAt(a).tag != TagInt || b.IsSingleton() || rt.cellAt(b).tag != TagInt {
		return RefNil, newError(ErrType, "=: takes only numbers")
	}
	return BoolRef(rt.cellAt(a).i == rt.cellAt(b).i), nil
}

// randPrim: (rand n) returns a uniform integer in [0, n). math/rand
// stands in for the original's PCG32 generator; no library in the
// retrieved pack wraps a userspace PRNG, so this is one of the few
// deliberate stdlib uses (see DESIGN.md).
func randPrim(rt *Runtime, env, args Ref) (Ref, error) {
	n, err := rt.evalOneArg(env, args, "rand")
	if err != nil {
		return RefNil, err
	}
	if n.IsSingleton() || rt.cellAt(n).tag != TagInt {
		return RefNil, rt.typeErrorf(n, "int", "rand")
	}
	bound := rt.cellAt(n).i
	if bound <= 0 {
		return RefNil, newError(ErrType, "rand: bound must be positive")
	}
	return rt.NewInt(rand.Int63n(bound)), nil
}

func installArithPrims(rt *Runtime) {
	rt.registerPrim("+", plusPrim)
	rt.registerPrim("-", minusPrim)
	rt.registerPrim("<", ltPrim)
	rt.registerPrim("=", numEqPrim)
	rt.registerPrim("rand", randPrim)
}
