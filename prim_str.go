package shi

import "strings"

// strPrim implements `(str s0 s1 ...)`: concatenates zero or more
// string arguments. Every argument must already be a Str; the
// original interpreter's off-by-one terminator write (see
// SPEC_FULL.md) has no analogue here since strings.Builder owns its
// own length.
func strPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var sb strings.Builder
	var result Ref
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		for _, s := range slots {
			v := *s
			if v.IsSingleton() || rt.cellAt(v).tag != TagStr {
				return RefNil, rt.typeErrorf(v, "str", "str")
			}
			sb.WriteString(rt.StrVal(v))
		}
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	result = rt.NewStr(sb.String())
	return result, nil
}

func strLenPrim(rt *Runtime, env, args Ref) (Ref, error) {
	v, err := rt.evalOneArg(env, args, "str-len")
	if err != nil {
		return RefNil, err
	}
	return rt.NewInt(int64(len(rt.StrVal(v)))), nil
}

func installStrPrims(rt *Runtime) {
	rt.registerPrim("str", strPrim)
	rt.registerPrim("str-len", strLenPrim)
}
