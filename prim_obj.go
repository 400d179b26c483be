package shi

// objPrim implements `(obj proto alist)`: builds a fresh object whose
// prototype is proto (Nil or another Obj) and seeds it from alist, a
// list of (key . val) pairs, matching the original interpreter's
// make_obj_alist (original_source/src/shi.c prim_obj).
func objPrim(rt *Runtime, env, args Ref) (Ref, error) {
	proto, alist, err := rt.evalTwoArgs(env, args, "obj")
	if err != nil {
		return RefNil, err
	}
	if proto != RefNil && (proto.IsSingleton() || rt.cellAt(proto).tag != TagObj) {
		return RefNil, rt.typeErrorf(proto, "obj|nil", "obj prototype")
	}
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&proto)
	f.Add(&alist)
	o := rt.newObj(proto, rt.config.GetInt("object.buckets"))
	f.Add(&o)
	cur := alist
	f.Add(&cur)
	for cur != RefNil {
		if cur.IsSingleton() || rt.cellAt(cur).tag != TagCell {
			return RefNil, newError(ErrType, "obj: given non alist as properties")
		}
		pair := rt.Car(cur)
		f.Add(&pair)
		if pair.IsSingleton() || rt.cellAt(pair).tag != TagCell {
			return RefNil, newError(ErrType, "obj: given non alist as properties")
		}
		k := rt.Car(pair)
		v := rt.Cdr(pair)
		f.Add(&k)
		f.Add(&v)
		rt.objSet(o, k, v)
		cur = rt.Cdr(cur)
	}
	return o, nil
}

func objGetPrim(rt *Runtime, env, args Ref) (Ref, error) {
	o, k, err := rt.evalTwoArgs(env, args, "obj-get")
	if err != nil {
		return RefNil, err
	}
	if o.IsSingleton() || rt.cellAt(o).tag != TagObj {
		return RefNil, rt.typeErrorf(o, "obj", "obj-get")
	}
	pair, ok := rt.objFind(o, k)
	if !ok {
		return RefNil, newError(ErrBinding, "obj-get: unbound key: %s", rt.printRef(k))
	}
	return rt.cellAt(pair).cdr, nil
}

func objSetPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var o, k, v Ref
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		if len(slots) != 3 {
			return RefNil, arityErrorf("obj-set", "expected 3 arguments, got %d", len(slots))
		}
		o, k, v = *slots[0], *slots[1], *slots[2]
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	if o.IsSingleton() || rt.cellAt(o).tag != TagObj {
		return RefNil, rt.typeErrorf(o, "obj", "obj-set")
	}
	rt.objSet(o, k, v)
	return o, nil
}

func objDelPrim(rt *Runtime, env, args Ref) (Ref, error) {
	o, k, err := rt.evalTwoArgs(env, args, "obj-del")
	if err != nil {
		return RefNil, err
	}
	if o.IsSingleton() || rt.cellAt(o).tag != TagObj {
		return RefNil, rt.typeErrorf(o, "obj", "obj-del")
	}
	rt.objDel(o, k)
	return o, nil
}

func objProtoPrim(rt *Runtime, env, args Ref) (Ref, error) {
	o, err := rt.evalOneArg(env, args, "obj-proto")
	if err != nil {
		return RefNil, err
	}
	if o.IsSingleton() || rt.cellAt(o).tag != TagObj {
		return RefNil, rt.typeErrorf(o, "obj", "obj-proto")
	}
	return rt.cellAt(o).proto, nil
}

func objProtoSetPrim(rt *Runtime, env, args Ref) (Ref, error) {
	o, proto, err := rt.evalTwoArgs(env, args, "obj-proto-set!")
	if err != nil {
		return RefNil, err
	}
	if o.IsSingleton() || rt.cellAt(o).tag != TagObj {
		return RefNil, rt.typeErrorf(o, "obj", "obj-proto-set!")
	}
	rt.cellAt(o).proto = proto
	return o, nil
}

func objToAlistPrim(rt *Runtime, env, args Ref) (Ref, error) {
	o, err := rt.evalOneArg(env, args, "obj->alist")
	if err != nil {
		return RefNil, err
	}
	if o.IsSingleton() || rt.cellAt(o).tag != TagObj {
		return RefNil, rt.typeErrorf(o, "obj", "obj->alist")
	}
	return rt.ObjToAlist(o), nil
}

func installObjPrims(rt *Runtime) {
	rt.registerPrim("obj", objPrim)
	rt.registerPrim("obj-get", objGetPrim)
	rt.registerPrim("obj-set", objSetPrim)
	rt.registerPrim("obj-del", objDelPrim)
	rt.registerPrim("obj-proto", objProtoPrim)
	rt.registerPrim("obj-proto-set!", objProtoSetPrim)
	rt.registerPrim("obj->alist", objToAlistPrim)
}
