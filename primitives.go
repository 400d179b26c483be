package shi

// installPrimitives registers every primitive from prim_*.go into the
// freshly built global environment. Grouped the same way spec.md §4.8
// groups them; called once from NewRuntime.
func installPrimitives(rt *Runtime) {
	installLangPrims(rt)
	installListPrims(rt)
	installStrPrims(rt)
	installObjPrims(rt)
	installArithPrims(rt)
	installErrorPrims(rt)
	installOsPrims(rt)
	installNetPrims(rt)
	installEvPrims(rt)
	installTermPrims(rt)
	installEditPrims(rt)
}
