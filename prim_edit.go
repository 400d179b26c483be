package shi

import (
	"io"

	"github.com/chzyer/readline"
)

// lineEditor wraps a chzyer/readline Instance, lazily created on first
// use so a script that never prompts interactively never pays for one.
// Grounded on the original interpreter's linenoise bindings
// (original_source/src/shi.c prim_linenoise*), re-homed onto the
// ecosystem library the retrieval pack actually carries (see
// SPEC_FULL.md DOMAIN STACK).
type lineEditor struct {
	inst *readline.Instance
}

func (rt *Runtime) ensureLineEditor() (*readline.Instance, error) {
	if rt.readline != nil {
		return rt.readline.inst, nil
	}
	inst, err := readline.NewEx(&readline.Config{
		HistoryFile: rt.config.GetHistoryPath(),
		Stdin:       rt.Stdin,
		Stdout:      rt.Stdout,
		Stderr:      rt.Stderr,
	})
	if err != nil {
		return nil, err
	}
	rt.readline = &lineEditor{inst: inst}
	return inst, nil
}

// linenoisePrim: (linenoise prompt) -> one line of interactive input,
// or Nil on EOF/interrupt.
func linenoisePrim(rt *Runtime, env, args Ref) (Ref, error) {
	promptRef, err := rt.evalOneArg(env, args, "linenoise")
	if err != nil {
		return RefNil, err
	}
	if promptRef.IsSingleton() || rt.cellAt(promptRef).tag != TagStr {
		return RefNil, rt.typeErrorf(promptRef, "str", "linenoise")
	}
	inst, err := rt.ensureLineEditor()
	if err != nil {
		return RefNil, newError(ErrResource, "linenoise: %s", err)
	}
	inst.SetPrompt(rt.StrVal(promptRef))
	line, err := inst.Readline()
	if err == io.EOF || err == readline.ErrInterrupt {
		return RefNil, nil
	}
	if err != nil {
		return RefNil, newError(ErrResource, "linenoise: %s", err)
	}
	return rt.NewStr(line), nil
}

func linenoiseHistoryLoadPrim(rt *Runtime, env, args Ref) (Ref, error) {
	pathRef, err := rt.evalOneArg(env, args, "linenoise-history-load")
	if err != nil {
		return RefNil, err
	}
	if pathRef.IsSingleton() || rt.cellAt(pathRef).tag != TagStr {
		return RefNil, rt.typeErrorf(pathRef, "str", "linenoise-history-load")
	}
	inst, err := rt.ensureLineEditor()
	if err != nil {
		return RefNil, newError(ErrResource, "linenoise-history-load: %s", err)
	}
	if err := inst.SetHistoryPath(rt.StrVal(pathRef)); err != nil {
		return RefNil, newError(ErrResource, "linenoise-history-load: %s", err)
	}
	return RefNil, nil
}

func linenoiseHistoryAddPrim(rt *Runtime, env, args Ref) (Ref, error) {
	lineRef, err := rt.evalOneArg(env, args, "linenoise-history-add")
	if err != nil {
		return RefNil, err
	}
	if lineRef.IsSingleton() || rt.cellAt(lineRef).tag != TagStr {
		return RefNil, rt.typeErrorf(lineRef, "str", "linenoise-history-add")
	}
	inst, err := rt.ensureLineEditor()
	if err != nil {
		return RefNil, newError(ErrResource, "linenoise-history-add: %s", err)
	}
	if err := inst.SaveHistory(rt.StrVal(lineRef)); err != nil {
		return RefNil, newError(ErrResource, "linenoise-history-add: %s", err)
	}
	return RefNil, nil
}

func linenoiseHistorySavePrim(rt *Runtime, env, args Ref) (Ref, error) {
	pathRef, err := rt.evalOneArg(env, args, "linenoise-history-save")
	if err != nil {
		return RefNil, err
	}
	if pathRef.IsSingleton() || rt.cellAt(pathRef).tag != TagStr {
		return RefNil, rt.typeErrorf(pathRef, "str", "linenoise-history-save")
	}
	inst, err := rt.ensureLineEditor()
	if err != nil {
		return RefNil, newError(ErrResource, "linenoise-history-save: %s", err)
	}
	if err := inst.SetHistoryPath(rt.StrVal(pathRef)); err != nil {
		return RefNil, newError(ErrResource, "linenoise-history-save: %s", err)
	}
	return RefNil, nil
}

func installEditPrims(rt *Runtime) {
	rt.registerPrim("linenoise", linenoisePrim)
	rt.registerPrim("linenoise-history-load", linenoiseHistoryLoadPrim)
	rt.registerPrim("linenoise-history-add", linenoiseHistoryAddPrim)
	rt.registerPrim("linenoise-history-save", linenoiseHistorySavePrim)
}
