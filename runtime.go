package shi

import "os"

// Runtime is the interpreter's composition root: heap, roots, symbol
// table, global environment, watcher registry, and error-trap depth
// all live here. Grounded on the teacher's GrammarFromBytes/
// GrammarFromFile entry points in api.go, which likewise compose a
// parser with a handful of transformation passes behind one call.
type Runtime struct {
	heap         *Heap
	fromSpace    *semispace // set only while a collection is in progress
	gcInProgress bool

	roots roots

	symHead Ref

	globalEnv Ref

	gensymCounter int64

	watchers   *watcherRegistry
	trapDepth  int
	maxTrap    int
	args       []string

	config *Config

	Stdout *os.File
	Stdin  *os.File
	Stderr *os.File

	termState   *termRawState
	exitFunc    func(code int)

	readline *lineEditor
}

// NewRuntime builds a Runtime from cfg (NewConfig() if nil), wires the
// global environment and installs every primitive from prim_*.go.
func NewRuntime(cfg *Config) *Runtime {
	if cfg == nil {
		cfg = NewConfig()
	}
	rt := &Runtime{
		heap:    newHeap(cfg.GetInt("heap.semispace_cells"), cfg.GetBool("gc.always"), cfg.GetBool("gc.debug")),
		symHead: RefNil,
		maxTrap: cfg.GetInt("trap.max_depth"),
		config:  cfg,
		Stdout:   os.Stdout,
		Stdin:    os.Stdin,
		Stderr:   os.Stderr,
		exitFunc: os.Exit,
	}
	rt.watchers = newWatcherRegistry()
	rt.globalEnv = rt.newObj(RefNil, cfg.GetInt("object.buckets"))
	installPrimitives(rt)
	return rt
}

// exit terminates the process with code, via exitFunc so tests can
// substitute a non-terminating stand-in.
func (rt *Runtime) exit(code int) { rt.exitFunc(code) }

// Config exposes the configuration the Runtime was built with.
func (rt *Runtime) Config() *Config { return rt.config }

// GlobalEnv returns the root lexical environment (proto == RefNil).
func (rt *Runtime) GlobalEnv() Ref { return rt.globalEnv }

// SetArgs installs the *args* binding read by shi-main/user code.
func (rt *Runtime) SetArgs(args []string) {
	rt.args = args
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	lst := RefNil
	f.Add(&lst)
	for i := len(args) - 1; i >= 0; i-- {
		s := rt.NewStr(args[i])
		f.Add(&s)
		lst = rt.Cons(s, lst)
	}
	rt.objSet(rt.globalEnv, rt.internSym("*args*"), lst)
}

// EvalSource reads and evaluates every form in src against the global
// environment in order, returning the last value (or RefNil for empty
// input), exactly as the REPL/script runner does at top level.
func (rt *Runtime) EvalSource(src string) (Ref, error) {
	rd := newReader(rt, src)
	result := RefNil
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	f.Add(&result)
	for {
		form, err := rd.readForm()
		if err == errReaderEOF {
			break
		}
		if err != nil {
			return RefNil, err
		}
		f.Add(&form)
		result, err = rt.guardTopLevel(func() (Ref, error) { return rt.Eval(rt.globalEnv, form) })
		if err != nil {
			return RefNil, err
		}
	}
	return result, nil
}
