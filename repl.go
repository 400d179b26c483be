package shi

import (
	"io"
	"time"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// pumpInterval bounds how long a single event-loop wait blocks before
// re-checking for shutdown; short enough that `ev-stop` and process
// signals stay responsive.
const pumpInterval = 250 * time.Millisecond

// RunScript evaluates every form in src in sequence against the global
// environment, then hands control to shi-main and the event loop
// (spec.md §4.11). Any error reaching here is, by construction,
// unhandled by any trap-error — Fatalf is the only possible response.
func (rt *Runtime) RunScript(src string) {
	if _, err := rt.EvalSource(src); err != nil {
		rt.Fatalf("%s", err)
		return
	}
	rt.runMainAndPump()
}

// RunREPL drives an interactive read-eval-print loop over readline,
// printing each top-level result with pr-str, then falls into the
// same shi-main/event-loop tail as RunScript. Used when stdin is a
// terminal and no script path was given.
func (rt *Runtime) RunREPL() {
	inst, err := rt.ensureLineEditor()
	if err != nil {
		rt.Fatalf("repl: %s", err)
		return
	}
	defer inst.Close()
	inst.SetPrompt("shi> ")
	for {
		line, err := inst.Readline()
		if err == io.EOF {
			break
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			rt.Fatalf("repl: %s", err)
			return
		}
		if !rt.replEvalLine(line) {
			return
		}
	}
	rt.runMainAndPump()
}

// replEvalLine reads and evaluates every form on one input line,
// printing each result. Returns false if an unhandled error forced a
// fatal exit (Fatalf already ran).
func (rt *Runtime) replEvalLine(line string) bool {
	rd := newReader(rt, line)
	for {
		form, ferr := rd.readForm()
		if ferr == errReaderEOF {
			return true
		}
		if ferr != nil {
			rt.Stderr.WriteString(ferr.Error() + "\n")
			return true
		}
		val, eerr := rt.guardTopLevel(func() (Ref, error) { return rt.Eval(rt.globalEnv, form) })
		if eerr != nil {
			rt.Fatalf("%s", eerr)
			return false
		}
		rt.Stdout.WriteString(rt.printRef(val) + "\n")
	}
}

// runMainAndPump invokes shi-main (whenever it is bound, including the
// prelude's no-op default) with *args*, then pumps the event loop until
// every watcher has stopped itself.
func (rt *Runtime) runMainAndPump() {
	mainSym := rt.internSym("shi-main")
	if pair, ok := rt.objFind(rt.globalEnv, mainSym); ok {
		fn := rt.cellAt(pair).cdr
		argsRef, _ := rt.envLookup(rt.globalEnv, rt.internSym("*args*"))
		f := rt.PushFrame()
		f.Add(&fn)
		f.Add(&argsRef)
		callArgs := rt.Cons(argsRef, RefNil)
		f.Add(&callArgs)
		_, err := rt.guardTopLevel(func() (Ref, error) { return rt.Apply(fn, callArgs) })
		rt.PopFrame(f)
		if err != nil {
			rt.Fatalf("%s", err)
			return
		}
	}
	for {
		more, err := rt.PumpEvents(pumpInterval)
		if err != nil {
			rt.Fatalf("%s", err)
			return
		}
		if !more {
			return
		}
	}
}

// IsInteractive reports whether stdin is a terminal — the
// discriminator cmd/shi uses to choose REPL vs batch mode (spec.md
// §4.11's CLI contract).
func (rt *Runtime) IsInteractive() bool {
	return term.IsTerminal(int(rt.Stdin.Fd()))
}
