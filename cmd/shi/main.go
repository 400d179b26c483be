package main

import (
	"flag"
	"io"
	"log"
	"os"

	"github.com/shi-lang/shi"
)

func main() {
	var (
		alwaysGC = flag.Bool("always-gc", os.Getenv("SHI_ALWAYS_GC") != "", "collect on every allocation (also via SHI_ALWAYS_GC)")
		debugGC  = flag.Bool("debug-gc", os.Getenv("SHI_DEBUG_GC") != "", "log every collection (also via SHI_DEBUG_GC)")
	)
	flag.Parse()

	cfg := shi.NewConfig()
	cfg.SetBool("gc.always", *alwaysGC)
	cfg.SetBool("gc.debug", *debugGC)

	rt := shi.NewRuntime(cfg)
	rt.SetArgs(flag.Args())

	if err := rt.LoadPrelude(); err != nil {
		log.Fatalf("shi: could not load prelude: %s", err)
	}

	path := ""
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	switch {
	case path == "-":
		rt.RunScript(readAllOrDie(os.Stdin))
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("shi: %s", err)
		}
		rt.RunScript(string(data))
	case rt.IsInteractive():
		rt.RunREPL()
	default:
		rt.RunScript(readAllOrDie(os.Stdin))
	}
}

func readAllOrDie(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		log.Fatalf("shi: could not read standard input: %s", err)
	}
	return string(data)
}
